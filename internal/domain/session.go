package domain

import "time"

// Assessment is the qualitative tag a clinician assigns to a gait recording.
// Unknown values are passed through untouched so older servers keep working
// when the client app adds new tags.
type Assessment string

const (
	AssessmentGood  Assessment = "good"
	AssessmentIssue Assessment = "issue"
	AssessmentPoor  Assessment = "poor"
)

// Session is one recorded gait clip plus its metadata. StartTime and EndTime
// are the capturing client's ISO-8601 timestamps stored verbatim; DurationMs
// is measured by the client and never recomputed server-side.
type Session struct {
	ID         string     `json:"id"`
	PatientID  string     `json:"patientId"`
	Assessment Assessment `json:"assessment"`
	StartTime  string     `json:"startTime"`
	EndTime    string     `json:"endTime"`
	DurationMs int64      `json:"durationMs"`
	Filename   string     `json:"filename"`
	Filepath   string     `json:"filepath"`
	Size       int64      `json:"size"`
	CreatedAt  time.Time  `json:"createdAt,omitempty"`
}

// PublicSession is the projection safe to return to clients. It never carries
// the storage location.
type PublicSession struct {
	ID         string     `json:"id"`
	PatientID  string     `json:"patientId"`
	Assessment Assessment `json:"assessment"`
	StartTime  string     `json:"startTime"`
	EndTime    string     `json:"endTime"`
	DurationMs int64      `json:"durationMs"`
	Size       int64      `json:"size"`
}

func (s *Session) Public() PublicSession {
	return PublicSession{
		ID:         s.ID,
		PatientID:  s.PatientID,
		Assessment: s.Assessment,
		StartTime:  s.StartTime,
		EndTime:    s.EndTime,
		DurationMs: s.DurationMs,
		Size:       s.Size,
	}
}

package session

// UploadMetadata carries the multipart form fields accompanying the video
// part. SessionID may be blank; the service synthesizes one. PatientID is
// required and an upload without it is rejected outright.
type UploadMetadata struct {
	SessionID  string
	PatientID  string `validate:"required"`
	Assessment string
	StartTime  string
	EndTime    string
	DurationMs int64
}

package domain

// Landmark is one tracked skeleton point in normalized image coordinates.
// Z is depth relative to the hip midpoint; Visibility is the estimator's
// confidence that the point is not occluded.
type Landmark struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Z          float64 `json:"z"`
	Visibility float64 `json:"visibility"`
}

// PoseFrame is the landmark set detected on a single video frame.
type PoseFrame struct {
	TimestampMs int64      `json:"timestampMs"`
	Landmarks   []Landmark `json:"landmarks"`
}

// PoseSource is the external pose-estimation capability. Landmarks are only
// ever rendered as an overlay on the capturing client; nothing produced here
// is persisted by the server.
type PoseSource interface {
	// Detect runs the estimator on one encoded frame.
	Detect(frame []byte) (PoseFrame, error)
	// Connections returns landmark index pairs describing the skeleton graph
	// used to draw bones between points.
	Connections() [][2]int
}

// FrameSource supplies live frames from a capture device.
type FrameSource interface {
	NextFrame() ([]byte, error)
	Close() error
}

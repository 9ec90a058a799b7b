package core

// ExportMetadata describes a finished session export for the archive server.
// It travels as the JSON "metadata" part of the upload.
type ExportMetadata struct {
	SessionID  string     `json:"sessionId"`
	WorldName  string     `json:"worldName"`
	Seed       int64      `json:"seed"`
	Difficulty Difficulty `json:"difficulty"`
	Duration   float64    `json:"duration"` // seconds
	Kills      int        `json:"kills"`
	Hits       int        `json:"hits"`
	Samples    int        `json:"samples"`
	XP         int        `json:"xp"`
	Gold       int        `json:"gold"`
}

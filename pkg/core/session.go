// pkg/core/session.go
package core

import "time"

// Difficulty selects world rule variants.
type Difficulty string

const (
	DifficultyNormal     Difficulty = "normal"
	DifficultyUnderworld Difficulty = "underworld"
)

// Session describes one run of a world.
type Session struct {
	ID         string
	WorldName  string
	Seed       int64
	Difficulty Difficulty
	StartTime  time.Time
	Version    string
}

// Package storage defines the persistence contract shared by every backend.
package storage

import (
	"errors"
	"time"

	"github.com/voxelrealm/simcore/pkg/core"
	"github.com/voxelrealm/simcore/pkg/streaming"
)

// ErrNoSave is returned by LoadWorld when the backend holds no matching save.
var ErrNoSave = errors.New("no saved world")

// Backend is the interface all storage implementations must satisfy.
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// Session management
	StartSession(s *core.Session) error
	EndSession() error

	// Event recording
	RecordKillEvent(e *core.KillEvent) error
	RecordHitEvent(e *core.HitEvent) error
	RecordTickStats(s *core.TickStats) error

	// World saves. An empty ref loads the most recent save.
	SaveWorld(st *core.SaveState) error
	LoadWorld(ref string) (*core.SaveState, error)
}

// Uploadable is an optional interface for backends that produce a session
// export file worth archiving on the world server.
type Uploadable interface {
	ExportedFilePath() string
	ExportMetadata() core.ExportMetadata
}

// StreamStatsProvider is an optional interface for backends that stream
// records to a remote server and may drop them under back-pressure.
type StreamStatsProvider interface {
	StreamStats() streaming.Stats
}

// WriteDurationProvider is an optional interface for backends that batch
// writes and can report how long the last batch took.
type WriteDurationProvider interface {
	LastWriteDuration() time.Duration
}

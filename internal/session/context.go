package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/voxelrealm/simcore/pkg/core"
)

// Context holds the running session. Background writers read it while the
// simulation loop may replace it on a world reset.
type Context struct {
	mu      sync.RWMutex
	current core.Session
}

// NewContext creates a Context with no session started.
func NewContext() *Context {
	return &Context{current: core.Session{WorldName: "No world loaded", Difficulty: core.DifficultyNormal}}
}

// Current returns the running session.
func (c *Context) Current() core.Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// Start begins a new session with a fresh id and returns it.
func (c *Context) Start(worldName string, seed int64, difficulty core.Difficulty, version string) core.Session {
	if difficulty == "" {
		difficulty = core.DifficultyNormal
	}
	s := core.Session{
		ID:         uuid.NewString(),
		WorldName:  worldName,
		Seed:       seed,
		Difficulty: difficulty,
		StartTime:  time.Now(),
		Version:    version,
	}
	c.Set(s)
	return s
}

// Set replaces the running session, as when a save is loaded.
func (c *Context) Set(s core.Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = s
}

// Started reports whether a session has been started or loaded.
func (c *Context) Started() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current.ID != ""
}

// Package worker turns dispatched input commands into simulation actions
// and moves recorded events into storage.
//
// Commands that change the world are parsed on the caller's goroutine and
// queued as actions; the frame loop runs them through Apply so the world is
// only ever written from the simulation goroutine.
package worker

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/voxelrealm/simcore/internal/combat"
	"github.com/voxelrealm/simcore/internal/dice"
	"github.com/voxelrealm/simcore/internal/director"
	"github.com/voxelrealm/simcore/internal/logging"
	"github.com/voxelrealm/simcore/internal/queue"
	"github.com/voxelrealm/simcore/internal/scheduler"
	"github.com/voxelrealm/simcore/internal/session"
	"github.com/voxelrealm/simcore/internal/sink"
	"github.com/voxelrealm/simcore/internal/species"
	"github.com/voxelrealm/simcore/internal/storage"
	"github.com/voxelrealm/simcore/internal/terrain"
	"github.com/voxelrealm/simcore/internal/world"
	"github.com/voxelrealm/simcore/pkg/core"
)

// ErrNoSession is returned when a save is requested before any session ran.
var ErrNoSession = errors.New("no session started")

// Action is a world change deferred to the simulation goroutine.
type Action func(now time.Time)

// Dependencies holds all dependencies for the worker manager
type Dependencies struct {
	Store      *world.Store
	Spawner    *world.Spawner
	Resolver   *combat.Resolver
	Director   *director.Director
	Recorder   *sink.Recorder
	Session    *session.Context
	Scheduler  *scheduler.Registry
	Heights    terrain.Heightmap
	Notifier   sink.Notifier
	Rand       dice.Source
	LogManager *logging.SlogManager
	Version    string
	Clock      func() time.Time

	// OnReset re-arms host timers after a reset or load cancelled them.
	OnReset func(s core.Session)
}

// Manager owns the pending action queue and the storage backend.
type Manager struct {
	deps    Dependencies
	backend storage.Backend
	pending *queue.Queue[Action]
}

// NewManager creates a new worker manager
func NewManager(deps Dependencies, backend storage.Backend) *Manager {
	if deps.Notifier == nil {
		deps.Notifier = sink.Nop{}
	}
	if deps.Rand == nil {
		deps.Rand = dice.New(0)
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	return &Manager{
		deps:    deps,
		backend: backend,
		pending: queue.New[Action](),
	}
}

func (m *Manager) log() *slog.Logger {
	if m.deps.LogManager == nil {
		return slog.Default()
	}
	return m.deps.LogManager.Logger()
}

// Enqueue defers an action to the next Apply.
func (m *Manager) Enqueue(a Action) {
	m.pending.Push(a)
}

// Pending reports how many actions wait for the simulation goroutine.
func (m *Manager) Pending() int {
	return m.pending.Len()
}

// Apply runs every queued action in arrival order. It must be called from
// the simulation goroutine.
func (m *Manager) Apply(now time.Time) int {
	actions := m.pending.GetAndEmpty()
	for _, a := range actions {
		a(now)
	}
	return len(actions)
}

// FlushEvents hands recorded kills and hits to the backend. Write errors
// are logged and the remaining events are still attempted.
func (m *Manager) FlushEvents() (kills, hits int) {
	if m.deps.Recorder == nil {
		return 0, 0
	}
	ks, hs := m.deps.Recorder.Drain()
	log := m.log()
	for i := range ks {
		if err := m.backend.RecordKillEvent(&ks[i]); err != nil {
			log.Error("Failed to record kill", "victim", ks[i].VictimName, "error", err)
		}
	}
	for i := range hs {
		if err := m.backend.RecordHitEvent(&hs[i]); err != nil {
			log.Error("Failed to record hit", "victim", hs[i].VictimID, "error", err)
		}
	}
	return len(ks), len(hs)
}

// LastWriteDuration returns the duration of the backend's last batch write,
// or 0 when the backend does not batch.
func (m *Manager) LastWriteDuration() time.Duration {
	if p, ok := m.backend.(storage.WriteDurationProvider); ok {
		return p.LastWriteDuration()
	}
	return 0
}

// SaveWorld snapshots the world and writes it to the backend. The store is
// copy-on-write, so this is safe off the simulation goroutine.
func (m *Manager) SaveWorld(now time.Time) (core.SaveState, error) {
	if !m.deps.Session.Started() {
		return core.SaveState{}, ErrNoSession
	}
	st := m.deps.Store.Snapshot(m.deps.Session.Current(), now)
	if err := m.backend.SaveWorld(&st); err != nil {
		return core.SaveState{}, fmt.Errorf("failed to save world: %w", err)
	}
	m.log().Info("World saved", "tick", st.Tick, "characters", len(st.Characters))
	return st, nil
}

// StartSession begins a fresh session and registers it with the backend.
func (m *Manager) StartSession(worldName string, seed int64, difficulty core.Difficulty) (core.Session, error) {
	s := m.deps.Session.Start(worldName, seed, difficulty, m.deps.Version)
	if err := m.backend.StartSession(&s); err != nil {
		return s, fmt.Errorf("failed to start session: %w", err)
	}
	m.log().Info("Session started", "session", s.ID, "world", s.WorldName, "difficulty", s.Difficulty)
	return s, nil
}

// EndSession flushes outstanding events and closes the session.
func (m *Manager) EndSession() error {
	m.FlushEvents()
	if err := m.backend.EndSession(); err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}
	return nil
}

// teardown stops everything tied to the running session.
func (m *Manager) teardown() {
	if err := m.EndSession(); err != nil {
		m.log().Error("Session teardown failed", "error", err)
	}
	if m.deps.Scheduler != nil {
		m.deps.Scheduler.CancelAll()
	}
	if m.deps.Director != nil {
		m.deps.Director.Reset()
	}
}

func (m *Manager) rearm(s core.Session) {
	if m.deps.OnReset != nil {
		m.deps.OnReset(s)
	}
}

// ResetWorld cancels every scheduled task, clears the world and starts a
// new session on the same world settings.
func (m *Manager) ResetWorld() (core.Session, error) {
	prev := m.deps.Session.Current()
	m.teardown()
	m.deps.Store.Reset()

	s, err := m.StartSession(prev.WorldName, prev.Seed, prev.Difficulty)
	m.rearm(s)
	return s, err
}

// LoadWorld replaces the world with a stored save and resumes its session.
func (m *Manager) LoadWorld(ref string, now time.Time) (core.Session, error) {
	st, err := m.backend.LoadWorld(ref)
	if err != nil {
		return core.Session{}, err
	}

	m.teardown()
	m.deps.Store.Restore(*st, species.Classify)

	s := core.Session{
		ID:         st.SessionID,
		WorldName:  st.WorldName,
		Seed:       st.Seed,
		Difficulty: st.Difficulty,
		StartTime:  now,
		Version:    m.deps.Version,
	}
	m.deps.Session.Set(s)
	if err := m.backend.StartSession(&s); err != nil {
		m.rearm(s)
		return s, fmt.Errorf("failed to resume session: %w", err)
	}
	m.rearm(s)
	m.log().Info("World loaded", "session", s.ID, "tick", st.Tick, "characters", len(st.Characters))
	return s, nil
}

// Package websocket streams session records to a remote server as JSON
// envelopes. It keeps no state of its own so it cannot load saves.
package websocket

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/voxelrealm/simcore/internal/storage"
	"github.com/voxelrealm/simcore/pkg/core"
	"github.com/voxelrealm/simcore/pkg/streaming"
)

// Config holds WebSocket backend configuration.
type Config struct {
	URL    string
	Secret string
}

// Backend streams session data over WebSocket.
type Backend struct {
	conn *connection
	cfg  Config

	mu       sync.Mutex
	session  *core.Session
	lastTick atomic.Uint64
}

// New creates a new WebSocket storage backend.
func New(cfg Config, logger *slog.Logger) *Backend {
	if logger == nil {
		logger = slog.Default()
	}
	b := &Backend{
		conn: newConnection(logger.With("backend", "websocket")),
		cfg:  cfg,
	}
	b.conn.resume = b.resumeMessage
	return b
}

// Init connects to the WebSocket server.
func (b *Backend) Init() error {
	return b.conn.dial(b.cfg.URL, b.cfg.Secret)
}

// Close disconnects from the WebSocket server.
func (b *Backend) Close() error {
	if st := b.conn.stats(); len(st.Dropped) > 0 {
		b.conn.logger.Warn("Messages dropped during session", "dropped", st.Dropped, "reconnects", st.Reconnects)
	}
	return b.conn.close()
}

// StreamStats reports sent, dropped and reconnect counts.
func (b *Backend) StreamStats() streaming.Stats { return b.conn.stats() }

// resumeMessage rebuilds start_session for the open session, marked as a
// resume from the last streamed tick.
func (b *Backend) resumeMessage() []byte {
	b.mu.Lock()
	s := b.session
	b.mu.Unlock()
	if s == nil {
		return nil
	}
	data, err := marshalEnvelope(streaming.TypeStartSession, streaming.StartSessionPayload{
		Session:    s,
		Resume:     true,
		ResumeTick: b.lastTick.Load(),
	})
	if err != nil {
		b.conn.logger.Error("Failed to build resume message", "error", err)
		return nil
	}
	return data
}

// seen records the newest tick streamed so far.
func (b *Backend) seen(tick uint64) {
	for {
		cur := b.lastTick.Load()
		if tick <= cur || b.lastTick.CompareAndSwap(cur, tick) {
			return
		}
	}
}

// marshalEnvelope builds a JSON-encoded Envelope from a message type and payload.
func marshalEnvelope(msgType string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", msgType, err)
	}
	data, err := json.Marshal(streaming.Envelope{Type: msgType, Payload: raw})
	if err != nil {
		return nil, fmt.Errorf("marshal %s envelope: %w", msgType, err)
	}
	return data, nil
}

// sendEnvelope pushes a message to the write loop without waiting.
func (b *Backend) sendEnvelope(msgType string, payload any) error {
	data, err := marshalEnvelope(msgType, payload)
	if err != nil {
		return err
	}
	b.conn.send(msgType, data)
	return nil
}

// StartSession announces the session and waits for the server ack.
func (b *Backend) StartSession(s *core.Session) error {
	data, err := marshalEnvelope(streaming.TypeStartSession, streaming.StartSessionPayload{Session: s})
	if err != nil {
		return err
	}
	cp := *s
	b.mu.Lock()
	b.session = &cp
	b.mu.Unlock()
	b.lastTick.Store(0)
	return b.conn.sendAndWait(data, streaming.TypeStartSession, ackTimeout)
}

// EndSession closes the session on the server and waits for the ack.
func (b *Backend) EndSession() error {
	data, err := marshalEnvelope(streaming.TypeEndSession, nil)
	if err != nil {
		return err
	}
	err = b.conn.sendAndWait(data, streaming.TypeEndSession, ackTimeout)
	b.mu.Lock()
	b.session = nil
	b.mu.Unlock()
	return err
}

func (b *Backend) RecordKillEvent(e *core.KillEvent) error {
	b.seen(e.Tick)
	return b.sendEnvelope(streaming.TypeKillEvent, e)
}

func (b *Backend) RecordHitEvent(e *core.HitEvent) error {
	b.seen(e.Tick)
	return b.sendEnvelope(streaming.TypeHitEvent, e)
}

func (b *Backend) RecordTickStats(s *core.TickStats) error {
	b.seen(s.Tick)
	return b.sendEnvelope(streaming.TypeTickStats, s)
}

// SaveWorld announces a save so the server can track progress. The state
// itself stays local.
func (b *Backend) SaveWorld(st *core.SaveState) error {
	b.seen(st.Tick)
	return b.sendEnvelope(streaming.TypeWorldSave, streaming.WorldSavePayload{
		SessionID:  st.SessionID,
		WorldName:  st.WorldName,
		Tick:       st.Tick,
		Characters: len(st.Characters),
		PlayerHP:   st.Player.HP,
	})
}

// LoadWorld always reports ErrNoSave.
func (b *Backend) LoadWorld(string) (*core.SaveState, error) {
	return nil, storage.ErrNoSave
}

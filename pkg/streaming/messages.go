// Package streaming defines the wire envelope of the live session stream.
package streaming

import (
	"encoding/json"

	"github.com/voxelrealm/simcore/pkg/core"
)

// Message type constants matching the streaming protocol.
const (
	TypeStartSession = "start_session"
	TypeEndSession   = "end_session"
	TypeKillEvent    = "kill_event"
	TypeHitEvent     = "hit_event"
	TypeTickStats    = "tick_stats"
	TypeWorldSave    = "world_save"
	TypeAck          = "ack"
)

// Envelope wraps all messages sent over the WebSocket.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// AckMessage is the server's acknowledgement response.
type AckMessage struct {
	Type string `json:"type"` // always "ack"
	For  string `json:"for"`  // the message type being acknowledged
}

// StartSessionPayload announces the session the following messages belong to.
// After a reconnect it is sent again with Resume set; ResumeTick is the last
// simulation tick streamed before the drop, so the server can tell which
// records may be missing.
type StartSessionPayload struct {
	Session    *core.Session `json:"session"`
	Resume     bool          `json:"resume,omitempty"`
	ResumeTick uint64        `json:"resumeTick,omitempty"`
}

// WorldSavePayload carries a save reference rather than the full state.
type WorldSavePayload struct {
	SessionID  string `json:"sessionId"`
	WorldName  string `json:"worldName"`
	Tick       uint64 `json:"tick"`
	Characters int    `json:"characters"`
	PlayerHP   int    `json:"playerHp"`
}

// Stats counts a client's stream traffic. Dropped is keyed by message type.
type Stats struct {
	Sent       uint64            `json:"sent"`
	Dropped    map[string]uint64 `json:"dropped,omitempty"`
	Reconnects uint64            `json:"reconnects"`
}

// Package convert maps simulation records onto their GORM rows.
package convert

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/voxelrealm/simcore/internal/geo"
	"github.com/voxelrealm/simcore/internal/model"
	"github.com/voxelrealm/simcore/pkg/core"
)

// CoreToSession converts a session. EndTime stays null until the session ends.
func CoreToSession(s core.Session) model.Session {
	return model.Session{
		ID:         s.ID,
		WorldName:  s.WorldName,
		Seed:       s.Seed,
		Difficulty: string(s.Difficulty),
		Version:    s.Version,
		StartTime:  s.StartTime,
	}
}

// SessionEnd is the update applied when a session is closed.
func SessionEnd(at time.Time) model.Session {
	return model.Session{EndTime: sql.NullTime{Time: at, Valid: true}}
}

func CoreToKillEvent(e core.KillEvent) model.KillEvent {
	drops, _ := json.Marshal(e.Drops)
	if e.Drops == nil {
		drops = []byte("[]")
	}
	return model.KillEvent{
		Time:       e.Time,
		SessionID:  e.SessionID,
		Tick:       e.Tick,
		VictimID:   e.VictimID,
		VictimName: e.VictimName,
		VictimKind: e.VictimKind.String(),
		Weapon:     e.Weapon,
		Position:   geo.PointFromVec3(e.Position),
		XP:         e.XP,
		Gold:       e.Gold,
		Drops:      drops,
		Respawned:  e.Respawned,
	}
}

func CoreToHitEvent(e core.HitEvent) model.HitEvent {
	return model.HitEvent{
		Time:      e.Time,
		SessionID: e.SessionID,
		Tick:      e.Tick,
		VictimID:  e.VictimID,
		SourceID:  e.SourceID,
		Weapon:    e.Weapon,
		Damage:    e.Damage,
		Blocked:   e.Blocked,
		Position:  geo.PointFromVec3(e.Position),
		Distance:  float32(e.Distance),
	}
}

// CoreToTickStat converts a load sample. The tick duration is stored in
// milliseconds.
func CoreToTickStat(s core.TickStats) model.TickStat {
	return model.TickStat{
		Time:             s.Time,
		SessionID:        s.SessionID,
		Tick:             s.Tick,
		Characters:       s.Characters,
		Enemies:          s.Enemies,
		Projectiles:      s.Projectiles,
		DroppedItems:     s.DroppedItems,
		PlayerHP:         s.PlayerHP,
		LastTickDuration: float32(s.LastTickDuration.Seconds() * 1000),
	}
}

// CoreToWorldSave serializes the whole save state into the row's JSON column.
func CoreToWorldSave(st core.SaveState) (model.WorldSave, error) {
	raw, err := json.Marshal(st)
	if err != nil {
		return model.WorldSave{}, fmt.Errorf("marshal save state: %w", err)
	}
	return model.WorldSave{
		SessionID: st.SessionID,
		WorldName: st.WorldName,
		Version:   st.Version,
		Tick:      st.Tick,
		SavedAt:   st.SavedAt,
		State:     raw,
	}, nil
}

// WorldSaveToCore decodes a stored save state.
func WorldSaveToCore(ws model.WorldSave) (*core.SaveState, error) {
	var st core.SaveState
	if err := json.Unmarshal(ws.State, &st); err != nil {
		return nil, fmt.Errorf("decode world save %d: %w", ws.ID, err)
	}
	if st.Version != core.SaveVersion {
		return nil, fmt.Errorf("world save %d: unsupported version %d", ws.ID, st.Version)
	}
	return &st, nil
}

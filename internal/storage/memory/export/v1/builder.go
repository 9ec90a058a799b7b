package v1

import (
	"sort"
	"time"

	"github.com/voxelrealm/simcore/pkg/core"
)

// SessionData contains everything recorded for one session.
type SessionData struct {
	Session core.Session
	EndTime time.Time
	Kills   []core.KillEvent
	Hits    []core.HitEvent
	Stats   []core.TickStats
}

type timed struct {
	tick  uint64
	tuple []any
}

// Build creates an Export from the session data.
func Build(data *SessionData) Export {
	s := data.Session
	export := Export{
		FormatVersion: FormatVersion,
		SimVersion:    s.Version,
		SessionID:     s.ID,
		WorldName:     s.WorldName,
		Difficulty:    string(s.Difficulty),
		Seed:          s.Seed,
		StartTime:     s.StartTime.UTC(),
		EndTime:       data.EndTime.UTC(),
		KillsByKind:   make(map[string]int),
		Times:         make([]Sample, 0, len(data.Stats)),
		Events:        make([][]any, 0, len(data.Kills)+len(data.Hits)),
	}

	var endTick uint64
	events := make([]timed, 0, len(data.Kills)+len(data.Hits))

	for _, k := range data.Kills {
		export.Totals.Kills++
		export.Totals.XP += k.XP
		export.Totals.Gold += k.Gold
		export.KillsByKind[k.VictimKind.String()]++
		events = append(events, timed{k.Tick, []any{
			k.Tick,
			"killed",
			k.VictimName,
			k.Weapon,
			[]float64{k.Position.X, k.Position.Y, k.Position.Z},
			k.XP,
			k.Gold,
		}})
		endTick = max(endTick, k.Tick)
	}

	for _, h := range data.Hits {
		switch {
		case h.Blocked:
			export.Totals.Blocked++
		case h.VictimID == core.PlayerOwner:
			export.Totals.DamageTaken += h.Damage
		default:
			export.Totals.Hits++
			export.Totals.DamageDealt += h.Damage
		}
		events = append(events, timed{h.Tick, []any{
			h.Tick,
			"hit",
			h.VictimID,
			[]any{h.SourceID, h.Weapon},
			h.Damage,
			h.Distance,
			h.Blocked,
		}})
		endTick = max(endTick, h.Tick)
	}

	for _, st := range data.Stats {
		export.Times = append(export.Times, Sample{
			Tick:         st.Tick,
			Time:         st.Time.UTC().Format(time.RFC3339),
			Characters:   st.Characters,
			Enemies:      st.Enemies,
			Projectiles:  st.Projectiles,
			DroppedItems: st.DroppedItems,
			PlayerHP:     st.PlayerHP,
			TickMs:       float64(st.LastTickDuration.Microseconds()) / 1000,
		})
		endTick = max(endTick, st.Tick)
	}

	sort.SliceStable(events, func(i, j int) bool { return events[i].tick < events[j].tick })
	for _, e := range events {
		export.Events = append(export.Events, e.tuple)
	}
	export.EndTick = endTick

	return export
}

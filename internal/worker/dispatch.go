package worker

import (
	"fmt"
	"time"

	"github.com/voxelrealm/simcore/internal/combat"
	"github.com/voxelrealm/simcore/internal/dispatcher"
	"github.com/voxelrealm/simcore/internal/parser"
	"github.com/voxelrealm/simcore/internal/species"
	"github.com/voxelrealm/simcore/internal/terrain"
	"github.com/voxelrealm/simcore/pkg/core"
)

// RegisterHandlers registers all command handlers with the dispatcher.
func (m *Manager) RegisterHandlers(d *dispatcher.Dispatcher) {
	// World changes: parsed now, applied on the next frame
	d.Register(":MOVE:", m.handleMove)
	d.Register(":ATTACK:", m.handleAttack, dispatcher.Logged())
	d.Register(":SLOT:", m.handleSlot, dispatcher.Logged())
	d.Register(":SPAWN:ITEM:", m.handleSpawnItem, dispatcher.Logged())
	d.Register(":SPAWN:CHARACTER:", m.handleSpawnCharacter, dispatcher.Logged())
	d.Register(":LOAD:", m.handleLoad, dispatcher.Logged())
	d.Register(":RESET:", m.handleReset, dispatcher.Logged())

	// Saves write to storage off the simulation goroutine
	d.Register(":SAVE:", m.handleSave, dispatcher.Buffered(1), dispatcher.Logged())
	d.Register(":FLUSH:", m.handleFlush, dispatcher.Buffered(1))
}

func (m *Manager) handleMove(e dispatcher.Event) (any, error) {
	pos, hasY, err := parser.ParseMove(e.Args)
	if err != nil {
		return nil, fmt.Errorf("failed to parse move: %w", err)
	}
	m.Enqueue(func(time.Time) {
		if !hasY {
			pos = terrain.SurfaceAt(m.deps.Heights, pos.X, pos.Z)
		}
		m.deps.Store.UpdatePlayer(func(p *core.Player) { p.Position = pos })
	})
	return "queued", nil
}

func (m *Manager) handleAttack(e dispatcher.Event) (any, error) {
	a, err := parser.ParseAttack(e.Args)
	if err != nil {
		return nil, fmt.Errorf("failed to parse attack: %w", err)
	}
	m.Enqueue(func(time.Time) {
		slot := a.Slot
		if slot < 0 {
			slot = m.deps.Store.Player().ActiveSlot
		}
		m.deps.Resolver.HandleAttack(combat.Camera{Position: a.Position, Direction: a.Direction.Normalize()}, slot)
	})
	return "queued", nil
}

func (m *Manager) handleSlot(e dispatcher.Event) (any, error) {
	slot, err := parser.ParseSlot(e.Args)
	if err != nil {
		return nil, fmt.Errorf("failed to parse slot: %w", err)
	}
	if n := len(m.deps.Store.Player().Inventory); slot >= n {
		return nil, fmt.Errorf("%w: slot %d outside inventory of %d", parser.ErrInvalidArgs, slot, n)
	}
	m.Enqueue(func(time.Time) {
		m.deps.Store.UpdatePlayer(func(p *core.Player) {
			if slot < len(p.Inventory) {
				p.ActiveSlot = slot
			}
		})
	})
	return "queued", nil
}

func (m *Manager) handleSpawnItem(e dispatcher.Event) (any, error) {
	s, err := parser.ParseSpawnItem(e.Args)
	if err != nil {
		return nil, fmt.Errorf("failed to parse item spawn: %w", err)
	}
	if s.Count == 0 {
		return "empty", nil
	}
	m.Enqueue(func(now time.Time) {
		pos := s.Position
		switch {
		case !s.HasPosition:
			pos = m.deps.Store.Player().Position
		case !s.HasY:
			pos = terrain.SurfaceAt(m.deps.Heights, pos.X, pos.Z)
		}
		color := s.Color
		if color == "" {
			color = species.ItemColor(s.Type)
		}
		m.deps.Store.SpawnItem(s.Type, s.Count, color, pos, now)
	})
	return "queued", nil
}

func (m *Manager) handleSpawnCharacter(e dispatcher.Event) (any, error) {
	s, err := parser.ParseSpawnCharacter(e.Args)
	if err != nil {
		return nil, fmt.Errorf("failed to parse character spawn: %w", err)
	}
	if s.Count == 0 {
		return "empty", nil
	}
	m.Enqueue(func(time.Time) {
		near := s.Near
		if !s.HasPosition {
			near = m.deps.Store.Player().Position
		}
		placed := m.deps.Spawner.Materialize(core.SpawnRequest{Kind: s.Kind, Count: s.Count, Near: near}, m.deps.Rand)
		if placed < s.Count {
			m.deps.Notifier.Notify(fmt.Sprintf("Only %d of %d %s fit in the world", placed, s.Count, s.Kind), core.NotifySpawn, "")
		}
	})
	return "queued", nil
}

func (m *Manager) handleLoad(e dispatcher.Event) (any, error) {
	ref, err := parser.ParseLoad(e.Args)
	if err != nil {
		return nil, fmt.Errorf("failed to parse load: %w", err)
	}
	m.Enqueue(func(now time.Time) {
		s, err := m.LoadWorld(ref, now)
		if err != nil {
			m.log().Error("Load failed", "ref", ref, "error", err)
			m.deps.Notifier.Notify("Load failed: "+err.Error(), core.NotifySystem, "")
			return
		}
		m.deps.Notifier.Notify("Loaded "+s.WorldName, core.NotifySystem, "")
	})
	return "queued", nil
}

func (m *Manager) handleReset(e dispatcher.Event) (any, error) {
	m.Enqueue(func(time.Time) {
		s, err := m.ResetWorld()
		if err != nil {
			m.log().Error("Reset failed", "error", err)
			return
		}
		m.deps.Notifier.Notify("World reset", core.NotifySystem, s.ID)
	})
	return "queued", nil
}

func (m *Manager) handleSave(e dispatcher.Event) (any, error) {
	st, err := m.SaveWorld(m.deps.Clock())
	if err != nil {
		return nil, err
	}
	return st.Tick, nil
}

func (m *Manager) handleFlush(dispatcher.Event) (any, error) {
	kills, hits := m.FlushEvents()
	return kills + hits, nil
}

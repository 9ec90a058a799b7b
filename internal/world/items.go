package world

import (
	"math"
	"time"

	"github.com/voxelrealm/simcore/internal/terrain"
	"github.com/voxelrealm/simcore/pkg/core"
)

// settledSpeed is the bounce speed below which an item comes to rest.
const settledSpeed = 0.1

func (s *Store) DroppedItems() []core.DroppedItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.items
}

func (s *Store) SetDroppedItems(items []core.DroppedItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = items
}

// SpawnItem drops an item at pos with an upward bounce. The oldest item is
// evicted past the cap.
func (s *Store) SpawnItem(itemType string, count int, color string, pos core.Vec3, now time.Time) core.DroppedItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	it := core.DroppedItem{
		ID:        s.newID(),
		Type:      itemType,
		Count:     count,
		Color:     color,
		Position:  pos,
		Velocity:  core.Vec3{Y: s.cfg.ItemBounce},
		CreatedAt: now,
	}
	s.items = appendCapped(s.items, s.cfg.MaxDroppedItems, it)
	return it
}

// TakeItem removes a dropped item, as when the player picks it up.
func (s *Store) TakeItem(id string) (core.DroppedItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, it := range s.items {
		if it.ID == id {
			next := make([]core.DroppedItem, 0, len(s.items)-1)
			next = append(next, s.items[:i]...)
			next = append(next, s.items[i+1:]...)
			s.items = next
			return it, true
		}
	}
	return core.DroppedItem{}, false
}

// SettleItems runs the bounce animation for one frame: items fall, bounce
// off the terrain with damping, and stop once the bounce dies out.
func (s *Store) SettleItems(dt time.Duration, h terrain.Heightmap) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sec := dt.Seconds()
	var next []core.DroppedItem
	for i, it := range s.items {
		if it.Velocity == (core.Vec3{}) {
			if next != nil {
				next = append(next, it)
			}
			continue
		}
		if next == nil {
			next = make([]core.DroppedItem, i, len(s.items))
			copy(next, s.items[:i])
		}

		it.Velocity.Y -= s.cfg.ItemGravity * sec
		it.Position = it.Position.Add(it.Velocity.Scale(sec))

		ground := 0.0
		if h != nil {
			ground = float64(h.Height(int(math.Round(it.Position.X)), int(math.Round(it.Position.Z))))
		}
		if it.Position.Y <= ground {
			it.Position.Y = ground
			it.Velocity = core.Vec3{
				X: it.Velocity.X * s.cfg.ItemDamping,
				Y: -it.Velocity.Y * s.cfg.ItemDamping,
				Z: it.Velocity.Z * s.cfg.ItemDamping,
			}
			if it.Velocity.Len() < settledSpeed {
				it.Velocity = core.Vec3{}
			}
		}
		next = append(next, it)
	}
	if next != nil {
		s.items = next
	}
}

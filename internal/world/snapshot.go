package world

import (
	"time"

	"github.com/voxelrealm/simcore/pkg/core"
)

// Snapshot copies the live state into a flat save structure. The copy shares
// nothing with the store.
func (s *Store) Snapshot(sess core.Session, now time.Time) core.SaveState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	chars := make([]core.Character, len(s.characters))
	for i, c := range s.characters {
		chars[i] = c.Clone()
	}
	return core.SaveState{
		Version:      core.SaveVersion,
		SessionID:    sess.ID,
		WorldName:    sess.WorldName,
		Seed:         sess.Seed,
		Difficulty:   sess.Difficulty,
		SavedAt:      now,
		Tick:         s.tick,
		Player:       clonePlayer(s.player),
		Characters:   chars,
		Projectiles:  append([]core.Projectile(nil), s.projectiles...),
		DroppedItems: append([]core.DroppedItem(nil), s.items...),
		SpawnMarkers: s.Markers.All(),
	}
}

// Restore replaces the live state with a save. Characters saved before
// species tagging existed are classified on the way in.
func (s *Store) Restore(st core.SaveState, classify func(name string) core.Kind) {
	chars := make([]core.Character, len(st.Characters))
	for i, c := range st.Characters {
		c = c.Clone()
		if c.Kind == core.KindUnknown && classify != nil {
			c.Kind = classify(c.Name)
		}
		chars[i] = c
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.characters = chars
	s.projectiles = append([]core.Projectile(nil), st.Projectiles...)
	s.items = append([]core.DroppedItem(nil), st.DroppedItems...)
	s.player = clonePlayer(st.Player)
	s.tick = st.Tick
	s.Markers.Reset()
	for _, sm := range st.SpawnMarkers {
		s.Markers.Set(sm)
	}
}

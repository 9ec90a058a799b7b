// Package world owns the live simulation state: characters, projectiles,
// dropped items, spawn markers and the player.
//
// Every collection is replaced wholesale on write. Slices handed out by the
// getters are never mutated afterwards, so background readers such as the
// autosave and the monitor can hold them without further locking.
package world

import (
	"sync"

	"github.com/google/uuid"

	"github.com/voxelrealm/simcore/internal/tuning"
	"github.com/voxelrealm/simcore/pkg/core"
)

// Store is the authoritative world state. Collections are copy-on-write:
// readers get slices that are never mutated afterwards, so they may be held
// without the lock.
type Store struct {
	mu  sync.RWMutex
	cfg tuning.World

	characters  []core.Character
	projectiles []core.Projectile
	items       []core.DroppedItem
	player      core.Player
	tick        uint64

	Markers *MarkerSet
	newID   func() string
}

// NewStore creates an empty world around the given player.
func NewStore(cfg tuning.World, player core.Player) *Store {
	return &Store{
		cfg:     cfg,
		player:  player,
		Markers: NewMarkerSet(),
		newID:   uuid.NewString,
	}
}

// NewID returns a fresh entity id.
func (s *Store) NewID() string { return s.newID() }

// Reset clears every collection and the tick counter. The player is kept.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.characters = nil
	s.projectiles = nil
	s.items = nil
	s.tick = 0
	s.Markers.Reset()
}

func (s *Store) Tick() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tick
}

// AdvanceTick increments and returns the tick counter.
func (s *Store) AdvanceTick() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tick++
	return s.tick
}

// Characters returns the current collection. Callers must not modify it.
func (s *Store) Characters() []core.Character {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.characters
}

// Character looks up one character by id.
func (s *Store) Character(id string) (core.Character, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.characters {
		if c.ID == id {
			return c, true
		}
	}
	return core.Character{}, false
}

// SetCharacters replaces the collection in one transition.
func (s *Store) SetCharacters(cs []core.Character) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.characters = cs
}

// UpdateCharacters runs fn against the current collection and stores its
// result, all under the write lock. fn must return a new slice.
func (s *Store) UpdateCharacters(fn func(current []core.Character) []core.Character) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.characters = fn(s.characters)
}

// AddCharacters appends characters up to the character cap and returns how
// many were accepted. Missing ids are assigned.
func (s *Store) AddCharacters(cs ...core.Character) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	room := len(cs)
	if s.cfg.MaxCharacters > 0 {
		room = min(room, s.cfg.MaxCharacters-len(s.characters))
	}
	if room <= 0 {
		return 0
	}

	next := make([]core.Character, len(s.characters), len(s.characters)+room)
	copy(next, s.characters)
	for _, c := range cs[:room] {
		if c.ID == "" {
			c.ID = s.newID()
		}
		next = append(next, c)
	}
	s.characters = next
	return room
}

// CharacterRoom returns how many more characters fit under the cap.
func (s *Store) CharacterRoom() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cfg.MaxCharacters <= 0 {
		return int(^uint(0) >> 1)
	}
	return max(0, s.cfg.MaxCharacters-len(s.characters))
}

func (s *Store) Projectiles() []core.Projectile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.projectiles
}

func (s *Store) SetProjectiles(ps []core.Projectile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projectiles = ps
}

// Launch appends one projectile, assigning an id when missing and evicting
// the oldest projectile past the cap.
func (s *Store) Launch(p core.Projectile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == "" {
		p.ID = s.newID()
	}
	s.projectiles = appendCapped(s.projectiles, s.cfg.MaxProjectiles, p)
}

// appendCapped copies items plus extra into a new slice, dropping from the
// front until it fits limit.
func appendCapped[T any](items []T, limit int, extra ...T) []T {
	n := len(items) + len(extra)
	skip := 0
	if limit > 0 && n > limit {
		skip = n - limit
	}
	next := make([]T, 0, n-skip)
	for i, it := range items {
		if i >= skip {
			next = append(next, it)
		}
	}
	for i, it := range extra {
		if len(items)+i >= skip {
			next = append(next, it)
		}
	}
	return next
}

// Player returns a copy of the player with its own inventory slice.
func (s *Store) Player() core.Player {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clonePlayer(s.player)
}

// UpdatePlayer applies fn to a copy of the player and stores the result.
func (s *Store) UpdatePlayer(fn func(p *core.Player)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := clonePlayer(s.player)
	fn(&p)
	s.player = p
}

// ReduceHP subtracts damage from the player and returns the new HP.
func (s *Store) ReduceHP(amount int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.player.HP -= amount
	return s.player.HP
}

// Knockback pushes the player away from a point on the ground plane.
func (s *Store) Knockback(from core.Vec3, strength float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	dir := s.player.Position.Sub(from)
	dir.Y = 0
	s.player.Position = s.player.Position.Add(dir.Normalize().Scale(strength))
}

func clonePlayer(p core.Player) core.Player {
	if p.Inventory != nil {
		inv := make([]core.InventoryItem, len(p.Inventory))
		copy(inv, p.Inventory)
		p.Inventory = inv
	}
	return p
}

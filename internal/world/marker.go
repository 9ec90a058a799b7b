package world

import (
	"slices"
	"strings"
	"sync"

	"github.com/voxelrealm/simcore/pkg/core"
)

// MarkerSet holds the spawn markers of the current world, keyed by id.
type MarkerSet struct {
	mu      sync.RWMutex
	markers map[string]core.SpawnMarker
}

func NewMarkerSet() *MarkerSet {
	return &MarkerSet{markers: make(map[string]core.SpawnMarker)}
}

func (m *MarkerSet) Get(id string) (core.SpawnMarker, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sm, ok := m.markers[id]
	return sm, ok
}

// Set stores a marker, replacing any marker with the same id.
func (m *MarkerSet) Set(sm core.SpawnMarker) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.markers[sm.ID] = sm
}

func (m *MarkerSet) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.markers, id)
}

// All returns the markers ordered by id.
func (m *MarkerSet) All() []core.SpawnMarker {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]core.SpawnMarker, 0, len(m.markers))
	for _, sm := range m.markers {
		out = append(out, sm)
	}
	slices.SortFunc(out, func(a, b core.SpawnMarker) int { return strings.Compare(a.ID, b.ID) })
	return out
}

func (m *MarkerSet) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.markers)
}

// Reset clears all markers.
func (m *MarkerSet) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.markers = make(map[string]core.SpawnMarker)
}

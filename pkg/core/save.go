// pkg/core/save.go
package core

import "time"

// SaveVersion is bumped when SaveState changes incompatibly.
const SaveVersion = 1

// SpawnMarker is a designer-placed spawn point.
type SpawnMarker struct {
	ID       string `json:"id"`
	Kind     Kind   `json:"kind"`
	Position Vec3   `json:"position"`
}

// SaveState is the flat, serializable form of the simulation state.
type SaveState struct {
	Version      int           `json:"version"`
	SessionID    string        `json:"sessionId"`
	WorldName    string        `json:"worldName"`
	Seed         int64         `json:"seed"`
	Difficulty   Difficulty    `json:"difficulty"`
	SavedAt      time.Time     `json:"savedAt"`
	Tick         uint64        `json:"tick"`
	Player       Player        `json:"player"`
	Characters   []Character   `json:"characters"`
	Projectiles  []Projectile  `json:"projectiles"`
	DroppedItems []DroppedItem `json:"droppedItems"`
	SpawnMarkers []SpawnMarker `json:"spawnMarkers"`
}

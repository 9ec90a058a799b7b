package world

import (
	"math"

	"github.com/voxelrealm/simcore/internal/dice"
	"github.com/voxelrealm/simcore/internal/species"
	"github.com/voxelrealm/simcore/internal/terrain"
	"github.com/voxelrealm/simcore/pkg/core"
)

// template is the spawn preset of one species.
type template struct {
	name    string
	hp      int
	enemy   bool
	giant   bool
	aquatic bool
	color   string
}

var templates = map[core.Kind]template{
	core.KindZombie:   {name: "Zombie", hp: 20, enemy: true, color: "#4a7a3a"},
	core.KindSkeleton: {name: "Skeleton", hp: 20, enemy: true, color: "#d8d8d0"},
	core.KindSpider:   {name: "Spider", hp: 16, enemy: true, color: "#3a2f2a"},
	core.KindSorcerer: {name: "Sorcerer", hp: 30, enemy: true, color: "#5b2a86"},
	core.KindGiant:    {name: "Giant", hp: 60, enemy: true, giant: true, color: "#6b5a3e"},
	core.KindOgre:     {name: "Ogre", hp: 80, enemy: true, giant: true, color: "#5e7a3c"},
	core.KindGuardian: {name: "Guardian", hp: 150, enemy: true, giant: true, color: "#2f4f6f"},
	core.KindSheep:    {name: "Sheep", hp: 8, color: "#f0f0f0"},
	core.KindCow:      {name: "Cow", hp: 10, color: "#5a3d2b"},
	core.KindPig:      {name: "Pig", hp: 10, color: "#f4a6b4"},
	core.KindChicken:  {name: "Chicken", hp: 4, color: "#ffffff"},
	core.KindFish:     {name: "Fish", hp: 3, aquatic: true, color: "#4aa3df"},
}

var villager = template{name: "Villager", hp: 20, color: "#c9a26b"}

// summonRing bounds the distance of summoned characters from their anchor.
var summonRing = [2]float64{2, 4}

// hostiles are the kinds the auto spawner picks from.
var hostiles = []core.Kind{core.KindZombie, core.KindZombie, core.KindSkeleton, core.KindSpider}

// NewCharacter builds a fresh character of the given kind at pos.
func NewCharacter(id string, kind core.Kind, pos core.Vec3) core.Character {
	t, ok := templates[kind]
	if !ok {
		t = villager
	}
	return fromTemplate(id, t.name, kind, t, pos)
}

// Named builds a character from a free-text name. The species is derived
// from the name once, here.
func Named(id, name string, pos core.Vec3) core.Character {
	kind := species.Classify(name)
	t, ok := templates[kind]
	if !ok {
		t = villager
	}
	return fromTemplate(id, name, kind, t, pos)
}

func fromTemplate(id, name string, kind core.Kind, t template, pos core.Vec3) core.Character {
	size := core.Vec3{X: 0.6, Y: 1.8, Z: 0.6}
	if t.giant {
		size = size.Scale(3)
	}
	return core.Character{
		ID:         id,
		Name:       name,
		Kind:       kind,
		Position:   pos.Ptr(),
		HP:         t.hp,
		MaxHP:      t.hp,
		IsEnemy:    t.enemy,
		IsFriendly: !t.enemy && kind == core.KindUnknown,
		IsGiant:    t.giant,
		IsAquatic:  t.aquatic,
		Parts:      []core.Part{{Name: "body", Color: t.color, Size: size}},
	}
}

// Spawner places new characters on the terrain.
type Spawner struct {
	store   *Store
	heights terrain.Heightmap
}

// NewSpawner creates a Spawner. Without a heightmap characters spawn at y=0.
func NewSpawner(store *Store, heights terrain.Heightmap) *Spawner {
	return &Spawner{store: store, heights: heights}
}

// ring returns a point on the ground between rmin and rmax from center.
func (sp *Spawner) ring(src dice.Source, center core.Vec3, rmin, rmax float64) core.Vec3 {
	angle := src.Float64() * 2 * math.Pi
	r := rmin + src.Float64()*(rmax-rmin)
	return terrain.SurfaceAt(sp.heights, center.X+math.Sin(angle)*r, center.Z+math.Cos(angle)*r)
}

// Build creates the characters a spawn request asks for without storing
// them. A zero count yields nothing.
func (sp *Spawner) Build(req core.SpawnRequest, src dice.Source) []core.Character {
	out := make([]core.Character, 0, max(req.Count, 0))
	for i := 0; i < req.Count; i++ {
		pos := sp.ring(src, req.Near, summonRing[0], summonRing[1])
		out = append(out, NewCharacter(sp.store.NewID(), req.Kind, pos))
	}
	return out
}

// Materialize builds and stores the requested characters, returning how
// many fit under the cap.
func (sp *Spawner) Materialize(req core.SpawnRequest, src dice.Source) int {
	return sp.store.AddCharacters(sp.Build(req, src)...)
}

// AutoSpawn adds up to count hostiles. Spawn markers are used when the world
// has any; otherwise characters appear on a ring around the player.
func (sp *Spawner) AutoSpawn(src dice.Source, count int) int {
	count = min(count, sp.store.CharacterRoom())
	if count <= 0 {
		return 0
	}

	markers := sp.store.Markers.All()
	player := sp.store.Player().Position
	cfg := sp.store.cfg

	batch := make([]core.Character, 0, count)
	for i := 0; i < count; i++ {
		if len(markers) > 0 {
			m := markers[src.IntN(len(markers))]
			kind := m.Kind
			if kind == core.KindUnknown {
				kind = hostiles[src.IntN(len(hostiles))]
			}
			batch = append(batch, NewCharacter(sp.store.NewID(), kind, m.Position))
			continue
		}
		pos := sp.ring(src, player, cfg.SpawnRingMin, cfg.SpawnRingMax)
		batch = append(batch, NewCharacter(sp.store.NewID(), hostiles[src.IntN(len(hostiles))], pos))
	}
	return sp.store.AddCharacters(batch...)
}

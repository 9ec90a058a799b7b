package parser

import "github.com/voxelrealm/simcore/pkg/core"

// Attack is a parsed ATTACK command. Slot is -1 for the active slot.
type Attack struct {
	Position  core.Vec3
	Direction core.Vec3
	Slot      int
}

// SpawnItem is a parsed SPAWN ITEM command. Without a position the item
// drops at the player; without a Y it lands on the terrain.
type SpawnItem struct {
	Type        string
	Count       int
	Color       string
	Position    core.Vec3
	HasPosition bool
	HasY        bool
}

// SpawnCharacter is a parsed SPAWN CHARACTER command.
type SpawnCharacter struct {
	Kind        core.Kind
	Count       int
	Near        core.Vec3
	HasPosition bool
}

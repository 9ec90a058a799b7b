// pkg/core/character.go
package core

import "time"

// Kind tags a character with its species. It is assigned once at spawn and
// drives behavior dispatch and kill rewards.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindZombie
	KindSkeleton
	KindSpider
	KindSorcerer
	KindGiant
	KindOgre
	KindGuardian
	KindSheep
	KindCow
	KindPig
	KindChicken
	KindFish
)

var kindNames = [...]string{
	KindUnknown:  "unknown",
	KindZombie:   "zombie",
	KindSkeleton: "skeleton",
	KindSpider:   "spider",
	KindSorcerer: "sorcerer",
	KindGiant:    "giant",
	KindOgre:     "ogre",
	KindGuardian: "guardian",
	KindSheep:    "sheep",
	KindCow:      "cow",
	KindPig:      "pig",
	KindChicken:  "chicken",
	KindFish:     "fish",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// ParseKind is the inverse of Kind.String. Unknown strings map to KindUnknown.
func ParseKind(s string) Kind {
	for i, name := range kindNames {
		if name == s {
			return Kind(i)
		}
	}
	return KindUnknown
}

// Part is a named voxel group used by rendering. The simulation never reads it.
type Part struct {
	Name   string `json:"name"`
	Color  string `json:"color"`
	Offset Vec3   `json:"offset"`
	Size   Vec3   `json:"size"`
}

// Character is an NPC or creature.
//
// Position is nil until the character has been placed in the world; such
// characters are inert. HP may drop below zero transiently, which signals a
// kill to the combat resolver.
type Character struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Kind     Kind    `json:"kind"`
	Position *Vec3   `json:"playerPos,omitempty"`
	Rotation float64 `json:"rotation"`

	HP         int  `json:"hp"`
	MaxHP      int  `json:"maxHp"`
	IsEnemy    bool `json:"isEnemy"`
	IsFriendly bool `json:"isFriendly"`
	IsGiant    bool `json:"isGiant"`
	IsAquatic  bool `json:"isAquatic"`

	IsMoving        bool      `json:"isMoving"`
	LastAttackTime  time.Time `json:"lastAttackTime"`
	WanderTarget    *Vec3     `json:"wanderTarget,omitempty"`
	HasSummoned     bool      `json:"hasSummoned"`
	LastDamagedTime time.Time `json:"lastDamagedTime"`

	Parts []Part `json:"parts,omitempty"`
}

// Clone returns a deep copy so the result can be changed without touching
// collections that still reference c.
func (c Character) Clone() Character {
	if c.Position != nil {
		c.Position = c.Position.Ptr()
	}
	if c.WanderTarget != nil {
		c.WanderTarget = c.WanderTarget.Ptr()
	}
	if c.Parts != nil {
		parts := make([]Part, len(c.Parts))
		copy(parts, c.Parts)
		c.Parts = parts
	}
	return c
}

// Placed reports whether the character has a world position.
func (c Character) Placed() bool { return c.Position != nil }

// Alive reports whether the character still has hit points.
func (c Character) Alive() bool { return c.HP > 0 }

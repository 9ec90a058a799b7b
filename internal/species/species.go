// Package species classifies characters by name and holds the per-species
// behavior and reward tables.
package species

import (
	"strings"

	"github.com/voxelrealm/simcore/pkg/core"
)

// Strategy selects the behavior that drives a character.
type Strategy uint8

const (
	StrategyPassive Strategy = iota
	StrategyChase
	StrategySpellcaster
	StrategyFriendly
	StrategyAnimal
)

func (s Strategy) String() string {
	switch s {
	case StrategyChase:
		return "chase"
	case StrategySpellcaster:
		return "spellcaster"
	case StrategyFriendly:
		return "friendly"
	case StrategyAnimal:
		return "animal"
	default:
		return "passive"
	}
}

// classifyOrder is checked top to bottom; the first substring hit wins.
var classifyOrder = []struct {
	needle string
	kind   core.Kind
}{
	{"sorcerer", core.KindSorcerer},
	{"guardian", core.KindGuardian},
	{"giant", core.KindGiant},
	{"ogre", core.KindOgre},
	{"skeleton", core.KindSkeleton},
	{"spider", core.KindSpider},
	{"zombie", core.KindZombie},
	{"sheep", core.KindSheep},
	{"cow", core.KindCow},
	{"pig", core.KindPig},
	{"chicken", core.KindChicken},
	{"fish", core.KindFish},
}

// Classify derives a species from a free-text name by case-insensitive
// substring match. Names that match nothing are KindUnknown.
func Classify(name string) core.Kind {
	lower := strings.ToLower(name)
	for _, c := range classifyOrder {
		if strings.Contains(lower, c.needle) {
			return c.kind
		}
	}
	return core.KindUnknown
}

var strategies = map[core.Kind]Strategy{
	core.KindSorcerer: StrategySpellcaster,
	core.KindZombie:   StrategyChase,
	core.KindSkeleton: StrategyChase,
	core.KindSpider:   StrategyChase,
	core.KindGiant:    StrategyChase,
	core.KindSheep:    StrategyAnimal,
	core.KindCow:      StrategyAnimal,
	core.KindPig:      StrategyAnimal,
	core.KindChicken:  StrategyAnimal,
	core.KindFish:     StrategyAnimal,
}

// chaseNeedles are the name words that make a character hunt the player.
// Ogres and guardians classify ahead of giants, so their names are checked
// against this list before they fall back to wandering.
var chaseNeedles = []string{"zombie", "skeleton", "spider", "giant"}

// StrategyFor maps a character to its behavior. Untagged friendly NPCs get
// the friendly idle/flee behavior, everything else untagged wanders.
func StrategyFor(c core.Character) Strategy {
	if s, ok := strategies[c.Kind]; ok {
		return s
	}
	if c.Kind == core.KindOgre || c.Kind == core.KindGuardian {
		lower := strings.ToLower(c.Name)
		for _, n := range chaseNeedles {
			if strings.Contains(lower, n) {
				return StrategyChase
			}
		}
	}
	if c.IsFriendly {
		return StrategyFriendly
	}
	return StrategyPassive
}

// IsAnimal reports whether kills of this kind drop meat.
func IsAnimal(k core.Kind) bool {
	switch k {
	case core.KindSheep, core.KindCow, core.KindPig, core.KindChicken, core.KindFish:
		return true
	}
	return false
}

// IsBoss reports whether the kind is tagged as a boss for quests and loot.
func IsBoss(k core.Kind) bool { return k == core.KindGuardian }

// IsLarge reports the giant tier: giants, ogres and guardians.
func IsLarge(k core.Kind) bool {
	return k == core.KindGiant || k == core.KindOgre || k == core.KindGuardian
}

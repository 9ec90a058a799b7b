package species

import "github.com/voxelrealm/simcore/pkg/core"

var xpTable = map[core.Kind]int{
	core.KindZombie:   15,
	core.KindSkeleton: 20,
	core.KindSpider:   15,
	core.KindSorcerer: 40,
	core.KindGiant:    75,
	core.KindOgre:     75,
	core.KindGuardian: 75,
}

// XP returns the experience granted for a kill.
func XP(k core.Kind) int { return xpTable[k] }

// QuestType is the counter a kill advances. Guardians count as "boss".
func QuestType(k core.Kind) string {
	if IsBoss(k) {
		return "boss"
	}
	return k.String()
}

// GoldRange is an inclusive [Min, Max] coin range.
type GoldRange struct {
	Min int
	Max int
}

var goldTable = map[core.Kind]GoldRange{
	core.KindZombie:   {5, 10},
	core.KindSpider:   {5, 10},
	core.KindSkeleton: {8, 15},
	core.KindSorcerer: {15, 25},
	core.KindGiant:    {30, 50},
	core.KindOgre:     {30, 50},
	core.KindGuardian: {50, 100},
}

// Gold returns the coin range for a kill of kind k.
func Gold(k core.Kind) GoldRange {
	if r, ok := goldTable[k]; ok {
		return r
	}
	return GoldRange{5, 10}
}

// AnimalDrops lists the guaranteed meat (and wool) an animal kill drops.
func AnimalDrops(k core.Kind) []core.Drop {
	switch k {
	case core.KindChicken:
		return []core.Drop{{Type: core.ItemRawChicken, Count: 2}}
	case core.KindCow:
		return []core.Drop{{Type: core.ItemRawBeef, Count: 2}}
	case core.KindPig:
		return []core.Drop{{Type: core.ItemRawPorkchop, Count: 2}}
	case core.KindSheep:
		return []core.Drop{{Type: core.ItemRawMutton, Count: 1}, {Type: core.ItemWool, Count: 1}}
	case core.KindFish:
		return []core.Drop{{Type: core.ItemRawFish, Count: 1}}
	}
	return nil
}

// RandomDrops is the pool enemies roll a single drop from.
var RandomDrops = []string{core.ItemMeat, core.ItemApple, core.ItemWood, core.ItemStone}

// DropsBone reports whether kills of this kind always drop a bone.
func DropsBone(k core.Kind) bool {
	return k == core.KindSkeleton || k == core.KindGiant
}

// ItemColor is the display color used for dropped loot.
func ItemColor(itemType string) string {
	switch itemType {
	case core.ItemGold:
		return "#ffd700"
	case core.ItemBone:
		return "#f5f5dc"
	case core.ItemWool:
		return "#ffffff"
	case core.ItemArmor:
		return "#a9a9a9"
	case core.ItemApple:
		return "#ff0000"
	case core.ItemWood:
		return "#8b4513"
	case core.ItemStone:
		return "#808080"
	default:
		return "#cd5c5c"
	}
}

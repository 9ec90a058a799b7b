package species

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/voxelrealm/simcore/pkg/core"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		want core.Kind
	}{
		{"Zombie", core.KindZombie},
		{"rotting ZOMBIE", core.KindZombie},
		{"Skeleton Archer", core.KindSkeleton},
		{"Cave Spider", core.KindSpider},
		{"Dark Sorcerer", core.KindSorcerer},
		{"Zombie Giant", core.KindGiant},
		{"Swamp Ogre", core.KindOgre},
		{"Giant Guardian", core.KindGuardian},
		{"Sheep", core.KindSheep},
		{"Brown Cow", core.KindCow},
		{"pig", core.KindPig},
		{"Chicken", core.KindChicken},
		{"Goldfish", core.KindFish},
		{"Villager Bob", core.KindUnknown},
		{"", core.KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.name))
		})
	}
}

func TestStrategyFor(t *testing.T) {
	assert.Equal(t, StrategySpellcaster, StrategyFor(core.Character{Kind: core.KindSorcerer}))
	assert.Equal(t, StrategyChase, StrategyFor(core.Character{Kind: core.KindZombie}))
	assert.Equal(t, StrategyChase, StrategyFor(core.Character{Kind: core.KindGiant}))
	assert.Equal(t, StrategyAnimal, StrategyFor(core.Character{Kind: core.KindPig}))
	assert.Equal(t, StrategyFriendly, StrategyFor(core.Character{IsFriendly: true}))
	assert.Equal(t, StrategyPassive, StrategyFor(core.Character{IsEnemy: true}))
}

func TestStrategyForLargeTier(t *testing.T) {
	tests := []struct {
		name     string
		friendly bool
		want     Strategy
	}{
		{"Ogre", false, StrategyPassive},
		{"Forest Guardian", false, StrategyPassive},
		{"Giant Guardian", false, StrategyChase},
		{"Zombie Ogre", false, StrategyChase},
		{"Swamp Ogre", true, StrategyFriendly},
		{"Giant", false, StrategyChase},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := core.Character{Name: tt.name, Kind: Classify(tt.name), IsFriendly: tt.friendly}
			assert.Equal(t, tt.want, StrategyFor(c))
		})
	}
}

func TestRewards(t *testing.T) {
	assert.Equal(t, 15, XP(core.KindZombie))
	assert.Equal(t, 20, XP(core.KindSkeleton))
	assert.Equal(t, 40, XP(core.KindSorcerer))
	assert.Equal(t, 75, XP(core.KindGuardian))
	assert.Equal(t, 0, XP(core.KindPig))

	assert.Equal(t, "boss", QuestType(core.KindGuardian))
	assert.Equal(t, "giant", QuestType(core.KindGiant))

	assert.Equal(t, GoldRange{50, 100}, Gold(core.KindGuardian))
	assert.Equal(t, GoldRange{8, 15}, Gold(core.KindSkeleton))

	drops := AnimalDrops(core.KindSheep)
	assert.Len(t, drops, 2)
	assert.Equal(t, core.ItemWool, drops[1].Type)
	assert.Nil(t, AnimalDrops(core.KindZombie))
}

package combat

import (
	"fmt"
	"strings"
	"time"

	"github.com/voxelrealm/simcore/internal/dice"
	"github.com/voxelrealm/simcore/internal/species"
	"github.com/voxelrealm/simcore/pkg/core"
)

// resolveKill pays out the rewards of a kill. The character has already been
// removed from the collection by the time this runs.
func (r *Resolver) resolveKill(o outcome, weapon string, now time.Time) {
	c := o.before
	kind := c.Kind
	pos := *c.Position

	xp := species.XP(kind)
	if xp > 0 {
		r.deps.Progress.XPGain(xp)
	}
	if kind != core.KindUnknown {
		r.deps.Progress.QuestUpdate(species.QuestType(kind), 1)
	}
	if r.session().Difficulty == core.DifficultyUnderworld && species.IsLarge(kind) {
		r.deps.Progress.QuestUpdate("boss", 1)
	}

	drops, gold := r.rollLoot(c)
	if gold > 0 {
		r.deps.Progress.GoldGain(gold)
	}
	for _, d := range drops {
		r.deps.State.SpawnItem(d.Type, d.Count, species.ItemColor(d.Type), pos, now)
	}

	r.deps.Sounds.PlaySFX(core.SoundKill, 1)
	r.deps.Notifier.Notify(killMessage(c.Name, drops, gold), core.NotifyCombatKill, fmt.Sprintf("+%d XP", xp))

	r.deps.Events.RecordKill(core.KillEvent{
		SessionID:  r.session().ID,
		Time:       now,
		Tick:       r.deps.State.Tick(),
		VictimID:   c.ID,
		VictimName: c.Name,
		VictimKind: kind,
		Weapon:     weapon,
		Position:   pos,
		XP:         xp,
		Gold:       gold,
		Drops:      drops,
		Respawned:  len(o.respawns) > 0,
	})
}

// rollLoot decides the item drops and gold of a kill. Animals always drop
// their meat; enemies roll for a random item, gold, armor and bone.
func (r *Resolver) rollLoot(c core.Character) (drops []core.Drop, gold int) {
	kind := c.Kind
	if species.IsAnimal(kind) {
		return species.AnimalDrops(kind), 0
	}
	if !c.IsEnemy {
		return nil, 0
	}

	src := r.deps.Rand
	if dice.Chance(src, r.loot.EnemyDropChance) {
		item := species.RandomDrops[src.IntN(len(species.RandomDrops))]
		drops = append(drops, core.Drop{Type: item, Count: 1})
	}

	boss := species.IsBoss(kind)
	if boss || dice.Chance(src, r.loot.GoldChance) {
		g := species.Gold(kind)
		gold = dice.Between(src, g.Min, g.Max)
		if (kind == core.KindGiant || boss) && dice.Chance(src, r.loot.ArmorChance) {
			drops = append(drops, core.Drop{Type: core.ItemArmor, Count: 1})
		}
	}

	if species.DropsBone(kind) {
		drops = append(drops, core.Drop{Type: core.ItemBone, Count: 1})
	}
	return drops, gold
}

// killMessage lists every drop in one line, or just the kill when there
// are none.
func killMessage(name string, drops []core.Drop, gold int) string {
	if len(drops) == 0 && gold == 0 {
		return fmt.Sprintf("You killed %s", name)
	}
	parts := make([]string, 0, len(drops)+1)
	for _, d := range drops {
		parts = append(parts, fmt.Sprintf("%dx %s", d.Count, d.Type))
	}
	if gold > 0 {
		parts = append(parts, fmt.Sprintf("%d gold", gold))
	}
	return fmt.Sprintf("Killed %s! Dropped: %s", name, strings.Join(parts, ", "))
}

package behavior

import (
	"github.com/voxelrealm/simcore/internal/dice"
	"github.com/voxelrealm/simcore/pkg/core"
)

const spellColor = "#9b30ff"

// castHeight lifts spell origins from the feet to the hands.
var castHeight = core.Vec3{Y: 1.5}

// Spellcaster summons once per lifetime when the player first comes in
// range, then casts on cooldown. Out of range it wanders like Passive.
func (d *Dispatcher) Spellcaster(c core.Character, ctx Context) Result {
	pos := *c.Position
	toPlayer := ctx.PlayerPosition.Sub(pos)

	if toPlayer.Len() >= d.cfg.SpellRange {
		return d.Passive(c, ctx)
	}

	c.Rotation = facing(toPlayer)
	c.IsMoving = false

	if !c.HasSummoned {
		c.HasSummoned = true
		return Result{
			Character: c,
			Sound:     &core.SoundEvent{Category: core.SoundSummon, Position: pos.Ptr()},
			Spawn: &core.SpawnRequest{
				Kind:  core.KindZombie,
				Count: dice.Between(ctx.Rand, d.cfg.SummonMin, d.cfg.SummonMax),
				Near:  ctx.PlayerPosition,
			},
		}
	}

	if !cooledDown(c.LastAttackTime, ctx.Now, d.cfg.SpellCooldown()) {
		return Result{Character: c}
	}

	origin := pos.Add(castHeight)
	if ctx.Projectiles != nil {
		ctx.Projectiles.Launch(core.Projectile{
			Position:  origin,
			Velocity:  ctx.PlayerPosition.Sub(origin).Normalize().Scale(d.cfg.SpellSpeed),
			Damage:    d.cfg.SpellDamage,
			OwnerID:   c.ID,
			Color:     spellColor,
			CreatedAt: ctx.Now,
		})
	}
	c.LastAttackTime = ctx.Now
	return Result{
		Character: c,
		Sound:     &core.SoundEvent{Category: core.SoundSorcererSpell, Position: pos.Ptr()},
	}
}

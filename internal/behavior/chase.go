package behavior

import (
	"github.com/voxelrealm/simcore/pkg/core"
)

// Chase closes on the player inside the aggro radius and strikes in melee
// range. Outside the aggro radius it wanders.
func (d *Dispatcher) Chase(c core.Character, ctx Context) Result {
	pos := *c.Position
	toPlayer := ctx.PlayerPosition.Sub(pos)
	dist := toPlayer.Len()

	if dist >= d.cfg.AggroRadius {
		return d.Passive(c, ctx)
	}

	c.Rotation = facing(toPlayer)

	if dist < d.cfg.MeleeRange {
		c.IsMoving = false
		res := Result{Character: c}
		if cooledDown(c.LastAttackTime, ctx.Now, d.cfg.AttackCooldown()) {
			res.Character.LastAttackTime = ctx.Now
			res.Sound = &core.SoundEvent{Category: core.SoundZombieAttack, Position: pos.Ptr()}
		}
		return res
	}

	// Only reachable when MinChaseDistance is tuned above MeleeRange. With the
	// defaults (1.2 and 2.0) the melee branch already holds everything closer.
	if dist <= d.cfg.MinChaseDistance {
		c.IsMoving = false
		return Result{Character: c}
	}

	speed := d.cfg.ChaseSpeed
	if c.IsGiant {
		speed = d.cfg.GiantChaseSpeed
	}
	next := d.stick(c, pos.Add(groundDir(toPlayer).Scale(speed*d.cfg.SpeedUnit)), ctx.Blocks)
	c.Position = &next
	c.WanderTarget = nil
	c.IsMoving = true
	return Result{Character: c}
}

package behavior

import (
	"math"

	"github.com/voxelrealm/simcore/internal/dice"
	"github.com/voxelrealm/simcore/internal/species"
	"github.com/voxelrealm/simcore/pkg/core"
)

// Friendly flees from the player for a while after taking damage. Otherwise
// animals wander and friendly NPCs idle with the occasional shuffle or turn.
func (d *Dispatcher) Friendly(c core.Character, ctx Context) Result {
	pos := *c.Position

	if !c.LastDamagedTime.IsZero() && ctx.Now.Sub(c.LastDamagedTime) < d.cfg.FleeWindow() {
		away := groundDir(pos.Sub(ctx.PlayerPosition))
		next := d.stick(c, pos.Add(away.Scale(d.cfg.ChaseSpeed*d.cfg.SpeedUnit)), ctx.Blocks)
		c.Position = &next
		c.Rotation = facing(away)
		c.WanderTarget = nil
		c.IsMoving = true
		return Result{Character: c}
	}

	if species.StrategyFor(c) == species.StrategyAnimal {
		return d.Passive(c, ctx)
	}

	c.IsMoving = false
	if dice.Chance(ctx.Rand, d.cfg.IdleMoveChance) {
		angle := ctx.Rand.Float64() * 2 * math.Pi
		dir := core.Vec3{X: math.Sin(angle), Z: math.Cos(angle)}
		next := d.stick(c, pos.Add(dir.Scale(d.cfg.IdleMoveStep)), ctx.Blocks)
		c.Position = &next
		c.Rotation = angle
		c.IsMoving = true
	}
	if dice.Chance(ctx.Rand, d.cfg.IdleTurnChance) {
		c.Rotation += dice.Spread(ctx.Rand, math.Pi/4)
	}
	return Result{Character: c}
}

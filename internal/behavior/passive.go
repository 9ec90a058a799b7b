package behavior

import (
	"github.com/voxelrealm/simcore/internal/dice"
	"github.com/voxelrealm/simcore/pkg/core"
)

// Passive wanders between random targets inside a box around the character.
// It never emits sounds or spawns.
func (d *Dispatcher) Passive(c core.Character, ctx Context) Result {
	pos := *c.Position

	if c.WanderTarget == nil || pos.DistXZ(*c.WanderTarget) < d.cfg.ArriveRadius {
		box := d.cfg.WanderBox
		c.WanderTarget = &core.Vec3{
			X: pos.X + dice.Spread(ctx.Rand, box[0]/2),
			Y: pos.Y + dice.Spread(ctx.Rand, box[1]/2),
			Z: pos.Z + dice.Spread(ctx.Rand, box[2]/2),
		}
		c.IsMoving = false
		return Result{Character: c}
	}

	dir := groundDir(c.WanderTarget.Sub(pos))
	next := d.stick(c, pos.Add(dir.Scale(d.cfg.WanderSpeed)), ctx.Blocks)
	c.Position = &next
	c.Rotation = facing(dir)
	c.IsMoving = true
	return Result{Character: c}
}

package combat

import (
	"github.com/voxelrealm/simcore/pkg/core"
)

const arrowColor = "#8b5a2b"

// aimHeight points arrows at a character's body rather than its feet.
var aimHeight = core.Vec3{Y: 0.5}

// alignment is the cone test value: the cosine between the view direction
// and the direction to the target. A target on the origin counts as aligned.
func alignment(origin, dir, target core.Vec3) float64 {
	to := target.Sub(origin)
	if to.Len() == 0 {
		return 1
	}
	return to.Normalize().Dot(dir)
}

// bowTarget returns the nearest enemy inside the bow range and cone.
func (r *Resolver) bowTarget(origin, dir core.Vec3) (core.Vec3, bool) {
	var best core.Vec3
	bestDist := -1.0
	for _, c := range r.deps.State.Characters() {
		if !c.IsEnemy || !c.Placed() || !c.Alive() {
			continue
		}
		d := origin.Dist(*c.Position)
		if d > r.combat.BowRange || alignment(origin, dir, *c.Position) <= r.combat.BowCone {
			continue
		}
		if bestDist < 0 || d < bestDist {
			best, bestDist = *c.Position, d
		}
	}
	return best, bestDist >= 0
}

// meleeTargets returns the ids of every character inside the melee range
// and the narrow swing cone.
func (r *Resolver) meleeTargets(origin, dir core.Vec3) []string {
	var ids []string
	for _, c := range r.deps.State.Characters() {
		if !c.Placed() || !c.Alive() {
			continue
		}
		if origin.Dist(*c.Position) > r.combat.MeleeRange {
			continue
		}
		if alignment(origin, dir, *c.Position) <= r.combat.MeleeCone {
			continue
		}
		ids = append(ids, c.ID)
	}
	return ids
}

// Package behavior computes one AI step for a character. Every strategy is a
// pure function of the character and the tick context; side effects are
// returned in Result for the director to apply.
package behavior

import (
	"math"
	"time"

	"github.com/voxelrealm/simcore/internal/dice"
	"github.com/voxelrealm/simcore/internal/species"
	"github.com/voxelrealm/simcore/internal/terrain"
	"github.com/voxelrealm/simcore/internal/tuning"
	"github.com/voxelrealm/simcore/pkg/core"
)

// ProjectileSink accepts projectiles launched by a behavior.
type ProjectileSink interface {
	Launch(p core.Projectile)
}

// Context is the read-only world view for one tick.
type Context struct {
	PlayerPosition core.Vec3
	Blocks         terrain.Occupancy
	Now            time.Time
	Projectiles    ProjectileSink
	Rand           dice.Source
}

// Result is the complete outcome of one update. Character is always the
// full next state, never a partial patch.
type Result struct {
	Character core.Character
	Sound     *core.SoundEvent
	Spawn     *core.SpawnRequest
}

// Dispatcher picks and runs the behavior for each character on an AI tick.
// It holds no per-character state; everything lives on core.Character.
type Dispatcher struct {
	cfg      tuning.AI
	fallback dice.Source
}

// NewDispatcher creates a Dispatcher. Updates that carry no random source
// fall back to an unseeded one.
func NewDispatcher(cfg tuning.AI) *Dispatcher {
	return &Dispatcher{cfg: cfg, fallback: dice.New(0)}
}

// Update runs the strategy selected by the character's species. Characters
// without a position are returned unchanged.
func (d *Dispatcher) Update(c core.Character, ctx Context) Result {
	c = c.Clone()
	if !c.Placed() {
		return Result{Character: c}
	}
	if ctx.Rand == nil {
		ctx.Rand = d.fallback
	}

	switch species.StrategyFor(c) {
	case species.StrategyChase:
		return d.Chase(c, ctx)
	case species.StrategySpellcaster:
		return d.Spellcaster(c, ctx)
	case species.StrategyFriendly, species.StrategyAnimal:
		return d.Friendly(c, ctx)
	default:
		return d.Passive(c, ctx)
	}
}

// facing returns the rotation that looks along dir.
func facing(dir core.Vec3) float64 {
	return math.Atan2(dir.X, dir.Z)
}

// groundDir flattens dir onto the XZ plane and normalizes it.
func groundDir(dir core.Vec3) core.Vec3 {
	dir.Y = 0
	return dir.Normalize()
}

// stick applies the ground adherence step to a proposed position.
func (d *Dispatcher) stick(c core.Character, p core.Vec3, blocks terrain.Occupancy) core.Vec3 {
	if c.IsAquatic {
		return p
	}
	if !terrain.GroundBelow(blocks, p) {
		p.Y -= d.cfg.GravityStep
	}
	return p
}

func cooledDown(last, now time.Time, cd time.Duration) bool {
	return last.IsZero() || now.Sub(last) >= cd
}

// Package projectile advances projectiles and resolves their collisions.
package projectile

import (
	"fmt"
	"math"
	"time"

	"github.com/voxelrealm/simcore/internal/dice"
	"github.com/voxelrealm/simcore/internal/sink"
	"github.com/voxelrealm/simcore/internal/tuning"
	"github.com/voxelrealm/simcore/pkg/core"
)

// Dependencies are the outputs the integrator reports to.
type Dependencies struct {
	Notifier sink.Notifier
	Sounds   sink.Sounds
}

// Integrator advances projectiles through one frame and reports collisions.
type Integrator struct {
	cfg  tuning.Projectiles
	deps Dependencies
}

func NewIntegrator(cfg tuning.Projectiles, deps Dependencies) *Integrator {
	if deps.Notifier == nil {
		deps.Notifier = sink.Nop{}
	}
	if deps.Sounds == nil {
		deps.Sounds = sink.Nop{}
	}
	return &Integrator{cfg: cfg, deps: deps}
}

// StepInput is the world state one Step reads.
type StepInput struct {
	Projectiles []core.Projectile
	// Characters are the targets of player-owned projectiles.
	Characters []core.Character
	Player     core.Player
	Dt         time.Duration
	Now        time.Time
	Rand       dice.Source
}

// PlayerHit is a character-owned projectile reaching the player.
type PlayerHit struct {
	Projectile core.Projectile
	// Damage is the defense-adjusted damage, zero when blocked.
	Damage  int
	Blocked bool
}

// CharacterHit is a player-owned projectile reaching a character. The
// combat resolver applies the damage.
type CharacterHit struct {
	Projectile  core.Projectile
	CharacterID string
}

// StepResult is what one Step produced. Hits are reported, not applied.
type StepResult struct {
	// Projectiles still in flight, in input order.
	Projectiles   []core.Projectile
	PlayerHits    []PlayerHit
	CharacterHits []CharacterHit
	Expired       int
}

// EffectiveDamage scales raw damage by the player's defense reduction.
// The formula is floor(raw * (1 - defense)), never below zero.
func EffectiveDamage(raw int, defense float64) int {
	d := int(math.Floor(float64(raw) * (1 - defense)))
	if d < 0 {
		return 0
	}
	return d
}

// Step moves every projectile by velocity*dt, then resolves collisions and
// ages out projectiles past their lifetime or below the world floor. The
// input slice is never modified.
func (i *Integrator) Step(in StepInput) StepResult {
	res := StepResult{Projectiles: make([]core.Projectile, 0, len(in.Projectiles))}
	dt := in.Dt.Seconds()

	for _, p := range in.Projectiles {
		p.Position = p.Position.Add(p.Velocity.Scale(dt))

		if p.Age(in.Now) > i.cfg.Lifetime() || p.Position.Y < i.cfg.FloorY {
			res.Expired++
			continue
		}

		if p.FromPlayer() {
			if id, ok := i.characterHit(p, in.Characters); ok {
				res.CharacterHits = append(res.CharacterHits, CharacterHit{Projectile: p, CharacterID: id})
				continue
			}
		} else if p.Position.Dist(in.Player.Position) < i.cfg.HitRadius {
			res.PlayerHits = append(res.PlayerHits, i.playerHit(p, in))
			continue
		}

		res.Projectiles = append(res.Projectiles, p)
	}
	return res
}

// characterHit returns the closest live character inside the hit radius.
func (i *Integrator) characterHit(p core.Projectile, chars []core.Character) (string, bool) {
	best, bestDist := "", i.cfg.HitRadius
	for _, c := range chars {
		if !c.Placed() || !c.Alive() {
			continue
		}
		if d := p.Position.Dist(*c.Position); d < bestDist {
			best, bestDist = c.ID, d
		}
	}
	return best, best != ""
}

func (i *Integrator) playerHit(p core.Projectile, in StepInput) PlayerHit {
	if in.Player.HoldingShield() && in.Rand != nil && dice.Chance(in.Rand, i.cfg.BlockChance) {
		i.deps.Notifier.Notify("Blocked with shield!", core.NotifyCombatBlock, "")
		i.deps.Sounds.PlaySFX(core.SoundShieldBlock, 1)
		return PlayerHit{Projectile: p, Blocked: true}
	}

	dmg := EffectiveDamage(p.Damage, in.Player.Stats.DefenseReduction)
	i.deps.Notifier.Notify("Hit by projectile", core.NotifyCombatDamage, fmt.Sprintf("-%d HP", dmg))
	i.deps.Sounds.PlaySFX(core.SoundPlayerHurt, 1)
	return PlayerHit{Projectile: p, Damage: dmg}
}

package director

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/voxelrealm/simcore/internal/behavior"
	"github.com/voxelrealm/simcore/internal/dice"
	"github.com/voxelrealm/simcore/internal/projectile"
	"github.com/voxelrealm/simcore/pkg/core"
)

// shots collects projectiles launched by behaviors during one AI tick.
type shots []core.Projectile

func (s *shots) Launch(p core.Projectile) { *s = append(*s, p) }

// strike is an enemy melee attack landing on the player.
type strike struct {
	attacker core.Character
	damage   int
}

// aiTick runs every active character through its behavior and writes the
// collection back, spawned characters included, in one transition. Sounds,
// strikes and projectiles are applied after the transition.
func (d *Director) aiTick(now time.Time) (updated, spawned int) {
	player := d.deps.Store.Player()
	var (
		launched shots
		sounds   []core.SoundEvent
		strikes  []strike
		requests []core.SpawnRequest
	)
	bctx := behavior.Context{
		PlayerPosition: player.Position,
		Blocks:         d.deps.Blocks,
		Now:            now,
		Projectiles:    &launched,
		Rand:           d.deps.Rand,
	}
	maxChars := d.cfg.Tuning.World.MaxCharacters

	d.deps.Store.UpdateCharacters(func(current []core.Character) []core.Character {
		next := make([]core.Character, 0, len(current))
		for _, c := range current {
			if !c.Placed() || !active(c) {
				next = append(next, c)
				continue
			}
			res := d.deps.Behavior.Update(c, bctx)
			next = append(next, res.Character)
			updated++

			if res.Sound != nil {
				sounds = append(sounds, *res.Sound)
				if res.Sound.Category == core.SoundZombieAttack {
					strikes = append(strikes, strike{attacker: res.Character, damage: d.meleeDamage(res.Character)})
				}
			}
			if res.Spawn != nil {
				requests = append(requests, *res.Spawn)
			}
		}

		for _, req := range requests {
			batch := d.deps.Spawner.Build(req, d.deps.Rand)
			if maxChars > 0 {
				batch = batch[:min(len(batch), max(0, maxChars-len(next)))]
			}
			next = append(next, batch...)
			spawned += len(batch)
		}
		return next
	})

	for _, s := range sounds {
		d.play(s, player.Position)
	}
	for _, st := range strikes {
		d.strike(st, player, now)
	}
	for _, p := range launched {
		d.deps.Store.Launch(p)
	}
	if spawned > 0 {
		d.spawned.Add(context.Background(), int64(spawned))
		d.deps.Notifier.Notify(fmt.Sprintf("%d enemies summoned", spawned), core.NotifySpawn, "")
		d.deps.Logger.Debug("spawn requests materialized", "requests", len(requests), "spawned", spawned)
	}
	return updated, spawned
}

// play forwards a sound, attenuated by distance when it has a position.
func (d *Director) play(s core.SoundEvent, listener core.Vec3) {
	if s.Position == nil {
		d.deps.Sounds.PlaySFX(s.Category, 1)
		return
	}
	d.deps.Sounds.PlaySpatialSFX(s.Category, s.Position.Dist(listener))
}

func (d *Director) meleeDamage(c core.Character) int {
	ai := d.cfg.Tuning.AI
	if c.IsGiant {
		return ai.EnemyMeleeDamage * ai.GiantMeleeFactor
	}
	return ai.EnemyMeleeDamage
}

// strike lands an enemy melee attack on the player. A shield in hand gets
// the same block roll as against projectiles.
func (d *Director) strike(st strike, player core.Player, now time.Time) {
	blocked := player.HoldingShield() && dice.Chance(d.deps.Rand, d.cfg.Tuning.Projectiles.BlockChance)
	dmg := 0
	if blocked {
		d.deps.Notifier.Notify("Blocked with shield!", core.NotifyCombatBlock, "")
		d.deps.Sounds.PlaySFX(core.SoundShieldBlock, 1)
	} else {
		dmg = projectile.EffectiveDamage(st.damage, player.Stats.DefenseReduction)
		d.deps.Player.Knockback(*st.attacker.Position, d.cfg.Tuning.Combat.Knockback)
		d.deps.Player.ReduceHP(dmg)
		d.deps.Notifier.Notify(fmt.Sprintf("%s hits you", st.attacker.Name), core.NotifyCombatDamage, fmt.Sprintf("-%d HP", dmg))
	}
	d.playerHits.Add(context.Background(), 1, metric.WithAttributes(attribute.Bool("blocked", blocked)))
	d.deps.Events.RecordHit(core.HitEvent{
		SessionID: d.session().ID,
		Time:      now,
		Tick:      d.deps.Store.Tick(),
		VictimID:  core.PlayerOwner,
		SourceID:  st.attacker.ID,
		Weapon:    "melee",
		Damage:    dmg,
		Blocked:   blocked,
		Position:  player.Position,
		Distance:  player.Position.Dist(*st.attacker.Position),
	})
}

package combat

import (
	"fmt"
	"slices"
	"time"

	"github.com/voxelrealm/simcore/internal/projectile"
	"github.com/voxelrealm/simcore/pkg/core"
)

// outcome is what happened to one character during a damage transition.
type outcome struct {
	before   core.Character
	after    core.Character
	killed   bool
	respawns []core.Character
}

// ApplyProjectileHit resolves a player arrow reaching a character. It returns
// false when the character is already gone.
func (r *Resolver) ApplyProjectileHit(hit projectile.CharacterHit) bool {
	from := hit.Projectile.Position.Sub(hit.Projectile.Velocity.Normalize())
	return len(r.apply([]string{hit.CharacterID}, hit.Projectile.Damage, core.ItemBow, from)) > 0
}

// apply damages the given characters in one collection transition. Killed
// characters are removed and their replacements appended in the same
// transition, so a character can only be killed once.
func (r *Resolver) apply(ids []string, dmg int, weapon string, from core.Vec3) []outcome {
	now := r.deps.Clock()
	underworld := r.session().Difficulty == core.DifficultyUnderworld
	var results []outcome

	r.deps.State.UpdateCharacters(func(current []core.Character) []core.Character {
		next := make([]core.Character, 0, len(current))
		var spawned []core.Character
		for _, c := range current {
			if !slices.Contains(ids, c.ID) || !c.Placed() || !c.Alive() {
				next = append(next, c)
				continue
			}

			o := outcome{before: c, after: c.Clone()}
			o.after.HP -= dmg
			if o.after.HP <= 0 {
				o.killed = true
				if underworld && c.Kind == core.KindPig {
					o.respawns = append(o.respawns, r.respawnPig(c))
				}
				spawned = append(spawned, o.respawns...)
				results = append(results, o)
				continue
			}

			away := o.after.Position.Sub(from)
			away.Y = 0
			pos := o.after.Position.Add(away.Normalize().Scale(r.combat.Knockback))
			o.after.Position = &pos
			o.after.LastDamagedTime = now
			next = append(next, o.after)
			results = append(results, o)
		}
		if len(results) == 0 {
			return current
		}
		return append(next, spawned...)
	})

	for _, o := range results {
		r.record(o, dmg, weapon, from, now)
		if o.killed {
			r.resolveKill(o, weapon, now)
			continue
		}
		hitSound := core.SoundHit
		if o.before.Kind == core.KindZombie {
			hitSound = core.SoundZombieHit
		}
		r.deps.Sounds.PlaySFX(hitSound, 1)
		r.deps.Notifier.Notify(fmt.Sprintf("Hit %s for %d damage", o.before.Name, dmg), core.NotifyCombatHit,
			fmt.Sprintf("%d/%d HP", o.after.HP, o.after.MaxHP))
	}
	return results
}

func (r *Resolver) respawnPig(dead core.Character) core.Character {
	pos := dead.Position.Add(core.Vec3{X: r.loot.PigRespawnOffset})
	pig := dead.Clone()
	pig.ID = r.deps.State.NewID()
	pig.Position = &pos
	pig.HP = dead.MaxHP
	pig.IsMoving = false
	pig.WanderTarget = nil
	pig.LastDamagedTime = time.Time{}
	return pig
}

func (r *Resolver) record(o outcome, dmg int, weapon string, from core.Vec3, now time.Time) {
	r.deps.Events.RecordHit(core.HitEvent{
		SessionID: r.session().ID,
		Time:      now,
		Tick:      r.deps.State.Tick(),
		VictimID:  o.before.ID,
		SourceID:  core.PlayerOwner,
		Weapon:    weapon,
		Damage:    dmg,
		Position:  *o.before.Position,
		Distance:  from.Dist(*o.before.Position),
	})
}

func (r *Resolver) session() core.Session {
	if r.deps.Session == nil {
		return core.Session{Difficulty: core.DifficultyNormal}
	}
	return r.deps.Session.Current()
}

// Package combat resolves player attacks: bow fire, melee swings, arrow
// impacts, and the kill rewards that follow.
package combat

import (
	"math"
	"strings"
	"time"

	"github.com/voxelrealm/simcore/internal/dice"
	"github.com/voxelrealm/simcore/internal/sink"
	"github.com/voxelrealm/simcore/internal/tuning"
	"github.com/voxelrealm/simcore/pkg/core"
)

// State is the slice of the world store the resolver reads and writes.
type State interface {
	Player() core.Player
	UpdatePlayer(fn func(p *core.Player))
	Characters() []core.Character
	UpdateCharacters(fn func(current []core.Character) []core.Character)
	Launch(p core.Projectile)
	SpawnItem(itemType string, count int, color string, pos core.Vec3, now time.Time) core.DroppedItem
	NewID() string
	Tick() uint64
}

// SessionSource reports the session the resolver is running in.
type SessionSource interface {
	Current() core.Session
}

// Camera is the player's view: where it is and where it looks.
type Camera struct {
	Position  core.Vec3
	Direction core.Vec3
}

// Dependencies holds all dependencies for the combat resolver. Only State is
// required; nil outputs are replaced with no-ops.
type Dependencies struct {
	State    State
	Session  SessionSource
	Notifier sink.Notifier
	Sounds   sink.Sounds
	Progress sink.Progress
	Events   sink.Events
	Rand     dice.Source
	Clock    func() time.Time
}

// Resolver applies player attacks and projectile hits to characters and
// hands out the kill rewards.
type Resolver struct {
	combat tuning.Combat
	loot   tuning.Loot
	deps   Dependencies
}

// NewResolver creates a Resolver from the combat and loot tuning.
func NewResolver(t tuning.Tuning, deps Dependencies) *Resolver {
	if deps.Notifier == nil {
		deps.Notifier = sink.Nop{}
	}
	if deps.Sounds == nil {
		deps.Sounds = sink.Nop{}
	}
	if deps.Progress == nil {
		deps.Progress = sink.Nop{}
	}
	if deps.Events == nil {
		deps.Events = sink.Nop{}
	}
	if deps.Rand == nil {
		deps.Rand = dice.New(0)
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	return &Resolver{combat: t.Combat, loot: t.Loot, deps: deps}
}

// HandleAttack performs the attack bound to the given inventory slot and
// reports whether anything happened.
func (r *Resolver) HandleAttack(cam Camera, slot int) bool {
	r.deps.State.UpdatePlayer(func(p *core.Player) { p.ActiveSlot = slot })
	player := r.deps.State.Player()
	item, held := player.ActiveItem()

	if held && item.Type == core.ItemBow && player.CountOf(core.ItemArrow) >= 1 {
		r.fireBow(cam, player)
		return true
	}
	return r.swing(cam, player, item, held)
}

func (r *Resolver) fireBow(cam Camera, player core.Player) {
	now := r.deps.Clock()
	dir := cam.Direction.Normalize()
	if target, ok := r.bowTarget(player.Position, dir); ok {
		dir = target.Add(aimHeight).Sub(cam.Position).Normalize()
	}

	r.deps.State.Launch(core.Projectile{
		ID:        r.deps.State.NewID(),
		Position:  cam.Position,
		Velocity:  dir.Scale(r.combat.ArrowSpeed),
		Damage:    scaled(r.combat.BowDamage, player.Stats.AttackMultiplier),
		OwnerID:   core.PlayerOwner,
		Color:     arrowColor,
		CreatedAt: now,
	})
	r.deps.State.UpdatePlayer(consumeArrow)
	r.deps.Sounds.PlaySFX(core.SoundBowShoot, 1)
}

// consumeArrow takes one arrow from the first arrow stack, dropping the
// stack when it runs out.
func consumeArrow(p *core.Player) {
	for i, it := range p.Inventory {
		if it.Type != core.ItemArrow || it.Count <= 0 {
			continue
		}
		if it.Count > 1 {
			p.Inventory[i].Count--
			return
		}
		p.Inventory = append(p.Inventory[:i], p.Inventory[i+1:]...)
		if p.ActiveSlot > i {
			p.ActiveSlot--
		}
		return
	}
}

func (r *Resolver) swing(cam Camera, player core.Player, item core.InventoryItem, held bool) bool {
	r.deps.Sounds.PlaySFX(swingSound(item, held), 1)

	base := r.combat.UnarmedDamage
	if held && item.Type == core.ItemWeapon {
		base = r.combat.SwordDamage
	}
	dmg := scaled(base, player.Stats.AttackMultiplier)

	targets := r.meleeTargets(player.Position, cam.Direction.Normalize())
	if len(targets) == 0 {
		return false
	}
	weapon := "unarmed"
	if held {
		weapon = item.Type
	}
	r.apply(targets, dmg, weapon, player.Position)
	return true
}

func swingSound(item core.InventoryItem, held bool) string {
	if !held {
		return core.SoundPunch
	}
	switch {
	case item.Type == core.ItemWeapon:
		return core.SoundSwordSwing
	case strings.Contains(item.Type, core.ItemAxe), strings.Contains(item.Type, core.ItemPick):
		return core.SoundToolSwing
	default:
		return core.SoundPunch
	}
}

// scaled applies an attack multiplier and floors the result.
func scaled(base int, mult float64) int {
	return int(math.Floor(float64(base) * mult))
}

// Package director runs the simulation frame: throttled AI updates for every
// character, projectile integration every frame, and the side effects both
// produce.
package director

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/voxelrealm/simcore/internal/behavior"
	"github.com/voxelrealm/simcore/internal/combat"
	"github.com/voxelrealm/simcore/internal/dice"
	"github.com/voxelrealm/simcore/internal/projectile"
	"github.com/voxelrealm/simcore/internal/sink"
	"github.com/voxelrealm/simcore/internal/species"
	"github.com/voxelrealm/simcore/internal/terrain"
	"github.com/voxelrealm/simcore/internal/tuning"
	"github.com/voxelrealm/simcore/internal/world"
	"github.com/voxelrealm/simcore/pkg/core"
)

// PlayerHooks are the host callbacks for damage the player takes.
type PlayerHooks interface {
	Knockback(from core.Vec3, strength float64)
	ReduceHP(amount int) int
}

// SessionSource reports the current session.
type SessionSource interface {
	Current() core.Session
}

// Dependencies holds all dependencies for the director. Store, Spawner,
// Behavior and Projectiles are required.
type Dependencies struct {
	Store       *world.Store
	Spawner     *world.Spawner
	Behavior    *behavior.Dispatcher
	Projectiles *projectile.Integrator
	Combat      *combat.Resolver
	Player      PlayerHooks
	Session     SessionSource
	Blocks      terrain.Occupancy
	Heights     terrain.Heightmap
	Notifier    sink.Notifier
	Sounds      sink.Sounds
	Events      sink.Events
	Rand        dice.Source
	Logger      *slog.Logger
}

// Config controls frame pacing.
type Config struct {
	// AIInterval is the minimum wall-clock time between AI updates.
	AIInterval time.Duration
	Tuning     tuning.Tuning
}

// FrameStats summarizes what one Frame call did.
type FrameStats struct {
	AITick        bool
	Updated       int
	Spawned       int
	PlayerHits    int
	CharacterHits int
	Expired       int
}

// Director owns the frame loop state. Frame and Reset must run on the
// simulation goroutine.
type Director struct {
	cfg  Config
	deps Dependencies

	lastAI    time.Time
	lastFrame time.Time
	// lastCost is read off the simulation goroutine by status reporting.
	lastCost  atomic.Int64

	frames     metric.Int64Counter
	aiTicks    metric.Int64Counter
	spawned    metric.Int64Counter
	playerHits metric.Int64Counter
	aiDuration metric.Float64Histogram
}

// New creates a Director. Uses the global OTel meter for metrics (no-op if
// not configured).
func New(cfg Config, deps Dependencies) (*Director, error) {
	if deps.Player == nil {
		deps.Player = deps.Store
	}
	if deps.Notifier == nil {
		deps.Notifier = sink.Nop{}
	}
	if deps.Sounds == nil {
		deps.Sounds = sink.Nop{}
	}
	if deps.Events == nil {
		deps.Events = sink.Nop{}
	}
	if deps.Rand == nil {
		deps.Rand = dice.New(0)
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	d := &Director{cfg: cfg, deps: deps}
	m := meter()
	var err error

	if d.frames, err = m.Int64Counter("director.frames", metric.WithDescription("Frames simulated")); err != nil {
		return nil, fmt.Errorf("creating frames counter: %w", err)
	}
	if d.aiTicks, err = m.Int64Counter("director.ai.ticks", metric.WithDescription("Throttled AI updates run")); err != nil {
		return nil, fmt.Errorf("creating ai tick counter: %w", err)
	}
	if d.spawned, err = m.Int64Counter("director.characters.spawned", metric.WithDescription("Characters materialized from spawn requests")); err != nil {
		return nil, fmt.Errorf("creating spawn counter: %w", err)
	}
	if d.playerHits, err = m.Int64Counter("director.player.hits", metric.WithDescription("Hits landed on the player")); err != nil {
		return nil, fmt.Errorf("creating player hit counter: %w", err)
	}
	d.aiDuration, err = m.Float64Histogram(
		"director.ai.duration",
		metric.WithDescription("Time spent in one AI update"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating ai duration histogram: %w", err)
	}
	return d, nil
}

// Frame advances the simulation to now. AI runs only when the configured
// interval has passed since the last AI update; projectiles and item
// settling run on every frame.
func (d *Director) Frame(now time.Time) FrameStats {
	var stats FrameStats
	ctx := context.Background()

	var dt time.Duration
	if !d.lastFrame.IsZero() {
		dt = now.Sub(d.lastFrame)
	}
	d.lastFrame = now
	d.frames.Add(ctx, 1)

	if d.lastAI.IsZero() || now.Sub(d.lastAI) >= d.cfg.AIInterval {
		start := time.Now()
		stats.AITick = true
		stats.Updated, stats.Spawned = d.aiTick(now)
		d.lastAI = now
		cost := time.Since(start)
		d.lastCost.Store(int64(cost))
		d.deps.Store.AdvanceTick()
		d.aiTicks.Add(ctx, 1)
		d.aiDuration.Record(ctx, float64(cost.Microseconds())/1000)
	}

	res := d.deps.Projectiles.Step(projectile.StepInput{
		Projectiles: d.deps.Store.Projectiles(),
		Characters:  d.deps.Store.Characters(),
		Player:      d.deps.Store.Player(),
		Dt:          dt,
		Now:         now,
		Rand:        d.deps.Rand,
	})
	d.deps.Store.SetProjectiles(res.Projectiles)
	stats.Expired = res.Expired

	for _, hit := range res.PlayerHits {
		d.playerHit(hit, now)
		stats.PlayerHits++
	}
	for _, hit := range res.CharacterHits {
		if d.deps.Combat != nil && d.deps.Combat.ApplyProjectileHit(hit) {
			stats.CharacterHits++
		}
	}

	d.deps.Store.SettleItems(dt, d.deps.Heights)
	return stats
}

// LastTickDuration is the cost of the most recent AI update. Safe to call
// from any goroutine.
func (d *Director) LastTickDuration() time.Duration {
	return time.Duration(d.lastCost.Load())
}

// Reset forgets frame timing so the next Frame runs AI immediately.
func (d *Director) Reset() {
	d.lastAI = time.Time{}
	d.lastFrame = time.Time{}
}

func (d *Director) playerHit(hit projectile.PlayerHit, now time.Time) {
	d.playerHits.Add(context.Background(), 1, metric.WithAttributes(attribute.Bool("blocked", hit.Blocked)))
	player := d.deps.Store.Player()
	if !hit.Blocked {
		d.deps.Player.Knockback(hit.Projectile.Position, d.cfg.Tuning.Combat.Knockback)
		d.deps.Player.ReduceHP(hit.Damage)
	}
	d.deps.Events.RecordHit(core.HitEvent{
		SessionID: d.session().ID,
		Time:      now,
		Tick:      d.deps.Store.Tick(),
		VictimID:  core.PlayerOwner,
		SourceID:  hit.Projectile.OwnerID,
		Weapon:    "spell",
		Damage:    hit.Damage,
		Blocked:   hit.Blocked,
		Position:  player.Position,
	})
}

func (d *Director) session() core.Session {
	if d.deps.Session == nil {
		return core.Session{}
	}
	return d.deps.Session.Current()
}

// active reports whether the AI drives this character.
func active(c core.Character) bool {
	return c.IsEnemy || c.IsFriendly || species.IsAnimal(c.Kind)
}

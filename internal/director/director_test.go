package director

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxelrealm/simcore/internal/behavior"
	"github.com/voxelrealm/simcore/internal/combat"
	"github.com/voxelrealm/simcore/internal/dice"
	"github.com/voxelrealm/simcore/internal/projectile"
	"github.com/voxelrealm/simcore/internal/sink"
	"github.com/voxelrealm/simcore/internal/tuning"
	"github.com/voxelrealm/simcore/internal/world"
	"github.com/voxelrealm/simcore/pkg/core"
)

var t0 = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

type sounds struct {
	flat    []string
	spatial map[string]float64
}

func (s *sounds) PlaySFX(category string, _ float64) { s.flat = append(s.flat, category) }

func (s *sounds) PlaySpatialSFX(category string, distance float64) {
	if s.spatial == nil {
		s.spatial = make(map[string]float64)
	}
	s.spatial[category] = distance
}

type notes []string

func (n *notes) Notify(message, category, _ string) { *n = append(*n, category+": "+message) }

type fixture struct {
	store    *world.Store
	director *Director
	sounds   *sounds
	notes    *notes
	events   *sink.Recorder
	tally    *sink.Tally
}

func newFixture(t *testing.T, tune tuning.Tuning, rolls dice.Source) *fixture {
	t.Helper()
	store := world.NewStore(tune.World, core.Player{HP: 100, MaxHP: 100, Stats: core.DefaultPlayerStats()})
	f := &fixture{
		store:  store,
		sounds: &sounds{},
		notes:  &notes{},
		events: sink.NewRecorder(100),
		tally:  &sink.Tally{},
	}
	if rolls == nil {
		rolls = &dice.Sequence{Floats: []float64{0.9}, Ints: []int{1}}
	}
	clock := t0
	resolver := combat.NewResolver(tune, combat.Dependencies{
		State:    store,
		Notifier: f.notes,
		Sounds:   f.sounds,
		Progress: f.tally,
		Events:   f.events,
		Rand:     rolls,
		Clock:    func() time.Time { return clock },
	})
	d, err := New(Config{AIInterval: 50 * time.Millisecond, Tuning: tune}, Dependencies{
		Store:       store,
		Spawner:     world.NewSpawner(store, nil),
		Behavior:    behavior.NewDispatcher(tune.AI),
		Projectiles: projectile.NewIntegrator(tune.Projectiles, projectile.Dependencies{Notifier: f.notes, Sounds: f.sounds}),
		Combat:      resolver,
		Notifier:    f.notes,
		Sounds:      f.sounds,
		Events:      f.events,
		Rand:        rolls,
	})
	require.NoError(t, err)
	f.director = d
	return f
}

func TestFrame_ZombieClosesIn(t *testing.T) {
	f := newFixture(t, tuning.Default(), nil)
	f.store.AddCharacters(world.NewCharacter("z", core.KindZombie, core.Vec3{X: 5, Z: 5}))

	stats := f.director.Frame(t0)

	assert.True(t, stats.AITick)
	assert.Equal(t, 1, stats.Updated)
	z, ok := f.store.Character("z")
	require.True(t, ok)
	assert.Less(t, z.Position.Dist(core.Vec3{}), core.Vec3{X: 5, Z: 5}.Len())
	assert.True(t, z.IsMoving)
	assert.Equal(t, uint64(1), f.store.Tick())
}

func TestFrame_ThrottlesAI(t *testing.T) {
	f := newFixture(t, tuning.Default(), nil)
	f.store.AddCharacters(world.NewCharacter("z", core.KindZombie, core.Vec3{X: 10}))

	ticks := 0
	for _, ms := range []int{0, 16, 33, 49, 50, 66, 83, 99, 100} {
		if f.director.Frame(t0.Add(time.Duration(ms) * time.Millisecond)).AITick {
			ticks++
		}
	}

	assert.Equal(t, 3, ticks, "AI at 0, 50 and 100 ms")
	z, _ := f.store.Character("z")
	assert.InDelta(t, 10-3*0.125, z.Position.X, 1e-9)
}

func TestLastTickDuration_ConcurrentWithFrame(t *testing.T) {
	f := newFixture(t, tuning.Default(), nil)
	f.store.AddCharacters(world.NewCharacter("z", core.KindZombie, core.Vec3{X: 10}))

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
				assert.GreaterOrEqual(t, f.director.LastTickDuration(), time.Duration(0))
			}
		}
	}()

	for i := 0; i < 200; i++ {
		f.director.Frame(t0.Add(time.Duration(i) * 50 * time.Millisecond))
	}
	close(done)
	wg.Wait()

	assert.Equal(t, uint64(200), f.store.Tick())
	assert.GreaterOrEqual(t, f.director.LastTickDuration(), time.Duration(0))
}

func TestFrame_SkipsInertCharacters(t *testing.T) {
	f := newFixture(t, tuning.Default(), nil)
	unplaced := core.Character{ID: "ghost", Name: "Zombie", Kind: core.KindZombie, IsEnemy: true, HP: 20}
	prop := core.Character{ID: "statue", Name: "Statue", Position: &core.Vec3{X: 3}}
	f.store.AddCharacters(unplaced, prop)

	stats := f.director.Frame(t0)

	assert.Zero(t, stats.Updated)
	assert.Equal(t, []core.Character{unplaced, prop}, f.store.Characters())
}

func TestFrame_ProjectilesEveryFrame(t *testing.T) {
	f := newFixture(t, tuning.Default(), nil)
	f.store.Launch(core.Projectile{
		Position:  core.Vec3{X: 10, Y: 1},
		Velocity:  core.Vec3{X: -10},
		Damage:    10,
		OwnerID:   "sorc",
		CreatedAt: t0,
	})

	f.director.Frame(t0)
	f.director.Frame(t0.Add(20 * time.Millisecond))
	f.director.Frame(t0.Add(40 * time.Millisecond))

	ps := f.store.Projectiles()
	require.Len(t, ps, 1)
	assert.InDelta(t, 9.6, ps[0].Position.X, 1e-9)
}

func TestFrame_SpellHitsPlayer(t *testing.T) {
	f := newFixture(t, tuning.Default(), nil)
	f.store.UpdatePlayer(func(p *core.Player) { p.Stats.DefenseReduction = 0.5 })
	f.store.Launch(core.Projectile{
		Position:  core.Vec3{X: 1.2},
		Velocity:  core.Vec3{X: -10},
		Damage:    10,
		OwnerID:   "sorc",
		CreatedAt: t0,
	})

	f.director.Frame(t0)
	stats := f.director.Frame(t0.Add(50 * time.Millisecond))

	assert.Equal(t, 1, stats.PlayerHits)
	p := f.store.Player()
	assert.Equal(t, 95, p.HP)
	assert.NotEqual(t, core.Vec3{}, p.Position, "knocked back")
	assert.Empty(t, f.store.Projectiles())
	assert.Contains(t, *f.notes, "COMBAT_DAMAGE: Hit by projectile")

	_, hits := f.events.Drain()
	require.Len(t, hits, 1)
	assert.Equal(t, core.PlayerOwner, hits[0].VictimID)
	assert.Equal(t, 5, hits[0].Damage)
}

func TestFrame_PlayerArrowHitsCharacter(t *testing.T) {
	f := newFixture(t, tuning.Default(), nil)
	f.store.AddCharacters(world.NewCharacter("cow", core.KindCow, core.Vec3{Z: 10}))
	f.store.Launch(core.Projectile{
		Position:  core.Vec3{Z: 9.5},
		Velocity:  core.Vec3{Z: 30},
		Damage:    15,
		OwnerID:   core.PlayerOwner,
		CreatedAt: t0,
	})

	stats := f.director.Frame(t0)

	assert.Equal(t, 1, stats.CharacterHits)
	_, alive := f.store.Character("cow")
	assert.False(t, alive)
	assert.Empty(t, f.store.Projectiles())
	require.Len(t, f.store.DroppedItems(), 1)
	assert.Equal(t, core.ItemRawBeef, f.store.DroppedItems()[0].Type)
}

func TestFrame_SorcererSummonsWithinCap(t *testing.T) {
	tune := tuning.Default()
	tune.World.MaxCharacters = 2
	f := newFixture(t, tune, &dice.Sequence{Floats: []float64{0.5}, Ints: []int{5}})
	f.store.AddCharacters(world.NewCharacter("s", core.KindSorcerer, core.Vec3{X: 10}))

	stats := f.director.Frame(t0)

	assert.Equal(t, 1, stats.Spawned, "three requested, one fits")
	chars := f.store.Characters()
	require.Len(t, chars, 2)
	assert.True(t, chars[0].HasSummoned)
	assert.Equal(t, core.KindZombie, chars[1].Kind)
	assert.InDelta(t, 10, f.sounds.spatial[core.SoundSummon], 1e-9)
	assert.Contains(t, *f.notes, "SPAWN: 1 enemies summoned")
}

func TestFrame_SorcererCastsAfterSummon(t *testing.T) {
	f := newFixture(t, tuning.Default(), nil)
	s := world.NewCharacter("s", core.KindSorcerer, core.Vec3{X: 10})
	s.HasSummoned = true
	f.store.AddCharacters(s)

	f.director.Frame(t0)

	ps := f.store.Projectiles()
	require.Len(t, ps, 1)
	assert.Equal(t, "s", ps[0].OwnerID)
	assert.NotEmpty(t, ps[0].ID)
	assert.Contains(t, f.sounds.spatial, core.SoundSorcererSpell)
}

func TestFrame_ZombieMeleeStrike(t *testing.T) {
	f := newFixture(t, tuning.Default(), nil)
	f.store.AddCharacters(world.NewCharacter("z", core.KindZombie, core.Vec3{X: 1.5}))
	giant := world.NewCharacter("g", core.KindGiant, core.Vec3{X: -1.5})
	f.store.AddCharacters(giant)

	f.director.Frame(t0)
	assert.Equal(t, 100-5-15, f.store.Player().HP)

	// cooldown holds until 1500 ms have passed
	f.director.Frame(t0.Add(time.Second))
	assert.Equal(t, 80, f.store.Player().HP)
}

func TestFrame_ShieldBlocksMelee(t *testing.T) {
	f := newFixture(t, tuning.Default(), &dice.Sequence{Floats: []float64{0.1}})
	f.store.UpdatePlayer(func(p *core.Player) {
		p.Inventory = []core.InventoryItem{{Type: core.ItemShield, Count: 1}}
	})
	f.store.AddCharacters(world.NewCharacter("z", core.KindZombie, core.Vec3{X: 1.5}))

	f.director.Frame(t0)

	assert.Equal(t, 100, f.store.Player().HP)
	assert.Contains(t, f.sounds.flat, core.SoundShieldBlock)
}

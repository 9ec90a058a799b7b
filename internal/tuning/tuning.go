// Package tuning holds the gameplay constants. Defaults match the shipped
// game; a tuning.yaml file may override any subset of them.
package tuning

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Tuning struct {
	AI          AI          `yaml:"ai"`
	Combat      Combat      `yaml:"combat"`
	Projectiles Projectiles `yaml:"projectiles"`
	Loot        Loot        `yaml:"loot"`
	World       World       `yaml:"world"`
}

type AI struct {
	AggroRadius      float64   `yaml:"aggro_radius"`
	MeleeRange       float64   `yaml:"melee_range"`
	MinChaseDistance float64   `yaml:"min_chase_distance"`
	SpeedUnit        float64   `yaml:"speed_unit"`
	ChaseSpeed       float64   `yaml:"chase_speed"`
	GiantChaseSpeed  float64   `yaml:"giant_chase_speed"`
	WanderSpeed      float64   `yaml:"wander_speed"`
	WanderBox        []float64 `yaml:"wander_box"`
	ArriveRadius     float64   `yaml:"arrive_radius"`
	GravityStep      float64   `yaml:"gravity_step"`
	AttackCooldownMs int       `yaml:"attack_cooldown_ms"`

	SpellRange      float64 `yaml:"spell_range"`
	SpellCooldownMs int     `yaml:"spell_cooldown_ms"`
	SpellDamage     int     `yaml:"spell_damage"`
	SpellSpeed      float64 `yaml:"spell_speed"`
	SummonMin       int     `yaml:"summon_min"`
	SummonMax       int     `yaml:"summon_max"`

	FleeWindowMs   int     `yaml:"flee_window_ms"`
	IdleMoveChance float64 `yaml:"idle_move_chance"`
	IdleTurnChance float64 `yaml:"idle_turn_chance"`
	IdleMoveStep   float64 `yaml:"idle_move_step"`

	EnemyMeleeDamage int `yaml:"enemy_melee_damage"`
	GiantMeleeFactor int `yaml:"giant_melee_factor"`
}

type Combat struct {
	BowRange      float64 `yaml:"bow_range"`
	BowCone       float64 `yaml:"bow_cone"`
	BowDamage     int     `yaml:"bow_damage"`
	ArrowSpeed    float64 `yaml:"arrow_speed"`
	MeleeRange    float64 `yaml:"melee_range"`
	MeleeCone     float64 `yaml:"melee_cone"`
	SwordDamage   int     `yaml:"sword_damage"`
	UnarmedDamage int     `yaml:"unarmed_damage"`
	Knockback     float64 `yaml:"knockback"`
}

type Projectiles struct {
	HitRadius   float64 `yaml:"hit_radius"`
	BlockChance float64 `yaml:"block_chance"`
	LifetimeMs  int     `yaml:"lifetime_ms"`
	FloorY      float64 `yaml:"floor_y"`
}

type Loot struct {
	EnemyDropChance  float64 `yaml:"enemy_drop_chance"`
	GoldChance       float64 `yaml:"gold_chance"`
	ArmorChance      float64 `yaml:"armor_chance"`
	PigRespawnOffset float64 `yaml:"pig_respawn_offset"`
}

type World struct {
	MaxCharacters   int     `yaml:"max_characters"`
	MaxProjectiles  int     `yaml:"max_projectiles"`
	MaxDroppedItems int     `yaml:"max_dropped_items"`
	SpawnRingMin    float64 `yaml:"spawn_ring_min"`
	SpawnRingMax    float64 `yaml:"spawn_ring_max"`
	ItemGravity     float64 `yaml:"item_gravity"`
	ItemDamping     float64 `yaml:"item_damping"`
	ItemBounce      float64 `yaml:"item_bounce"`
}

// Default returns the shipped gameplay constants.
func Default() Tuning {
	return Tuning{
		AI: AI{
			AggroRadius:      15,
			MeleeRange:       2.0,
			MinChaseDistance: 1.2,
			SpeedUnit:        0.05,
			ChaseSpeed:       2.5,
			GiantChaseSpeed:  1.5,
			WanderSpeed:      0.05,
			WanderBox:        []float64{10, 5, 10},
			ArriveRadius:     1,
			GravityStep:      0.2,
			AttackCooldownMs: 1500,
			SpellRange:       15,
			SpellCooldownMs:  5000,
			SpellDamage:      10,
			SpellSpeed:       12,
			SummonMin:        1,
			SummonMax:        3,
			FleeWindowMs:     8000,
			IdleMoveChance:   0.005,
			IdleTurnChance:   0.01,
			IdleMoveStep:     0.5,
			EnemyMeleeDamage: 5,
			GiantMeleeFactor: 3,
		},
		Combat: Combat{
			BowRange:      15,
			BowCone:       0.5,
			BowDamage:     15,
			ArrowSpeed:    30,
			MeleeRange:    5,
			MeleeCone:     0.9,
			SwordDamage:   20,
			UnarmedDamage: 10,
			Knockback:     1,
		},
		Projectiles: Projectiles{
			HitRadius:   1.0,
			BlockChance: 0.2,
			LifetimeMs:  5000,
			FloorY:      -64,
		},
		Loot: Loot{
			EnemyDropChance:  0.5,
			GoldChance:       0.2,
			ArmorChance:      0.3,
			PigRespawnOffset: 2,
		},
		World: World{
			MaxCharacters:   60,
			MaxProjectiles:  200,
			MaxDroppedItems: 300,
			SpawnRingMin:    12,
			SpawnRingMax:    24,
			ItemGravity:     9.8,
			ItemDamping:     0.5,
			ItemBounce:      3,
		},
	}
}

// Load overlays the YAML file at path onto Default.
func Load(path string) (Tuning, error) {
	t := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	if len(t.AI.WanderBox) != 3 {
		return t, fmt.Errorf("tuning.yaml: ai.wander_box needs 3 values, got %d", len(t.AI.WanderBox))
	}
	return t, nil
}

func (a AI) AttackCooldown() time.Duration { return ms(a.AttackCooldownMs) }

func (a AI) SpellCooldown() time.Duration { return ms(a.SpellCooldownMs) }

func (a AI) FleeWindow() time.Duration { return ms(a.FleeWindowMs) }

func (p Projectiles) Lifetime() time.Duration { return ms(p.LifetimeMs) }

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

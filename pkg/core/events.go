// pkg/core/events.go
package core

import "time"

// Sound categories emitted by the simulation.
const (
	SoundZombieAttack  = "ZOMBIE_ATTACK"
	SoundSummon        = "SUMMON"
	SoundSorcererSpell = "SORCERER_SPELL"
	SoundShieldBlock   = "SHIELD_BLOCK"
	SoundBowShoot      = "BOW_SHOOT"
	SoundSwordSwing    = "SWORD_SWING"
	SoundToolSwing     = "TOOL_SWING"
	SoundPunch         = "PUNCH"
	SoundZombieHit     = "ZOMBIE_HIT"
	SoundHit           = "HIT"
	SoundKill          = "KILL"
	SoundPlayerHurt    = "PLAYER_HURT"
)

// Notification categories.
const (
	NotifyCombatBlock  = "COMBAT_BLOCK"
	NotifyCombatDamage = "COMBAT_DAMAGE"
	NotifyCombatHit    = "COMBAT_HIT"
	NotifyCombatKill   = "COMBAT_KILL"
	NotifySpawn        = "SPAWN"
	NotifySystem       = "SYSTEM"
)

// SoundEvent asks the host to play a sound, attenuated by distance when
// Position is set.
type SoundEvent struct {
	Category string
	Position *Vec3
}

// SpawnRequest asks the orchestrator to materialize Count characters of Kind
// around Near. Behaviors emit these instead of spawning directly.
type SpawnRequest struct {
	Kind  Kind
	Count int
	Near  Vec3
}

// Drop is one line of a kill's loot.
type Drop struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// KillEvent records a character killed by the player.
type KillEvent struct {
	SessionID  string
	Time       time.Time
	Tick       uint64
	VictimID   string
	VictimName string
	VictimKind Kind
	Weapon     string
	Position   Vec3
	XP         int
	Gold       int
	Drops      []Drop
	Respawned  bool
}

// HitEvent records damage dealt to a character or to the player. VictimID
// is PlayerOwner when the player was hit.
type HitEvent struct {
	SessionID string
	Time      time.Time
	Tick      uint64
	VictimID  string
	SourceID  string
	Weapon    string
	Damage    int
	Blocked   bool
	Position  Vec3
	Distance  float64
}

// TickStats is a periodic sample of the simulation load.
type TickStats struct {
	SessionID        string
	Time             time.Time
	Tick             uint64
	Characters       int
	Enemies          int
	Projectiles      int
	DroppedItems     int
	LastTickDuration time.Duration
	PlayerHP         int
}

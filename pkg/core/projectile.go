// pkg/core/projectile.go
package core

import "time"

// PlayerOwner is the OwnerID of projectiles fired by the player.
const PlayerOwner = "player"

// Projectile is a simulated arrow or spell bolt. Player-owned projectiles can
// only damage characters; character-owned projectiles can only damage the player.
type Projectile struct {
	ID        string    `json:"id"`
	Position  Vec3      `json:"position"`
	Velocity  Vec3      `json:"velocity"`
	Damage    int       `json:"damage"`
	OwnerID   string    `json:"ownerId"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"createdAt"`
}

// FromPlayer reports whether the player fired the projectile.
func (p Projectile) FromPlayer() bool { return p.OwnerID == PlayerOwner }

// Age returns how long the projectile has been in flight at now.
func (p Projectile) Age(now time.Time) time.Duration { return now.Sub(p.CreatedAt) }

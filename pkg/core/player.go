// pkg/core/player.go
package core

import "strings"

// PlayerStats scale player damage output and intake.
type PlayerStats struct {
	AttackMultiplier float64 `json:"attackMultiplier"`
	SpeedMultiplier  float64 `json:"speedMultiplier"`
	DefenseReduction float64 `json:"defenseReduction"`
}

// DefaultPlayerStats is the unbuffed player.
func DefaultPlayerStats() PlayerStats {
	return PlayerStats{AttackMultiplier: 1, SpeedMultiplier: 1}
}

// Player is the single human-controlled actor.
type Player struct {
	Position   Vec3            `json:"position"`
	HP         int             `json:"hp"`
	MaxHP      int             `json:"maxHp"`
	Inventory  []InventoryItem `json:"inventory"`
	ActiveSlot int             `json:"activeSlot"`
	Stats      PlayerStats     `json:"stats"`
}

// ActiveItem returns the item in the active slot, if any.
func (p Player) ActiveItem() (InventoryItem, bool) {
	if p.ActiveSlot < 0 || p.ActiveSlot >= len(p.Inventory) {
		return InventoryItem{}, false
	}
	item := p.Inventory[p.ActiveSlot]
	if item.Type == "" || item.Count <= 0 {
		return InventoryItem{}, false
	}
	return item, true
}

// HoldingShield reports whether the active slot holds a shield-class item.
func (p Player) HoldingShield() bool {
	item, ok := p.ActiveItem()
	return ok && strings.Contains(strings.ToLower(item.Type), ItemShield)
}

// CountOf sums the stacks of the given item type.
func (p Player) CountOf(itemType string) int {
	n := 0
	for _, it := range p.Inventory {
		if it.Type == itemType {
			n += it.Count
		}
	}
	return n
}

// pkg/core/items.go
package core

import "time"

// Item type names the core gives meaning to.
const (
	ItemBow    = "bow"
	ItemArrow  = "arrow"
	ItemShield = "shield"
	ItemWeapon = "weapon"
	ItemAxe    = "axe"
	ItemPick   = "pick"
	ItemGold   = "gold"
	ItemArmor  = "armor"
	ItemBone   = "bone"
	ItemWool   = "wool"
	ItemMeat   = "meat"
	ItemApple  = "apple"
	ItemWood   = "wood"
	ItemStone  = "stone"

	ItemRawChicken  = "raw_chicken"
	ItemRawBeef     = "raw_beef"
	ItemRawPorkchop = "raw_porkchop"
	ItemRawMutton   = "raw_mutton"
	ItemRawFish     = "raw_fish"
)

// InventoryItem is one slot of the flat player inventory.
type InventoryItem struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
	Color string `json:"color"`
}

// DroppedItem is a lootable object lying in the world. Velocity only drives
// the bounce-and-settle animation.
type DroppedItem struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Count     int       `json:"count"`
	Color     string    `json:"color"`
	Position  Vec3      `json:"position"`
	Velocity  Vec3      `json:"velocity"`
	CreatedAt time.Time `json:"createdAt"`
}

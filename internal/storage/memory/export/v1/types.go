// Package v1 contains the v1 session export format: a single JSON document
// summarising one play session.
package v1

import "time"

// FormatVersion is written into every v1 export.
const FormatVersion = 1

// Export is the root JSON structure for v1 format
type Export struct {
	FormatVersion int            `json:"formatVersion"`
	SimVersion    string         `json:"simVersion"`
	SessionID     string         `json:"sessionId"`
	WorldName     string         `json:"worldName"`
	Difficulty    string         `json:"difficulty"`
	Seed          int64          `json:"seed"`
	StartTime     time.Time      `json:"startTime"`
	EndTime       time.Time      `json:"endTime"`
	EndTick       uint64         `json:"endTick"`
	Totals        Totals         `json:"totals"`
	KillsByKind   map[string]int `json:"killsByKind"`
	Times         []Sample       `json:"times"`
	// Events holds positional tuples ordered by tick:
	//   [tick, "killed", victimName, weapon, [x,y,z], xp, gold]
	//   [tick, "hit", victimId, [sourceId, weapon], damage, distance, blocked]
	Events [][]any `json:"events"`
}

// Totals aggregates the session's combat record.
type Totals struct {
	Kills       int `json:"kills"`
	XP          int `json:"xp"`
	Gold        int `json:"gold"`
	Hits        int `json:"hits"`
	DamageDealt int `json:"damageDealt"`
	DamageTaken int `json:"damageTaken"`
	Blocked     int `json:"blocked"`
}

// Sample is one monitor reading.
type Sample struct {
	Tick         uint64  `json:"tick"`
	Time         string  `json:"time"`
	Characters   int     `json:"characters"`
	Enemies      int     `json:"enemies"`
	Projectiles  int     `json:"projectiles"`
	DroppedItems int     `json:"droppedItems"`
	PlayerHP     int     `json:"playerHp"`
	TickMs       float64 `json:"tickMs"`
}

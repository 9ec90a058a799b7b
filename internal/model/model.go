// Package model holds the GORM table definitions for the relational
// backends.
package model

import (
	"database/sql"
	"errors"
	"time"

	geom "github.com/peterstace/simplefeatures/geom"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DatabaseModels is every table in the schema, in migration order.
var DatabaseModels = []any{
	&Session{},
	&KillEvent{},
	&HitEvent{},
	&TickStat{},
	&WorldSave{},
}

////////////////////////
// SESSION MODELS
////////////////////////

// Session is one run of a world.
type Session struct {
	ID         string       `json:"id" gorm:"primaryKey;size:36"`
	CreatedAt  time.Time    `json:"createdAt"`
	UpdatedAt  time.Time    `json:"updatedAt"`
	WorldName  string       `json:"worldName" gorm:"size:127;index:idx_session_world"`
	Seed       int64        `json:"seed"`
	Difficulty string       `json:"difficulty" gorm:"size:32"`
	Version    string       `json:"version" gorm:"size:32"`
	StartTime  time.Time    `json:"startTime" gorm:"index:idx_session_start"`
	EndTime    sql.NullTime `json:"endTime"`
}

func (*Session) TableName() string {
	return "sessions"
}

// GetOrInsert loads the session with s.ID, creating it when absent. A
// reloaded world resumes its existing row.
func (s *Session) GetOrInsert(db *gorm.DB) (created bool, err error) {
	var existing Session
	err = db.Where("id = ?", s.ID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return true, db.Create(s).Error
	}
	if err != nil {
		return false, err
	}
	*s = existing
	return false, nil
}

////////////////////////
// COMBAT MODELS
////////////////////////

// KillEvent is a character killed by the player.
type KillEvent struct {
	ID         uint           `json:"id" gorm:"primarykey;autoIncrement;"`
	Time       time.Time      `json:"time"`
	SessionID  string         `json:"sessionId" gorm:"size:36;index:idx_killevent_session_id"`
	Session    Session        `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:SessionID;"`
	Tick       uint64         `json:"tick" gorm:"index:idx_killevent_tick"`
	VictimID   string         `json:"victimId" gorm:"size:36"`
	VictimName string         `json:"victimName" gorm:"size:64"`
	VictimKind string         `json:"victimKind" gorm:"size:32;index:idx_killevent_kind"`
	Weapon     string         `json:"weapon" gorm:"size:32"`
	Position   geom.Point     `json:"position"`
	XP         int            `json:"xp"`
	Gold       int            `json:"gold"`
	Drops      datatypes.JSON `json:"drops"`
	Respawned  bool           `json:"respawned"`
}

func (*KillEvent) TableName() string {
	return "kill_events"
}

// HitEvent is damage dealt to a character or to the player.
type HitEvent struct {
	ID        uint       `json:"id" gorm:"primarykey;autoIncrement;"`
	Time      time.Time  `json:"time"`
	SessionID string     `json:"sessionId" gorm:"size:36;index:idx_hitevent_session_id"`
	Session   Session    `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:SessionID;"`
	Tick      uint64     `json:"tick" gorm:"index:idx_hitevent_tick"`
	VictimID  string     `json:"victimId" gorm:"size:36"`
	SourceID  string     `json:"sourceId" gorm:"size:36"`
	Weapon    string     `json:"weapon" gorm:"size:32"`
	Damage    int        `json:"damage"`
	Blocked   bool       `json:"blocked"`
	Position  geom.Point `json:"position"`
	Distance  float32    `json:"distance"`
}

func (*HitEvent) TableName() string {
	return "hit_events"
}

////////////////////////
// PERFORMANCE MODELS
////////////////////////

// TickStat is a periodic sample of the simulation load.
type TickStat struct {
	ID               uint      `json:"id" gorm:"primarykey;autoIncrement;"`
	Time             time.Time `json:"time" gorm:"index:idx_tickstat_time"`
	SessionID        string    `json:"sessionId" gorm:"size:36;index:idx_tickstat_session_id"`
	Session          Session   `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:SessionID;"`
	Tick             uint64    `json:"tick"`
	Characters       int       `json:"characters"`
	Enemies          int       `json:"enemies"`
	Projectiles      int       `json:"projectiles"`
	DroppedItems     int       `json:"droppedItems"`
	PlayerHP         int       `json:"playerHp"`
	LastTickDuration float32   `json:"lastTickDurationMs"`
}

func (*TickStat) TableName() string {
	return "tick_stats"
}

////////////////////////
// SAVE MODELS
////////////////////////

// WorldSave is a full save state stored as JSON.
type WorldSave struct {
	ID        uint           `json:"id" gorm:"primarykey;autoIncrement;"`
	SessionID string         `json:"sessionId" gorm:"size:36;index:idx_worldsave_session_id"`
	Session   Session        `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:SessionID;"`
	WorldName string         `json:"worldName" gorm:"size:127"`
	Version   int            `json:"version"`
	Tick      uint64         `json:"tick"`
	SavedAt   time.Time      `json:"savedAt" gorm:"index:idx_worldsave_saved_at"`
	State     datatypes.JSON `json:"state"`
}

func (*WorldSave) TableName() string {
	return "world_saves"
}

// Package sink defines the fire-and-forget outputs of the simulation:
// player notifications, sounds, and progression counters. Hosts inject
// implementations at construction; the simulation never reaches for globals.
package sink

import "github.com/voxelrealm/simcore/pkg/core"

type Notifier interface {
	Notify(message, category, sub string)
}

type Sounds interface {
	PlaySFX(category string, volume float64)
	PlaySpatialSFX(category string, distance float64)
}

// Progress receives quest, XP and gold increments.
type Progress interface {
	QuestUpdate(questType string, amount int)
	XPGain(amount int)
	GoldGain(amount int)
}

// Events receives the combat records worth persisting.
type Events interface {
	RecordKill(ev core.KillEvent)
	RecordHit(ev core.HitEvent)
}

// Nop discards everything. It satisfies every sink interface.
type Nop struct{}

func (Nop) Notify(string, string, string)  {}
func (Nop) PlaySFX(string, float64)        {}
func (Nop) PlaySpatialSFX(string, float64) {}
func (Nop) QuestUpdate(string, int)        {}
func (Nop) XPGain(int)                     {}
func (Nop) GoldGain(int)                   {}
func (Nop) RecordKill(core.KillEvent)      {}
func (Nop) RecordHit(core.HitEvent)        {}

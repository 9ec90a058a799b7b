package sink

import (
	"log/slog"
	"sync"
	"sync/atomic"
)

// Log writes notifications and sounds to a structured logger. The headless
// host uses it in place of a UI and audio engine.
type Log struct {
	Logger *slog.Logger
}

func (l Log) Notify(message, category, sub string) {
	l.Logger.Info(message, "category", category, "sub", sub)
}

func (l Log) PlaySFX(category string, volume float64) {
	l.Logger.Debug("sfx", "category", category, "volume", volume)
}

func (l Log) PlaySpatialSFX(category string, distance float64) {
	l.Logger.Debug("sfx", "category", category, "distance", distance)
}

// Tally accumulates progression counters.
type Tally struct {
	Logger *slog.Logger

	xp     atomic.Int64
	gold   atomic.Int64
	quests sync.Map // quest type -> *atomic.Int64
}

func (t *Tally) QuestUpdate(questType string, amount int) {
	v, _ := t.quests.LoadOrStore(questType, new(atomic.Int64))
	n := v.(*atomic.Int64).Add(int64(amount))
	if t.Logger != nil {
		t.Logger.Debug("quest progress", "type", questType, "total", n)
	}
}

func (t *Tally) XPGain(amount int) { t.xp.Add(int64(amount)) }

func (t *Tally) GoldGain(amount int) { t.gold.Add(int64(amount)) }

func (t *Tally) XP() int { return int(t.xp.Load()) }

func (t *Tally) Gold() int { return int(t.gold.Load()) }

// Quest returns the progress for one quest type.
func (t *Tally) Quest(questType string) int {
	v, ok := t.quests.Load(questType)
	if !ok {
		return 0
	}
	return int(v.(*atomic.Int64).Load())
}

// Reset zeroes every counter.
func (t *Tally) Reset() {
	t.xp.Store(0)
	t.gold.Store(0)
	t.quests.Clear()
}

package sink

import (
	"github.com/voxelrealm/simcore/internal/queue"
	"github.com/voxelrealm/simcore/pkg/core"
)

// Recorder buffers combat events from the simulation goroutine until a
// background flush hands them to storage. Recording never blocks a tick.
type Recorder struct {
	kills *queue.Queue[core.KillEvent]
	hits  *queue.Queue[core.HitEvent]
}

// NewRecorder bounds each buffer at limit events; the oldest are dropped
// if storage falls behind.
func NewRecorder(limit int) *Recorder {
	return &Recorder{
		kills: queue.NewBounded[core.KillEvent](limit),
		hits:  queue.NewBounded[core.HitEvent](limit),
	}
}

func (r *Recorder) RecordKill(ev core.KillEvent) { r.kills.Push(ev) }

func (r *Recorder) RecordHit(ev core.HitEvent) { r.hits.Push(ev) }

// Drain returns everything recorded since the last drain.
func (r *Recorder) Drain() ([]core.KillEvent, []core.HitEvent) {
	return r.kills.GetAndEmpty(), r.hits.GetAndEmpty()
}

// Dropped reports events lost to the buffer bound.
func (r *Recorder) Dropped() uint64 {
	return r.kills.Dropped() + r.hits.Dropped()
}

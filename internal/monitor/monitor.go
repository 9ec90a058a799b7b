package monitor

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/voxelrealm/simcore/internal/logging"
	"github.com/voxelrealm/simcore/internal/session"
	"github.com/voxelrealm/simcore/internal/species"
	"github.com/voxelrealm/simcore/internal/storage"
	"github.com/voxelrealm/simcore/internal/world"
	"github.com/voxelrealm/simcore/pkg/core"
	"github.com/voxelrealm/simcore/pkg/streaming"
)

// TickTimer reports how long the last simulation frame took.
type TickTimer interface {
	LastTickDuration() time.Duration
}

// PointWriter receives samples for the time series database.
type PointWriter interface {
	WriteTickStats(s core.TickStats) error
}

// Dependencies holds all dependencies for the monitor service
type Dependencies struct {
	Store      *world.Store
	Session    *session.Context
	Timer      TickTimer
	Backend    storage.Backend
	Influx     PointWriter
	LogManager *logging.SlogManager
	// StatusPath, when set, is rewritten with the latest sample as JSON.
	StatusPath string
}

// Status is the JSON document written to StatusPath.
type Status struct {
	Stats             core.TickStats `json:"stats"`
	LastTickMs        float64        `json:"lastTickMs"`
	LastWriteDuration float64        `json:"lastWriteMs"`
	// Stream is present only for backends that stream remotely.
	Stream *streaming.Stats `json:"stream,omitempty"`
}

// Service samples the world load on each Report.
type Service struct {
	deps Dependencies
}

// NewService creates a new monitor service
func NewService(deps Dependencies) *Service {
	return &Service{deps: deps}
}

// Sample counts the live world without changing it.
func (s *Service) Sample(now time.Time) core.TickStats {
	chars := s.deps.Store.Characters()
	enemies := 0
	for _, c := range chars {
		if !species.IsAnimal(c.Kind) {
			enemies++
		}
	}

	stats := core.TickStats{
		SessionID:    s.deps.Session.Current().ID,
		Time:         now,
		Tick:         s.deps.Store.Tick(),
		Characters:   len(chars),
		Enemies:      enemies,
		Projectiles:  len(s.deps.Store.Projectiles()),
		DroppedItems: len(s.deps.Store.DroppedItems()),
		PlayerHP:     s.deps.Store.Player().HP,
	}
	if s.deps.Timer != nil {
		stats.LastTickDuration = s.deps.Timer.LastTickDuration()
	}
	return stats
}

// Report samples the world and fans the result out to the log, the backend,
// InfluxDB and the status file. Sink failures are logged, never returned.
func (s *Service) Report(now time.Time) core.TickStats {
	stats := s.Sample(now)
	logger := s.deps.LogManager.Logger()

	logger.Debug("Tick stats",
		"tick", stats.Tick,
		"characters", stats.Characters,
		"enemies", stats.Enemies,
		"projectiles", stats.Projectiles,
		"items", stats.DroppedItems,
		"tickCost", stats.LastTickDuration,
	)

	if s.deps.Backend != nil && s.deps.Session.Started() {
		if err := s.deps.Backend.RecordTickStats(&stats); err != nil {
			logger.Error("Error writing tick stats to storage", "error", err)
		}
	}
	if s.deps.Influx != nil {
		if err := s.deps.Influx.WriteTickStats(stats); err != nil {
			logger.Error("Error writing tick stats to InfluxDB", "error", err)
		}
	}
	if s.deps.StatusPath != "" {
		if err := s.writeStatus(stats); err != nil {
			logger.Error("Error writing status file", "error", err)
		}
	}
	return stats
}

func (s *Service) writeStatus(stats core.TickStats) error {
	st := Status{
		Stats:      stats,
		LastTickMs: float64(stats.LastTickDuration) / float64(time.Millisecond),
	}
	if p, ok := s.deps.Backend.(storage.WriteDurationProvider); ok {
		st.LastWriteDuration = float64(p.LastWriteDuration()) / float64(time.Millisecond)
	}
	if p, ok := s.deps.Backend.(storage.StreamStatsProvider); ok {
		stream := p.StreamStats()
		st.Stream = &stream
	}

	body, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode status: %w", err)
	}
	tmp := s.deps.StatusPath + ".tmp"
	if err := os.WriteFile(tmp, body, 0644); err != nil {
		return fmt.Errorf("failed to write status: %w", err)
	}
	return os.Rename(tmp, s.deps.StatusPath)
}

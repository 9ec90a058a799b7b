package influx

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	influxdb2_api "github.com/influxdata/influxdb-client-go/v2/api"
	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/influxdata/influxdb-client-go/v2/domain"
	"github.com/rs/zerolog"

	"github.com/voxelrealm/simcore/internal/config"
	"github.com/voxelrealm/simcore/pkg/core"
)

// MeasurementTickStats is the measurement written for each monitor sample.
const MeasurementTickStats = "tick_stats"

// ErrDisabled is returned by Connect when influx is switched off.
var ErrDisabled = errors.New("influx disabled in config")

// Manager handles InfluxDB connections and writes. When the server cannot
// be reached points go to a gzip line-protocol backup file instead.
type Manager struct {
	Client       influxdb2.Client
	Writer       influxdb2_api.WriteAPI
	BackupWriter *gzip.Writer
	IsValid      bool
	Config       config.InfluxConfig
	Logger       zerolog.Logger
	BackupPath   string

	mu         sync.Mutex
	backupFile *os.File
}

// NewManager creates a new InfluxDB manager.
func NewManager(cfg config.InfluxConfig, log zerolog.Logger, backupPath string) *Manager {
	return &Manager{
		Config:     cfg,
		Logger:     log,
		BackupPath: backupPath,
	}
}

// Connect establishes a connection to InfluxDB, falling back to the backup
// file when the ping fails.
func (m *Manager) Connect(ctx context.Context) error {
	if !m.Config.Enabled {
		return ErrDisabled
	}

	m.Client = influxdb2.NewClientWithOptions(
		fmt.Sprintf("%s://%s:%s", m.Config.Protocol, m.Config.Host, m.Config.Port),
		m.Config.Token,
		influxdb2.DefaultOptions().
			SetBatchSize(500).
			SetFlushInterval(1000),
	)

	running, err := m.Client.Ping(ctx)
	if err != nil || !running {
		m.IsValid = false
		m.Logger.Info().Str("backupPath", m.BackupPath).
			Msg("Failed to reach InfluxDB, writing to backup file")
		return m.openBackup()
	}

	if err := m.setupOrganizationAndBucket(ctx); err != nil {
		return err
	}
	m.createWriter()
	m.IsValid = true
	m.Logger.Info().Str("bucket", m.Config.Bucket).Msg("InfluxDB client initialized")
	return nil
}

func (m *Manager) openBackup() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.BackupWriter != nil {
		return nil
	}
	file, err := os.OpenFile(m.BackupPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("error creating backup file: %w", err)
	}
	m.backupFile = file
	m.BackupWriter = gzip.NewWriter(file)
	return nil
}

func (m *Manager) setupOrganizationAndBucket(ctx context.Context) error {
	orgs := m.Client.OrganizationsAPI()
	org, err := orgs.FindOrganizationByName(ctx, m.Config.Org)
	if err != nil {
		m.Logger.Info().Str("org", m.Config.Org).Msg("Organization not found, creating")
		org, err = orgs.CreateOrganizationWithName(ctx, m.Config.Org)
		if err != nil {
			m.Logger.Error().Err(err).Str("org", m.Config.Org).Msg("Error creating organization")
			return err
		}
	}

	if _, err := m.Client.BucketsAPI().FindBucketByName(ctx, m.Config.Bucket); err == nil {
		return nil
	}
	m.Logger.Info().Str("bucket", m.Config.Bucket).Msg("Bucket not found, creating")

	rule := domain.RetentionRuleTypeExpire
	_, err = m.Client.BucketsAPI().CreateBucketWithName(ctx, org, m.Config.Bucket, domain.RetentionRule{
		Type:         &rule,
		EverySeconds: 60 * 60 * 24 * 30, // 30 days
	})
	if err != nil {
		m.Logger.Error().Err(err).Str("bucket", m.Config.Bucket).Msg("Error creating bucket")
		return err
	}
	return nil
}

func (m *Manager) createWriter() {
	m.Writer = m.Client.WriteAPI(m.Config.Org, m.Config.Bucket)
	go func(errorsCh <-chan error) {
		for writeErr := range errorsCh {
			m.Logger.Error().Err(writeErr).Str("bucket", m.Config.Bucket).
				Msg("Error sending data to InfluxDB")
		}
	}(m.Writer.Errors())
}

// WritePoint writes a point to InfluxDB or the backup file.
func (m *Manager) WritePoint(point *influxdb2_write.Point) error {
	if m.IsValid {
		m.Writer.WritePoint(point)
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.BackupWriter == nil {
		return errors.New("influx client not initialized and backup writer not available")
	}
	line := influxdb2_write.PointToLineProtocol(point, time.Nanosecond)
	if _, err := m.BackupWriter.Write([]byte(line)); err != nil {
		return fmt.Errorf("error writing to influx backup file: %w", err)
	}
	return nil
}

// WriteTickStats writes one monitor sample.
func (m *Manager) WriteTickStats(s core.TickStats) error {
	return m.WritePoint(TickStatsPoint(s))
}

// Close flushes pending points and closes the client or backup file.
func (m *Manager) Close() error {
	if m.Writer != nil {
		m.Writer.Flush()
	}
	if m.Client != nil {
		m.Client.Close()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.BackupWriter == nil {
		return nil
	}
	err := m.BackupWriter.Close()
	if m.backupFile != nil {
		if cerr := m.backupFile.Close(); err == nil {
			err = cerr
		}
	}
	m.BackupWriter = nil
	m.backupFile = nil
	return err
}

// TickStatsPoint converts a monitor sample to a point tagged by session.
func TickStatsPoint(s core.TickStats) *influxdb2_write.Point {
	return influxdb2.NewPoint(
		MeasurementTickStats,
		map[string]string{"session": s.SessionID},
		map[string]any{
			"tick":          int64(s.Tick),
			"characters":    s.Characters,
			"enemies":       s.Enemies,
			"projectiles":   s.Projectiles,
			"dropped_items": s.DroppedItems,
			"tick_ms":       float64(s.LastTickDuration) / float64(time.Millisecond),
			"player_hp":     s.PlayerHP,
		},
		s.Time,
	)
}

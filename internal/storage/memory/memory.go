// Package memory keeps session records in memory, writes world saves as
// snapshot files and exports a JSON summary when the session ends.
package memory

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/voxelrealm/simcore/internal/config"
	"github.com/voxelrealm/simcore/internal/persistence/snapshot"
	"github.com/voxelrealm/simcore/internal/storage"
	"github.com/voxelrealm/simcore/pkg/core"
)

// Backend stores session data in memory and exports to JSON
type Backend struct {
	cfg     config.MemoryConfig
	session *core.Session
	now     func() time.Time

	kills []core.KillEvent
	hits  []core.HitEvent
	stats []core.TickStats

	lastExportPath string
	lastExportMeta core.ExportMetadata
	mu             sync.RWMutex
}

// New creates a new memory backend
func New(cfg config.MemoryConfig) *Backend {
	return &Backend{cfg: cfg, now: time.Now}
}

func (b *Backend) Init() error {
	return os.MkdirAll(b.cfg.OutputDir, 0o755)
}

func (b *Backend) Close() error {
	return nil
}

// StartSession begins recording a new session and clears prior records.
func (b *Backend) StartSession(s *core.Session) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	cp := *s
	b.session = &cp
	b.kills = nil
	b.hits = nil
	b.stats = nil
	return nil
}

// EndSession writes the session export. Ending without a started session is
// a no-op.
func (b *Backend) EndSession() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.session == nil {
		return nil
	}
	if err := b.exportJSON(); err != nil {
		return err
	}
	b.session = nil
	return nil
}

func (b *Backend) RecordKillEvent(e *core.KillEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.kills = append(b.kills, *e)
	return nil
}

func (b *Backend) RecordHitEvent(e *core.HitEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.hits = append(b.hits, *e)
	return nil
}

func (b *Backend) RecordTickStats(s *core.TickStats) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stats = append(b.stats, *s)
	return nil
}

// Kills returns a copy of the recorded kills.
func (b *Backend) Kills() []core.KillEvent {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]core.KillEvent(nil), b.kills...)
}

// Hits returns a copy of the recorded hits.
func (b *Backend) Hits() []core.HitEvent {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]core.HitEvent(nil), b.hits...)
}

// Stats returns a copy of the recorded tick samples.
func (b *Backend) Stats() []core.TickStats {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]core.TickStats(nil), b.stats...)
}

// SavePath is where saves of the given session land. Each session keeps a
// single save that autosaves overwrite.
func (b *Backend) SavePath(worldName, sessionID string) string {
	return filepath.Join(b.cfg.OutputDir, fmt.Sprintf("%s_%s%s", safeName(worldName), sessionID, snapshot.Ext))
}

func (b *Backend) SaveWorld(st *core.SaveState) error {
	if err := snapshot.Write(b.SavePath(st.WorldName, st.SessionID), *st); err != nil {
		return fmt.Errorf("failed to write save: %w", err)
	}
	return nil
}

// LoadWorld accepts a save file path, a session id, or "" for the newest
// save in the output directory.
func (b *Backend) LoadWorld(ref string) (*core.SaveState, error) {
	path, err := b.resolve(ref)
	if err != nil {
		return nil, err
	}
	st, err := snapshot.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", storage.ErrNoSave, path)
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (b *Backend) resolve(ref string) (string, error) {
	if strings.HasSuffix(ref, snapshot.Ext) {
		return ref, nil
	}

	pattern := "*" + snapshot.Ext
	if ref != "" {
		pattern = "*_" + ref + snapshot.Ext
	}
	matches, err := filepath.Glob(filepath.Join(b.cfg.OutputDir, pattern))
	if err != nil {
		return "", err
	}

	var (
		best   string
		bestAt time.Time
	)
	for _, m := range matches {
		h, err := snapshot.ReadHeader(m)
		if err != nil {
			continue
		}
		if best == "" || h.SavedAt.After(bestAt) {
			best, bestAt = m, h.SavedAt
		}
	}
	if best == "" {
		if ref == "" {
			return "", storage.ErrNoSave
		}
		return "", fmt.Errorf("%w: session %s", storage.ErrNoSave, ref)
	}
	return best, nil
}

// ExportedFilePath returns the path of the last session export.
func (b *Backend) ExportedFilePath() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastExportPath
}

// ExportMetadata describes the last session export.
func (b *Backend) ExportMetadata() core.ExportMetadata {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastExportMeta
}

func safeName(s string) string {
	if s == "" {
		return "world"
	}
	return strings.NewReplacer(" ", "_", ":", "_", "/", "_", "\\", "_").Replace(s)
}

package memory

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	v1 "github.com/voxelrealm/simcore/internal/storage/memory/export/v1"
	"github.com/voxelrealm/simcore/pkg/core"
)

// exportJSON writes the session summary. Callers hold b.mu.
func (b *Backend) exportJSON() error {
	end := b.now()
	export := v1.Build(&v1.SessionData{
		Session: *b.session,
		EndTime: end,
		Kills:   b.kills,
		Hits:    b.hits,
		Stats:   b.stats,
	})

	name := fmt.Sprintf("%s_%s.json", safeName(b.session.WorldName), b.session.StartTime.Format("20060102_150405"))
	if b.cfg.CompressOutput {
		name += ".gz"
	}
	outputPath := filepath.Join(b.cfg.OutputDir, name)

	if err := os.MkdirAll(b.cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := writeExport(outputPath, export, b.cfg.CompressOutput); err != nil {
		return err
	}

	b.lastExportPath = outputPath
	b.lastExportMeta = core.ExportMetadata{
		SessionID:  b.session.ID,
		WorldName:  b.session.WorldName,
		Seed:       b.session.Seed,
		Difficulty: b.session.Difficulty,
		Duration:   end.Sub(b.session.StartTime).Seconds(),
		Kills:      export.Totals.Kills,
		Hits:       export.Totals.Hits,
		Samples:    len(b.stats),
		XP:         export.Totals.XP,
		Gold:       export.Totals.Gold,
	}
	return nil
}

func writeExport(path string, data v1.Export, compress bool) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	var w io.Writer = f
	if compress {
		gz := gzip.NewWriter(f)
		defer gz.Close()
		w = gz
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		return fmt.Errorf("failed to encode export: %w", err)
	}
	return nil
}

// Package snapshot writes and reads save files: a zstd stream holding one
// JSON header line followed by the gob-encoded save state.
package snapshot

import (
	"bufio"
	"encoding/gob"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/voxelrealm/simcore/pkg/core"
)

// Ext is the file extension of save snapshots.
const Ext = ".sav.zst"

var ErrUnsupportedVersion = errors.New("unsupported save version")

// Header is the human-readable first line of a save file.
type Header struct {
	Version   int       `json:"version"`
	SessionID string    `json:"session_id"`
	WorldName string    `json:"world_name"`
	Tick      uint64    `json:"tick"`
	SavedAt   time.Time `json:"saved_at"`
}

func headerOf(st core.SaveState) Header {
	return Header{
		Version:   st.Version,
		SessionID: st.SessionID,
		WorldName: st.WorldName,
		Tick:      st.Tick,
		SavedAt:   st.SavedAt,
	}
}

// Write stores st at path. The file is written next to its destination and
// renamed into place, so a crash never leaves a half-written save.
func Write(path string, st core.SaveState) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := write(tmp, st); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

func write(path string, st core.SaveState) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	bw := bufio.NewWriterSize(enc, 256*1024)

	hb, err := json.Marshal(headerOf(st))
	if err != nil {
		return err
	}
	if _, err := bw.Write(append(hb, '\n')); err != nil {
		return err
	}
	if err := gob.NewEncoder(bw).Encode(&st); err != nil {
		return fmt.Errorf("gob encode: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	return f.Sync()
}

// Read loads the save at path.
func Read(path string) (core.SaveState, error) {
	var st core.SaveState
	err := open(path, func(h Header, br *bufio.Reader) error {
		if h.Version > core.SaveVersion {
			return fmt.Errorf("%w: %d", ErrUnsupportedVersion, h.Version)
		}
		if err := gob.NewDecoder(br).Decode(&st); err != nil {
			return fmt.Errorf("gob decode: %w", err)
		}
		return nil
	})
	return st, err
}

// ReadHeader loads only the header line, for listing saves cheaply.
func ReadHeader(path string) (Header, error) {
	var out Header
	err := open(path, func(h Header, _ *bufio.Reader) error {
		out = h
		return nil
	})
	return out, err
}

func open(path string, fn func(Header, *bufio.Reader) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return err
	}
	defer dec.Close()

	br := bufio.NewReaderSize(dec, 256*1024)
	line, err := br.ReadBytes('\n')
	if err != nil {
		return fmt.Errorf("read header: %w", err)
	}
	var h Header
	if err := json.Unmarshal(line, &h); err != nil {
		return fmt.Errorf("parse header: %w", err)
	}
	return fn(h, br)
}

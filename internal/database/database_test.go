package database

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxelrealm/simcore/internal/config"
	"github.com/voxelrealm/simcore/internal/model"
)

func TestDSN(t *testing.T) {
	got := DSN(config.DBConfig{Host: "db", Port: "5433", Username: "u", Password: "p", Database: "sim"})
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=sim sslmode=disable", got)
}

func TestOpenSQLite_InMemoryIsPrivate(t *testing.T) {
	a, err := OpenSQLite("")
	require.NoError(t, err)
	b, err := OpenSQLite("")
	require.NoError(t, err)

	require.NoError(t, Migrate(a, zerolog.Nop()))
	require.NoError(t, a.Create(&model.Session{ID: "s1", WorldName: "overworld"}).Error)

	assert.False(t, b.Migrator().HasTable(&model.Session{}))
}

func TestMigrate_CreatesAllTables(t *testing.T) {
	db, err := OpenSQLite("")
	require.NoError(t, err)
	require.NoError(t, Migrate(db, zerolog.Nop()))

	for _, m := range model.DatabaseModels {
		assert.True(t, db.Migrator().HasTable(m))
	}
}

func TestDumpMemoryDBToDisk(t *testing.T) {
	db, err := OpenSQLite("")
	require.NoError(t, err)
	require.NoError(t, Migrate(db, zerolog.Nop()))
	require.NoError(t, db.Create(&model.Session{ID: "s1", WorldName: "overworld"}).Error)

	path := filepath.Join(t.TempDir(), "dump.db")
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0644))

	_, err = TimedDump(db, path)
	require.NoError(t, err)

	disk, err := OpenSQLite(path)
	require.NoError(t, err)
	var count int64
	require.NoError(t, disk.Model(&model.Session{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestDumpMemoryDBToDisk_NoPath(t *testing.T) {
	db, err := OpenSQLite("")
	require.NoError(t, err)
	assert.ErrorIs(t, DumpMemoryDBToDisk(db, ""), ErrNoDumpPath)
}

func TestGetOrInsert(t *testing.T) {
	db, err := OpenSQLite("")
	require.NoError(t, err)
	require.NoError(t, Migrate(db, zerolog.Nop()))

	s := &model.Session{ID: "s1", WorldName: "overworld", Seed: 7}
	created, err := s.GetOrInsert(db)
	require.NoError(t, err)
	assert.True(t, created)

	again := &model.Session{ID: "s1"}
	created, err = again.GetOrInsert(db)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, int64(7), again.Seed)
}

package sink

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/voxelrealm/simcore/pkg/core"
)

var (
	_ Notifier = Nop{}
	_ Sounds   = Nop{}
	_ Progress = Nop{}
	_ Events   = Nop{}
	_ Notifier = Log{}
	_ Sounds   = Log{}
	_ Progress = (*Tally)(nil)
	_ Events   = (*Recorder)(nil)
)

func TestLog_Notify(t *testing.T) {
	var buf bytes.Buffer
	l := Log{Logger: slog.New(slog.NewTextHandler(&buf, nil))}

	l.Notify("You killed Zombie", core.NotifyCombatKill, "")

	assert.Contains(t, buf.String(), "You killed Zombie")
	assert.Contains(t, buf.String(), "category=COMBAT_KILL")
}

func TestTally(t *testing.T) {
	var tally Tally

	tally.XPGain(15)
	tally.XPGain(20)
	tally.GoldGain(7)
	tally.QuestUpdate("zombie", 1)
	tally.QuestUpdate("zombie", 1)
	tally.QuestUpdate("boss", 1)

	assert.Equal(t, 35, tally.XP())
	assert.Equal(t, 7, tally.Gold())
	assert.Equal(t, 2, tally.Quest("zombie"))
	assert.Equal(t, 1, tally.Quest("boss"))
	assert.Equal(t, 0, tally.Quest("spider"))

	tally.Reset()
	assert.Equal(t, 0, tally.XP())
	assert.Equal(t, 0, tally.Quest("zombie"))
}

func TestRecorder(t *testing.T) {
	r := NewRecorder(2)

	r.RecordKill(core.KillEvent{VictimID: "a"})
	r.RecordHit(core.HitEvent{VictimID: "a", Damage: 5})
	r.RecordHit(core.HitEvent{VictimID: "b", Damage: 6})
	r.RecordHit(core.HitEvent{VictimID: "c", Damage: 7})

	kills, hits := r.Drain()
	assert.Len(t, kills, 1)
	assert.Len(t, hits, 2)
	assert.Equal(t, "b", hits[0].VictimID)
	assert.Equal(t, uint64(1), r.Dropped())

	kills, hits = r.Drain()
	assert.Empty(t, kills)
	assert.Empty(t, hits)
}

package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	ws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxelrealm/simcore/internal/storage"
	"github.com/voxelrealm/simcore/pkg/core"
	"github.com/voxelrealm/simcore/pkg/streaming"
)

// Compile-time interface check.
var _ storage.Backend = (*Backend)(nil)

// testServer upgrades to WebSocket, records received envelopes and acks
// start_session and end_session. When kickOn is set, the first connection is
// dropped right after a message of that type arrives.
func testServer(t *testing.T, kickOn string) (*httptest.Server, *messageLog) {
	t.Helper()
	ml := &messageLog{}
	var conns atomic.Int32

	upgrader := ws.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ml.setSecret(r.URL.Query().Get("secret"))
		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Logf("upgrade error: %v", err)
			return
		}
		defer c.Close()
		first := conns.Add(1) == 1

		for {
			_, msg, err := c.ReadMessage()
			if err != nil {
				return
			}

			var env streaming.Envelope
			if err := json.Unmarshal(msg, &env); err != nil {
				continue
			}
			ml.add(env)
			if first && kickOn != "" && env.Type == kickOn {
				return
			}

			if env.Type == streaming.TypeStartSession || env.Type == streaming.TypeEndSession {
				data, _ := json.Marshal(streaming.AckMessage{Type: streaming.TypeAck, For: env.Type})
				if err := c.WriteMessage(ws.TextMessage, data); err != nil {
					return
				}
			}
		}
	}))

	return srv, ml
}

type messageLog struct {
	mu       sync.Mutex
	secret   string
	messages []streaming.Envelope
}

func (m *messageLog) add(env streaming.Envelope) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, env)
}

func (m *messageLog) setSecret(s string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.secret = s
}

func (m *messageLog) all() []streaming.Envelope {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]streaming.Envelope, len(m.messages))
	copy(cp, m.messages)
	return cp
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func testSession() *core.Session {
	return &core.Session{ID: "s1", WorldName: "overworld", Difficulty: core.DifficultyNormal}
}

func TestStartAndEndSession(t *testing.T) {
	srv, ml := testServer(t, "")
	defer srv.Close()

	b := New(Config{URL: wsURL(srv), Secret: "test"}, nil)
	require.NoError(t, b.Init())
	defer b.Close()

	require.NoError(t, b.StartSession(testSession()))
	require.NoError(t, b.EndSession())

	msgs := ml.all()
	require.GreaterOrEqual(t, len(msgs), 2)
	assert.Equal(t, streaming.TypeStartSession, msgs[0].Type)
	assert.Equal(t, streaming.TypeEndSession, msgs[len(msgs)-1].Type)

	var start streaming.StartSessionPayload
	require.NoError(t, json.Unmarshal(msgs[0].Payload, &start))
	assert.Equal(t, "overworld", start.Session.WorldName)

	ml.mu.Lock()
	assert.Equal(t, "test", ml.secret)
	ml.mu.Unlock()
}

func TestFireAndForgetMessages(t *testing.T) {
	srv, ml := testServer(t, "")
	defer srv.Close()

	b := New(Config{URL: wsURL(srv), Secret: "s"}, nil)
	require.NoError(t, b.Init())
	defer b.Close()

	require.NoError(t, b.StartSession(testSession()))
	require.NoError(t, b.RecordKillEvent(&core.KillEvent{VictimKind: core.KindZombie}))
	require.NoError(t, b.RecordHitEvent(&core.HitEvent{Damage: 3}))
	require.NoError(t, b.RecordTickStats(&core.TickStats{Tick: 20}))
	require.NoError(t, b.SaveWorld(&core.SaveState{SessionID: "s1", Tick: 20}))
	require.NoError(t, b.EndSession())

	// end_session is acked only after every earlier message was read
	time.Sleep(50 * time.Millisecond)

	types := make(map[string]int)
	for _, m := range ml.all() {
		types[m.Type]++
	}

	assert.Equal(t, 1, types[streaming.TypeStartSession])
	assert.Equal(t, 1, types[streaming.TypeEndSession])
	assert.Equal(t, 1, types[streaming.TypeKillEvent])
	assert.Equal(t, 1, types[streaming.TypeHitEvent])
	assert.Equal(t, 1, types[streaming.TypeTickStats])
	assert.Equal(t, 1, types[streaming.TypeWorldSave])
}

func (m *messageLog) starts(t *testing.T) []streaming.StartSessionPayload {
	t.Helper()
	var out []streaming.StartSessionPayload
	for _, env := range m.all() {
		if env.Type != streaming.TypeStartSession {
			continue
		}
		var p streaming.StartSessionPayload
		require.NoError(t, json.Unmarshal(env.Payload, &p))
		out = append(out, p)
	}
	return out
}

func TestReconnect_ResumesSession(t *testing.T) {
	srv, ml := testServer(t, streaming.TypeTickStats)
	defer srv.Close()

	b := New(Config{URL: wsURL(srv), Secret: "s"}, nil)
	b.conn.baseBackoff = 10 * time.Millisecond
	require.NoError(t, b.Init())
	defer b.Close()

	require.NoError(t, b.StartSession(testSession()))
	require.NoError(t, b.RecordKillEvent(&core.KillEvent{Tick: 7}))
	require.NoError(t, b.RecordTickStats(&core.TickStats{Tick: 12}))

	require.Eventually(t, func() bool { return b.StreamStats().Reconnects == 1 }, 2*time.Second, 10*time.Millisecond)
	require.Eventually(t, func() bool { return len(ml.starts(t)) == 2 }, 2*time.Second, 10*time.Millisecond)

	starts := ml.starts(t)
	assert.False(t, starts[0].Resume)
	assert.True(t, starts[1].Resume)
	assert.Equal(t, uint64(12), starts[1].ResumeTick)
	assert.Equal(t, "s1", starts[1].Session.ID)

	require.NoError(t, b.EndSession())
	assert.GreaterOrEqual(t, b.StreamStats().Sent, uint64(4))
}

func TestResumeMessage(t *testing.T) {
	b := New(Config{}, nil)
	assert.Nil(t, b.resumeMessage())

	b.session = testSession()
	b.seen(30)
	b.seen(12)
	data := b.resumeMessage()
	require.NotNil(t, data)

	var env streaming.Envelope
	require.NoError(t, json.Unmarshal(data, &env))
	var p streaming.StartSessionPayload
	require.NoError(t, json.Unmarshal(env.Payload, &p))
	assert.True(t, p.Resume)
	assert.Equal(t, uint64(30), p.ResumeTick, "resume tick never goes backwards")
}

func TestSend_CountsDropsByType(t *testing.T) {
	b := New(Config{}, nil)
	for i := 0; i < sendChSize; i++ {
		require.NoError(t, b.RecordTickStats(&core.TickStats{Tick: uint64(i)}))
	}
	require.NoError(t, b.RecordTickStats(&core.TickStats{}))
	require.NoError(t, b.RecordTickStats(&core.TickStats{}))
	require.NoError(t, b.RecordKillEvent(&core.KillEvent{}))

	st := b.StreamStats()
	assert.Equal(t, map[string]uint64{
		streaming.TypeTickStats: 2,
		streaming.TypeKillEvent: 1,
	}, st.Dropped)
	assert.Zero(t, st.Sent)
}

func TestLoadWorld_NoSave(t *testing.T) {
	b := New(Config{}, nil)
	_, err := b.LoadWorld("")
	assert.ErrorIs(t, err, storage.ErrNoSave)
}

func TestInit_DialFailure(t *testing.T) {
	b := New(Config{URL: "ws://127.0.0.1:1/stream"}, nil)
	assert.Error(t, b.Init())
}

func TestNextBackoff(t *testing.T) {
	assert.Equal(t, 2*time.Second, nextBackoff(time.Second))
	assert.Equal(t, maxBackoff, nextBackoff(20*time.Second))
}

func TestEnvelopeSerialization(t *testing.T) {
	data, err := marshalEnvelope(streaming.TypeWorldSave, streaming.WorldSavePayload{SessionID: "s1", Tick: 42})
	require.NoError(t, err)

	var decoded streaming.Envelope
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, streaming.TypeWorldSave, decoded.Type)

	var p streaming.WorldSavePayload
	require.NoError(t, json.Unmarshal(decoded.Payload, &p))
	assert.Equal(t, "s1", p.SessionID)
	assert.Equal(t, uint64(42), p.Tick)
}

package gateway

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sabaidee/pos-api/internal/domain/enum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// notifyServer is a minimal stand-in for the gateway's notification service.
type notifyServer struct {
	*httptest.Server

	mu     sync.Mutex
	frames []string
	conn   *websocket.Conn
}

func newNotifyServer(t *testing.T) *notifyServer {
	t.Helper()
	ns := &notifyServer{}
	ns.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		ns.mu.Lock()
		ns.conn = conn
		ns.mu.Unlock()

		for {
			var frame subscribeFrame
			if err := conn.ReadJSON(&frame); err != nil {
				return
			}
			ns.mu.Lock()
			ns.frames = append(ns.frames, frame.Event)
			ns.mu.Unlock()
		}
	}))
	t.Cleanup(ns.Close)
	return ns
}

func (ns *notifyServer) wsURL() string {
	return "ws" + strings.TrimPrefix(ns.URL, "http")
}

func (ns *notifyServer) send(t *testing.T, event, status string) {
	t.Helper()
	ns.mu.Lock()
	conn := ns.conn
	ns.mu.Unlock()
	require.NotNil(t, conn)

	var payload notifyEvent
	payload.Event = event
	payload.Data.Status = status
	require.NoError(t, conn.WriteJSON(payload))
}

func (ns *notifyServer) receivedFrames() []string {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	out := make([]string, len(ns.frames))
	copy(out, ns.frames)
	return out
}

type recordedStates struct {
	mu     sync.Mutex
	states []enum.ChannelState
}

func (r *recordedStates) record(state enum.ChannelState, message, detail string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, state)
}

func (r *recordedStates) has(state enum.ChannelState) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.states {
		if s == state {
			return true
		}
	}
	return false
}

func TestWSChannel_SubscribesAndSignalsCompletion(t *testing.T) {
	server := newNotifyServer(t)

	states := &recordedStates{}
	var completions sync.WaitGroup
	completions.Add(1)
	var completed int32
	var completedMu sync.Mutex

	factory := NewWSChannelFactory(server.wsURL())
	ch := factory(ChannelHandlers{
		OnStateChange: states.record,
		OnPaymentCompleted: func() {
			completedMu.Lock()
			completed++
			completedMu.Unlock()
			completions.Done()
		},
	})

	require.NoError(t, ch.Open("cred-1"))
	assert.Equal(t, enum.ChannelStateConnected, ch.State())

	require.Eventually(t, func() bool {
		frames := server.receivedFrames()
		return len(frames) > 0 && frames[0] == "join::cred-1"
	}, 2*time.Second, 5*time.Millisecond)

	// Irrelevant statuses are ignored
	server.send(t, "join::cred-1", "PENDING")
	// Events for other credentials are ignored
	server.send(t, "join::other", StatusPaymentCompleted)
	// The real completion fires the callback
	server.send(t, "join::cred-1", StatusPaymentCompleted)

	completions.Wait()
	completedMu.Lock()
	assert.Equal(t, int32(1), completed)
	completedMu.Unlock()

	// The channel unsubscribed itself before signalling
	require.Eventually(t, func() bool {
		for _, f := range server.receivedFrames() {
			if f == "leave::cred-1" {
				return true
			}
		}
		return false
	}, 2*time.Second, 5*time.Millisecond)

	assert.False(t, states.has(enum.ChannelStateError), "completion is not an error")
}

func TestWSChannel_LocalCloseIsNotAnError(t *testing.T) {
	server := newNotifyServer(t)

	states := &recordedStates{}
	factory := NewWSChannelFactory(server.wsURL())
	ch := factory(ChannelHandlers{OnStateChange: states.record})

	require.NoError(t, ch.Open("cred-2"))

	ch.Close()
	ch.Close() // idempotent

	assert.Equal(t, enum.ChannelStateIdle, ch.State())

	// Give the read loop time to observe the closed connection
	time.Sleep(50 * time.Millisecond)
	assert.False(t, states.has(enum.ChannelStateError), "locally initiated close must not surface as an error")
}

func TestWSChannel_OpenAfterCloseStaysDown(t *testing.T) {
	server := newNotifyServer(t)

	states := &recordedStates{}
	var completed int32
	factory := NewWSChannelFactory(server.wsURL())
	ch := factory(ChannelHandlers{
		OnStateChange:      states.record,
		OnPaymentCompleted: func() { completed++ },
	})

	ch.Close()
	require.NoError(t, ch.Open("cred-4"))

	assert.Equal(t, enum.ChannelStateIdle, ch.State())
	assert.False(t, states.has(enum.ChannelStateConnecting), "a closed channel never dials")
	assert.False(t, states.has(enum.ChannelStateConnected))

	// No subscription ever reaches the server
	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, server.receivedFrames())
	assert.Equal(t, int32(0), completed)
}

func TestWSChannel_DialFailureCategorized(t *testing.T) {
	server := newNotifyServer(t)
	url := server.wsURL()
	server.Close() // connection refused from here on

	var mu sync.Mutex
	var gotState enum.ChannelState
	var gotMessage string

	factory := NewWSChannelFactory(url)
	ch := factory(ChannelHandlers{
		OnStateChange: func(state enum.ChannelState, message, detail string) {
			mu.Lock()
			defer mu.Unlock()
			if state == enum.ChannelStateError {
				gotState = state
				gotMessage = message
			}
		},
	})

	err := ch.Open("cred-3")
	require.Error(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, enum.ChannelStateError, gotState)
	assert.Equal(t, "network failure reaching the notification service", gotMessage)
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		name    string
		err     string
		message string
	}{
		{"blocked handshake", "websocket: bad handshake", "realtime connection blocked by the gateway"},
		{"forbidden", "unexpected status 403", "realtime connection blocked by the gateway"},
		{"dns", "dial tcp: lookup gateway: no such host", "network failure reaching the notification service"},
		{"refused", "dial tcp 127.0.0.1:9: connection refused", "network failure reaching the notification service"},
		{"timeout", "i/o timeout", "network failure reaching the notification service"},
		{"other", "unexpected EOF", "realtime connection failed"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			message, detail := categorize(errString(tc.err))
			assert.Equal(t, tc.message, message)
			assert.Equal(t, tc.err, detail)
		})
	}
}

type errString string

func (e errString) Error() string { return string(e) }

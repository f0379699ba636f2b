package broadcast

import (
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/go-monolith/mono/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockLogger implements types.Logger for testing
type mockLogger struct{}

func (m *mockLogger) Debug(msg string, args ...any)         {}
func (m *mockLogger) Info(msg string, args ...any)          {}
func (m *mockLogger) Warn(msg string, args ...any)          {}
func (m *mockLogger) Error(msg string, args ...any)         {}
func (m *mockLogger) With(args ...any) types.Logger         { return m }
func (m *mockLogger) WithError(err error) types.Logger      { return m }
func (m *mockLogger) WithModule(module string) types.Logger { return m }

// fakeConn records frames written to it.
type fakeConn struct {
	frames []Frame
	fail   bool
}

func (c *fakeConn) WriteMessage(_ int, data []byte) error {
	if c.fail {
		return errors.New("peer gone")
	}
	var f Frame
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	c.frames = append(c.frames, f)
	return nil
}

func (c *fakeConn) Close() error { return nil }

func (c *fakeConn) types(t *testing.T) []string {
	t.Helper()
	out := make([]string, 0, len(c.frames))
	for _, f := range c.frames {
		out = append(out, f.Type)
	}
	return out
}

func newTestHub() *Hub {
	return NewHub(&mockLogger{})
}

func addClient(h *Hub, id string) *fakeConn {
	conn := &fakeConn{}
	h.Register(&Client{ID: id, Conn: conn})
	return conn
}

func mustFrame(t *testing.T, frameType string, payload any) Frame {
	t.Helper()
	frame, err := NewFrame(frameType, payload)
	require.NoError(t, err)
	return frame
}

func TestHub_BroadcastAll(t *testing.T) {
	h := newTestHub()
	a := addClient(h, "a")
	b := addClient(h, "b")

	h.handleBroadcast(&outbound{frame: mustFrame(t, FrameUserList, []string{"x"})})

	assert.Equal(t, []string{FrameUserList}, a.types(t))
	assert.Equal(t, []string{FrameUserList}, b.types(t))
}

func TestHub_BroadcastRoomScoped(t *testing.T) {
	h := newTestHub()
	a := addClient(h, "a")
	b := addClient(h, "b")
	c := addClient(h, "c")
	h.JoinRoom("a", "dev")
	h.JoinRoom("b", "dev")
	h.JoinRoom("c", "music")

	h.handleBroadcast(&outbound{roomID: "dev", frame: mustFrame(t, FrameMessage, "hi")})

	assert.Len(t, a.frames, 1)
	assert.Len(t, b.frames, 1)
	assert.Empty(t, c.frames)
}

func TestHub_JoinRoomLeavesPrevious(t *testing.T) {
	h := newTestHub()
	addClient(h, "a")

	h.JoinRoom("a", "global")
	assert.Equal(t, 1, h.RoomClientCount("global"))

	h.JoinRoom("a", "dev")
	assert.Equal(t, 0, h.RoomClientCount("global"))
	assert.Equal(t, 1, h.RoomClientCount("dev"))
}

func TestHub_RegisterIsImmediatelyAddressable(t *testing.T) {
	h := newTestHub()

	// No run loop: SendTo right after Register must still deliver.
	conn := &fakeConn{}
	h.Register(&Client{ID: "a", Conn: conn})
	h.SendTo("a", mustFrame(t, FrameConnected, map[string]string{"id": "a"}))

	require.Len(t, conn.frames, 1)
	assert.Equal(t, FrameConnected, conn.frames[0].Type)
}

func TestHub_SendTo(t *testing.T) {
	h := newTestHub()
	a := addClient(h, "a")
	b := addClient(h, "b")

	h.SendTo("a", mustFrame(t, FrameJoinedRoom, map[string]string{"room_id": "dev"}))

	assert.Len(t, a.frames, 1)
	assert.Empty(t, b.frames)

	// Unknown recipients are a silent no-op.
	h.SendTo("ghost", mustFrame(t, FrameMessage, "hi"))
}

func TestHub_SendFailureDoesNotPropagate(t *testing.T) {
	h := newTestHub()
	conn := &fakeConn{fail: true}
	h.Register(&Client{ID: "a", Conn: conn})

	h.SendTo("a", mustFrame(t, FrameMessage, "hi"))
	h.handleBroadcast(&outbound{frame: mustFrame(t, FrameMessage, "hi")})

	// The client stays registered; delivery is best effort.
	assert.Equal(t, 1, h.ClientCount())
}

// overlapConn counts concurrent entries into WriteMessage.
type overlapConn struct {
	active   int32
	overlaps int32
}

func (c *overlapConn) WriteMessage(_ int, _ []byte) error {
	if atomic.AddInt32(&c.active, 1) > 1 {
		atomic.AddInt32(&c.overlaps, 1)
	}
	atomic.AddInt32(&c.active, -1)
	return nil
}

func (c *overlapConn) Close() error { return nil }

func TestHub_WritesNeverOverlapPerConn(t *testing.T) {
	h := newTestHub()
	conn := &overlapConn{}
	h.Register(&Client{ID: "a", Conn: conn})

	direct := mustFrame(t, FrameMessage, "direct")
	fanout := mustFrame(t, FrameUserList, []string{"a"})

	// Direct sends race against broadcast fan-out to the same socket.
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			h.SendTo("a", direct)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			h.handleBroadcast(&outbound{frame: fanout})
		}
	}()
	wg.Wait()

	assert.Zero(t, atomic.LoadInt32(&conn.overlaps))
}

func TestHub_Unregister(t *testing.T) {
	h := newTestHub()
	a := addClient(h, "a")
	h.JoinRoom("a", "dev")

	h.Unregister("a")

	assert.Equal(t, 0, h.ClientCount())
	assert.Equal(t, 0, h.RoomClientCount("dev"))

	h.handleBroadcast(&outbound{frame: mustFrame(t, FrameUserList, nil)})
	assert.Empty(t, a.frames)

	// Unregistering twice is safe.
	h.Unregister("a")
}

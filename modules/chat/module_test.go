package chat

import (
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

// staticResolver resolves a fixed set of connection names.
type staticResolver map[string]string

func (r staticResolver) Lookup(connID string) (string, bool) {
	name, ok := r[connID]
	return name, ok
}

func newTestModule(names staticResolver) *Module {
	return NewModule(names, &mockLogger{})
}

func TestModule_Send(t *testing.T) {
	m := newTestModule(staticResolver{"conn-1": "alice"})

	msg, err := m.Send("conn-1", DefaultRoomID, "hello")
	require.NoError(t, err)
	require.NotNil(t, msg)

	assert.Equal(t, "hello", msg.Content)
	assert.Equal(t, "alice", msg.Sender)
	assert.Equal(t, "conn-1", msg.SenderID)
	assert.Equal(t, DefaultRoomID, msg.RoomID)
	assert.False(t, msg.IsPrivate)
	assert.NotNil(t, msg.Reactions)
	assert.Empty(t, msg.Reactions)

	history := m.History(DefaultRoomID, 0)
	require.Len(t, history, 1)
	assert.Equal(t, msg.ID, history[0].ID)
}

func TestModule_SendEmptyMessage(t *testing.T) {
	m := newTestModule(nil)

	msg, err := m.Send("conn-1", DefaultRoomID, "   ")
	assert.ErrorIs(t, err, ErrMessageEmpty)
	assert.Nil(t, msg)
	assert.Empty(t, m.History(DefaultRoomID, 0))
}

func TestModule_SendUnknownRoomDropsSilently(t *testing.T) {
	m := newTestModule(nil)

	msg, err := m.Send("conn-1", "no-such-room", "hello")
	assert.NoError(t, err)
	assert.Nil(t, msg)
}

func TestModule_SendAnonymousFallback(t *testing.T) {
	m := newTestModule(staticResolver{})

	msg, err := m.Send("ghost", DefaultRoomID, "boo")
	require.NoError(t, err)
	assert.Equal(t, "Anonymous", msg.Sender)
}

func TestModule_SendPrivate(t *testing.T) {
	m := newTestModule(staticResolver{"conn-1": "alice"})

	msg, err := m.SendPrivate("conn-1", "conn-2", "psst")
	require.NoError(t, err)

	assert.True(t, msg.IsPrivate)
	assert.Equal(t, "conn-2", msg.RecipientID)
	assert.Empty(t, msg.RoomID)

	// Private messages never reach any room's history.
	for _, room := range m.ListRooms() {
		assert.Empty(t, m.History(room.ID, 0), "room %s", room.ID)
	}
}

func TestModule_SendPrivateEmpty(t *testing.T) {
	m := newTestModule(nil)

	msg, err := m.SendPrivate("conn-1", "conn-2", "")
	assert.ErrorIs(t, err, ErrMessageEmpty)
	assert.Nil(t, msg)
}

func TestModule_ToggleReaction(t *testing.T) {
	m := newTestModule(staticResolver{"conn-1": "alice"})
	msg, err := m.Send("conn-1", DefaultRoomID, "react to me")
	require.NoError(t, err)

	reactions, ok := m.ToggleReaction("conn-a", DefaultRoomID, msg.ID, "👍")
	require.True(t, ok)
	assert.Equal(t, map[string][]string{"👍": {"conn-a"}}, reactions)

	// Second reactor appends to the same emoji.
	reactions, ok = m.ToggleReaction("conn-b", DefaultRoomID, msg.ID, "👍")
	require.True(t, ok)
	assert.Equal(t, []string{"conn-a", "conn-b"}, reactions["👍"])

	// Toggling again removes only that connection.
	reactions, ok = m.ToggleReaction("conn-a", DefaultRoomID, msg.ID, "👍")
	require.True(t, ok)
	assert.Equal(t, []string{"conn-b"}, reactions["👍"])

	// Last removal deletes the emoji key entirely.
	reactions, ok = m.ToggleReaction("conn-b", DefaultRoomID, msg.ID, "👍")
	require.True(t, ok)
	assert.NotContains(t, reactions, "👍")
	assert.Empty(t, reactions)
}

func TestModule_ToggleReactionIsInvolution(t *testing.T) {
	m := newTestModule(staticResolver{"conn-1": "alice"})
	msg, err := m.Send("conn-1", DefaultRoomID, "hello")
	require.NoError(t, err)

	_, ok := m.ToggleReaction("conn-1", DefaultRoomID, msg.ID, "🔥")
	require.True(t, ok)
	before, ok := m.ToggleReaction("conn-2", DefaultRoomID, msg.ID, "🎉")
	require.True(t, ok)

	_, ok = m.ToggleReaction("conn-2", DefaultRoomID, msg.ID, "🎉")
	require.True(t, ok)
	after, ok := m.ToggleReaction("conn-2", DefaultRoomID, msg.ID, "🎉")
	require.True(t, ok)

	assert.Equal(t, before, after)
}

func TestModule_ToggleReactionNotFound(t *testing.T) {
	m := newTestModule(nil)

	_, ok := m.ToggleReaction("conn-1", "no-room", "no-msg", "👍")
	assert.False(t, ok)

	_, ok = m.ToggleReaction("conn-1", DefaultRoomID, "no-msg", "👍")
	assert.False(t, ok)
}

func TestModule_CreateRoomScenario(t *testing.T) {
	m := newTestModule(staticResolver{"conn-a": "avery"})

	dev, err := m.CreateRoom("Dev")
	require.NoError(t, err)

	rooms := m.ListRooms()
	require.Len(t, rooms, 2)
	assert.Equal(t, DefaultRoomID, rooms[0].ID)
	assert.Equal(t, "Dev", rooms[1].Name)

	msg, err := m.Send("conn-a", dev.ID, "hello")
	require.NoError(t, err)

	history := m.History(dev.ID, 0)
	require.Len(t, history, 1)
	assert.Equal(t, "hello", history[0].Content)
	assert.Equal(t, dev.ID, history[0].RoomID)

	reactions, ok := m.ToggleReaction("conn-a", dev.ID, msg.ID, "👍")
	require.True(t, ok)
	assert.Equal(t, map[string][]string{"👍": {"conn-a"}}, reactions)

	reactions, ok = m.ToggleReaction("conn-a", dev.ID, msg.ID, "👍")
	require.True(t, ok)
	assert.Empty(t, reactions)
}

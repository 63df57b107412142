package chat

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"personachat/core"
	"personachat/personas"
	"personachat/store"
)

type fakeCompleter struct {
	mu          sync.Mutex
	calls       int
	lastPersona string
	lastHistory []core.Message
	reply       string
	err         error

	started chan struct{} // signaled when a call begins, if set
	release chan struct{} // call blocks until closed, if set
}

func (f *fakeCompleter) Reply(_ context.Context, personaID string, history []core.Message) (string, error) {
	f.mu.Lock()
	f.calls++
	f.lastPersona = personaID
	f.lastHistory = core.CloneMessages(history)
	started, release := f.started, f.release
	reply, err := f.reply, f.err
	f.mu.Unlock()

	if started != nil {
		started <- struct{}{}
	}
	if release != nil {
		<-release
	}
	return reply, err
}

func (f *fakeCompleter) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func newTestSession(t *testing.T, completer *fakeCompleter) (*Session, *store.MemoryStore) {
	t.Helper()
	st := store.NewMemoryStore()
	s := NewSession(completer, st, core.NewDiscardLogger())
	require.NoError(t, s.SetPersona("hitesh"))
	return s, st
}

func TestSendAppendsReplyAndPersists(t *testing.T) {
	completer := &fakeCompleter{reply: "Haan ji! Ship it this week."}
	s, st := newTestSession(t, completer)

	require.NoError(t, s.Send(context.Background(), "hi"))

	msgs := s.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, core.RoleUser, msgs[0].Role)
	assert.Equal(t, "hi", msgs[0].Content)
	assert.Empty(t, msgs[0].ID)
	assert.Equal(t, core.RoleAssistant, msgs[1].Role)
	assert.Equal(t, "Haan ji! Ship it this week.", msgs[1].Content)
	assert.NotEmpty(t, msgs[1].ID)

	assert.Equal(t, msgs[1].ID, s.AutoPlayTarget())
	assert.False(t, s.Sending())

	// The full conversation is persisted under the persona's record.
	stored, err := st.Load("hitesh")
	require.NoError(t, err)
	assert.Equal(t, msgs, stored)
}

func TestSendForwardsFullHistory(t *testing.T) {
	completer := &fakeCompleter{reply: "ok"}
	s, _ := newTestSession(t, completer)

	require.NoError(t, s.Send(context.Background(), "first"))
	require.NoError(t, s.Send(context.Background(), "second"))

	// The second call carries the complete transcript including the new
	// user turn, in order.
	require.Len(t, completer.lastHistory, 3)
	assert.Equal(t, "first", completer.lastHistory[0].Content)
	assert.Equal(t, "ok", completer.lastHistory[1].Content)
	assert.Equal(t, "second", completer.lastHistory[2].Content)
	assert.Equal(t, "hitesh", completer.lastPersona)
}

func TestSendWhitespaceIsNoop(t *testing.T) {
	completer := &fakeCompleter{reply: "ok"}
	s, _ := newTestSession(t, completer)

	require.NoError(t, s.Send(context.Background(), ""))
	require.NoError(t, s.Send(context.Background(), "   \n\t"))

	assert.Zero(t, completer.callCount())
	assert.Empty(t, s.Messages())
}

func TestSendRejectedWhileInFlight(t *testing.T) {
	completer := &fakeCompleter{
		reply:   "late reply",
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	s, _ := newTestSession(t, completer)

	done := make(chan error, 1)
	go func() { done <- s.Send(context.Background(), "first") }()
	<-completer.started

	assert.True(t, s.Sending())
	err := s.Send(context.Background(), "second")
	assert.ErrorIs(t, err, ErrSendInFlight)
	assert.Equal(t, 1, completer.callCount())

	close(completer.release)
	require.NoError(t, <-done)
	assert.False(t, s.Sending())
}

func TestSendFailureAppendsFallback(t *testing.T) {
	completer := &fakeCompleter{err: errors.New("provider down")}
	s, st := newTestSession(t, completer)

	require.NoError(t, s.Send(context.Background(), "hi"))

	msgs := s.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "hi", msgs[0].Content)
	assert.Equal(t, core.RoleAssistant, msgs[1].Role)
	assert.Equal(t, FallbackReply, msgs[1].Content)
	assert.Empty(t, msgs[1].ID, "fallback must not be auto-play eligible")
	assert.Empty(t, s.AutoPlayTarget())
	assert.False(t, s.Sending())

	stored, err := st.Load("hitesh")
	require.NoError(t, err)
	assert.Equal(t, msgs, stored)
}

func TestPersonaSwitchRoundTrip(t *testing.T) {
	completer := &fakeCompleter{reply: "reply"}
	s, _ := newTestSession(t, completer)

	require.NoError(t, s.Send(context.Background(), "hello hitesh"))
	before := s.Messages()

	require.NoError(t, s.SetPersona("piyush"))
	assert.Empty(t, s.Messages(), "personas must not share history")
	assert.Empty(t, s.AutoPlayTarget(), "switch clears the auto-play target")
	require.NoError(t, s.Send(context.Background(), "hello piyush"))

	require.NoError(t, s.SetPersona("hitesh"))
	assert.Equal(t, before, s.Messages(), "switching away and back restores the exact list")
}

func TestSetPersonaUnknown(t *testing.T) {
	s, _ := newTestSession(t, &fakeCompleter{})
	err := s.SetPersona("nobody")
	assert.ErrorIs(t, err, personas.ErrUnknownPersona)
	assert.Equal(t, "hitesh", s.PersonaID())
}

func TestStaleReplyDiscardedAfterSwitch(t *testing.T) {
	completer := &fakeCompleter{
		reply:   "orphaned reply",
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	s, st := newTestSession(t, completer)

	done := make(chan error, 1)
	go func() { done <- s.Send(context.Background(), "hi") }()
	<-completer.started

	// Switch away while the provider call is in flight.
	require.NoError(t, s.SetPersona("piyush"))
	assert.False(t, s.Sending())

	close(completer.release)
	require.NoError(t, <-done)

	// The late reply must not land in the now-visible conversation.
	assert.Empty(t, s.Messages())
	assert.Empty(t, s.AutoPlayTarget())

	// Nor retroactively in the old persona's record: only the user turn
	// was persisted before the switch.
	stored, err := st.Load("hitesh")
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "hi", stored[0].Content)
}

func TestClear(t *testing.T) {
	completer := &fakeCompleter{reply: "reply"}
	s, st := newTestSession(t, completer)
	require.NoError(t, s.Send(context.Background(), "hi"))

	require.NoError(t, s.Clear())
	assert.Empty(t, s.Messages())

	stored, err := st.Load("hitesh")
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestSendBeforePersona(t *testing.T) {
	s := NewSession(&fakeCompleter{}, store.NewMemoryStore(), core.NewDiscardLogger())
	err := s.Send(context.Background(), "hi")
	assert.ErrorIs(t, err, ErrNoPersona)
}

func TestAssistantIDsAreUnique(t *testing.T) {
	completer := &fakeCompleter{reply: "reply"}
	s, _ := newTestSession(t, completer)

	for i := 0; i < 3; i++ {
		require.NoError(t, s.Send(context.Background(), "turn"))
	}

	seen := map[string]bool{}
	for _, m := range s.Messages() {
		if m.Role != core.RoleAssistant {
			continue
		}
		require.NotEmpty(t, m.ID)
		assert.False(t, seen[m.ID], "duplicate assistant id %q", m.ID)
		seen[m.ID] = true
	}
	assert.Len(t, seen, 3)
}

func TestSendingFlagLifetime(t *testing.T) {
	completer := &fakeCompleter{
		reply:   "reply",
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	s, _ := newTestSession(t, completer)

	assert.False(t, s.Sending())
	done := make(chan error, 1)
	go func() { done <- s.Send(context.Background(), "hi") }()

	select {
	case <-completer.started:
	case <-time.After(time.Second):
		t.Fatal("completer was never called")
	}
	assert.True(t, s.Sending())

	close(completer.release)
	require.NoError(t, <-done)
	assert.False(t, s.Sending())
}

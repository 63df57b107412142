// Package chat owns the live conversation state for the active persona and
// drives the send/reply cycle against the chat proxy endpoint.
package chat

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"

	"personachat/core"
	"personachat/personas"
	"personachat/store"
)

// Completer produces the assistant reply for a persona and the full
// conversation history. Satisfied by client.Client.
type Completer interface {
	Reply(ctx context.Context, personaID string, history []core.Message) (string, error)
}

// FallbackReply is appended as a normal assistant turn when a send fails.
// Provider failures degrade one turn, they never surface as a UI fault.
const FallbackReply = "Sorry, I encountered an error. Please try again."

// ErrSendInFlight is returned by Send while a previous send is still
// pending. Front ends disable the send affordance, so users normally never
// see it.
var ErrSendInFlight = errors.New("chat: send already in flight")

// ErrNoPersona is returned by Send before a persona has been selected.
var ErrNoPersona = errors.New("chat: no active persona")

// Session is the chat orchestrator for one front end. Exactly one
// conversation is visible at a time, that of the active persona; switching
// personas replaces it wholesale from the store, never merges.
type Session struct {
	mu        sync.Mutex
	completer Completer
	store     store.Store
	logger    *core.Logger

	personaID      string
	messages       []core.Message
	sending        bool
	autoPlayTarget string

	// generation is bumped on every persona switch. A reply that resolves
	// under a stale generation belongs to a conversation that is no longer
	// visible and is discarded.
	generation uint64
}

// NewSession creates a Session. Call SetPersona before the first Send.
func NewSession(completer Completer, st store.Store, logger *core.Logger) *Session {
	if logger == nil {
		logger = core.GetLogger()
	}
	return &Session{
		completer: completer,
		store:     st,
		logger:    logger,
	}
}

// SetPersona activates persona id: the persisted conversation for that
// persona replaces the visible one, any in-flight send is orphaned, and
// the auto-play target is cleared.
func (s *Session) SetPersona(id string) error {
	if _, err := personas.Get(id); err != nil {
		return err
	}

	msgs, err := s.store.Load(id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.personaID = id
	s.messages = msgs
	s.sending = false
	s.autoPlayTarget = ""
	s.generation++
	return nil
}

// Send appends text as a user turn and requests the assistant reply. A
// whitespace-only text is a no-op. While a send is pending, further sends
// return ErrSendInFlight. A failed provider call appends FallbackReply
// instead of returning an error; the conversation always ends persisted
// and the session idle.
func (s *Session) Send(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	s.mu.Lock()
	if s.personaID == "" {
		s.mu.Unlock()
		return ErrNoPersona
	}
	if s.sending {
		s.mu.Unlock()
		return ErrSendInFlight
	}
	s.sending = true
	personaID := s.personaID
	gen := s.generation
	s.messages = append(s.messages, core.UserMessage(text))
	s.persistLocked()
	history := core.CloneMessages(s.messages)
	s.mu.Unlock()

	reply, err := s.completer.Reply(ctx, personaID, history)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		// Persona switched while the call was in flight; the result
		// belongs to a conversation that is no longer visible.
		s.logger.Debugf("chat: discarding stale reply for persona %q", personaID)
		return nil
	}

	s.sending = false
	if err != nil {
		s.logger.Warnf("chat: send failed for persona %q: %v", personaID, err)
		s.messages = append(s.messages, core.AssistantMessage(FallbackReply, ""))
		s.persistLocked()
		return nil
	}

	id := uuid.NewString()
	s.messages = append(s.messages, core.AssistantMessage(reply, id))
	s.autoPlayTarget = id
	s.persistLocked()
	return nil
}

// Clear empties the visible conversation and the persona's stored record.
func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.personaID == "" {
		return ErrNoPersona
	}
	s.messages = nil
	s.autoPlayTarget = ""
	return s.store.Clear(s.personaID)
}

// Messages returns a snapshot of the visible conversation.
func (s *Session) Messages() []core.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return core.CloneMessages(s.messages)
}

// PersonaID returns the active persona identifier.
func (s *Session) PersonaID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.personaID
}

// Sending reports whether a send is in flight; front ends disable the send
// affordance while true.
func (s *Session) Sending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sending
}

// AutoPlayTarget returns the id of the assistant message eligible for
// automatic playback, or "" when there is none.
func (s *Session) AutoPlayTarget() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.autoPlayTarget
}

// persistLocked writes the full message list back to the active persona's
// record. A store failure keeps the in-memory conversation usable.
func (s *Session) persistLocked() {
	if err := s.store.Save(s.personaID, s.messages); err != nil {
		s.logger.Warnf("chat: persist failed for persona %q: %v", s.personaID, err)
	}
}

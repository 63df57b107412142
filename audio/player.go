// Package audio manages per-message speech playback: synthesis is
// requested lazily on first play, cached for the lifetime of the message,
// and toggled between playing and paused without re-requesting.
package audio

import (
	"context"
	"errors"
	"sync"

	"personachat/core"
)

// Synthesizer fetches synthesized speech for a message text and a persona.
// Satisfied by client.Client.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, personaID string) ([]byte, error)
}

// Output renders audio bytes. Implementations decide how (local player
// process, buffered device, discard). Calls for different players may
// overlap; implementations serialize if their device requires it.
type Output interface {
	// Start begins playback of a complete audio payload.
	Start(data []byte) error
	// Pause suspends playback; Resume continues it.
	Pause() error
	Resume() error
	// Stop ends playback and releases any device resources.
	Stop() error
}

// State is the playback lifecycle of one message.
type State int

const (
	StateUnrequested State = iota
	StateLoading
	StateReady
	StatePlaying
	StatePaused
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUnrequested:
		return "unrequested"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ErrUnavailable is returned by Play after synthesis has failed. The
// failure is non-fatal: it marks this one message, nothing else.
var ErrUnavailable = errors.New("audio: unavailable")

// Player controls playback for a single assistant message.
type Player struct {
	mu     sync.Mutex
	synth  Synthesizer
	out    Output
	logger *core.Logger

	text      string
	personaID string

	state      State
	data       []byte
	autoPlayed bool
}

// NewPlayer creates a Player for one assistant message.
func NewPlayer(text, personaID string, synth Synthesizer, out Output, logger *core.Logger) *Player {
	if logger == nil {
		logger = core.GetLogger()
	}
	if out == nil {
		out = NopOutput{}
	}
	return &Player{
		synth:     synth,
		out:       out,
		logger:    logger,
		text:      text,
		personaID: personaID,
		state:     StateUnrequested,
	}
}

// Play starts or resumes playback, requesting synthesis on first use and
// caching the result for replays.
func (p *Player) Play(ctx context.Context) error {
	p.mu.Lock()
	switch p.state {
	case StatePlaying, StateLoading:
		p.mu.Unlock()
		return nil
	case StateFailed:
		p.mu.Unlock()
		return ErrUnavailable
	case StatePaused:
		err := p.out.Resume()
		if err == nil {
			p.state = StatePlaying
		}
		p.mu.Unlock()
		return err
	case StateReady:
		err := p.out.Start(p.data)
		if err == nil {
			p.state = StatePlaying
		}
		p.mu.Unlock()
		return err
	}

	// StateUnrequested: fetch without holding the lock; the request may
	// take seconds.
	p.state = StateLoading
	p.mu.Unlock()

	data, err := p.synth.Synthesize(ctx, p.text, p.personaID)

	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		p.logger.Warnf("audio: synthesis failed for persona %q: %v", p.personaID, err)
		p.state = StateFailed
		return ErrUnavailable
	}
	p.data = data
	if err := p.out.Start(p.data); err != nil {
		p.state = StateReady
		return err
	}
	p.state = StatePlaying
	return nil
}

// Pause suspends playback. Valid only while playing; the cached audio is
// retained for replay.
func (p *Player) Pause() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != StatePlaying {
		return nil
	}
	if err := p.out.Pause(); err != nil {
		return err
	}
	p.state = StatePaused
	return nil
}

// MaybeAutoPlay invokes Play at most once per player, and only when the
// auto-play preference is enabled and this message is the latest. Repeated
// calls for the same message never re-trigger playback.
func (p *Player) MaybeAutoPlay(ctx context.Context, enabled, latest bool) {
	p.mu.Lock()
	if p.autoPlayed || !enabled || !latest {
		p.mu.Unlock()
		return
	}
	p.autoPlayed = true
	p.mu.Unlock()

	if err := p.Play(ctx); err != nil && !errors.Is(err, ErrUnavailable) {
		p.logger.Warnf("audio: auto-play failed: %v", err)
	}
}

// Release stops playback and drops the cached audio. Called when the
// owning message view is torn down, e.g. on persona switch.
func (p *Player) Release() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == StatePlaying || p.state == StatePaused {
		_ = p.out.Stop()
	}
	p.data = nil
	p.state = StateUnrequested
}

// State returns the current playback state.
func (p *Player) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// NopOutput discards audio. Used when no playback device is configured;
// synthesis and caching still behave normally.
type NopOutput struct{}

func (NopOutput) Start([]byte) error { return nil }
func (NopOutput) Pause() error       { return nil }
func (NopOutput) Resume() error      { return nil }
func (NopOutput) Stop() error        { return nil }

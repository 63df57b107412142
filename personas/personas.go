// Package personas defines the closed set of assistant profiles the
// application can speak as. A persona ties together a display name, the
// ElevenLabs voice used for synthesis, and the system prompt that shapes
// the conversational style.
package personas

import (
	"errors"
	"fmt"
)

// Persona is one assistant profile. Instances are defined at process start
// and never mutated.
type Persona struct {
	// ID is the persona identifier used by clients and storage keys.
	ID string `json:"id"`
	// Name is the human-readable display name.
	Name string `json:"name"`
	// VoiceID is the ElevenLabs voice identifier, opaque to this system.
	VoiceID string `json:"voice_id"`
	// SystemPrompt is prepended to every chat-completion request. It is
	// never persisted with, or shown as part of, the conversation.
	SystemPrompt string `json:"-"`
}

// ErrUnknownPersona is returned by Get for identifiers outside the
// configured set. Callers must treat it as an input-validation failure,
// never fall through to an empty prompt or voice.
var ErrUnknownPersona = errors.New("personas: unknown persona")

// Default is the persona selected when none is specified.
const Default = "hitesh"

var registry = map[string]Persona{
	"hitesh": {
		ID:           "hitesh",
		Name:         "Hitesh Choudhary",
		VoiceID:      "SwcfwBtx1gb4hREwsAaA",
		SystemPrompt: hiteshPrompt,
	},
	"piyush": {
		ID:           "piyush",
		Name:         "Piyush Garg",
		VoiceID:      "rU1cyC6iRGdN2u5Ma0hP",
		SystemPrompt: piyushPrompt,
	},
}

// ids keeps a stable presentation order for pickers; map iteration order
// would shuffle the UI between runs.
var ids = []string{"hitesh", "piyush"}

// Get resolves a persona identifier. Unknown identifiers return
// ErrUnknownPersona wrapped with the offending id.
func Get(id string) (Persona, error) {
	p, ok := registry[id]
	if !ok {
		return Persona{}, fmt.Errorf("%w: %q", ErrUnknownPersona, id)
	}
	return p, nil
}

// IDs returns the persona identifiers in presentation order.
func IDs() []string {
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}

// All returns every configured persona in presentation order.
func All() []Persona {
	out := make([]Persona, 0, len(ids))
	for _, id := range ids {
		out = append(out, registry[id])
	}
	return out
}

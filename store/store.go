// Package store persists per-persona conversation transcripts. One record
// per persona, value = the full ordered message list; every save replaces
// the previous contents wholesale.
package store

import (
	"personachat/core"
)

// Store is the per-persona conversation store. Implementations must be safe
// for concurrent use, though the orchestrator is the only writer for a given
// persona.
type Store interface {
	// Load returns the stored conversation for a persona, oldest first.
	// A missing or incompatible record loads as an empty history, not an
	// error; there is no schema version or migration.
	Load(personaID string) ([]core.Message, error)
	// Save replaces the stored conversation for a persona.
	Save(personaID string, msgs []core.Message) error
	// Clear removes the stored conversation for a persona.
	Clear(personaID string) error
}

// recordKey mirrors the browser localStorage key of the original front end,
// so a record is "chat-hitesh", "chat-piyush", etc.
func recordKey(personaID string) string {
	return "chat-" + personaID
}

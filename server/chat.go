package server

import (
	"net/http"

	"personachat/core"
	"personachat/personas"
)

type chatRequest struct {
	Persona  string         `json:"persona"`
	Messages []core.Message `json:"messages"`
}

type chatResponse struct {
	Response string `json:"response"`
}

// handleChat is the chat proxy endpoint. It prepends the persona's system
// prompt to the submitted history and returns the single generated reply.
// An unresolved persona is rejected up front rather than forwarded with an
// empty system prompt.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req chatRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	persona, err := personas.Get(req.Persona)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid persona")
		return
	}

	// An empty history is forwarded as-is; the provider decides whether to
	// reject it.
	reply, err := s.completer.Complete(r.Context(), persona.SystemPrompt, req.Messages)
	if err != nil {
		s.logger.Errorf("chat: completion failed for persona %q: %v", persona.ID, err)
		writeError(w, http.StatusInternalServerError, "Failed to generate response")
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{Response: reply})
}

package server

import (
	"net/http"
	"strconv"

	"personachat/personas"
)

type ttsRequest struct {
	Text    string `json:"text"`
	Persona string `json:"persona"`
}

// ttsCacheMaxAge lets clients reuse synthesized audio for identical
// (text, persona) pairs for an hour.
const ttsCacheMaxAge = 3600

// handleTTS is the speech proxy endpoint. The response is always either
// raw audio bytes or a JSON error object, never a mix. Validation order:
// missing fields, unknown persona, missing credential, then the provider
// call.
func (s *Server) handleTTS(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req ttsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if req.Text == "" || req.Persona == "" {
		writeError(w, http.StatusBadRequest, "Missing text or persona")
		return
	}

	persona, err := personas.Get(req.Persona)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid persona")
		return
	}

	if !s.synthesizer.Configured() {
		writeError(w, http.StatusInternalServerError, "ElevenLabs API key not configured")
		return
	}

	audio, err := s.synthesizer.Synthesize(r.Context(), persona.VoiceID, req.Text)
	if err != nil {
		// Generic message only; provider error text stays in the logs.
		s.logger.Errorf("tts: synthesis failed for persona %q: %v", persona.ID, err)
		writeError(w, http.StatusInternalServerError, "Failed to generate audio")
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Cache-Control", "public, max-age="+strconv.Itoa(ttsCacheMaxAge))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(audio)
}

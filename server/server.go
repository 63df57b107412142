// Package server exposes the persona chat HTTP surface: the chat and
// speech proxy endpoints plus the embedded browser front end. Each proxy
// endpoint validates input, forwards to its provider, and translates the
// result or error into this system's own response contract; provider
// errors never escape uncaught.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"personachat/core"
)

// Completer produces one assistant reply for a system prompt plus the full
// conversation history. Satisfied by services/openai/llm.ChatService.
type Completer interface {
	Complete(ctx context.Context, systemPrompt string, history []core.Message) (string, error)
}

// Synthesizer converts text to speech for a given voice. Satisfied by
// services/elevenlabs/tts.Synthesizer.
type Synthesizer interface {
	Configured() bool
	Synthesize(ctx context.Context, voiceID, text string) ([]byte, error)
}

// Server holds the handler dependencies.
type Server struct {
	completer   Completer
	synthesizer Synthesizer
	logger      *core.Logger
}

// New builds the HTTP handler for the service.
func New(completer Completer, synthesizer Synthesizer, logger *core.Logger) http.Handler {
	if logger == nil {
		logger = core.GetLogger()
	}
	s := &Server{
		completer:   completer,
		synthesizer: synthesizer,
		logger:      logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/chat", s.handleChat)
	mux.HandleFunc("/api/tts", s.handleTTS)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.Handle("/", uiHandler())

	return s.withRequestLog(mux)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// withRequestLog logs one line per request with a fresh request id.
// Conversation content is deliberately not logged.
func (s *Server) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.With(map[string]any{
			"request_id": uuid.NewString(),
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     rec.status,
			"duration":   time.Since(start).String(),
		}).Info("request handled")
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

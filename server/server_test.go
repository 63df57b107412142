package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"personachat/core"
	"personachat/personas"
)

type fakeCompleter struct {
	calls      int
	gotPrompt  string
	gotHistory []core.Message
	reply      string
	err        error
}

func (f *fakeCompleter) Complete(_ context.Context, systemPrompt string, history []core.Message) (string, error) {
	f.calls++
	f.gotPrompt = systemPrompt
	f.gotHistory = core.CloneMessages(history)
	return f.reply, f.err
}

type fakeSynth struct {
	configured bool
	gotVoice   string
	gotText    string
	audio      []byte
	err        error
}

func (f *fakeSynth) Configured() bool { return f.configured }

func (f *fakeSynth) Synthesize(_ context.Context, voiceID, text string) ([]byte, error) {
	f.gotVoice = voiceID
	f.gotText = text
	return f.audio, f.err
}

func newTestServer(completer *fakeCompleter, synth *fakeSynth) http.Handler {
	return New(completer, synth, core.NewDiscardLogger())
}

func postJSON(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var out map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out["error"]
}

func TestChatForwardsSystemPromptAndHistory(t *testing.T) {
	completer := &fakeCompleter{reply: "Haan ji, build something real."}
	h := newTestServer(completer, &fakeSynth{configured: true})

	body := `{"persona":"hitesh","messages":[{"role":"user","content":"hi"},{"role":"assistant","content":"hello"},{"role":"user","content":"what next?"}]}`
	rec := postJSON(t, h, "/api/chat", body)

	require.Equal(t, http.StatusOK, rec.Code)

	p, err := personas.Get("hitesh")
	require.NoError(t, err)
	assert.Equal(t, p.SystemPrompt, completer.gotPrompt)
	require.Len(t, completer.gotHistory, 3)
	assert.Equal(t, core.RoleUser, completer.gotHistory[0].Role)
	assert.Equal(t, "hi", completer.gotHistory[0].Content)
	assert.Equal(t, core.RoleAssistant, completer.gotHistory[1].Role)
	assert.Equal(t, "what next?", completer.gotHistory[2].Content)

	var out map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "Haan ji, build something real.", out["response"])
}

func TestChatEmptyHistoryIsForwarded(t *testing.T) {
	completer := &fakeCompleter{reply: "hello"}
	h := newTestServer(completer, &fakeSynth{configured: true})

	rec := postJSON(t, h, "/api/chat", `{"persona":"piyush","messages":[]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, completer.calls)
	assert.Empty(t, completer.gotHistory)
}

func TestChatRejectsUnknownPersona(t *testing.T) {
	completer := &fakeCompleter{}
	h := newTestServer(completer, &fakeSynth{configured: true})

	rec := postJSON(t, h, "/api/chat", `{"persona":"nobody","messages":[]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid persona", errorBody(t, rec))
	// The provider must never be called with an unresolved persona.
	assert.Zero(t, completer.calls)
}

func TestChatProviderFailure(t *testing.T) {
	completer := &fakeCompleter{err: errors.New("upstream exploded: secret detail")}
	h := newTestServer(completer, &fakeSynth{configured: true})

	rec := postJSON(t, h, "/api/chat", `{"persona":"hitesh","messages":[{"role":"user","content":"hi"}]}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to generate response", errorBody(t, rec))
	assert.NotContains(t, rec.Body.String(), "secret detail")
}

func TestChatInvalidJSON(t *testing.T) {
	h := newTestServer(&fakeCompleter{}, &fakeSynth{configured: true})
	rec := postJSON(t, h, "/api/chat", "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChatMethodNotAllowed(t *testing.T) {
	h := newTestServer(&fakeCompleter{}, &fakeSynth{configured: true})
	req := httptest.NewRequest(http.MethodGet, "/api/chat", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestTTSValidationOrder(t *testing.T) {
	cases := []struct {
		name       string
		body       string
		configured bool
		wantStatus int
		wantError  string
	}{
		{
			name:       "missing text",
			body:       `{"persona":"hitesh"}`,
			configured: true,
			wantStatus: http.StatusBadRequest,
			wantError:  "Missing text or persona",
		},
		{
			name:       "missing persona",
			body:       `{"text":"hello"}`,
			configured: true,
			wantStatus: http.StatusBadRequest,
			wantError:  "Missing text or persona",
		},
		{
			name:       "unknown persona",
			body:       `{"text":"hello","persona":"unknown"}`,
			configured: true,
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid persona",
		},
		{
			name:       "missing credential",
			body:       `{"text":"hello","persona":"hitesh"}`,
			configured: false,
			wantStatus: http.StatusInternalServerError,
			wantError:  "ElevenLabs API key not configured",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newTestServer(&fakeCompleter{}, &fakeSynth{configured: tc.configured})
			rec := postJSON(t, h, "/api/tts", tc.body)
			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.Equal(t, tc.wantError, errorBody(t, rec))
			assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
		})
	}
}

func TestTTSSuccessReturnsAudio(t *testing.T) {
	synth := &fakeSynth{configured: true, audio: []byte("mpeg-bytes")}
	h := newTestServer(&fakeCompleter{}, synth)

	rec := postJSON(t, h, "/api/tts", `{"text":"hello","persona":"piyush"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "audio/mpeg", rec.Header().Get("Content-Type"))
	assert.Equal(t, "public, max-age=3600", rec.Header().Get("Cache-Control"))
	assert.Equal(t, []byte("mpeg-bytes"), rec.Body.Bytes())

	// The persona's voice is resolved server side.
	p, err := personas.Get("piyush")
	require.NoError(t, err)
	assert.Equal(t, p.VoiceID, synth.gotVoice)
	assert.Equal(t, "hello", synth.gotText)
}

func TestTTSProviderFailureIsGeneric(t *testing.T) {
	synth := &fakeSynth{configured: true, err: errors.New("quota exceeded for key sk-123")}
	h := newTestServer(&fakeCompleter{}, synth)

	rec := postJSON(t, h, "/api/tts", `{"text":"hello","persona":"hitesh"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to generate audio", errorBody(t, rec))
	assert.NotContains(t, rec.Body.String(), "sk-123")
	// An error response is JSON, never a partial audio body.
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
}

func TestHealthz(t *testing.T) {
	h := newTestServer(&fakeCompleter{}, &fakeSynth{configured: true})
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRootServesUI(t *testing.T) {
	h := newTestServer(&fakeCompleter{}, &fakeSynth{configured: true})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "/api/chat")
}

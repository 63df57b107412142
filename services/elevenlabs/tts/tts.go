package elevenlabs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bytedance/sonic"

	"personachat/core"
)

// Config holds configuration for the ElevenLabs TTS service
type Config struct {
	APIKey  string `json:"api_key"`
	BaseURL string `json:"base_url"`
	ModelID string `json:"model_id"`

	// Voice settings. Tunable defaults, not correctness constraints.
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
	UseSpeakerBoost bool    `json:"use_speaker_boost"`
}

// DefaultConfig returns a Config with the default model and voice settings.
func DefaultConfig() Config {
	return Config{
		BaseURL:         "https://api.elevenlabs.io",
		ModelID:         "eleven_turbo_v2_5",
		Stability:       0.5,
		SimilarityBoost: 0.8,
		Style:           0.0,
		UseSpeakerBoost: true,
	}
}

// ErrNotConfigured is returned when synthesis is requested without an API
// key. The HTTP layer maps it to a "service unavailable" response instead of
// failing at startup, so the rest of the app works without a key.
var ErrNotConfigured = errors.New("elevenlabs: API key not configured")

type synthesisRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
	UseSpeakerBoost bool    `json:"use_speaker_boost"`
}

// Synthesizer converts text to speech through the ElevenLabs HTTP API, one
// request per utterance, returning the complete audio/mpeg payload.
type Synthesizer struct {
	config     Config
	httpClient *http.Client
	logger     *core.Logger
}

// NewSynthesizer creates a Synthesizer with the provided config, filling in
// defaults for any zero-valued tuning field.
func NewSynthesizer(config Config, logger *core.Logger) *Synthesizer {
	def := DefaultConfig()
	if config.BaseURL == "" {
		config.BaseURL = def.BaseURL
	}
	if config.ModelID == "" {
		config.ModelID = def.ModelID
	}
	if config.Stability == 0 {
		config.Stability = def.Stability
	}
	if config.SimilarityBoost == 0 {
		config.SimilarityBoost = def.SimilarityBoost
	}
	if logger == nil {
		logger = core.GetLogger()
	}

	return &Synthesizer{
		config:     config,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		logger:     logger,
	}
}

// Configured reports whether an API key is present.
func (s *Synthesizer) Configured() bool {
	return s.config.APIKey != ""
}

// Synthesize generates speech for text with the given voice and returns the
// raw audio bytes. Provider error bodies are logged but never returned to
// the caller, so they cannot leak through the proxy response.
func (s *Synthesizer) Synthesize(ctx context.Context, voiceID, text string) ([]byte, error) {
	if !s.Configured() {
		return nil, ErrNotConfigured
	}
	if voiceID == "" {
		return nil, fmt.Errorf("elevenlabs: voice id is required")
	}
	if text == "" {
		return nil, fmt.Errorf("elevenlabs: text is required")
	}

	payload := synthesisRequest{
		Text:    text,
		ModelID: s.config.ModelID,
		VoiceSettings: voiceSettings{
			Stability:       s.config.Stability,
			SimilarityBoost: s.config.SimilarityBoost,
			Style:           s.config.Style,
			UseSpeakerBoost: s.config.UseSpeakerBoost,
		},
	}
	body, err := sonic.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs: marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/text-to-speech/%s", s.config.BaseURL, voiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("elevenlabs: build request: %w", err)
	}
	req.Header.Set("Accept", "audio/mpeg")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", s.config.APIKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs: synthesis request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		s.logger.Warnf("elevenlabs: synthesis failed: status=%d body=%s", resp.StatusCode, detail)
		return nil, fmt.Errorf("elevenlabs: synthesis failed with status %d", resp.StatusCode)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs: read audio: %w", err)
	}
	return audio, nil
}

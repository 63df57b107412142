package factories

import (
	"encoding/json"
	"fmt"
	"os"

	elevenlabs "personachat/services/elevenlabs/tts"
	"personachat/services/openai/llm"
)

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string `json:"addr"`
}

// StoreConfig configures conversation persistence.
type StoreConfig struct {
	// Path is the BoltDB file holding per-persona conversations.
	Path string `json:"path"`
}

// SettingsConfig is the top-level config loaded from settings.json. API
// keys normally come from the environment rather than the file; ApplyEnv
// overlays them.
type SettingsConfig struct {
	Server     ServerConfig      `json:"server"`
	OpenAI     llm.Config        `json:"openai"`
	ElevenLabs elevenlabs.Config `json:"elevenlabs"`
	Store      StoreConfig       `json:"store"`
}

// DefaultSettingsConfig returns a SettingsConfig pre-filled with provider
// defaults.
func DefaultSettingsConfig() SettingsConfig {
	return SettingsConfig{
		Server:     ServerConfig{Addr: ":8080"},
		OpenAI:     llm.DefaultConfig(),
		ElevenLabs: elevenlabs.DefaultConfig(),
		Store:      StoreConfig{Path: "data/conversations.db"},
	}
}

// SettingsConfigFromJSON parses a JSON blob into a SettingsConfig, applying
// defaults for anything left unset.
func SettingsConfigFromJSON(data []byte) (SettingsConfig, error) {
	cfg := DefaultSettingsConfig()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return SettingsConfig{}, fmt.Errorf("settings: %w", err)
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Store.Path == "" {
		cfg.Store.Path = "data/conversations.db"
	}
	return cfg, nil
}

// SettingsConfigFromFile reads and parses a SettingsConfig from a JSON file.
func SettingsConfigFromFile(path string) (SettingsConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return DefaultSettingsConfig(), fmt.Errorf("settings: read %q: %w", path, err)
	}
	return SettingsConfigFromJSON(data)
}

// ApplyEnv overlays environment variables onto the config. Env vars win
// over file values so deployments can keep credentials out of settings.json.
func ApplyEnv(cfg *SettingsConfig) {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.OpenAI.APIKey = v
	}
	if v := os.Getenv("ELEVENLABS_API_KEY"); v != "" {
		cfg.ElevenLabs.APIKey = v
	}
	if v := os.Getenv("PERSONACHAT_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("PERSONACHAT_DATA"); v != "" {
		cfg.Store.Path = v
	}
}

package factories

import (
	"net/http"

	"personachat/core"
	"personachat/server"
	elevenlabs "personachat/services/elevenlabs/tts"
	"personachat/services/openai/llm"
)

// BuildHandler assembles the provider services and returns the HTTP
// handler for the service. The conversation store is a front-end concern
// (cmd/chatcli, browser localStorage) and is not wired here.
func BuildHandler(settings SettingsConfig, logger *core.Logger) http.Handler {
	if logger == nil {
		logger = core.GetLogger()
	}
	chatSvc := llm.NewChatService(settings.OpenAI, logger)
	synth := elevenlabs.NewSynthesizer(settings.ElevenLabs, logger)
	return server.New(chatSvc, synth, logger)
}

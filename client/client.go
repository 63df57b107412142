// Package client is the HTTP client for the persona chat API. It is the
// front-end side of the proxy contract: chat.Session and audio.Player
// consume it through their Completer and Synthesizer interfaces.
package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"personachat/core"
)

// Client talks to a running personachat server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a Client for the given base URL, e.g. "http://localhost:8080".
func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

type chatRequest struct {
	Persona  string         `json:"persona"`
	Messages []core.Message `json:"messages"`
}

type chatResponse struct {
	Response string `json:"response"`
}

type ttsRequest struct {
	Text    string `json:"text"`
	Persona string `json:"persona"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Reply posts the full history to the chat endpoint and returns the
// generated assistant reply.
func (c *Client) Reply(ctx context.Context, personaID string, history []core.Message) (string, error) {
	body, err := sonic.Marshal(chatRequest{Persona: personaID, Messages: history})
	if err != nil {
		return "", fmt.Errorf("client: marshal chat request: %w", err)
	}

	resp, err := c.post(ctx, "/api/chat", body)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("client: read chat response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", apiError("chat", resp.StatusCode, data)
	}

	var out chatResponse
	if err := sonic.Unmarshal(data, &out); err != nil {
		return "", fmt.Errorf("client: decode chat response: %w", err)
	}
	return out.Response, nil
}

// Synthesize posts message text to the speech endpoint and returns the raw
// audio bytes.
func (c *Client) Synthesize(ctx context.Context, text, personaID string) ([]byte, error) {
	body, err := sonic.Marshal(ttsRequest{Text: text, Persona: personaID})
	if err != nil {
		return nil, fmt.Errorf("client: marshal tts request: %w", err)
	}

	resp, err := c.post(ctx, "/api/tts", body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("client: read tts response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apiError("tts", resp.StatusCode, data)
	}
	return data, nil
}

func (c *Client) post(ctx context.Context, path string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("client: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("client: %s: %w", path, err)
	}
	return resp, nil
}

// apiError turns a non-200 response into an error, preferring the server's
// {"error": ...} body when it parses.
func apiError(op string, status int, body []byte) error {
	var e errorResponse
	if err := sonic.Unmarshal(body, &e); err == nil && e.Error != "" {
		return fmt.Errorf("client: %s: %s (status %d)", op, e.Error, status)
	}
	return fmt.Errorf("client: %s: unexpected status %d", op, status)
}

package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"familyhub/internal/models"
)

// ErrUpstream indicates the assistant provider failed or timed out. The
// turn is aborted; no directives are extracted from a failed call.
var ErrUpstream = errors.New("assistant service error")

// fallbackReply is returned when the provider answers successfully but
// with no usable candidate text.
const fallbackReply = "Sorry, I had trouble thinking of a response."

const (
	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com"
	geminiRequestTimeout = 30 * time.Second
)

// Message is one turn of conversation history sent to the provider
type Message struct {
	Role    string
	Content string
}

// Client generates a single assistant reply from a system instruction and
// conversation history. One blocking call per turn: no streaming, no
// retries, no tool loop.
type Client interface {
	Generate(ctx context.Context, systemPrompt string, history []Message) (string, error)
}

// GeminiClient calls the Gemini generateContent REST API
type GeminiClient struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewGeminiClient creates a client for the given API key and model
func NewGeminiClient(apiKey, model string) *GeminiClient {
	return &GeminiClient{
		apiKey:     apiKey,
		model:      model,
		baseURL:    defaultGeminiBaseURL,
		httpClient: &http.Client{Timeout: geminiRequestTimeout},
	}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents          []geminiContent `json:"contents"`
	SystemInstruction *geminiContent  `json:"systemInstruction,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// Generate sends the conversation to Gemini and returns the reply text
func (c *GeminiClient) Generate(ctx context.Context, systemPrompt string, history []Message) (string, error) {
	contents := make([]geminiContent, 0, len(history))
	for _, m := range history {
		role := "user"
		if m.Role == models.RoleAssistant {
			role = "model"
		}
		contents = append(contents, geminiContent{
			Role:  role,
			Parts: []geminiPart{{Text: m.Content}},
		})
	}

	payload := geminiRequest{
		Contents: contents,
		SystemInstruction: &geminiContent{
			Parts: []geminiPart{{Text: systemPrompt}},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, geminiRequestTimeout)
	defer cancel()

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		c.baseURL, c.model, url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("assistant request failed: %w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		log.Printf("Gemini error: status %d: %s", resp.StatusCode, detail)
		return "", fmt.Errorf("assistant returned status %d: %w", resp.StatusCode, ErrUpstream)
	}

	var parsed geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode response: %w: %v", ErrUpstream, err)
	}

	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return fallbackReply, nil
	}
	return parsed.Candidates[0].Content.Parts[0].Text, nil
}

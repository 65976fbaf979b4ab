package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"familyhub/internal/models"
)

func testGeminiClient(serverURL string) *GeminiClient {
	c := NewGeminiClient("test-key", "test-model")
	c.baseURL = serverURL
	return c
}

func TestGeminiGenerateReturnsReply(t *testing.T) {
	var captured geminiRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1beta/models/test-model:generateContent" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "test-key" {
			t.Errorf("expected api key in query, got %q", r.URL.Query().Get("key"))
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"candidates": []map[string]interface{}{
				{"content": map[string]interface{}{
					"role":  "model",
					"parts": []map[string]string{{"text": "Hello there!"}},
				}},
			},
		})
	}))
	defer server.Close()

	client := testGeminiClient(server.URL)
	history := []Message{
		{Role: models.RoleUser, Content: "Hi"},
		{Role: models.RoleAssistant, Content: "Hello"},
		{Role: models.RoleUser, Content: "How are you?"},
	}

	reply, err := client.Generate(context.Background(), "system text", history)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply != "Hello there!" {
		t.Errorf("unexpected reply %q", reply)
	}

	if captured.SystemInstruction == nil || captured.SystemInstruction.Parts[0].Text != "system text" {
		t.Error("expected the system instruction to be sent")
	}
	if len(captured.Contents) != 3 {
		t.Fatalf("expected 3 turns, got %d", len(captured.Contents))
	}
	if captured.Contents[0].Role != "user" || captured.Contents[1].Role != "model" || captured.Contents[2].Role != "user" {
		t.Errorf("unexpected role mapping: %s, %s, %s",
			captured.Contents[0].Role, captured.Contents[1].Role, captured.Contents[2].Role)
	}
}

func TestGeminiGenerateUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "quota exceeded"}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := testGeminiClient(server.URL)
	_, err := client.Generate(context.Background(), "system", []Message{{Role: models.RoleUser, Content: "Hi"}})
	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}

func TestGeminiGenerateEmptyCandidatesFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates": []}`))
	}))
	defer server.Close()

	client := testGeminiClient(server.URL)
	reply, err := client.Generate(context.Background(), "system", []Message{{Role: models.RoleUser, Content: "Hi"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply != fallbackReply {
		t.Errorf("expected fallback reply, got %q", reply)
	}
}

func TestGeminiGenerateUnreachableServer(t *testing.T) {
	client := testGeminiClient("http://127.0.0.1:1")
	_, err := client.Generate(context.Background(), "system", []Message{{Role: models.RoleUser, Content: "Hi"}})
	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}

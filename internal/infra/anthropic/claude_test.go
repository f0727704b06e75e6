package anthropic_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"voice-chat/internal/domain"
	"voice-chat/internal/infra"
	"voice-chat/internal/infra/anthropic"
)

type capturedRequest struct {
	Model    string `json:"model"`
	System   string `json:"system"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func TestClaudeConversation_Send(t *testing.T) {
	var requests []capturedRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/messages" {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		if r.Header.Get("x-api-key") != "test-key" {
			t.Errorf("missing api key header")
		}

		var req capturedRequest
		json.NewDecoder(r.Body).Decode(&req)
		requests = append(requests, req)

		response := map[string]any{
			"content": []map[string]string{
				{"type": "text", "text": "Hello! How can I help?"},
			},
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}))
	defer server.Close()

	client := anthropic.NewClaudeClientWithURL("test-key", "claude-test", "Be brief.", server.URL, 5*time.Second)

	conv, err := client.StartConversation(context.Background())
	if err != nil {
		t.Fatalf("StartConversation error: %v", err)
	}

	reply, err := conv.Send(context.Background(), "hi")
	if err != nil {
		t.Fatalf("Send error: %v", err)
	}
	if reply != "Hello! How can I help?" {
		t.Errorf("Reply: got %q", reply)
	}

	if _, err := conv.Send(context.Background(), "what time is it"); err != nil {
		t.Fatalf("second Send error: %v", err)
	}

	if len(requests) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(requests))
	}
	if requests[0].System != "Be brief." || requests[0].Model != "claude-test" {
		t.Errorf("unexpected request %+v", requests[0])
	}
	if got := len(requests[1].Messages); got != 3 {
		t.Errorf("expected 3 messages on second request, got %d", got)
	}

	history := conv.History()
	if len(history) != 4 || history[1].Role != domain.RoleAssistant {
		t.Errorf("unexpected history %+v", history)
	}
}

func TestClaudeConversation_ErrorKeepsHistory(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"overloaded"}`, http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := anthropic.NewClaudeClientWithURL("test-key", "", "", server.URL, 5*time.Second)
	conv, _ := client.StartConversation(context.Background())

	_, err := conv.Send(context.Background(), "hi")

	var statusErr *infra.StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 status error, got %v", err)
	}
	if !statusErr.ServerSide() || !strings.Contains(err.Error(), "service unavailable") {
		t.Errorf("expected overload reported as service side, got %v", err)
	}
	if got := len(conv.History()); got != 0 {
		t.Errorf("expected empty history, got %d", got)
	}
}

func TestClaudeConversation_EmptyContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"content":[]}`))
	}))
	defer server.Close()

	client := anthropic.NewClaudeClientWithURL("test-key", "", "", server.URL, 5*time.Second)
	conv, _ := client.StartConversation(context.Background())

	if _, err := conv.Send(context.Background(), "hi"); err == nil {
		t.Error("expected error for empty content")
	}
}

func TestClaudeConversation_ReplyReturnedVerbatim(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"content":[{"type":"text","text":"  Two lines\nof reply. "}]}`))
	}))
	defer server.Close()

	client := anthropic.NewClaudeClientWithURL("test-key", "", "", server.URL, 5*time.Second)
	conv, _ := client.StartConversation(context.Background())

	reply, err := conv.Send(context.Background(), "hi")
	if err != nil {
		t.Fatalf("Send error: %v", err)
	}
	if reply != "  Two lines\nof reply. " {
		t.Errorf("expected reply unchanged, got %q", reply)
	}
}

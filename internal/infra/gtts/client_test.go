package gtts

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"voice-chat/internal/infra"
)

func TestTokenize_ShortText(t *testing.T) {
	chunks := tokenize("  Hello there.  ", maxChunk)
	if len(chunks) != 1 || chunks[0] != "Hello there." {
		t.Errorf("unexpected chunks %q", chunks)
	}
}

func TestTokenize_SplitsOnPunctuation(t *testing.T) {
	first := strings.Repeat("a", 60) + "."
	second := strings.Repeat("b", 60)
	chunks := tokenize(first+" "+second, maxChunk)

	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d: %q", len(chunks), chunks)
	}
	if chunks[0] != first || chunks[1] != second {
		t.Errorf("unexpected chunks %q", chunks)
	}
}

func TestTokenize_FallsBackToWhitespace(t *testing.T) {
	text := strings.TrimSpace(strings.Repeat("word ", 50))
	chunks := tokenize(text, maxChunk)

	if len(chunks) < 3 {
		t.Fatalf("expected at least 3 chunks, got %d", len(chunks))
	}
	for _, c := range chunks {
		if utf8.RuneCountInString(c) > maxChunk {
			t.Errorf("chunk longer than %d runes: %q", maxChunk, c)
		}
		if strings.HasPrefix(c, " ") || strings.HasSuffix(c, " ") || strings.Contains(c, "wor d") {
			t.Errorf("chunk split mid-word or untrimmed: %q", c)
		}
	}
	if strings.Join(chunks, " ") != text {
		t.Error("chunks do not reassemble to the original text")
	}
}

func TestTokenize_HardSplit(t *testing.T) {
	chunks := tokenize(strings.Repeat("x", 250), maxChunk)
	if len(chunks) != 3 || len(chunks[0]) != 100 || len(chunks[2]) != 50 {
		t.Errorf("unexpected hard split %d chunks", len(chunks))
	}
}

func TestTokenize_Empty(t *testing.T) {
	if chunks := tokenize("   ", maxChunk); len(chunks) != 0 {
		t.Errorf("expected no chunks, got %q", chunks)
	}
	if chunks := tokenize("...", maxChunk); len(chunks) != 0 {
		t.Errorf("expected punctuation-only text dropped, got %q", chunks)
	}
}

func TestClient_SynthesizeConcatenatesChunks(t *testing.T) {
	var queries []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/translate_tts" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("client") != "tw-ob" || q.Get("tl") != "en" || q.Get("total") != "2" {
			t.Errorf("unexpected query %v", q)
		}
		queries = append(queries, q.Get("idx"))
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write([]byte("frame" + q.Get("idx") + ";"))
	}))
	defer server.Close()

	client := NewClientWithURL("", server.URL, 5*time.Second)
	text := strings.Repeat("a", 80) + ". " + strings.Repeat("b", 40)

	audio, err := client.Synthesize(context.Background(), text)
	if err != nil {
		t.Fatalf("Synthesize() error: %v", err)
	}
	if string(audio) != "frame0;frame1;" {
		t.Errorf("unexpected audio %q", audio)
	}
	if strings.Join(queries, ",") != "0,1" {
		t.Errorf("expected chunks in order, got %v", queries)
	}
}

func TestClient_SynthesizeHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClientWithURL("en", server.URL, 5*time.Second)
	_, err := client.Synthesize(context.Background(), "hello")
	if err == nil {
		t.Fatal("expected error for 429")
	}
	if !strings.Contains(err.Error(), "service unavailable") {
		t.Errorf("expected throttling reported as service side, got %v", err)
	}
}

func TestClient_SynthesizeRejectedRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer server.Close()

	client := NewClientWithURL("xx", server.URL, 5*time.Second)
	_, err := client.Synthesize(context.Background(), "hello")

	var statusErr *infra.StatusError
	if !errors.As(err, &statusErr) || statusErr.ServerSide() {
		t.Fatalf("expected request-side status error, got %v", err)
	}
	if !strings.Contains(err.Error(), "request rejected") {
		t.Errorf("expected rejection named in error, got %v", err)
	}
}

func TestClient_SynthesizeEmptyText(t *testing.T) {
	client := NewClientWithURL("en", "http://unused", time.Second)
	if _, err := client.Synthesize(context.Background(), " "); err == nil {
		t.Error("expected error for empty text")
	}
}

package web_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"voice-chat/internal/infra/web"
)

func writeClip(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "reply.mp3")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestClipStore_PlayCopiesClip(t *testing.T) {
	store := web.NewClipStore(2)
	path := writeClip(t, "ID3one")

	id, err := store.Play(context.Background(), path)
	if err != nil {
		t.Fatalf("Play() error: %v", err)
	}
	os.Remove(path)

	data, ok := store.Get(id)
	if !ok || string(data) != "ID3one" {
		t.Errorf("expected clip to survive file removal, got %q %v", data, ok)
	}
}

func TestClipStore_EvictsOldest(t *testing.T) {
	store := web.NewClipStore(2)

	first, _ := store.Play(context.Background(), writeClip(t, "1"))
	store.Play(context.Background(), writeClip(t, "2"))
	third, _ := store.Play(context.Background(), writeClip(t, "3"))

	if _, ok := store.Get(first); ok {
		t.Error("expected oldest clip evicted")
	}
	if _, ok := store.Get(third); !ok {
		t.Error("expected newest clip kept")
	}
	if store.Len() != 2 {
		t.Errorf("expected 2 clips, got %d", store.Len())
	}
}

func TestClipStore_MissingFile(t *testing.T) {
	store := web.NewClipStore(0)
	if _, err := store.Play(context.Background(), filepath.Join(t.TempDir(), "gone.mp3")); err == nil {
		t.Error("expected error for missing file")
	}
}

package audio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"voice-chat/internal/domain"
)

// FileSource treats each new recording dropped into dir as one utterance.
// Consumed files are renamed with a .processed suffix.
type FileSource struct {
	dir          string
	pollInterval time.Duration
	processed    map[string]bool
	mu           sync.Mutex
}

func NewFileSource(dir string) *FileSource {
	return &FileSource{
		dir:          dir,
		pollInterval: 500 * time.Millisecond,
		processed:    make(map[string]bool),
	}
}

func (f *FileSource) Name() string {
	return "file"
}

func (f *FileSource) Listen(ctx context.Context) (domain.Recording, error) {
	if err := os.MkdirAll(f.dir, 0755); err != nil {
		return domain.Recording{}, fmt.Errorf("creating audio dir: %w", err)
	}

	ticker := time.NewTicker(f.pollInterval)
	defer ticker.Stop()

	for {
		rec, found, err := f.checkForNewFile()
		if err != nil {
			return domain.Recording{}, err
		}
		if found {
			return rec, nil
		}

		select {
		case <-ctx.Done():
			return domain.Recording{}, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (f *FileSource) checkForNewFile() (domain.Recording, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return domain.Recording{}, false, fmt.Errorf("reading dir: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		format, ok := FormatFromName(entry.Name())
		if !ok {
			continue
		}

		path := filepath.Join(f.dir, entry.Name())
		if f.processed[path] {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return domain.Recording{}, false, fmt.Errorf("reading file %s: %w", path, err)
		}

		f.processed[path] = true
		os.Rename(path, path+".processed")

		return domain.Recording{Data: data, Format: format}, true, nil
	}

	return domain.Recording{}, false, nil
}

// FormatFromName maps a file extension to a recording format.
func FormatFromName(name string) (domain.AudioFormat, bool) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".wav":
		return domain.FormatWAV, true
	case ".webm":
		return domain.FormatWebM, true
	case ".ogg", ".oga":
		return domain.FormatOgg, true
	case ".mp3":
		return domain.FormatMP3, true
	}
	return "", false
}

// StaticSource yields a recording that was captured elsewhere, such as a
// browser upload.
type StaticSource struct {
	rec domain.Recording
}

func NewStaticSource(rec domain.Recording) *StaticSource {
	return &StaticSource{rec: rec}
}

func (s *StaticSource) Name() string {
	return "upload"
}

func (s *StaticSource) Listen(ctx context.Context) (domain.Recording, error) {
	if err := ctx.Err(); err != nil {
		return domain.Recording{}, err
	}
	return s.rec, nil
}

package audio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DirPlayer keeps each clip by copying it into dir. It stands in for the
// speaker on machines built without portaudio.
type DirPlayer struct {
	dir string
}

func NewDirPlayer(dir string) *DirPlayer {
	return &DirPlayer{dir: dir}
}

func (d *DirPlayer) Play(_ context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading clip: %w", err)
	}

	if err := os.MkdirAll(d.dir, 0755); err != nil {
		return "", fmt.Errorf("creating clip dir: %w", err)
	}

	dest := filepath.Join(d.dir, fmt.Sprintf("reply-%s.mp3", time.Now().Format("20060102-150405.000")))
	if err := os.WriteFile(dest, data, 0644); err != nil {
		return "", fmt.Errorf("writing clip: %w", err)
	}
	return dest, nil
}

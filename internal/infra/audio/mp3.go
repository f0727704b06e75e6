package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/hajimehoshi/go-mp3"
)

// decodeMP3 returns interleaved 16-bit stereo samples and the sample rate.
func decodeMP3(data []byte) ([]int16, int, error) {
	dec, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return nil, 0, fmt.Errorf("creating mp3 decoder: %w", err)
	}

	raw, err := io.ReadAll(dec)
	if err != nil {
		return nil, 0, fmt.Errorf("decoding mp3: %w", err)
	}

	samples := make([]int16, len(raw)/2)
	if err := binary.Read(bytes.NewReader(raw[:len(samples)*2]), binary.LittleEndian, samples); err != nil {
		return nil, 0, fmt.Errorf("reading pcm: %w", err)
	}

	return samples, dec.SampleRate(), nil
}

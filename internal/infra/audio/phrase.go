package audio

import (
	"math"
	"time"
)

type PhraseConfig struct {
	// EnergyThreshold is the RMS level above which a frame counts as speech.
	EnergyThreshold float64
	// Pause is the trailing silence that ends a phrase.
	Pause time.Duration
	// MaxPhrase caps a phrase; zero means no cap.
	MaxPhrase time.Duration
}

func DefaultPhraseConfig() PhraseConfig {
	return PhraseConfig{
		EnergyThreshold: 300,
		Pause:           800 * time.Millisecond,
	}
}

// phraseDetector splits a stream of frames into one phrase: it ignores
// frames until the first loud one, then collects until Pause of silence.
type phraseDetector struct {
	threshold    float64
	pauseSamples int
	maxSamples   int

	started bool
	silent  int
	samples []int16
}

func newPhraseDetector(cfg PhraseConfig, sampleRate int) *phraseDetector {
	return &phraseDetector{
		threshold:    cfg.EnergyThreshold,
		pauseSamples: int(cfg.Pause.Seconds() * float64(sampleRate)),
		maxSamples:   int(cfg.MaxPhrase.Seconds() * float64(sampleRate)),
		samples:      make([]int16, 0, sampleRate*5),
	}
}

// Feed adds one frame and reports whether the phrase is complete.
func (d *phraseDetector) Feed(frame []int16) bool {
	loud := rms(frame) > d.threshold

	if !d.started {
		if !loud {
			return false
		}
		d.started = true
	}

	d.samples = append(d.samples, frame...)

	if loud {
		d.silent = 0
	} else {
		d.silent += len(frame)
	}

	if d.silent >= d.pauseSamples {
		return true
	}
	if d.maxSamples > 0 && len(d.samples) >= d.maxSamples {
		return true
	}
	return false
}

func (d *phraseDetector) Phrase() []int16 {
	return d.samples
}

func rms(frame []int16) float64 {
	if len(frame) == 0 {
		return 0
	}
	var sum float64
	for _, s := range frame {
		v := float64(s)
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(frame)))
}

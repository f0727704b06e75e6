package domain

type AudioFormat string

const (
	FormatWAV  AudioFormat = "wav"
	FormatWebM AudioFormat = "webm"
	FormatOgg  AudioFormat = "ogg"
	FormatMP3  AudioFormat = "mp3"
)

// Recording is the raw audio of a single utterance.
type Recording struct {
	Data       []byte
	Format     AudioFormat
	SampleRate int
}

func (r Recording) Empty() bool {
	return len(r.Data) == 0
}

package googlespeech

import (
	"context"
	"fmt"
	"strings"
	"sync"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"google.golang.org/grpc/status"

	"voice-chat/internal/application"
	"voice-chat/internal/domain"
)

type recognizeFunc func(ctx context.Context, req *speechpb.RecognizeRequest) (*speechpb.RecognizeResponse, error)

// Recognizer transcribes one recording with Cloud Speech-to-Text. The gRPC
// client is dialed on first use.
type Recognizer struct {
	opts Options

	mu        sync.Mutex
	client    *speech.Client
	recognize recognizeFunc
}

func NewRecognizer(opts Options) *Recognizer {
	if opts.Language == "" {
		opts.Language = "en-US"
	}
	return &Recognizer{opts: opts}
}

func (r *Recognizer) recognizer(ctx context.Context) (recognizeFunc, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.recognize != nil {
		return r.recognize, nil
	}

	client, err := speech.NewClient(ctx, r.opts.clientOptions()...)
	if err != nil {
		return nil, fmt.Errorf("creating speech client: %w", err)
	}
	r.client = client
	r.recognize = func(ctx context.Context, req *speechpb.RecognizeRequest) (*speechpb.RecognizeResponse, error) {
		return client.Recognize(ctx, req)
	}
	return r.recognize, nil
}

func (r *Recognizer) Recognize(ctx context.Context, rec domain.Recording) (string, error) {
	config, err := recognitionConfig(rec, r.opts.Language)
	if err != nil {
		return "", fmt.Errorf("%w: %w", application.ErrServiceUnreachable, err)
	}

	recognize, err := r.recognizer(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %w", application.ErrServiceUnreachable, err)
	}

	ctx, cancel := context.WithTimeout(ctx, r.opts.timeout())
	defer cancel()

	resp, err := recognize(ctx, &speechpb.RecognizeRequest{
		Config: config,
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: rec.Data},
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: speech recognize (%s): %w", application.ErrServiceUnreachable, status.Code(err), err)
	}

	var parts []string
	for _, result := range resp.GetResults() {
		alternatives := result.GetAlternatives()
		if len(alternatives) == 0 {
			continue
		}
		if text := strings.TrimSpace(alternatives[0].GetTranscript()); text != "" {
			parts = append(parts, text)
		}
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("%w: no transcription results", application.ErrUnintelligible)
	}
	return strings.Join(parts, " "), nil
}

func (r *Recognizer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.client == nil {
		return nil
	}
	err := r.client.Close()
	r.client = nil
	r.recognize = nil
	return err
}

func recognitionConfig(rec domain.Recording, language string) (*speechpb.RecognitionConfig, error) {
	config := &speechpb.RecognitionConfig{LanguageCode: language}

	switch rec.Format {
	case domain.FormatWAV, "":
		config.Encoding = speechpb.RecognitionConfig_LINEAR16
		config.SampleRateHertz = int32(rec.SampleRate)
	case domain.FormatWebM:
		config.Encoding = speechpb.RecognitionConfig_WEBM_OPUS
		config.SampleRateHertz = 48000
	case domain.FormatOgg:
		config.Encoding = speechpb.RecognitionConfig_OGG_OPUS
		config.SampleRateHertz = 48000
	default:
		return nil, fmt.Errorf("unsupported recording format %q", rec.Format)
	}

	if rec.SampleRate > 0 {
		config.SampleRateHertz = int32(rec.SampleRate)
	}
	return config, nil
}

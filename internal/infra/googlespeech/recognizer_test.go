package googlespeech

import (
	"context"
	"errors"
	"testing"

	"cloud.google.com/go/speech/apiv1/speechpb"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"voice-chat/internal/application"
	"voice-chat/internal/domain"
)

func stubRecognizer(fn recognizeFunc) *Recognizer {
	r := NewRecognizer(Options{})
	r.recognize = fn
	return r
}

func TestRecognizer_JoinsResults(t *testing.T) {
	var got *speechpb.RecognizeRequest
	r := stubRecognizer(func(_ context.Context, req *speechpb.RecognizeRequest) (*speechpb.RecognizeResponse, error) {
		got = req
		return &speechpb.RecognizeResponse{
			Results: []*speechpb.SpeechRecognitionResult{
				{Alternatives: []*speechpb.SpeechRecognitionAlternative{{Transcript: "what is"}}},
				{Alternatives: []*speechpb.SpeechRecognitionAlternative{{Transcript: " the weather "}}},
			},
		}, nil
	})

	text, err := r.Recognize(context.Background(), domain.Recording{Data: []byte("RIFF"), Format: domain.FormatWAV, SampleRate: 16000})
	if err != nil {
		t.Fatalf("Recognize() error: %v", err)
	}
	if text != "what is the weather" {
		t.Errorf("unexpected transcript %q", text)
	}
	if got.GetConfig().GetEncoding() != speechpb.RecognitionConfig_LINEAR16 {
		t.Errorf("expected LINEAR16, got %v", got.GetConfig().GetEncoding())
	}
	if got.GetConfig().GetSampleRateHertz() != 16000 || got.GetConfig().GetLanguageCode() != "en-US" {
		t.Errorf("unexpected config %v", got.GetConfig())
	}
}

func TestRecognizer_NoResultsIsUnintelligible(t *testing.T) {
	r := stubRecognizer(func(_ context.Context, _ *speechpb.RecognizeRequest) (*speechpb.RecognizeResponse, error) {
		return &speechpb.RecognizeResponse{}, nil
	})

	_, err := r.Recognize(context.Background(), domain.Recording{Data: []byte("x"), Format: domain.FormatWebM})
	if !errors.Is(err, application.ErrUnintelligible) {
		t.Errorf("expected ErrUnintelligible, got %v", err)
	}
}

func TestRecognizer_RPCErrorIsUnreachable(t *testing.T) {
	r := stubRecognizer(func(_ context.Context, _ *speechpb.RecognizeRequest) (*speechpb.RecognizeResponse, error) {
		return nil, status.Error(codes.Unavailable, "connection refused")
	})

	_, err := r.Recognize(context.Background(), domain.Recording{Data: []byte("x"), Format: domain.FormatWAV})
	if !errors.Is(err, application.ErrServiceUnreachable) {
		t.Errorf("expected ErrServiceUnreachable, got %v", err)
	}
}

func TestRecognitionConfig(t *testing.T) {
	tests := []struct {
		format   domain.AudioFormat
		encoding speechpb.RecognitionConfig_AudioEncoding
		rate     int32
		wantErr  bool
	}{
		{domain.FormatWAV, speechpb.RecognitionConfig_LINEAR16, 0, false},
		{domain.FormatWebM, speechpb.RecognitionConfig_WEBM_OPUS, 48000, false},
		{domain.FormatOgg, speechpb.RecognitionConfig_OGG_OPUS, 48000, false},
		{domain.FormatMP3, 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			cfg, err := recognitionConfig(domain.Recording{Format: tt.format}, "en-GB")
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cfg.Encoding != tt.encoding || cfg.SampleRateHertz != tt.rate || cfg.LanguageCode != "en-GB" {
				t.Errorf("unexpected config %v", cfg)
			}
		})
	}
}

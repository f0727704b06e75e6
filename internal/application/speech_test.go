package application_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"voice-chat/internal/application"
	"voice-chat/internal/domain"
)

func TestSpeechCapture_Statuses(t *testing.T) {
	tests := []struct {
		name       string
		recognizer *mockRecognizer
		source     *mockAudioSource
		wantStatus application.CaptureStatus
		wantText   string
	}{
		{
			name:       "recognized",
			recognizer: &mockRecognizer{transcriptions: map[string]string{"a": " hello "}},
			source:     utterance("a"),
			wantStatus: application.CaptureOK,
			wantText:   "hello",
		},
		{
			name:       "unintelligible",
			recognizer: &mockRecognizer{err: fmt.Errorf("google: %w", application.ErrUnintelligible)},
			source:     utterance("a"),
			wantStatus: application.CaptureUnintelligible,
		},
		{
			name:       "unreachable",
			recognizer: &mockRecognizer{err: fmt.Errorf("google: %w", application.ErrServiceUnreachable)},
			source:     utterance("a"),
			wantStatus: application.CaptureUnreachable,
		},
		{
			name:       "unclassified error counts as unreachable",
			recognizer: &mockRecognizer{err: errors.New("tls handshake timeout")},
			source:     utterance("a"),
			wantStatus: application.CaptureUnreachable,
		},
		{
			name:       "empty transcript",
			recognizer: &mockRecognizer{transcriptions: map[string]string{"a": ""}},
			source:     utterance("a"),
			wantStatus: application.CaptureUnintelligible,
		},
		{
			name:       "empty recording",
			recognizer: &mockRecognizer{},
			source:     &mockAudioSource{recordings: []domain.Recording{{}}},
			wantStatus: application.CaptureUnintelligible,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			capture, err := application.NewSpeechCapture(tt.recognizer).CaptureUtterance(context.Background(), tt.source)
			if err != nil {
				t.Fatalf("CaptureUtterance error: %v", err)
			}
			if capture.Status != tt.wantStatus {
				t.Errorf("status: got %s, want %s", capture.Status, tt.wantStatus)
			}
			if capture.Text != tt.wantText {
				t.Errorf("text: got %q, want %q", capture.Text, tt.wantText)
			}
			if !capture.OK() && capture.Diagnostic() == "" {
				t.Error("failed capture should carry a diagnostic")
			}
		})
	}
}

func TestSpeechCapture_CanceledContextIsAnError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	recognizer := &mockRecognizer{err: context.Canceled}
	_, err := application.NewSpeechCapture(recognizer).CaptureUtterance(ctx, utterance("a"))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error: got %v, want context.Canceled", err)
	}
}

func TestNoopRecognizer_IsUnreachable(t *testing.T) {
	_, err := (&application.NoopRecognizer{}).Recognize(context.Background(), domain.Recording{})
	if !errors.Is(err, application.ErrServiceUnreachable) {
		t.Errorf("error: got %v, want ErrServiceUnreachable", err)
	}
}

package googlespeech

import (
	"context"
	"fmt"
	"sync"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	"cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
)

type synthesizeFunc func(ctx context.Context, req *texttospeechpb.SynthesizeSpeechRequest) (*texttospeechpb.SynthesizeSpeechResponse, error)

// Synthesizer renders replies to MP3 with Cloud Text-to-Speech.
type Synthesizer struct {
	opts Options

	mu         sync.Mutex
	client     *texttospeech.Client
	synthesize synthesizeFunc
}

func NewSynthesizer(opts Options) *Synthesizer {
	if opts.Language == "" {
		opts.Language = "en"
	}
	return &Synthesizer{opts: opts}
}

func (s *Synthesizer) synthesizer(ctx context.Context) (synthesizeFunc, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.synthesize != nil {
		return s.synthesize, nil
	}

	client, err := texttospeech.NewClient(ctx, s.opts.clientOptions()...)
	if err != nil {
		return nil, fmt.Errorf("creating text-to-speech client: %w", err)
	}
	s.client = client
	s.synthesize = func(ctx context.Context, req *texttospeechpb.SynthesizeSpeechRequest) (*texttospeechpb.SynthesizeSpeechResponse, error) {
		return client.SynthesizeSpeech(ctx, req)
	}
	return s.synthesize, nil
}

func (s *Synthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	synthesize, err := s.synthesizer(ctx)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.timeout())
	defer cancel()

	resp, err := synthesize(ctx, &texttospeechpb.SynthesizeSpeechRequest{
		Input: &texttospeechpb.SynthesisInput{
			InputSource: &texttospeechpb.SynthesisInput_Text{Text: text},
		},
		Voice: &texttospeechpb.VoiceSelectionParams{
			LanguageCode: s.opts.Language,
			SsmlGender:   texttospeechpb.SsmlVoiceGender_NEUTRAL,
		},
		AudioConfig: &texttospeechpb.AudioConfig{
			AudioEncoding: texttospeechpb.AudioEncoding_MP3,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("synthesizing speech: %w", err)
	}

	if len(resp.GetAudioContent()) == 0 {
		return nil, fmt.Errorf("empty audio from text-to-speech")
	}
	return resp.GetAudioContent(), nil
}

func (s *Synthesizer) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client == nil {
		return nil
	}
	err := s.client.Close()
	s.client = nil
	s.synthesize = nil
	return err
}

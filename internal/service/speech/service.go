package speech

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// Service wraps the audio endpoints: Whisper transcription and speech
// synthesis. Neither call is retried; failures are treated as hard by
// the voice pipeline.
type Service struct {
	client   *openai.Client
	language string
}

// NewService creates the speech client. language is the transcription
// target (ISO 639-1); the synthesis voice is fixed.
func NewService(apiKey, baseURL, language string) *Service {
	var client *openai.Client
	if baseURL != "" {
		clientCfg := openai.DefaultConfig(apiKey)
		clientCfg.BaseURL = baseURL
		client = openai.NewClientWithConfig(clientCfg)
	} else {
		client = openai.NewClient(apiKey)
	}
	if language == "" {
		language = "de"
	}
	return &Service{
		client:   client,
		language: language,
	}
}

// Transcribe submits the audio file and returns the transcript text.
func (s *Service) Transcribe(ctx context.Context, audioPath string) (string, error) {
	resp, err := s.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    openai.Whisper1,
		FilePath: audioPath,
		Language: s.language,
	})
	if err != nil {
		return "", fmt.Errorf("transcribe audio: %w", err)
	}
	return strings.TrimSpace(resp.Text), nil
}

// Synthesize converts text to speech and writes the audio to destPath.
func (s *Service) Synthesize(ctx context.Context, text, destPath string) error {
	resp, err := s.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.TTSModel1,
		Input:          text,
		Voice:          openai.VoiceAlloy,
		ResponseFormat: openai.SpeechResponseFormatMp3,
	})
	if err != nil {
		return fmt.Errorf("synthesize speech: %w", err)
	}
	defer resp.Close()

	out, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("create speech file: %w", err)
	}
	defer out.Close()
	if _, err := io.Copy(out, resp); err != nil {
		return fmt.Errorf("write speech file: %w", err)
	}
	return nil
}

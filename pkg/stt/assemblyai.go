package stt

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"
	backoff "github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/ashwiniraykar1997/speech-to-text-app/pkg/config"
)

// AssemblyAI transcribes audio with the official AssemblyAI SDK
type AssemblyAI struct {
	client   *aai.Client
	apiKey   string
	language string
	logger   *zap.Logger
}

// NewAssemblyAI creates an AssemblyAI transcriber
func NewAssemblyAI(cfg *config.AssemblyAIConfig, logger *zap.Logger) *AssemblyAI {
	if logger == nil {
		logger = zap.NewNop()
	}
	language := cfg.LanguageCode
	if language == "" {
		language = "en"
	}
	return &AssemblyAI{
		client:   aai.NewClient(cfg.APIKey),
		apiKey:   cfg.APIKey,
		language: language,
		logger:   logger,
	}
}

// Configured reports whether an API key is set
func (a *AssemblyAI) Configured() bool {
	return a.apiKey != ""
}

// Transcribe uploads the audio and waits for the transcript. Upload failures are retried
// with exponential backoff; a transcript the provider marks as failed is not.
func (a *AssemblyAI) Transcribe(ctx context.Context, audio []byte, filename string) (*Result, error) {
	params := &aai.TranscriptOptionalParams{
		LanguageCode: aai.TranscriptLanguageCode(a.language),
	}

	var result *Result
	submit := func() error {
		transcript, err := a.client.Transcripts.TranscribeFromReader(ctx, bytes.NewReader(audio), params)
		if err != nil {
			return err
		}
		res, err := fromTranscript(transcript)
		if err != nil {
			return backoff.Permanent(err)
		}
		result = res
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = time.Second
	bo.MaxInterval = 5 * time.Second
	bo.MaxElapsedTime = 30 * time.Second

	start := time.Now()
	if err := backoff.Retry(submit, backoff.WithContext(bo, ctx)); err != nil {
		a.logger.Error("❌ AssemblyAI transcription failed",
			zap.String("filename", filename),
			zap.Error(err),
		)
		return nil, err
	}

	a.logger.Info("✅ Transcription completed",
		zap.String("filename", filename),
		zap.Int("chars", len(result.Text)),
		zap.Duration("took", time.Since(start)),
	)
	return result, nil
}

// fromTranscript maps a finished SDK transcript to a Result
func fromTranscript(t aai.Transcript) (*Result, error) {
	if t.Status == aai.TranscriptStatusError {
		msg := "unknown error"
		if t.Error != nil {
			msg = *t.Error
		}
		return nil, fmt.Errorf("%w: %s", ErrTranscriptionFailed, msg)
	}

	res := &Result{Language: string(t.LanguageCode)}
	if t.Text != nil {
		res.Text = strings.TrimSpace(*t.Text)
	}
	res.DurationSeconds = audioSeconds(t.AudioDuration)
	return res, nil
}

// audioSeconds reads the audio_duration field, reported in seconds
func audioSeconds(v interface{}) *float64 {
	var d float64
	switch n := v.(type) {
	case *int64:
		if n == nil {
			return nil
		}
		d = float64(*n)
	case *float64:
		if n == nil {
			return nil
		}
		d = *n
	default:
		return nil
	}
	return &d
}

package agents

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

const transcriptionURL = "https://api.openai.com/v1/audio/transcriptions"

// Transcriber converts voice notes to text via the OpenAI transcription API.
type Transcriber struct {
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewTranscriber creates a Transcriber. An empty API key disables it.
func NewTranscriber(apiKey, model string) *Transcriber {
	if model == "" {
		model = "whisper-1"
	}
	return &Transcriber{
		apiKey: apiKey,
		model:  model,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Available reports whether transcription is configured.
func (t *Transcriber) Available() bool {
	return t.apiKey != ""
}

// Transcribe decodes base64 audio and returns its transcript.
func (t *Transcriber) Transcribe(ctx context.Context, audioBase64 string) (string, error) {
	if t.apiKey == "" {
		return "", ErrUnavailable
	}

	audio, err := base64.StdEncoding.DecodeString(audioBase64)
	if err != nil {
		return "", fmt.Errorf("decode audio: %w", err)
	}
	if len(audio) == 0 {
		return "", errors.New("empty audio payload")
	}

	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	part, err := w.CreateFormFile("file", "voice_note.webm")
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return "", fmt.Errorf("write audio: %w", err)
	}
	if err := w.WriteField("model", t.model); err != nil {
		return "", fmt.Errorf("write model field: %w", err)
	}
	if err := w.WriteField("response_format", "text"); err != nil {
		return "", fmt.Errorf("write format field: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, transcriptionURL, &body)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+t.apiKey)
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("transcription request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read transcription response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("transcription failed with status %d: %s", resp.StatusCode, data)
	}

	return strings.TrimSpace(string(data)), nil
}

package agents

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/neuroresolv/backend/internal/config"
)

// ErrUnavailable is returned when no API key is configured. Callers fall back
// to deterministic content.
var ErrUnavailable = errors.New("llm client unavailable")

// Client wraps the Gemini API for all coaching agents. A nil underlying
// client puts every agent into fallback mode.
type Client struct {
	gen               *genai.Client
	log               *zap.Logger
	generationModel   string
	regenerationModel string
}

// New creates the shared agent client. A missing API key is not an error;
// agents serve deterministic fallbacks instead.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Client, error) {
	c := &Client{
		log:               log,
		generationModel:   cfg.GenerationModel,
		regenerationModel: cfg.RegenerationModel,
	}

	if cfg.GoogleAPIKey == "" {
		log.Warn("google api key not configured, agents run in fallback mode")
		return c, nil
	}

	gen, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: cfg.GoogleAPIKey})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	c.gen = gen

	return c, nil
}

// Available reports whether real generation is possible.
func (c *Client) Available() bool {
	return c.gen != nil
}

// generateJSON sends one prompt and decodes the JSON response into out.
func (c *Client) generateJSON(ctx context.Context, model, system, prompt string, temperature float32, out any) error {
	if c.gen == nil {
		return ErrUnavailable
	}

	cfg := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(temperature),
		ResponseMIMEType: "application/json",
	}
	if system != "" {
		cfg.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}

	resp, err := c.gen.Models.GenerateContent(ctx, model, genai.Text(prompt), cfg)
	if err != nil {
		return fmt.Errorf("generate content: %w", err)
	}

	text := stripCodeFence(resp.Text())
	if text == "" {
		return errors.New("empty model response")
	}

	if err := json.Unmarshal([]byte(text), out); err != nil {
		return fmt.Errorf("decode model response: %w", err)
	}

	return nil
}

// stripCodeFence removes a ```json ... ``` wrapper if the model added one
// despite the JSON mime type.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

package taunt

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/vovakirdan/serpent-arena/internal/config"
)

// KeyEnv names the environment variable holding the Gemini API key.
const KeyEnv = "GEMINI_API_KEY"

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"

// ErrEmptyResponse is returned when the model answers with no text.
var ErrEmptyResponse = errors.New("taunt: empty model response")

// Gemini generates taunts with the Gemini generateContent endpoint.
type Gemini struct {
	client  *http.Client
	baseURL string
	model   string
	key     string
	prompt  string
}

// NewGemini builds a client authenticated with key.
func NewGemini(cfg config.TauntConfig, key string) *Gemini {
	return &Gemini{
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: defaultBaseURL,
		model:   cfg.Model,
		key:     key,
		prompt:  cfg.Prompt,
	}
}

// KeyFromEnv reads the API key from the environment.
func KeyFromEnv() string {
	return strings.TrimSpace(os.Getenv(KeyEnv))
}

// FromEnv returns a Gemini generator when KeyEnv is set, or nil.
func FromEnv(cfg config.TauntConfig) Generator {
	key := KeyFromEnv()
	if key == "" {
		return nil
	}
	return NewGemini(cfg, key)
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generationConfig struct {
	Temperature      float64 `json:"temperature"`
	MaxOutputTokens  int     `json:"maxOutputTokens"`
	ResponseMimeType string  `json:"responseMimeType,omitempty"`
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Generate asks for a single taunt about situation.
func (g *Gemini) Generate(ctx context.Context, situation string) (string, error) {
	prompt := fmt.Sprintf("The player just %s. Give me a short taunt.", situation)
	text, err := g.call(ctx, prompt, generationConfig{Temperature: 0.9, MaxOutputTokens: 1000})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// Batch asks for n distinct taunts as a JSON array.
func (g *Gemini) Batch(ctx context.Context, situation string, n int) ([]string, error) {
	prompt := fmt.Sprintf("Give me %d distinct, funny, sarcastic taunts for a player who just: %s.\n"+
		`Return them as a JSON array of strings. Example: ["Taunt 1", "Taunt 2"]`, n, situation)
	text, err := g.call(ctx, prompt, generationConfig{
		Temperature:      1.0,
		MaxOutputTokens:  1000,
		ResponseMimeType: "application/json",
	})
	if err != nil {
		return nil, err
	}
	var out []string
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return nil, fmt.Errorf("taunt: decode batch: %w", err)
	}
	return out, nil
}

func (g *Gemini) call(ctx context.Context, prompt string, gc generationConfig) (string, error) {
	body, err := json.Marshal(generateRequest{
		Contents:         []content{{Parts: []part{{Text: g.prompt + "\n\n" + prompt}}}},
		GenerationConfig: gc,
	})
	if err != nil {
		return "", fmt.Errorf("taunt: encode request: %w", err)
	}

	url := fmt.Sprintf("%s/%s:generateContent", g.baseURL, g.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("taunt: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.key)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("taunt: request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("taunt: read response: %w", err)
	}

	var gr generateResponse
	if err := json.Unmarshal(data, &gr); err != nil {
		return "", fmt.Errorf("taunt: decode response (status %d): %w", resp.StatusCode, err)
	}
	if gr.Error != nil {
		return "", fmt.Errorf("taunt: api error %d: %s", gr.Error.Code, gr.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("taunt: unexpected status %d", resp.StatusCode)
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyResponse
	}
	return gr.Candidates[0].Content.Parts[0].Text, nil
}

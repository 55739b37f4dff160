package summary

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/book-expert/logger"
	"google.golang.org/genai"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-2.5-flash"

const summaryPrompt = `You help Chinese readers study English news.
Summarize the following English passage in two or three sentences of simplified Chinese.
Reply with the summary only.

Passage:
---
%s
---`

var (
	// ErrNoAPIKeys indicates a Gemini summarizer without credentials.
	ErrNoAPIKeys = errors.New("at least one Gemini API key is required")
	// ErrEmptyResponse indicates Gemini returned no text.
	ErrEmptyResponse = errors.New("empty response from Gemini")
	// ErrKeysExhausted indicates every API key was rate limited.
	ErrKeysExhausted = errors.New("all Gemini API keys exhausted")
)

// GeminiConfig holds the settings for the Gemini summarizer.
type GeminiConfig struct {
	APIKeys []string
	Model   string
	Timeout time.Duration
	// BaseURL overrides the API endpoint; empty uses the public endpoint.
	BaseURL string
}

// Gemini summarizes passages with the Gemini API, rotating API keys when one
// is rate limited.
type Gemini struct {
	config     GeminiConfig
	log        *logger.Logger
	mutex      sync.Mutex
	currentKey int
}

// NewGemini creates a Gemini summarizer.
func NewGemini(cfg GeminiConfig, log *logger.Logger) (*Gemini, error) {
	if len(cfg.APIKeys) == 0 {
		return nil, ErrNoAPIKeys
	}

	if cfg.Model == "" {
		cfg.Model = DefaultGeminiModel
	}

	return &Gemini{
		config:     cfg,
		log:        log,
		mutex:      sync.Mutex{},
		currentKey: 0,
	}, nil
}

// Summarize sends the passage to Gemini and returns the trimmed summary.
func (g *Gemini) Summarize(ctx context.Context, text string) (string, error) {
	if g.config.Timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, g.config.Timeout)
		defer cancel()
	}

	prompt := fmt.Sprintf(summaryPrompt, text)

	var lastErr error

	for range g.config.APIKeys {
		keyIndex, key := g.key()

		summary, err := g.generate(ctx, key, prompt)
		if err == nil {
			return summary, nil
		}

		if !isRateLimited(err) {
			return "", err
		}

		g.log.Warn("Gemini key %d rate limited, rotating", keyIndex+1)
		g.rotate(keyIndex)

		lastErr = err
	}

	return "", fmt.Errorf("%w: %w", ErrKeysExhausted, lastErr)
}

func (g *Gemini) generate(ctx context.Context, key, prompt string) (string, error) {
	clientConfig := &genai.ClientConfig{
		APIKey:  key,
		Backend: genai.BackendGeminiAPI,
	}

	if g.config.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: g.config.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return "", fmt.Errorf("failed to create Gemini client: %w", err)
	}

	result, err := client.Models.GenerateContent(ctx, g.config.Model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return "", ErrEmptyResponse
	}

	var builder strings.Builder

	for _, part := range result.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			builder.WriteString(part.Text)
		}
	}

	summary := strings.TrimSpace(builder.String())
	if summary == "" {
		return "", ErrEmptyResponse
	}

	return summary, nil
}

func (g *Gemini) key() (int, string) {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	return g.currentKey, g.config.APIKeys[g.currentKey]
}

// rotate advances past failedIndex unless another request already did.
func (g *Gemini) rotate(failedIndex int) {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	if g.currentKey == failedIndex {
		g.currentKey = (g.currentKey + 1) % len(g.config.APIKeys)
	}
}

func isRateLimited(err error) bool {
	message := err.Error()

	return strings.Contains(message, "429") ||
		strings.Contains(message, "quota") ||
		strings.Contains(message, "RESOURCE_EXHAUSTED")
}

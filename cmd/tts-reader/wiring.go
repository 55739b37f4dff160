package main

import (
	"fmt"

	"github.com/book-expert/logger"
	"github.com/book-expert/tts-reader/internal/config"
	"github.com/book-expert/tts-reader/internal/core"
	"github.com/book-expert/tts-reader/internal/objectstore"
	"github.com/book-expert/tts-reader/internal/speech"
	"github.com/book-expert/tts-reader/internal/summary"
	"github.com/book-expert/tts-reader/internal/vocab"
	"github.com/go-redis/redis/v8"
	"github.com/nats-io/nats.go"
)

// connections holds the optional network clients. Nil fields are disabled.
type connections struct {
	nats  *nats.Conn
	store core.ObjectStore
	redis *redis.Client
}

// connect opens NATS (and the dictionary bucket) and Redis when configured.
func connect(cfg *config.Config, log *logger.Logger) (*connections, error) {
	deps := &connections{nats: nil, store: nil, redis: nil}

	if cfg.NATS.URL != "" {
		natsConnection, err := nats.Connect(cfg.NATS.URL, nats.Name("tts-reader"))
		if err != nil {
			return nil, fmt.Errorf("failed to connect to NATS at %s: %w", cfg.NATS.URL, err)
		}

		deps.nats = natsConnection

		jetstreamContext, err := natsConnection.JetStream()
		if err != nil {
			deps.Close()

			return nil, fmt.Errorf("failed to get JetStream context: %w", err)
		}

		store, err := objectstore.Open(jetstreamContext, cfg.NATS.DictionaryBucket)
		if err != nil {
			deps.Close()

			return nil, fmt.Errorf("failed to open dictionary bucket: %w", err)
		}

		deps.store = store

		log.Info("Connected to NATS at %s.", cfg.NATS.URL)
	}

	if cfg.Cache.RedisAddr != "" {
		deps.redis = redis.NewClient(&redis.Options{Addr: cfg.Cache.RedisAddr})

		log.Info("Caching summaries in Redis at %s.", cfg.Cache.RedisAddr)
	}

	return deps, nil
}

// Close releases every open client.
func (c *connections) Close() {
	if c.nats != nil {
		c.nats.Close()
	}

	if c.redis != nil {
		_ = c.redis.Close()
	}
}

func dictionarySource(cfg config.DictionaryConfig) vocab.Source {
	return vocab.Source{
		Kind:      cfg.Source,
		Path:      cfg.Path,
		ObjectKey: cfg.ObjectKey,
	}
}

// newSummarizer builds the configured provider, fronted by the Redis cache when one is given.
func newSummarizer(cfg *config.Config, redisClient *redis.Client, log *logger.Logger) (core.Summarizer, error) {
	var summarizer core.Summarizer

	switch cfg.Summarizer.Provider {
	case config.SummarizerGemini:
		gemini, err := summary.NewGemini(summary.GeminiConfig{
			APIKeys: cfg.Summarizer.APIKeys,
			Model:   cfg.Summarizer.Model,
			Timeout: cfg.Summarizer.Timeout(),
			BaseURL: "",
		}, log)
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini summarizer: %w", err)
		}

		summarizer = gemini
	default:
		summarizer = summary.NewStatic("")
	}

	if redisClient == nil {
		return summarizer, nil
	}

	cache := summary.NewRedisCache(redisClient, cfg.Cache.KeyPrefix, cfg.Cache.TTL())

	return summary.NewCached(summarizer, cache, log), nil
}

// newSynthesizer builds the configured engine. Real engines receive normalized sentences.
func newSynthesizer(cfg config.SpeechConfig, log *logger.Logger) (core.Synthesizer, error) {
	switch cfg.Provider {
	case config.SpeechHTTP:
		client := speech.NewHTTPClient(speech.HTTPClientConfig{
			BaseURL:     cfg.ServiceURL,
			Timeout:     cfg.Timeout(),
			Speaker:     cfg.Voice,
			Temperature: cfg.Temperature,
		})

		return speech.NewNormalized(client, speech.NewNormalizer()), nil
	case config.SpeechCommand:
		command, err := speech.NewCommand(speech.CommandConfig{
			BinaryPath:  cfg.BinaryPath,
			ModelPath:   cfg.ModelPath,
			Voice:       cfg.Voice,
			Temperature: cfg.Temperature,
		}, log)
		if err != nil {
			return nil, fmt.Errorf("failed to create speech command: %w", err)
		}

		return speech.NewNormalized(command, speech.NewNormalizer()), nil
	default:
		return speech.Noop{}, nil
	}
}

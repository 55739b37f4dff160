// Package config provides the configuration structure for the tts-reader.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/book-expert/configurator"
	"github.com/book-expert/logger"
	"github.com/ilyakaznacheev/cleanenv"
)

// Provider and source names accepted in the configuration file.
const (
	DictionaryBuiltin     = "builtin"
	DictionaryFile        = "file"
	DictionaryObjectStore = "objectstore"

	SummarizerStatic = "static"
	SummarizerGemini = "gemini"

	SpeechNone    = "none"
	SpeechHTTP    = "http"
	SpeechCommand = "command"
)

// Defaults applied to fields left empty by both the file and the environment.
const (
	DefaultListenAddr             = ":8080"
	DefaultReadTimeoutSeconds     = 10
	DefaultWriteTimeoutSeconds    = 30
	DefaultShutdownTimeoutSeconds = 10
	DefaultProcessSubject         = "reader.process"
	DefaultDictionaryBucket       = "READER_DICTIONARIES"
	DefaultSummarizerModel        = "gemini-2.5-flash"
	DefaultSummarizerTimeout      = 30
	DefaultCacheTTLSeconds        = 86400
	DefaultCacheKeyPrefix         = "reader:summary:"
	DefaultSpeechTimeoutSeconds   = 300
	DefaultSpeechVoice            = "en_female_1"
	DefaultSpeechTemperature      = 0.7
)

var (
	ErrUnknownDictionarySource = errors.New("unknown dictionary source")
	ErrDictionaryPathEmpty     = errors.New("dictionary path is required for the file source")
	ErrDictionaryKeyEmpty      = errors.New("dictionary object_key is required for the objectstore source")
	ErrNATSRequired            = errors.New("nats url is required for the objectstore dictionary source")
	ErrUnknownSummarizer       = errors.New("unknown summarizer provider")
	ErrAPIKeysEmpty            = errors.New("summarizer api_keys are required for the gemini provider")
	ErrUnknownSpeechProvider   = errors.New("unknown speech provider")
	ErrSpeechURLEmpty          = errors.New("speech service_url is required for the http provider")
	ErrSpeechBinaryEmpty       = errors.New("speech binary_path is required for the command provider")
	ErrNonPositiveTimeout      = errors.New("timeouts must be positive")
)

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	ListenAddr             string `toml:"listen_addr"              env:"READER_LISTEN_ADDR"`
	ReadTimeoutSeconds     int    `toml:"read_timeout_seconds"     env:"READER_READ_TIMEOUT_SECONDS"`
	WriteTimeoutSeconds    int    `toml:"write_timeout_seconds"    env:"READER_WRITE_TIMEOUT_SECONDS"`
	ShutdownTimeoutSeconds int    `toml:"shutdown_timeout_seconds" env:"READER_SHUTDOWN_TIMEOUT_SECONDS"`
}

// NATSConfig holds the configuration for NATS. An empty URL disables NATS.
type NATSConfig struct {
	URL              string `toml:"url"               env:"READER_NATS_URL"`
	ProcessSubject   string `toml:"process_subject"   env:"READER_NATS_PROCESS_SUBJECT"`
	DictionaryBucket string `toml:"dictionary_bucket" env:"READER_NATS_DICTIONARY_BUCKET"`
}

// DictionaryConfig selects where the vocabulary dictionary comes from.
type DictionaryConfig struct {
	Source    string `toml:"source"     env:"READER_DICTIONARY_SOURCE"`
	Path      string `toml:"path"       env:"READER_DICTIONARY_PATH"`
	ObjectKey string `toml:"object_key" env:"READER_DICTIONARY_OBJECT_KEY"`
}

// SummarizerConfig selects the summary provider.
type SummarizerConfig struct {
	Provider       string   `toml:"provider"        env:"READER_SUMMARIZER_PROVIDER"`
	APIKeys        []string `toml:"api_keys"        env:"READER_SUMMARIZER_API_KEYS"`
	Model          string   `toml:"model"           env:"READER_SUMMARIZER_MODEL"`
	TimeoutSeconds int      `toml:"timeout_seconds" env:"READER_SUMMARIZER_TIMEOUT_SECONDS"`
}

// CacheConfig configures the Redis summary cache. An empty address disables it.
type CacheConfig struct {
	RedisAddr  string `toml:"redis_addr"  env:"READER_REDIS_ADDR"`
	TTLSeconds int    `toml:"ttl_seconds" env:"READER_CACHE_TTL_SECONDS"`
	KeyPrefix  string `toml:"key_prefix"  env:"READER_CACHE_KEY_PREFIX"`
}

// SpeechConfig selects the sentence synthesizer.
type SpeechConfig struct {
	Provider       string  `toml:"provider"        env:"READER_SPEECH_PROVIDER"`
	ServiceURL     string  `toml:"service_url"     env:"READER_SPEECH_SERVICE_URL"`
	BinaryPath     string  `toml:"binary_path"     env:"READER_SPEECH_BINARY_PATH"`
	ModelPath      string  `toml:"model_path"      env:"READER_SPEECH_MODEL_PATH"`
	Voice          string  `toml:"voice"           env:"READER_SPEECH_VOICE"`
	Temperature    float64 `toml:"temperature"     env:"READER_SPEECH_TEMPERATURE"`
	TimeoutSeconds int     `toml:"timeout_seconds" env:"READER_SPEECH_TIMEOUT_SECONDS"`
}

// PathsConfig holds the configuration for file paths.
type PathsConfig struct {
	BaseLogsDir string `toml:"base_logs_dir" env:"READER_LOGS_DIR"`
}

// Config is the root configuration structure.
type Config struct {
	Server     ServerConfig     `toml:"server"`
	NATS       NATSConfig       `toml:"nats"`
	Dictionary DictionaryConfig `toml:"dictionary"`
	Summarizer SummarizerConfig `toml:"summarizer"`
	Cache      CacheConfig      `toml:"cache"`
	Speech     SpeechConfig     `toml:"speech"`
	Paths      PathsConfig      `toml:"paths"`
}

// Load loads the configuration for the tts-reader.
// The file found by configurator is read first, then environment variables override it.
func Load(log *logger.Logger) (*Config, error) {
	var cfg Config

	err := configurator.Load(&cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration from configurator: %w", err)
	}

	err = Finalize(&cfg)
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Finalize applies environment overrides and defaults, then validates.
func Finalize(cfg *Config) error {
	err := cleanenv.ReadEnv(cfg)
	if err != nil {
		return fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	cfg.ApplyDefaults()

	err = cfg.Validate()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	return nil
}

// ApplyDefaults fills every empty field that has a default.
func (c *Config) ApplyDefaults() {
	setDefault(&c.Server.ListenAddr, DefaultListenAddr)
	setDefault(&c.Server.ReadTimeoutSeconds, DefaultReadTimeoutSeconds)
	setDefault(&c.Server.WriteTimeoutSeconds, DefaultWriteTimeoutSeconds)
	setDefault(&c.Server.ShutdownTimeoutSeconds, DefaultShutdownTimeoutSeconds)
	setDefault(&c.NATS.ProcessSubject, DefaultProcessSubject)
	setDefault(&c.NATS.DictionaryBucket, DefaultDictionaryBucket)
	setDefault(&c.Dictionary.Source, DictionaryBuiltin)
	setDefault(&c.Summarizer.Provider, SummarizerStatic)
	setDefault(&c.Summarizer.Model, DefaultSummarizerModel)
	setDefault(&c.Summarizer.TimeoutSeconds, DefaultSummarizerTimeout)
	setDefault(&c.Cache.TTLSeconds, DefaultCacheTTLSeconds)
	setDefault(&c.Cache.KeyPrefix, DefaultCacheKeyPrefix)
	setDefault(&c.Speech.Provider, SpeechNone)
	setDefault(&c.Speech.Voice, DefaultSpeechVoice)
	setDefault(&c.Speech.Temperature, DefaultSpeechTemperature)
	setDefault(&c.Speech.TimeoutSeconds, DefaultSpeechTimeoutSeconds)
}

// Validate checks provider names and the fields each provider depends on.
func (c *Config) Validate() error {
	err := c.validateDictionary()
	if err != nil {
		return err
	}

	err = c.validateSummarizer()
	if err != nil {
		return err
	}

	err = c.validateSpeech()
	if err != nil {
		return err
	}

	timeouts := []int{
		c.Server.ReadTimeoutSeconds,
		c.Server.WriteTimeoutSeconds,
		c.Server.ShutdownTimeoutSeconds,
		c.Summarizer.TimeoutSeconds,
		c.Cache.TTLSeconds,
		c.Speech.TimeoutSeconds,
	}
	for _, seconds := range timeouts {
		if seconds <= 0 {
			return fmt.Errorf("%w: got %d", ErrNonPositiveTimeout, seconds)
		}
	}

	return nil
}

func (c *Config) validateDictionary() error {
	switch c.Dictionary.Source {
	case DictionaryBuiltin:
		return nil
	case DictionaryFile:
		if c.Dictionary.Path == "" {
			return ErrDictionaryPathEmpty
		}

		return nil
	case DictionaryObjectStore:
		if c.Dictionary.ObjectKey == "" {
			return ErrDictionaryKeyEmpty
		}

		if c.NATS.URL == "" {
			return ErrNATSRequired
		}

		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDictionarySource, c.Dictionary.Source)
	}
}

func (c *Config) validateSummarizer() error {
	switch c.Summarizer.Provider {
	case SummarizerStatic:
		return nil
	case SummarizerGemini:
		if len(c.Summarizer.APIKeys) == 0 {
			return ErrAPIKeysEmpty
		}

		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSummarizer, c.Summarizer.Provider)
	}
}

func (c *Config) validateSpeech() error {
	switch c.Speech.Provider {
	case SpeechNone:
		return nil
	case SpeechHTTP:
		if c.Speech.ServiceURL == "" {
			return ErrSpeechURLEmpty
		}

		return nil
	case SpeechCommand:
		if c.Speech.BinaryPath == "" {
			return ErrSpeechBinaryEmpty
		}

		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSpeechProvider, c.Speech.Provider)
	}
}

// ReadTimeout returns the HTTP read timeout.
func (s ServerConfig) ReadTimeout() time.Duration {
	return seconds(s.ReadTimeoutSeconds)
}

// WriteTimeout returns the HTTP write timeout.
func (s ServerConfig) WriteTimeout() time.Duration {
	return seconds(s.WriteTimeoutSeconds)
}

// ShutdownTimeout returns the graceful shutdown budget.
func (s ServerConfig) ShutdownTimeout() time.Duration {
	return seconds(s.ShutdownTimeoutSeconds)
}

// Timeout returns the per-request summarizer timeout.
func (s SummarizerConfig) Timeout() time.Duration {
	return seconds(s.TimeoutSeconds)
}

// TTL returns how long cached summaries live.
func (c CacheConfig) TTL() time.Duration {
	return seconds(c.TTLSeconds)
}

// Timeout returns the per-sentence synthesis timeout.
func (s SpeechConfig) Timeout() time.Duration {
	return seconds(s.TimeoutSeconds)
}

func seconds(value int) time.Duration {
	return time.Duration(value) * time.Second
}

func setDefault[T comparable](field *T, value T) {
	var zero T
	if *field == zero {
		*field = value
	}
}

package speech

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"

	"github.com/book-expert/logger"
)

// ErrBinaryPathEmpty indicates a command synthesizer without a binary.
var ErrBinaryPathEmpty = errors.New("speech binary path cannot be empty")

// CommandConfig holds the settings for the chatllm-style TTS binary.
type CommandConfig struct {
	BinaryPath  string
	ModelPath   string
	Voice       string
	Temperature float64
}

// Command synthesizes speech by running a local TTS binary that exports a WAV file.
type Command struct {
	config CommandConfig
	log    *logger.Logger
}

// NewCommand creates a command synthesizer.
func NewCommand(cfg CommandConfig, log *logger.Logger) (*Command, error) {
	if cfg.BinaryPath == "" {
		return nil, ErrBinaryPathEmpty
	}

	return &Command{
		config: cfg,
		log:    log,
	}, nil
}

// Synthesize runs the binary for one sentence and returns the exported audio.
func (c *Command) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if text == "" {
		return nil, ErrTextEmpty
	}

	tempFile, err := os.CreateTemp("", "reader-speech-*.wav")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file for speech output: %w", err)
	}

	closeErr := tempFile.Close()
	if closeErr != nil {
		c.log.Warn("Failed to close temp file '%s': %v", tempFile.Name(), closeErr)
	}

	defer func() {
		removeErr := os.Remove(tempFile.Name())
		if removeErr != nil {
			c.log.Warn("Failed to remove temp file '%s': %v", tempFile.Name(), removeErr)
		}
	}()

	args := []string{
		"-m", c.config.ModelPath,
		"-p", fmt.Sprintf("{%s}: %s", c.config.Voice, text),
		"--tts_export", tempFile.Name(),
		"--temp", strconv.FormatFloat(c.config.Temperature, 'f', 2, 64),
	}

	// #nosec G204 -- binary path comes from service configuration
	cmd := exec.CommandContext(ctx, c.config.BinaryPath, args...)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("speech binary execution failed: %w - output: %s", err, string(output))
	}

	audioData, err := os.ReadFile(tempFile.Name())
	if err != nil {
		return nil, fmt.Errorf("failed to read audio data from temp file: %w", err)
	}

	if len(audioData) == 0 {
		return nil, ErrEmptyAudio
	}

	return audioData, nil
}

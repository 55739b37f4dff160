// main package for the tts-reader
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/book-expert/logger"
	"github.com/book-expert/tts-reader/internal/config"
	"github.com/book-expert/tts-reader/internal/httpapi"
	"github.com/book-expert/tts-reader/internal/reader"
	"github.com/book-expert/tts-reader/internal/segment"
	"github.com/book-expert/tts-reader/internal/vocab"
	"github.com/book-expert/tts-reader/internal/worker"
	"github.com/gin-gonic/gin"
)

const workerQueue = "reader-workers"

func setupLogger(logPath string) (*logger.Logger, error) {
	log, err := logger.New(logPath, "tts-reader.log")
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return log, nil
}

func run() error {
	// 1. Create a temporary logger for the bootstrap process
	bootstrapLog, err := logger.New(os.TempDir(), "tts-reader-bootstrap.log")
	if err != nil {
		// If bootstrap logger fails, we can only print to stderr
		fmt.Fprintf(os.Stderr, "FATAL: Failed to create bootstrap logger: %v\n", err)

		return fmt.Errorf("failed to create bootstrap logger: %w", err)
	}

	defer func() {
		_ = bootstrapLog.Close()
	}()

	// 2. Load configuration using the central configurator plus env overrides
	cfg, err := config.Load(bootstrapLog)
	if err != nil {
		bootstrapLog.Error("Failed to load configuration: %v", err)

		return fmt.Errorf("failed to load configuration: %w", err)
	}

	bootstrapLog.Info("Configuration loaded successfully.")

	// 3. Initialize the final logger based on the loaded configuration
	finalLog, err := setupLogger(cfg.Paths.BaseLogsDir)
	if err != nil {
		bootstrapLog.Error("Failed to create final logger: %v", err)

		return err
	}

	defer func() {
		closeErr := finalLog.Close()
		if closeErr != nil {
			fmt.Fprintf(os.Stderr, "error closing final logger: %v\n", closeErr)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return serve(ctx, cfg, finalLog)
}

// serve wires the collaborators and blocks until ctx is cancelled or a listener fails.
func serve(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	deps, err := connect(cfg, log)
	if err != nil {
		return err
	}
	defer deps.Close()

	dictionary, err := vocab.Load(ctx, dictionarySource(cfg.Dictionary), deps.store)
	if err != nil {
		return fmt.Errorf("failed to load dictionary: %w", err)
	}

	log.Info("Dictionary loaded from %s source with %d entries.", cfg.Dictionary.Source, dictionary.Len())

	summarizer, err := newSummarizer(cfg, deps.redis, log)
	if err != nil {
		return err
	}

	synthesizer, err := newSynthesizer(cfg.Speech, log)
	if err != nil {
		return err
	}

	segmenter := segment.NewSegmenter()
	service := reader.New(segmenter, vocab.NewExtractor(dictionary, segmenter), summarizer)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var waitGroup sync.WaitGroup

	errChan := make(chan error, 2)

	if deps.nats != nil {
		natsWorker := worker.NewNatsWorker(deps.nats, cfg.NATS.ProcessSubject, workerQueue, service, log)

		waitGroup.Add(1)

		go func() {
			defer waitGroup.Done()

			errChan <- natsWorker.Run(ctx)
		}()
	}

	gin.SetMode(gin.ReleaseMode)

	server := httpapi.New(service, synthesizer, log)

	waitGroup.Add(1)

	go func() {
		defer waitGroup.Done()

		errChan <- server.ListenAndServe(ctx, httpapi.Config{
			ListenAddr:      cfg.Server.ListenAddr,
			ReadTimeout:     cfg.Server.ReadTimeout(),
			WriteTimeout:    cfg.Server.WriteTimeout(),
			ShutdownTimeout: cfg.Server.ShutdownTimeout(),
		})
	}()

	log.System("TTS-Reader successfully initialized. Listening on %s", cfg.Server.ListenAddr)

	// The first listener to return stops the other.
	firstErr := <-errChan

	cancel()
	waitGroup.Wait()
	close(errChan)

	errs := []error{firstErr}
	for err := range errChan {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

func main() {
	err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Service exited with error: %v\n", err)
		os.Exit(1)
	}
}

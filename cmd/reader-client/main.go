// Command reader-client talks to a running tts-reader: it processes passages,
// fetches sentence audio, checks health and publishes dictionaries.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/book-expert/logger"
	"github.com/book-expert/tts-reader/internal/objectstore"
	"github.com/book-expert/tts-reader/internal/vocab"
	"github.com/nats-io/nats.go"
)

// Flag names.
const (
	flagAddr       = "addr"
	flagText       = "text"
	flagFile       = "file"
	flagSpeak      = "speak"
	flagOutput     = "output"
	flagHealth     = "health"
	flagPublish    = "publish-dictionary"
	flagNatsURL    = "nats-url"
	flagBucket     = "bucket"
	flagKey        = "key"
	flagTimeoutSec = "timeout"
)

// Flag descriptions.
const (
	flagAddrDesc       = "Base URL of the tts-reader HTTP API"
	flagTextDesc       = "Passage to process"
	flagFileDesc       = "File containing the passage to process"
	flagSpeakDesc      = "Sentence to synthesize into a WAV file"
	flagOutputDesc     = "Output file path (.wav) for --speak"
	flagHealthDesc     = "Check reader health and exit"
	flagPublishDesc    = "TOML dictionary to validate and upload to the object store"
	flagNatsURLDesc    = "NATS server URL for --publish-dictionary"
	flagBucketDesc     = "Object store bucket for --publish-dictionary"
	flagKeyDesc        = "Object key for --publish-dictionary"
	flagTimeoutSecDesc = "Request timeout in seconds"
)

// Defaults.
const (
	defaultAddr       = "http://localhost:8080"
	defaultOutputFile = "output.wav"
	defaultNatsURL    = nats.DefaultURL
	defaultBucket     = "READER_DICTIONARIES"
	defaultKey        = "dictionary.toml"
	defaultTimeoutSec = 60
	logFileName       = "reader-client.log"
)

var (
	ErrNoAction        = errors.New("one of --text, --file, --speak, --health or --publish-dictionary must be provided")
	ErrTooManyActions  = errors.New("only one action may be given at a time")
	ErrUnexpectedReply = errors.New("unexpected response from reader")
)

// appFlags holds the parsed command-line flag values.
type appFlags struct {
	addr       string
	text       string
	file       string
	speak      string
	output     string
	health     bool
	publish    string
	natsURL    string
	bucket     string
	key        string
	timeoutSec int
}

// errorBody is the error envelope returned by the reader API.
type errorBody struct {
	Error string `json:"error"`
}

func main() {
	clientLog, err := logger.New(os.TempDir(), logFileName)
	if err != nil {
		// A logger is not available yet, so use the standard log package.
		log.Fatalf("Error: failed to create logger: %v", err)
	}

	err = run(context.Background(), os.Args[1:], os.Stdout, clientLog)

	_ = clientLog.Close()

	if err != nil {
		log.Fatalf("Error: %v", err)
	}
}

// run is the application entry point, returning an error on failure.
func run(ctx context.Context, args []string, stdout io.Writer, clientLog *logger.Logger) error {
	flags, err := parseFlags(args)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(flags.timeoutSec)*time.Second)
	defer cancel()

	client := &http.Client{Timeout: 0}

	switch {
	case flags.health:
		return checkHealth(ctx, client, flags.addr, stdout)
	case flags.text != "":
		return processText(ctx, client, flags.addr, flags.text, stdout)
	case flags.file != "":
		data, readErr := os.ReadFile(flags.file)
		if readErr != nil {
			return fmt.Errorf("failed to read passage file: %w", readErr)
		}

		return processText(ctx, client, flags.addr, string(data), stdout)
	case flags.speak != "":
		return speak(ctx, client, flags, stdout, clientLog)
	default:
		return publishDictionary(ctx, flags, stdout, clientLog)
	}
}

// parseFlags defines and parses command-line flags, returning them in a struct.
func parseFlags(args []string) (appFlags, error) {
	var flags appFlags

	flagSet := flag.NewFlagSet("reader-client", flag.ContinueOnError)
	flagSet.StringVar(&flags.addr, flagAddr, defaultAddr, flagAddrDesc)
	flagSet.StringVar(&flags.text, flagText, "", flagTextDesc)
	flagSet.StringVar(&flags.file, flagFile, "", flagFileDesc)
	flagSet.StringVar(&flags.speak, flagSpeak, "", flagSpeakDesc)
	flagSet.StringVar(&flags.output, flagOutput, defaultOutputFile, flagOutputDesc)
	flagSet.BoolVar(&flags.health, flagHealth, false, flagHealthDesc)
	flagSet.StringVar(&flags.publish, flagPublish, "", flagPublishDesc)
	flagSet.StringVar(&flags.natsURL, flagNatsURL, defaultNatsURL, flagNatsURLDesc)
	flagSet.StringVar(&flags.bucket, flagBucket, defaultBucket, flagBucketDesc)
	flagSet.StringVar(&flags.key, flagKey, defaultKey, flagKeyDesc)
	flagSet.IntVar(&flags.timeoutSec, flagTimeoutSec, defaultTimeoutSec, flagTimeoutSecDesc)

	err := flagSet.Parse(args)
	if err != nil {
		return flags, fmt.Errorf("failed to parse flags: %w", err)
	}

	actions := 0
	for _, set := range []bool{flags.health, flags.text != "", flags.file != "", flags.speak != "", flags.publish != ""} {
		if set {
			actions++
		}
	}

	if actions == 0 {
		return flags, ErrNoAction
	}

	if actions > 1 {
		return flags, ErrTooManyActions
	}

	return flags, nil
}

func checkHealth(ctx context.Context, client *http.Client, addr string, stdout io.Writer) error {
	body, err := call(ctx, client, http.MethodGet, addr+"/healthz", nil)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}

	_, err = fmt.Fprintf(stdout, "reader is healthy: %s\n", bytes.TrimSpace(body))

	return err
}

func processText(ctx context.Context, client *http.Client, addr, text string, stdout io.Writer) error {
	payload, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	body, err := call(ctx, client, http.MethodPost, addr+"/api/process", payload)
	if err != nil {
		return fmt.Errorf("failed to process text: %w", err)
	}

	var pretty bytes.Buffer

	err = json.Indent(&pretty, body, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnexpectedReply, err)
	}

	pretty.WriteByte('\n')

	_, err = pretty.WriteTo(stdout)

	return err
}

func speak(ctx context.Context, client *http.Client, flags appFlags, stdout io.Writer, clientLog *logger.Logger) error {
	payload, err := json.Marshal(map[string]string{"text": flags.speak})
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	audio, err := call(ctx, client, http.MethodPost, flags.addr+"/api/speech", payload)
	if err != nil {
		return fmt.Errorf("failed to synthesize sentence: %w", err)
	}

	err = os.WriteFile(flags.output, audio, 0o600)
	if err != nil {
		return fmt.Errorf("failed to write audio to %s: %w", flags.output, err)
	}

	clientLog.Info("Wrote %d bytes of audio to %s", len(audio), flags.output)

	_, err = fmt.Fprintf(stdout, "Generated: %s\n", flags.output)

	return err
}

// publishDictionary validates the TOML locally before uploading, so a bad file never reaches readers.
func publishDictionary(ctx context.Context, flags appFlags, stdout io.Writer, clientLog *logger.Logger) error {
	data, err := os.ReadFile(flags.publish)
	if err != nil {
		return fmt.Errorf("failed to read dictionary file: %w", err)
	}

	dictionary, err := vocab.ParseTOML(data)
	if err != nil {
		return fmt.Errorf("invalid dictionary %s: %w", flags.publish, err)
	}

	natsConnection, err := nats.Connect(flags.natsURL, nats.Name("reader-client"))
	if err != nil {
		return fmt.Errorf("failed to connect to NATS at %s: %w", flags.natsURL, err)
	}
	defer natsConnection.Close()

	jetstreamContext, err := natsConnection.JetStream()
	if err != nil {
		return fmt.Errorf("failed to get JetStream context: %w", err)
	}

	store, err := objectstore.Open(jetstreamContext, flags.bucket)
	if err != nil {
		return fmt.Errorf("failed to open bucket %s: %w", flags.bucket, err)
	}

	err = store.Upload(ctx, flags.key, data)
	if err != nil {
		return fmt.Errorf("failed to upload dictionary: %w", err)
	}

	clientLog.Info("Published %d dictionary entries to %s/%s", dictionary.Len(), flags.bucket, flags.key)

	_, err = fmt.Fprintf(stdout, "Published %d entries to %s/%s\n", dictionary.Len(), flags.bucket, flags.key)

	return err
}

// call performs one request and returns the body of a 200 response.
func call(ctx context.Context, client *http.Client, method, url string, payload []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var envelope errorBody
		if json.Unmarshal(body, &envelope) == nil && envelope.Error != "" {
			return nil, fmt.Errorf("%w: status %d: %s", ErrUnexpectedReply, resp.StatusCode, envelope.Error)
		}

		return nil, fmt.Errorf("%w: status %d", ErrUnexpectedReply, resp.StatusCode)
	}

	return body, nil
}

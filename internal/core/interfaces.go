// Package core defines the data model and collaborator interfaces for the reader service.
package core

import "context"

// ObjectStore defines the interface for interacting with a key-value blob store.
type ObjectStore interface {
	Download(ctx context.Context, key string) ([]byte, error)
	Upload(ctx context.Context, key string, data []byte) error
}

// Summarizer produces a short summary of a raw passage.
// Implementations may be remote and slow; they enforce their own timeouts.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// Synthesizer turns a sentence into spoken audio (WAV bytes).
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// DocumentProcessor turns a raw passage into a ProcessedDocument.
type DocumentProcessor interface {
	Process(ctx context.Context, text string) (*ProcessedDocument, error)
}

// Package reader turns a pasted passage into a ProcessedDocument: sentences,
// a summary and a short vocabulary list.
package reader

import (
	"context"
	"errors"
	"fmt"

	"github.com/book-expert/tts-reader/internal/core"
	"github.com/book-expert/tts-reader/internal/segment"
	"github.com/book-expert/tts-reader/internal/vocab"
)

var (
	// ErrInvalidInput indicates the passage is absent or empty.
	ErrInvalidInput = errors.New("text is required")
	// ErrProcessingFailed indicates that a processing step failed.
	ErrProcessingFailed = errors.New("processing failed")
)

// Service processes passages. It holds no per-request state and is safe for
// concurrent use.
type Service struct {
	segmenter  *segment.Segmenter
	extractor  *vocab.Extractor
	summarizer core.Summarizer
}

// New creates a reader service.
func New(segmenter *segment.Segmenter, extractor *vocab.Extractor, summarizer core.Summarizer) *Service {
	return &Service{
		segmenter:  segmenter,
		extractor:  extractor,
		summarizer: summarizer,
	}
}

// Process splits, summarizes and glosses text.
//
// Only the empty string is rejected: whitespace-only text is valid and yields
// no sentences. The summarizer receives the raw text. Any failure, including a
// panic in a step, is reported as ErrProcessingFailed and no partial document
// is returned.
func (s *Service) Process(ctx context.Context, text string) (document *core.ProcessedDocument, err error) {
	if text == "" {
		return nil, ErrInvalidInput
	}

	defer func() {
		recovered := recover()
		if recovered != nil {
			document = nil
			err = fmt.Errorf("%w: panic: %v", ErrProcessingFailed, recovered)
		}
	}()

	sentences := s.segmenter.Split(text)

	summaryText, summarizeErr := s.summarizer.Summarize(ctx, text)
	if summarizeErr != nil {
		return nil, fmt.Errorf("%w: failed to summarize: %w", ErrProcessingFailed, summarizeErr)
	}

	words := s.extractor.Extract(sentences)

	return &core.ProcessedDocument{
		Summary:   summaryText,
		Sentences: core.NewSentences(sentences),
		Words:     words,
	}, nil
}

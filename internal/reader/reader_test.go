package reader_test

import (
	"context"
	"errors"
	"testing"

	"github.com/book-expert/tts-reader/internal/core"
	"github.com/book-expert/tts-reader/internal/reader"
	"github.com/book-expert/tts-reader/internal/segment"
	"github.com/book-expert/tts-reader/internal/summary"
	"github.com/book-expert/tts-reader/internal/vocab"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const referencePassage = "Iranian President Masoud Pezeshkian says the country will not bow to external " +
	"pressure as it continues nuclear negotiations with the United States."

var errMockSummarize = errors.New("mock summarize error")

// mockSummarizer records its input and can fail or panic.
type mockSummarizer struct {
	received    string
	shouldFail  bool
	shouldPanic bool
}

func (m *mockSummarizer) Summarize(_ context.Context, text string) (string, error) {
	if m.shouldPanic {
		panic("summarizer exploded")
	}

	if m.shouldFail {
		return "", errMockSummarize
	}

	m.received = text

	return "mock summary", nil
}

func newService(summarizer core.Summarizer, dictionary *vocab.Dictionary) *reader.Service {
	segmenter := segment.NewSegmenter()

	return reader.New(segmenter, vocab.NewExtractor(dictionary, segmenter), summarizer)
}

func TestProcess_ReferencePassage(t *testing.T) {
	t.Parallel()

	service := newService(summary.NewStatic(""), vocab.Builtin())

	document, err := service.Process(context.Background(), referencePassage)
	require.NoError(t, err)

	assert.Equal(t, summary.ReferenceSummary, document.Summary)
	assert.Equal(t, []core.Sentence{{ID: 0, Text: referencePassage}}, document.Sentences)
	require.NotEmpty(t, document.Words)
	assert.Equal(t, core.VocabularyEntry{Word: "Iranian", Translation: "伊朗的"}, document.Words[0])
}

func TestProcess_EmptyTextInvalid(t *testing.T) {
	t.Parallel()

	service := newService(summary.NewStatic(""), vocab.Builtin())

	_, err := service.Process(context.Background(), "")
	require.ErrorIs(t, err, reader.ErrInvalidInput)
}

func TestProcess_WhitespaceOnlyAccepted(t *testing.T) {
	t.Parallel()

	service := newService(summary.NewStatic(""), vocab.Builtin())

	document, err := service.Process(context.Background(), "   ")
	require.NoError(t, err)

	assert.Empty(t, document.Sentences)
	assert.Empty(t, document.Words)
	assert.NotNil(t, document.Sentences)
	assert.NotNil(t, document.Words)
}

func TestProcess_SentenceIDsAreIndexes(t *testing.T) {
	t.Parallel()

	service := newService(summary.NewStatic(""), vocab.Builtin())

	document, err := service.Process(context.Background(), "A. B! C?")
	require.NoError(t, err)

	assert.Equal(t, []core.Sentence{
		{ID: 0, Text: "A."},
		{ID: 1, Text: "B!"},
		{ID: 2, Text: "C?"},
	}, document.Sentences)
}

func TestProcess_SummarizerGetsRawText(t *testing.T) {
	t.Parallel()

	summarizer := &mockSummarizer{received: "", shouldFail: false, shouldPanic: false}
	service := newService(summarizer, vocab.Builtin())

	raw := "  First one.   Second one.  "

	_, err := service.Process(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, raw, summarizer.received)
}

func TestProcess_SummarizerFailure(t *testing.T) {
	t.Parallel()

	summarizer := &mockSummarizer{received: "", shouldFail: true, shouldPanic: false}
	service := newService(summarizer, vocab.Builtin())

	document, err := service.Process(context.Background(), referencePassage)
	require.ErrorIs(t, err, reader.ErrProcessingFailed)
	require.ErrorIs(t, err, errMockSummarize)
	assert.Nil(t, document)
}

func TestProcess_PanicBecomesProcessingFailed(t *testing.T) {
	t.Parallel()

	summarizer := &mockSummarizer{received: "", shouldFail: false, shouldPanic: true}
	service := newService(summarizer, vocab.Builtin())

	document, err := service.Process(context.Background(), referencePassage)
	require.ErrorIs(t, err, reader.ErrProcessingFailed)
	assert.Nil(t, document)
}

func TestProcess_EmptyDictionary(t *testing.T) {
	t.Parallel()

	empty, err := vocab.New(nil)
	require.NoError(t, err)

	service := newService(summary.NewStatic(""), empty)

	document, err := service.Process(context.Background(), referencePassage)
	require.NoError(t, err)
	assert.Empty(t, document.Words)
}

func TestProcess_Idempotent(t *testing.T) {
	t.Parallel()

	service := newService(summary.NewStatic(""), vocab.Builtin())
	passage := "The country waits. Nuclear talks continue! Will the President bow?"

	first, err := service.Process(context.Background(), passage)
	require.NoError(t, err)

	second, err := service.Process(context.Background(), passage)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

package httpapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/book-expert/logger"
	"github.com/book-expert/tts-reader/internal/core"
	"github.com/book-expert/tts-reader/internal/httpapi"
	"github.com/book-expert/tts-reader/internal/reader"
	"github.com/book-expert/tts-reader/internal/segment"
	"github.com/book-expert/tts-reader/internal/speech"
	"github.com/book-expert/tts-reader/internal/summary"
	"github.com/book-expert/tts-reader/internal/vocab"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const referencePassage = "Iranian President Masoud Pezeshkian says the country will not bow to external " +
	"pressure as it continues nuclear negotiations with the United States."

var errMockSynthesize = errors.New("mock synthesize error")

func init() {
	gin.SetMode(gin.TestMode)
}

// failingSummarizer always fails.
type failingSummarizer struct{}

func (failingSummarizer) Summarize(_ context.Context, _ string) (string, error) {
	return "", errors.New("summarizer unreachable")
}

// mockSynthesizer returns fixed audio or an error.
type mockSynthesizer struct {
	err      error
	received string
}

func (m *mockSynthesizer) Synthesize(_ context.Context, text string) ([]byte, error) {
	m.received = text

	if m.err != nil {
		return nil, m.err
	}

	return []byte("RIFF-audio"), nil
}

func createTestLogger(t *testing.T) *logger.Logger {
	t.Helper()

	testLogger, err := logger.New(t.TempDir(), "test.log")
	require.NoError(t, err)

	return testLogger
}

func newTestServer(t *testing.T, summarizer core.Summarizer, synthesizer core.Synthesizer) *httpapi.Server {
	t.Helper()

	segmenter := segment.NewSegmenter()
	service := reader.New(segmenter, vocab.NewExtractor(vocab.Builtin(), segmenter), summarizer)

	return httpapi.New(service, synthesizer, createTestLogger(t))
}

func doRequest(t *testing.T, server *httpapi.Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	request := httptest.NewRequest(method, path, strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")

	recorder := httptest.NewRecorder()
	server.Handler().ServeHTTP(recorder, request)

	return recorder
}

func decodeError(t *testing.T, recorder *httptest.ResponseRecorder) string {
	t.Helper()

	var body map[string]string

	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))

	return body["error"]
}

func TestHealth(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, summary.NewStatic(""), speech.Noop{})

	recorder := doRequest(t, server, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"ok":true}`, recorder.Body.String())
}

func TestProcess_Success(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, summary.NewStatic(""), speech.Noop{})

	payload, err := json.Marshal(map[string]string{"text": referencePassage})
	require.NoError(t, err)

	recorder := doRequest(t, server, http.MethodPost, "/api/process", string(payload))
	require.Equal(t, http.StatusOK, recorder.Code)

	var document core.ProcessedDocument

	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &document))
	assert.Equal(t, summary.ReferenceSummary, document.Summary)
	assert.Equal(t, []core.Sentence{{ID: 0, Text: referencePassage}}, document.Sentences)
	assert.Equal(t, []core.VocabularyEntry{{Word: "Iranian", Translation: "伊朗的"}}, document.Words)
}

func TestProcess_WhitespaceOnlyEncodesEmptyArrays(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, summary.NewStatic(""), speech.Noop{})

	recorder := doRequest(t, server, http.MethodPost, "/api/process", `{"text":"   "}`)
	require.Equal(t, http.StatusOK, recorder.Code)

	var raw map[string]json.RawMessage

	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &raw))
	assert.JSONEq(t, `[]`, string(raw["sentences"]))
	assert.JSONEq(t, `[]`, string(raw["words"]))
}

func TestProcess_MissingText(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, summary.NewStatic(""), speech.Noop{})

	for _, body := range []string{`{}`, `{"text":null}`, `{"text":""}`, `{"text":false}`, `{"text":0}`, `"plain"`, `[1,2]`} {
		recorder := doRequest(t, server, http.MethodPost, "/api/process", body)
		assert.Equal(t, http.StatusBadRequest, recorder.Code, "body %s", body)
		assert.Equal(t, httpapi.MessageMissingText, decodeError(t, recorder), "body %s", body)
	}
}

func TestProcess_MalformedBodies(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, summary.NewStatic(""), speech.Noop{})

	for _, body := range []string{`not json`, `null`, `{"text":42}`, `{"text":true}`, `{"text":["a"]}`, `{"text":{"a":1}}`} {
		recorder := doRequest(t, server, http.MethodPost, "/api/process", body)
		assert.Equal(t, http.StatusInternalServerError, recorder.Code, "body %s", body)
		assert.Equal(t, httpapi.MessageProcessingFailed, decodeError(t, recorder), "body %s", body)
	}
}

func TestProcess_SummarizerFailureIsGeneric(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, failingSummarizer{}, speech.Noop{})

	recorder := doRequest(t, server, http.MethodPost, "/api/process", `{"text":"Hello."}`)
	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.Equal(t, httpapi.MessageProcessingFailed, decodeError(t, recorder))
	assert.NotContains(t, recorder.Body.String(), "unreachable")
}

func TestProcess_BodyTooLarge(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, summary.NewStatic(""), speech.Noop{})

	var body bytes.Buffer

	body.WriteString(`{"text":"`)
	body.WriteString(strings.Repeat("a", 2<<20))
	body.WriteString(`"}`)

	recorder := doRequest(t, server, http.MethodPost, "/api/process", body.String())
	assert.Equal(t, http.StatusRequestEntityTooLarge, recorder.Code)
}

func TestSpeech_Unavailable(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, summary.NewStatic(""), speech.Noop{})

	recorder := doRequest(t, server, http.MethodPost, "/api/speech", `{"text":"Hello."}`)
	assert.Equal(t, http.StatusNotImplemented, recorder.Code)
	assert.Equal(t, httpapi.MessageSpeechUnavailable, decodeError(t, recorder))
}

func TestSpeech_Success(t *testing.T) {
	t.Parallel()

	synthesizer := &mockSynthesizer{err: nil, received: ""}
	server := newTestServer(t, summary.NewStatic(""), synthesizer)

	recorder := doRequest(t, server, http.MethodPost, "/api/speech", `{"text":"  Hello.  "}`)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "audio/wav", recorder.Header().Get("Content-Type"))
	assert.Equal(t, "RIFF-audio", recorder.Body.String())
	assert.Equal(t, "Hello.", synthesizer.received)
}

func TestSpeech_BadRequests(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, summary.NewStatic(""), &mockSynthesizer{err: nil, received: ""})

	recorder := doRequest(t, server, http.MethodPost, "/api/speech", `{"text":"   "}`)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, httpapi.MessageMissingText, decodeError(t, recorder))

	recorder = doRequest(t, server, http.MethodPost, "/api/speech", `{"text":`)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, httpapi.MessageInvalidBody, decodeError(t, recorder))
}

func TestSpeech_SynthesizerFailure(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, summary.NewStatic(""), &mockSynthesizer{err: errMockSynthesize, received: ""})

	recorder := doRequest(t, server, http.MethodPost, "/api/speech", `{"text":"Hello."}`)
	assert.Equal(t, http.StatusBadGateway, recorder.Code)
	assert.Equal(t, httpapi.MessageSpeechFailed, decodeError(t, recorder))
}

// Package worker_test tests the NATS worker for the reader service.
package worker_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/book-expert/events"
	"github.com/book-expert/logger"
	"github.com/book-expert/tts-reader/internal/core"
	"github.com/book-expert/tts-reader/internal/reader"
	"github.com/book-expert/tts-reader/internal/segment"
	"github.com/book-expert/tts-reader/internal/summary"
	"github.com/book-expert/tts-reader/internal/vocab"
	"github.com/book-expert/tts-reader/internal/worker"
	"github.com/google/uuid"
	"github.com/nats-io/nats-server/v2/test"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSubject = "reader.process.test"

func createTestNatsClient(t *testing.T) *nats.Conn {
	t.Helper()

	opts := test.DefaultTestOptions
	opts.Port = -1 // Use a random port
	server := test.RunServer(&opts)

	natsConnection, err := nats.Connect(server.ClientURL())
	if err != nil {
		t.Fatalf("Failed to connect to test NATS server: %v", err)
	}

	t.Cleanup(func() {
		natsConnection.Close()
		server.Shutdown()
	})

	return natsConnection
}

func setupTest(t *testing.T) (*nats.Conn, context.CancelFunc, chan error) {
	t.Helper()

	natsConnection := createTestNatsClient(t)

	testLogger, err := logger.New(t.TempDir(), "test-log.log")
	require.NoError(t, err)

	segmenter := segment.NewSegmenter()
	service := reader.New(segmenter, vocab.NewExtractor(vocab.Builtin(), segmenter), summary.NewStatic(""))

	workerInstance := worker.NewNatsWorker(natsConnection, testSubject, "reader-workers", service, testLogger)

	ctx, cancel := context.WithCancel(context.Background())
	errChan := make(chan error, 1)

	go func() {
		errChan <- workerInstance.Run(ctx)
	}()

	// Run subscribes asynchronously; wait until the interest is visible.
	require.Eventually(t, func() bool {
		_, requestErr := natsConnection.Request(testSubject, []byte(`{"text":"ping"}`), 100*time.Millisecond)

		return requestErr == nil
	}, 5*time.Second, 50*time.Millisecond)

	return natsConnection, cancel, errChan
}

func request(t *testing.T, natsConnection *nats.Conn, payload []byte) worker.ProcessReply {
	t.Helper()

	replyMsg, err := natsConnection.Request(testSubject, payload, 5*time.Second)
	require.NoError(t, err, "Request should succeed and receive a reply")

	var reply worker.ProcessReply

	require.NoError(t, json.Unmarshal(replyMsg.Data, &reply))

	return reply
}

func TestNatsWorker_Success(t *testing.T) {
	t.Parallel()

	natsConnection, cancel, errChan := setupTest(t)
	defer cancel()

	header := events.EventHeader{
		Timestamp:  time.Now(),
		WorkflowID: uuid.NewString(),
		EventID:    uuid.NewString(),
		UserID:     "reader-1",
		TenantID:   "",
	}

	payload, err := json.Marshal(worker.ProcessRequest{Header: header, Text: "The country waits. Talks go on!"})
	require.NoError(t, err)

	reply := request(t, natsConnection, payload)

	assert.Empty(t, reply.Error)
	assert.Equal(t, header.WorkflowID, reply.Header.WorkflowID)
	assert.Equal(t, "reader-1", reply.Header.UserID)
	assert.NotEqual(t, header.EventID, reply.Header.EventID)
	require.NotNil(t, reply.Document)
	assert.Equal(t, []core.Sentence{
		{ID: 0, Text: "The country waits."},
		{ID: 1, Text: "Talks go on!"},
	}, reply.Document.Sentences)
	assert.Equal(t, []core.VocabularyEntry{{Word: "country", Translation: "国家"}}, reply.Document.Words)

	cancel()

	shutdownErr := <-errChan
	assert.NoError(t, shutdownErr, "worker.Run should not error on graceful shutdown")
}

func TestNatsWorker_InvalidInput(t *testing.T) {
	t.Parallel()

	natsConnection, cancel, _ := setupTest(t)
	defer cancel()

	reply := request(t, natsConnection, []byte(`{"text":""}`))

	assert.Nil(t, reply.Document)
	assert.Equal(t, worker.CodeInvalidInput, reply.Code)
	assert.Equal(t, "缺少文本内容", reply.Error)
	assert.NotEmpty(t, reply.Header.WorkflowID)
}

func TestNatsWorker_MalformedRequest(t *testing.T) {
	t.Parallel()

	natsConnection, cancel, _ := setupTest(t)
	defer cancel()

	reply := request(t, natsConnection, []byte(`not json`))

	assert.Nil(t, reply.Document)
	assert.Equal(t, worker.CodeProcessingFailed, reply.Code)
	assert.Equal(t, "处理失败", reply.Error)
}

// Package worker provides a NATS request/reply worker that processes passages.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/book-expert/events"
	"github.com/book-expert/logger"
	"github.com/book-expert/tts-reader/internal/core"
	"github.com/book-expert/tts-reader/internal/reader"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

const handleMessageTimeout = 30 * time.Second

// Reply error codes.
const (
	CodeInvalidInput     = "invalid_input"
	CodeProcessingFailed = "processing_failed"
)

// Reply error messages, matching the HTTP API.
const (
	messageMissingText      = "缺少文本内容"
	messageProcessingFailed = "处理失败"
)

// ProcessRequest is the payload published on the process subject.
type ProcessRequest struct {
	Header events.EventHeader `json:"header"`
	Text   string             `json:"text"`
}

// ProcessReply answers a ProcessRequest with either a document or an error.
type ProcessReply struct {
	Header   events.EventHeader      `json:"header"`
	Document *core.ProcessedDocument `json:"document,omitempty"`
	Error    string                  `json:"error,omitempty"`
	Code     string                  `json:"code,omitempty"`
}

// NatsWorker answers process requests on a NATS subject.
type NatsWorker struct {
	natsConnection *nats.Conn
	subject        string
	queue          string
	processor      core.DocumentProcessor
	log            *logger.Logger
}

// NewNatsWorker creates a worker. Workers sharing a queue group split the load.
func NewNatsWorker(
	natsConnection *nats.Conn,
	subject string,
	queue string,
	processor core.DocumentProcessor,
	log *logger.Logger,
) *NatsWorker {
	return &NatsWorker{
		natsConnection: natsConnection,
		subject:        subject,
		queue:          queue,
		processor:      processor,
		log:            log,
	}
}

// Run subscribes and blocks until ctx is cancelled, then drains the subscription.
func (w *NatsWorker) Run(ctx context.Context) error {
	sub, err := w.natsConnection.QueueSubscribe(w.subject, w.queue, w.handleMessage)
	if err != nil {
		return fmt.Errorf("failed to subscribe to subject %s: %w", w.subject, err)
	}

	w.log.Info("Listening for passages on subject %s (queue %s)", w.subject, w.queue)

	<-ctx.Done()

	drainErr := sub.Drain()
	if drainErr != nil {
		return fmt.Errorf("failed to drain subscription: %w", drainErr)
	}

	return nil
}

func (w *NatsWorker) handleMessage(msg *nats.Msg) {
	if msg.Reply == "" {
		w.log.Warn("Dropping passage on %s without a reply subject", msg.Subject)

		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), handleMessageTimeout)
	defer cancel()

	reply := w.process(ctx, msg.Data)

	err := w.publishReply(msg, reply)
	if err != nil {
		w.log.Error("Failed to publish reply for workflow %s: %v", reply.Header.WorkflowID, err)
	}
}

func (w *NatsWorker) process(ctx context.Context, data []byte) *ProcessReply {
	var request ProcessRequest

	err := json.Unmarshal(data, &request)
	if err != nil {
		w.log.Error("Failed to unmarshal process request: %v", err)

		return failureReply(replyHeader(request.Header), CodeProcessingFailed, messageProcessingFailed)
	}

	header := replyHeader(request.Header)

	document, err := w.processor.Process(ctx, request.Text)
	if err != nil {
		if errors.Is(err, reader.ErrInvalidInput) {
			return failureReply(header, CodeInvalidInput, messageMissingText)
		}

		w.log.Error("Failed to process passage for workflow %s: %v", header.WorkflowID, err)

		return failureReply(header, CodeProcessingFailed, messageProcessingFailed)
	}

	return &ProcessReply{
		Header:   header,
		Document: document,
		Error:    "",
		Code:     "",
	}
}

func (w *NatsWorker) publishReply(msg *nats.Msg, reply *ProcessReply) error {
	replyData, err := json.Marshal(reply)
	if err != nil {
		return fmt.Errorf("failed to marshal reply: %w", err)
	}

	err = msg.Respond(replyData)
	if err != nil {
		return fmt.Errorf("failed to publish reply: %w", err)
	}

	return nil
}

// replyHeader keeps the caller's workflow and identity fields and stamps a new event.
func replyHeader(request events.EventHeader) events.EventHeader {
	header := request
	if header.WorkflowID == "" {
		header.WorkflowID = uuid.NewString()
	}

	header.EventID = uuid.NewString()
	header.Timestamp = time.Now()

	return header
}

func failureReply(header events.EventHeader, code, message string) *ProcessReply {
	return &ProcessReply{
		Header:   header,
		Document: nil,
		Error:    message,
		Code:     code,
	}
}

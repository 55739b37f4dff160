package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/book-expert/tts-reader/internal/reader"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// maxBodyBytes bounds a passage request.
const maxBodyBytes = 1 << 20

// User-facing error messages.
const (
	MessageMissingText      = "缺少文本内容"
	MessageProcessingFailed = "处理失败"
	MessageBodyTooLarge     = "文本过长"
)

var (
	errBodyNotObject = errors.New("request body is JSON null")
	errTextNotString = errors.New("text field is not a string")
)

func (s *Server) handleProcess(c *gin.Context) {
	requestID := uuid.NewString()

	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": MessageBodyTooLarge})

			return
		}

		s.fail(c, requestID, fmt.Errorf("failed to read request body: %w", err))

		return
	}

	text, err := decodeText(body)
	if err != nil {
		s.fail(c, requestID, err)

		return
	}

	document, err := s.processor.Process(c.Request.Context(), text)
	if err != nil {
		if errors.Is(err, reader.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": MessageMissingText})

			return
		}

		s.fail(c, requestID, err)

		return
	}

	s.log.Info("[%s] Processed passage: %d sentences, %d words",
		requestID, len(document.Sentences), len(document.Words))

	c.JSON(http.StatusOK, document)
}

func (s *Server) fail(c *gin.Context, requestID string, err error) {
	s.log.Error("[%s] Processing failed: %v", requestID, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": MessageProcessingFailed})
}

// decodeText extracts the "text" field with JavaScript truthiness: an absent
// field, null, false, 0 and "" all yield "" (rejected later as invalid input).
// A body that is not JSON, the JSON null body, and a truthy non-string field
// are processing failures.
func decodeText(body []byte) (string, error) {
	var payload any

	err := json.Unmarshal(body, &payload)
	if err != nil {
		return "", fmt.Errorf("failed to decode request body: %w", err)
	}

	if payload == nil {
		return "", errBodyNotObject
	}

	object, ok := payload.(map[string]any)
	if !ok {
		return "", nil
	}

	switch value := object["text"].(type) {
	case nil:
		return "", nil
	case string:
		return value, nil
	case bool:
		if !value {
			return "", nil
		}
	case float64:
		if value == 0 {
			return "", nil
		}
	}

	return "", fmt.Errorf("%w: %T", errTextNotString, object["text"])
}

package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/book-expert/tts-reader/internal/speech"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const contentTypeWAV = "audio/wav"

// User-facing speech error messages.
const (
	MessageInvalidBody       = "请求格式错误"
	MessageSpeechUnavailable = "语音服务不可用"
	MessageSpeechFailed      = "语音合成失败"
)

type speechRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleSpeech(c *gin.Context) {
	requestID := uuid.NewString()

	var req speechRequest

	err := c.ShouldBindJSON(&req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": MessageInvalidBody})

		return
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": MessageMissingText})

		return
	}

	audio, err := s.synthesizer.Synthesize(c.Request.Context(), text)
	if err != nil {
		if errors.Is(err, speech.ErrUnavailable) {
			c.JSON(http.StatusNotImplemented, gin.H{"error": MessageSpeechUnavailable})

			return
		}

		s.log.Error("[%s] Speech synthesis failed: %v", requestID, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": MessageSpeechFailed})

		return
	}

	c.Data(http.StatusOK, contentTypeWAV, audio)
}

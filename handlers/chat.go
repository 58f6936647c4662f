package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"crypto-chatbot/api/llm"
	"crypto-chatbot/api/logger"
	"crypto-chatbot/api/models"
	"crypto-chatbot/api/sse"

	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/flow/agent"
	"github.com/cloudwego/eino/schema"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ChatStreamer is what the chat endpoint needs from the agent; *llm.Agent
// satisfies it.
type ChatStreamer interface {
	Stream(ctx context.Context, messages []*schema.Message, opts ...agent.AgentOption) (*schema.StreamReader[*schema.Message], error)
}

// ChatAgent is set by main when the model credentials are configured; the
// endpoint degrades to 503 without it so market data routes keep working.
var ChatAgent ChatStreamer

type ChatRequest struct {
	Messages []models.StoredMessage `json:"messages"`
}

// HandleChat runs the agent over the posted conversation and streams the
// reply as SSE frames terminated by [DONE].
func HandleChat(c *gin.Context) {
	if ChatAgent == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "chat model is not configured"})
		return
	}

	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Get().Warn("invalid chat request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Messages) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "messages must not be empty"})
		return
	}

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.String(http.StatusInternalServerError, "Streaming unsupported!")
		return
	}

	ctx := c.Request.Context()

	// Tool events and text deltas funnel through one channel so a single
	// consumer owns the response writer.
	events := make(chan sse.Event, 128)
	done := make(chan struct{})
	callback := llm.NewToolEventCallback(events)

	reader, err := ChatAgent.Stream(ctx, llm.ToSchemaMessages(req.Messages),
		agent.WithComposeOptions(compose.WithCallbacks(callback)))
	if err != nil {
		logger.Get().Error("failed to start chat stream", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	messageID := uuid.NewString()

	go func() {
		defer close(done)
		defer reader.Close()

		// Abandon sends once the client is gone so the goroutine never
		// blocks on a full channel nobody reads.
		send := func(ev sse.Event) bool {
			select {
			case events <- ev:
				return true
			case <-ctx.Done():
				return false
			}
		}

		started := false
		for {
			msg, err := reader.Recv()
			if err != nil {
				if !errors.Is(err, io.EOF) {
					logger.Get().Error("chat stream error", zap.Error(err))
					send(sse.Error(err.Error()))
				}
				return
			}
			if msg.Content == "" {
				continue
			}
			if !started {
				if !send(sse.TextStart(messageID)) {
					return
				}
				started = true
			}
			if !send(sse.TextDelta(messageID, msg.Content)) {
				return
			}
		}
	}()

	sse.SetHeaders(c.Writer)
	writer := sse.NewWriter(c.Writer, flusher)

	// text-end must only close a text block that was actually opened;
	// tool-only and error-only streams never emit text-start.
	sawText := false
	writeEvent := func(ev sse.Event) error {
		if ev.Type == sse.TypeTextStart {
			sawText = true
		}
		return writer.Send(ev)
	}

	c.Stream(func(w io.Writer) bool {
		select {
		case ev := <-events:
			if err := writeEvent(ev); err != nil {
				logger.Get().Warn("failed to write stream event", zap.Error(err))
				return false
			}
			return true
		case <-done:
			// Drain whatever the producer got in before finishing.
			for {
				select {
				case ev := <-events:
					if err := writeEvent(ev); err != nil {
						return false
					}
				default:
					if sawText {
						writer.Send(sse.TextEnd(messageID))
					}
					writer.Send(sse.Finish())
					writer.Done()
					return false
				}
			}
		case <-ctx.Done():
			logger.Get().Debug("chat client disconnected", zap.Error(ctx.Err()))
			return false
		}
	})
}

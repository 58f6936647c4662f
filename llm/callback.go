package llm

import (
	"context"
	"encoding/json"

	"crypto-chatbot/api/logger"
	"crypto-chatbot/api/sse"

	"github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components"
	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var _ callbacks.Handler = (*ToolEventCallback)(nil)

// ToolEventCallback forwards tool invocations to the chat stream so the UI
// can render tool cards while the agent works. Sends are non-blocking: a
// slow or gone consumer drops events rather than stalling the agent.
type ToolEventCallback struct {
	callbacks.HandlerBuilder

	Out chan<- sse.Event
}

func NewToolEventCallback(out chan<- sse.Event) *ToolEventCallback {
	return &ToolEventCallback{Out: out}
}

func (cb *ToolEventCallback) push(ev sse.Event) {
	select {
	case cb.Out <- ev:
	default:
		logger.Get().Warn("dropping tool stream event",
			zap.String("type", ev.Type),
			zap.String("tool_call_id", ev.ToolCallID))
	}
}

func (cb *ToolEventCallback) OnStart(ctx context.Context, info *callbacks.RunInfo, input callbacks.CallbackInput) context.Context {
	if info == nil || info.Component != components.ComponentOfTool {
		return ctx
	}

	// The returned context flows into OnEnd, which lets the output event
	// carry the same call id as the input event.
	ctx = WithCallID(ctx, uuid.NewString())
	cb.push(sse.ToolInput(callIDFromCtx(ctx), info.Name, rawJSON(toolArguments(input))))
	return ctx
}

func (cb *ToolEventCallback) OnEnd(ctx context.Context, info *callbacks.RunInfo, output callbacks.CallbackOutput) context.Context {
	if info == nil || info.Component != components.ComponentOfTool {
		return ctx
	}

	cb.push(sse.ToolOutput(callIDFromCtx(ctx), rawJSON(toolResponse(output))))
	return ctx
}

func (cb *ToolEventCallback) OnError(ctx context.Context, info *callbacks.RunInfo, err error) context.Context {
	if info == nil || info.Component != components.ComponentOfTool {
		return ctx
	}

	logger.Get().Error("tool execution error",
		zap.String("tool", info.Name),
		zap.Error(err))
	return ctx
}

// Tool IO never streams; the readers are drained and closed so the runtime
// can release them.

func (cb *ToolEventCallback) OnStartWithStreamInput(ctx context.Context, info *callbacks.RunInfo, input *schema.StreamReader[callbacks.CallbackInput]) context.Context {
	defer input.Close()
	return ctx
}

func (cb *ToolEventCallback) OnEndWithStreamOutput(ctx context.Context, info *callbacks.RunInfo, output *schema.StreamReader[callbacks.CallbackOutput]) context.Context {
	go func() {
		defer output.Close()
		for {
			if _, err := output.Recv(); err != nil {
				return
			}
		}
	}()
	return ctx
}

func toolArguments(input callbacks.CallbackInput) string {
	switch in := input.(type) {
	case *tool.CallbackInput:
		return in.ArgumentsInJSON
	case string:
		return in
	default:
		return ""
	}
}

func toolResponse(output callbacks.CallbackOutput) string {
	switch out := output.(type) {
	case *tool.CallbackOutput:
		return out.Response
	case string:
		return out
	default:
		return ""
	}
}

// rawJSON passes well-formed JSON through untouched and quotes anything
// else so the stream frame stays valid.
func rawJSON(s string) json.RawMessage {
	if s == "" {
		return nil
	}
	if json.Valid([]byte(s)) {
		return json.RawMessage(s)
	}
	quoted, _ := json.Marshal(s)
	return quoted
}

type callIDKey struct{}

// WithCallID tags a context with the tool call id, when known.
func WithCallID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, callIDKey{}, id)
}

func callIDFromCtx(ctx context.Context) string {
	if id, ok := ctx.Value(callIDKey{}).(string); ok {
		return id
	}
	return ""
}

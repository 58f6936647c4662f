package sse

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Event is one frame of the chat response stream, written as an SSE data
// line. Types follow the UI message stream convention: text-start /
// text-delta / text-end carry the text id and delta, tool-input-available
// and tool-output-available carry the tool call id, error carries errorText,
// finish closes the message.
type Event struct {
	Type       string          `json:"type"`
	ID         string          `json:"id,omitempty"`
	Delta      string          `json:"delta,omitempty"`
	ToolCallID string          `json:"toolCallId,omitempty"`
	ToolName   string          `json:"toolName,omitempty"`
	Input      json.RawMessage `json:"input,omitempty"`
	Output     json.RawMessage `json:"output,omitempty"`
	ErrorText  string          `json:"errorText,omitempty"`
}

const (
	TypeTextStart  = "text-start"
	TypeTextDelta  = "text-delta"
	TypeTextEnd    = "text-end"
	TypeToolInput  = "tool-input-available"
	TypeToolOutput = "tool-output-available"
	TypeError      = "error"
	TypeFinish     = "finish"
)

func TextStart(id string) Event {
	return Event{Type: TypeTextStart, ID: id}
}

func TextDelta(id, delta string) Event {
	return Event{Type: TypeTextDelta, ID: id, Delta: delta}
}

func TextEnd(id string) Event {
	return Event{Type: TypeTextEnd, ID: id}
}

func ToolInput(callID, toolName string, input json.RawMessage) Event {
	return Event{Type: TypeToolInput, ToolCallID: callID, ToolName: toolName, Input: input}
}

func ToolOutput(callID string, output json.RawMessage) Event {
	return Event{Type: TypeToolOutput, ToolCallID: callID, Output: output}
}

func Error(msg string) Event {
	return Event{Type: TypeError, ErrorText: msg}
}

func Finish() Event {
	return Event{Type: TypeFinish}
}

// Writer serializes events onto an HTTP response as SSE frames. Callers must
// have set the text/event-stream headers before the first write.
type Writer struct {
	w       io.Writer
	flusher http.Flusher
}

func NewWriter(w io.Writer, flusher http.Flusher) *Writer {
	return &Writer{w: w, flusher: flusher}
}

func (sw *Writer) Send(ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("error encoding stream event: %v", err)
	}
	if _, err := fmt.Fprintf(sw.w, "data: %s\n\n", data); err != nil {
		return err
	}
	sw.flusher.Flush()
	return nil
}

// Done terminates the stream the way the UI expects.
func (sw *Writer) Done() error {
	if _, err := io.WriteString(sw.w, "data: [DONE]\n\n"); err != nil {
		return err
	}
	sw.flusher.Flush()
	return nil
}

// SetHeaders prepares the response for event streaming.
func SetHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
}

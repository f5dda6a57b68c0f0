package runner

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/aretw0/onboarding/pkg/domain"
)

// Message is one JSON Lines record written by JSONHandler.
type Message struct {
	Type     string               `json:"type"`
	Step     *domain.ResolvedStep `json:"step,omitempty"`
	Progress *domain.Progress     `json:"progress,omitempty"`
	Message  string               `json:"message,omitempty"`
}

// Message types.
const (
	MessageStep   = "step"
	MessageSystem = "system"
)

// JSONHandler implements IOHandler over JSON Lines.
// Each input line is either a Reply object ({"value": ..., "back": true}),
// any other JSON value used as the response, or plain text.
type JSONHandler struct {
	Reader  *bufio.Reader
	Writer  io.Writer
	Encoder *json.Encoder
}

// NewJSONHandler creates a handler for JSON IO.
func NewJSONHandler(r io.Reader, w io.Writer) *JSONHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	return &JSONHandler{
		Reader:  bufio.NewReader(r),
		Writer:  w,
		Encoder: json.NewEncoder(w),
	}
}

// Output emits the step as a single JSON line.
func (h *JSONHandler) Output(ctx context.Context, step domain.ResolvedStep, progress domain.Progress) error {
	return h.Encoder.Encode(Message{Type: MessageStep, Step: &step, Progress: &progress})
}

// Input reads the next non-blank line.
func (h *JSONHandler) Input(ctx context.Context, step domain.ResolvedStep) (Reply, error) {
	for {
		if err := ctx.Err(); err != nil {
			return Reply{}, err
		}
		line, err := h.Reader.ReadString('\n')
		text := strings.TrimSpace(line)
		if text == "" {
			if err != nil {
				return Reply{}, err
			}
			continue
		}
		return decodeReply(text), nil
	}
}

func decodeReply(text string) Reply {
	if strings.HasPrefix(text, "{") {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal([]byte(text), &fields); err == nil {
			_, hasValue := fields["value"]
			_, hasBack := fields["back"]
			if hasValue || hasBack {
				var reply Reply
				if err := json.Unmarshal([]byte(text), &reply); err == nil {
					return reply
				}
			}
		}
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(text)))
	var v any
	if err := dec.Decode(&v); err == nil && !dec.More() {
		return Reply{Value: v}
	}
	return Reply{Value: text}
}

// SystemOutput emits a system message line.
func (h *JSONHandler) SystemOutput(ctx context.Context, msg string) error {
	return h.Encoder.Encode(Message{Type: MessageSystem, Message: msg})
}

package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/aretw0/onboarding/pkg/domain"
)

// TextHandler implements the interactive terminal interface.
// Choice steps accept option numbers as well as option values; "back" and
// "<" go to the previous step; "quit" and "exit" stop the session.
type TextHandler struct {
	Reader    *bufio.Reader
	Writer    io.Writer
	Renderer  ContentRenderer
	Formatter StepFormatter

	inputChan chan inputResult
	startOnce sync.Once
}

type inputResult struct {
	text string
	err  error
}

// TextHandlerOption defines configuration for TextHandler.
type TextHandlerOption func(*TextHandler)

// WithTextHandlerRenderer configures the markdown renderer for descriptions.
func WithTextHandlerRenderer(renderer ContentRenderer) TextHandlerOption {
	return func(h *TextHandler) {
		h.Renderer = renderer
	}
}

// WithTextHandlerFormatter replaces the plain step layout.
func WithTextHandlerFormatter(f StepFormatter) TextHandlerOption {
	return func(h *TextHandler) {
		h.Formatter = f
	}
}

// NewTextHandler creates a handler reading lines from r and writing to w.
func NewTextHandler(r io.Reader, w io.Writer, opts ...TextHandlerOption) *TextHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	h := &TextHandler{
		Reader:    bufio.NewReader(r),
		Writer:    w,
		Formatter: FormatPlain,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// initPump starts the background reader once, so that Input can honor
// context cancellation while a read is blocked.
func (h *TextHandler) initPump() {
	h.startOnce.Do(func() {
		h.inputChan = make(chan inputResult)
		go h.pump()
	})
}

func (h *TextHandler) pump() {
	defer close(h.inputChan)
	for {
		text, err := h.Reader.ReadString('\n')
		if text != "" {
			h.inputChan <- inputResult{text: text}
		}
		if err != nil {
			if err != io.EOF {
				h.inputChan <- inputResult{err: err}
			}
			return
		}
	}
}

// Output writes the formatted step.
func (h *TextHandler) Output(ctx context.Context, step domain.ResolvedStep, progress domain.Progress) error {
	format := h.Formatter
	if format == nil {
		format = FormatPlain
	}
	_, err := fmt.Fprintln(h.Writer, strings.TrimRight(format(step, progress, h.Renderer), "\n"))
	return err
}

// Input prompts until a line parses for step.
func (h *TextHandler) Input(ctx context.Context, step domain.ResolvedStep) (Reply, error) {
	h.initPump()

	for {
		select {
		case <-ctx.Done():
			return Reply{}, ctx.Err()
		default:
			fmt.Fprint(h.Writer, "> ")
		}

		select {
		case <-ctx.Done():
			return Reply{}, ctx.Err()
		case res, ok := <-h.inputChan:
			if !ok {
				return Reply{}, io.EOF
			}
			if res.err != nil {
				return Reply{}, res.err
			}

			clean, err := SanitizeInput(strings.TrimSpace(res.text))
			if err != nil {
				fmt.Fprintf(h.Writer, "Error: %v. Please try again.\n", err)
				continue
			}
			switch strings.ToLower(clean) {
			case "quit", "exit":
				return Reply{}, io.EOF
			case "back", "<":
				return Reply{Back: true}, nil
			}

			value, err := ParseText(step, clean)
			if err != nil {
				fmt.Fprintf(h.Writer, "Error: %v. Please try again.\n", err)
				continue
			}
			return Reply{Value: value}, nil
		}
	}
}

// SystemOutput writes a prefixed meta-message.
func (h *TextHandler) SystemOutput(ctx context.Context, msg string) error {
	_, err := fmt.Fprintf(h.Writer, ">>> %s\n", msg)
	return err
}

// ParseText converts a terminal line into the raw reply for step.
// Option numbers (1-based) are replaced by option values; multi-select and
// group answers are comma separated, groups as key=value pairs.
func ParseText(step domain.ResolvedStep, text string) (any, error) {
	if text == "" {
		return nil, nil
	}
	switch step.InputKind {
	case domain.InputSingleSelect:
		return optionValue(step.Options, text), nil
	case domain.InputMultiSelect:
		items := []string{}
		for _, part := range strings.Split(text, ",") {
			if part = strings.TrimSpace(part); part != "" {
				items = append(items, optionValue(step.Options, part))
			}
		}
		return items, nil
	case domain.InputGroup:
		return parseGroup(step, text)
	}
	return text, nil
}

func parseGroup(step domain.ResolvedStep, text string) (map[string]any, error) {
	out := make(map[string]any)
	for _, part := range strings.Split(text, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, val, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("expected key=value, got %q", part)
		}
		key, val = strings.TrimSpace(key), strings.TrimSpace(val)
		field, found := resolvedField(step.Fields, key)
		if !found {
			return nil, fmt.Errorf("unknown field %q", key)
		}
		if field.InputKind == domain.InputSingleSelect {
			val = optionValue(field.Options, val)
		}
		out[field.ID] = val
	}
	return out, nil
}

func resolvedField(fields []domain.ResolvedField, id string) (domain.ResolvedField, bool) {
	for _, f := range fields {
		if strings.EqualFold(f.ID, id) {
			return f, true
		}
	}
	return domain.ResolvedField{}, false
}

// optionValue maps a 1-based option number to its value; anything else is
// returned unchanged.
func optionValue(options []domain.ResolvedOption, text string) string {
	if n, err := strconv.Atoi(text); err == nil && n >= 1 && n <= len(options) {
		return options[n-1].Value.String()
	}
	return text
}

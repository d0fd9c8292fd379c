package docxml

import (
	"fmt"
	"io"
	"sync"
)

var emitterPool = sync.Pool{
	New: func() any {
		return &Emitter{}
	},
}

func getEmitter(cfg config) *Emitter {
	e := emitterPool.Get().(*Emitter)
	e.Reset()
	e.cfg = cfg
	return e
}

func putEmitter(e *Emitter) {
	if cap(e.out.buf) > 1<<20 {
		// keep huge records out of the pool
		return
	}
	e.Reset()
	e.cfg = config{}
	emitterPool.Put(e)
}

// InputFormat selects how Render and Parse read rich text.
type InputFormat uint8

const (
	// FormatMarkdown reads Markdown with command paragraphs.
	FormatMarkdown InputFormat = iota
	// FormatEvents reads a line-oriented event script.
	FormatEvents
)

// RenderRequest configures Render.
type RenderRequest struct {
	Reader io.Reader
	Writer io.Writer
	Format InputFormat
	// IDPrefix prefixes the ids of sections opened by headings.
	IDPrefix string
	Options  []Option
}

// ParseRequest configures Parse.
type ParseRequest struct {
	Reader   io.Reader
	Sink     Sink
	Format   InputFormat
	IDPrefix string
}

// Render renders one rich-text block to markup. The output is written even
// when the block turns out unbalanced; the returned error then wraps
// ErrUnbalanced.
func Render(req RenderRequest) error {
	if req.Reader == nil {
		return fmt.Errorf("render: reader is nil")
	}
	if req.Writer == nil {
		return fmt.Errorf("render: writer is nil")
	}
	e := getEmitter(newConfig(req.Options))
	defer putEmitter(e)
	err := Parse(ParseRequest{
		Reader:   req.Reader,
		Sink:     e,
		Format:   req.Format,
		IDPrefix: req.IDPrefix,
	})
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	blockErr := e.EndBlock()
	if _, err := e.WriteTo(req.Writer); err != nil {
		return fmt.Errorf("render: write: %w", err)
	}
	if blockErr != nil {
		return fmt.Errorf("render: %w", blockErr)
	}
	return nil
}

// Parse reads rich text and sends its markup events to a sink.
func Parse(req ParseRequest) error {
	if req.Reader == nil {
		return fmt.Errorf("parse: reader is nil")
	}
	if req.Sink == nil {
		return fmt.Errorf("parse: sink is nil")
	}
	switch req.Format {
	case FormatEvents:
		return RunScript(req.Reader, req.Sink)
	case FormatMarkdown:
		src, err := io.ReadAll(req.Reader)
		if err != nil {
			return fmt.Errorf("parse: read: %w", err)
		}
		return ConvertMarkdown(src, req.IDPrefix, req.Sink)
	default:
		return fmt.Errorf("parse: unknown input format %d", req.Format)
	}
}

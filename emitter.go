package docxml

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// ErrUnbalanced reports a block whose scopes or lists were not drained.
var ErrUnbalanced = errors.New("unbalanced markup block")

// Emitter writes nested XML markup for a flat sequence of rich-text events.
//
// Paragraphs are implicit: inline content opens one lazily at the innermost
// scope and block constructs close it. An Emitter is not safe for concurrent
// use; render independent blocks with independent emitters or clones.
type Emitter struct {
	out        output
	par        paragraphs
	list       nesting
	cfg        config
	violations int
}

// NewEmitter returns an empty emitter.
func NewEmitter(opts ...Option) *Emitter {
	return &Emitter{cfg: newConfig(opts)}
}

func newEmitterWithConfig(cfg config) *Emitter {
	return &Emitter{cfg: cfg}
}

// Reset discards all output and tracker state.
func (e *Emitter) Reset() {
	e.out.reset()
	e.par.reset()
	e.list.reset()
	e.violations = 0
}

// Clone returns an emitter with a fresh output and copies of e's trackers.
func (e *Emitter) Clone() *Emitter {
	return &Emitter{
		par:        e.par.clone(),
		list:       e.list.clone(),
		cfg:        e.cfg,
		violations: e.violations,
	}
}

// Append commits child's output to e and adopts child's tracker state.
// child is left untouched.
func (e *Emitter) Append(child *Emitter) {
	if child == nil {
		return
	}
	e.out.writeBytes(child.out.buf)
	e.par = child.par.clone()
	e.list = child.list.clone()
	e.violations = child.violations
}

// Bytes returns the committed output. The slice is valid until the next write.
func (e *Emitter) Bytes() []byte {
	return e.out.buf
}

// String returns the committed output.
func (e *Emitter) String() string {
	return string(e.out.buf)
}

// Len returns the number of committed bytes.
func (e *Emitter) Len() int {
	return len(e.out.buf)
}

// WriteTo writes the committed output to w.
func (e *Emitter) WriteTo(w io.Writer) (int64, error) {
	return e.out.writeTo(w)
}

// Depth returns the number of open paragraph scopes and list constructs.
func (e *Emitter) Depth() (scopes, lists int) {
	return len(e.par.scopes), len(e.list.levels)
}

// Violations returns the number of contract violations seen since the last
// EndBlock or Reset.
func (e *Emitter) Violations() int {
	return e.violations
}

// EndBlock closes the trailing implicit paragraph of a rich-text block and
// checks that every scope and list opened inside the block was closed.
// Tracker state is cleared either way so the next block starts fresh.
func (e *Emitter) EndBlock() error {
	e.par.exit(&e.out)
	if len(e.par.scopes) == 1 {
		switch e.par.scopes[0].kind {
		case ScopeTop, ScopeCode:
			e.par.reset()
		}
	}
	var problems []string
	if n := len(e.par.scopes); n > 0 {
		problems = append(problems, fmt.Sprintf("%d open scope(s), innermost %s", n, e.par.top().kind))
	}
	if n := len(e.list.levels); n > 0 {
		problems = append(problems, fmt.Sprintf("%d open list(s), innermost %s", n, e.list.top().kind))
	}
	if e.violations > 0 {
		problems = append(problems, fmt.Sprintf("%d contract violation(s)", e.violations))
	}
	e.par.reset()
	e.list.reset()
	e.violations = 0
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrUnbalanced, strings.Join(problems, "; "))
	}
	return nil
}

func (e *Emitter) violation(op, format string, args ...any) {
	e.violations++
	msg := fmt.Sprintf(format, args...)
	e.cfg.logger.Debug("markup contract violation", slog.String("op", op), slog.String("detail", msg))
	if e.cfg.strict {
		panic(fmt.Sprintf("docxml: %s: %s", op, msg))
	}
}

// popScope pops the innermost scope, which must be of kind and closed.
func (e *Emitter) popScope(op string, kind ScopeKind) (scope, bool) {
	s, ok := e.par.pop()
	if !ok {
		e.violation(op, "no open scope")
		return scope{}, false
	}
	if s.kind != kind {
		e.violation(op, "closing %s scope, innermost is %s", kind, s.kind)
	}
	if s.open {
		e.violation(op, "%s scope popped with an open paragraph", s.kind)
	}
	return s, true
}

// closeScope closes the paragraph of the innermost scope and pops it.
func (e *Emitter) closeScope(op string, kind ScopeKind) (scope, bool) {
	e.par.exit(&e.out)
	return e.popScope(op, kind)
}

// nextItem applies the close-previous-then-open-next protocol for kind.
// It returns false when the innermost construct is not of kind.
func (e *Emitter) nextItem(op string, kind ListKind) (closePrev bool, ok bool) {
	top := e.list.top()
	if top == nil {
		e.violation(op, "no open %s list", kind)
		return false, false
	}
	if top.kind != kind {
		e.violation(op, "innermost list is %s, not %s", top.kind, kind)
		return false, false
	}
	return e.list.next()
}

func (e *Emitter) closeList(op string, kind ListKind) (level, bool, bool) {
	top := e.list.top()
	if top == nil {
		e.violation(op, "no open %s list", kind)
		return level{}, false, false
	}
	if top.kind != kind {
		e.violation(op, "innermost list is %s, not %s", top.kind, kind)
		return level{}, false, false
	}
	return e.list.close()
}

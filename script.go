package docxml

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"
)

var (
	// ErrUnknownEvent reports an event script line naming no known event.
	ErrUnknownEvent = errors.New("unknown event")
	// ErrInvalidScript reports a malformed event script line.
	ErrInvalidScript = errors.New("invalid event script")
)

var readerPool = sync.Pool{
	New: func() any {
		return bufio.NewReaderSize(nil, 16*1024)
	},
}

// RunScript reads a line-oriented event script from r and sends each event
// to s as soon as its line is parsed.
//
// A line holds an event name followed by its fields:
//
//	start_list list=itemized
//	item
//	text "hello, world"
//	object_link id=classfoo anchor=a1b2 "Foo::bar"
//
// A bare quoted string sets Text. Blank lines and lines starting with # are
// skipped.
func RunScript(r io.Reader, s Sink) error {
	if r == nil {
		return fmt.Errorf("script: reader is nil")
	}
	if s == nil {
		return fmt.Errorf("script: sink is nil")
	}
	reader := readerPool.Get().(*bufio.Reader)
	reader.Reset(r)
	defer func() {
		reader.Reset(nil)
		readerPool.Put(reader)
	}()
	lineNo := 0
	for {
		line, err := reader.ReadString('\n')
		if len(line) > 0 {
			lineNo++
			ev, skip, perr := parseScriptLine(line)
			if perr != nil {
				return fmt.Errorf("script: line %d: %w", lineNo, perr)
			}
			if !skip {
				s.Emit(ev)
			}
		}
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("script: read: %w", err)
		}
	}
}

// ParseScript reads a whole event script.
func ParseScript(r io.Reader) ([]Event, error) {
	var rec Recorder
	if err := RunScript(r, &rec); err != nil {
		return nil, err
	}
	return rec.Events, nil
}

func parseScriptLine(line string) (Event, bool, error) {
	if !utf8.ValidString(line) {
		return Event{}, false, ErrInvalidUTF8
	}
	line = strings.TrimSpace(line)
	if line == "" || line[0] == '#' {
		return Event{}, true, nil
	}
	name, rest, _ := strings.Cut(line, " ")
	kind, ok := EventKindByName(name)
	if !ok {
		return Event{}, false, fmt.Errorf("%w %q", ErrUnknownEvent, name)
	}
	ev := Event{Kind: kind}
	for {
		rest = strings.TrimLeft(rest, " \t")
		if rest == "" {
			return ev, false, nil
		}
		if rest[0] == '"' {
			text, tail, err := unquotePrefix(rest)
			if err != nil {
				return Event{}, false, err
			}
			ev.Text = text
			rest = tail
			continue
		}
		key, tail, found := strings.Cut(rest, "=")
		if !found || key == "" || strings.ContainsAny(key, " \t") {
			return Event{}, false, fmt.Errorf("%w: expected key=value near %q", ErrInvalidScript, rest)
		}
		var value string
		if strings.HasPrefix(tail, `"`) {
			v, t, err := unquotePrefix(tail)
			if err != nil {
				return Event{}, false, err
			}
			value, rest = v, t
		} else {
			value, rest, _ = strings.Cut(tail, " ")
		}
		if err := setEventField(&ev, key, value); err != nil {
			return Event{}, false, err
		}
	}
}

func unquotePrefix(s string) (string, string, error) {
	quoted, err := strconv.QuotedPrefix(s)
	if err != nil {
		return "", "", fmt.Errorf("%w: bad quoted string near %q", ErrInvalidScript, s)
	}
	text, err := strconv.Unquote(quoted)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrInvalidScript, err)
	}
	return text, s[len(quoted):], nil
}

func setEventField(ev *Event, key, value string) error {
	ok := true
	switch key {
	case "text":
		ev.Text = value
	case "id", "url", "file", "name", "class":
		ev.ID = value
	case "anchor", "label":
		ev.Anchor = value
	case "ext":
		ev.Ext = value
	case "n", "cols", "level", "line", "count":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidScript, key, err)
		}
		ev.N = n
	case "list":
		ev.List, ok = ParseListKind(value)
	case "param":
		ev.Param, ok = ParseParamKind(value)
	case "section":
		ev.Section, ok = SectionKindByName(value)
	case "style":
		ev.Style, ok = ParseStyle(value)
	case "accent":
		ev.Accent, ok = ParseAccent(value)
	case "verbatim":
		ev.Verbatim, ok = ParseVerbatimKind(value)
	default:
		return fmt.Errorf("%w: unknown field %q", ErrInvalidScript, key)
	}
	if !ok {
		return fmt.Errorf("%w: bad %s %q", ErrInvalidScript, key, value)
	}
	return nil
}

// FormatEvent returns the script line for ev, without a trailing newline.
func FormatEvent(ev Event) string {
	var b strings.Builder
	b.WriteString(ev.Kind.String())
	var fields eventField
	if int(ev.Kind) < len(eventKinds) {
		fields = eventKinds[ev.Kind].fields
	}
	str := func(key, value string) {
		if value == "" {
			return
		}
		b.WriteString(" " + key + "=")
		b.WriteString(strconv.Quote(value))
	}
	if fields&fieldExt != 0 {
		str("ext", ev.Ext)
	}
	if fields&fieldID != 0 {
		str("id", ev.ID)
	}
	if fields&fieldAnchor != 0 {
		str("anchor", ev.Anchor)
	}
	if fields&fieldN != 0 {
		b.WriteString(" n=" + strconv.Itoa(ev.N))
	}
	if fields&fieldList != 0 {
		b.WriteString(" list=" + ev.List.String())
	}
	if fields&fieldParam != 0 {
		b.WriteString(" param=" + ev.Param.String())
	}
	if fields&fieldSection != 0 {
		b.WriteString(" section=" + ev.Section.String())
	}
	if fields&fieldStyle != 0 {
		b.WriteString(" style=" + ev.Style.String())
	}
	if fields&fieldAccent != 0 {
		b.WriteString(" accent=" + ev.Accent.String())
	}
	if fields&fieldVerbatim != 0 {
		b.WriteString(" verbatim=" + ev.Verbatim.String())
	}
	if fields&fieldText != 0 {
		b.WriteString(" ")
		b.WriteString(strconv.Quote(ev.Text))
	}
	return b.String()
}

// WriteScript writes events as an event script.
func WriteScript(w io.Writer, events []Event) error {
	bw := bufio.NewWriter(w)
	for _, ev := range events {
		if _, err := bw.WriteString(FormatEvent(ev)); err != nil {
			return fmt.Errorf("script: write: %w", err)
		}
		if err := bw.WriteByte('\n'); err != nil {
			return fmt.Errorf("script: write: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("script: write: %w", err)
	}
	return nil
}

package docxml

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

var markdownParser = sync.OnceValue(func() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(extension.Table, extension.DefinitionList),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	)
})

// ConvertMarkdown parses Markdown rich text and sends its markup events to s.
//
// Besides CommonMark it understands tables, definition lists and command
// lines: a paragraph line starting with @param, @retval or @exception (or
// \param, ...) starts a parameter list entry, and one starting with a simple
// section name such as @return or @note starts a simple section. Adjacent
// parameter entries of one kind share a list. Links with a "ref:compound#anchor" destination become
// object links. Section ids are prefixed with idPrefix.
//
// The caller ends the block; ConvertMarkdown only emits events.
func ConvertMarkdown(src []byte, idPrefix string, s Sink) error {
	if s == nil {
		return fmt.Errorf("markdown: sink is nil")
	}
	if err := ValidateInput(src); err != nil {
		return fmt.Errorf("markdown: %w", err)
	}
	root := markdownParser().Parser().Parse(text.NewReader(src))
	w := markdownWalker{src: src, sink: s, idPrefix: idPrefix}
	w.blocks(root)
	return nil
}

type markdownWalker struct {
	src      []byte
	sink     Sink
	idPrefix string
	// lo and hi restrict inline rendering to a source range (hi 0 means no
	// upper bound); pos is the last rendered offset.
	lo, hi, pos int
	// open holds the inline elements open in the current paragraph.
	open []openInline
}

// openInline is an inline element waiting for its end event.
type openInline struct {
	end   EventKind
	style Style
	// raw marks styles opened by an HTML tag.
	raw bool
}

func (w *markdownWalker) emit(ev Event) {
	w.sink.Emit(ev)
}

func (w *markdownWalker) kind(k EventKind) {
	w.sink.Emit(Event{Kind: k})
}

// blocks renders the block children of parent. Headings open sections that
// stay open until a heading of the same or a higher level, or the end of
// parent.
func (w *markdownWalker) blocks(parent gmast.Node) {
	var sections []int
	for n := parent.FirstChild(); n != nil; {
		if h, ok := n.(*gmast.Heading); ok {
			for len(sections) > 0 && sections[len(sections)-1] >= h.Level {
				w.kind(EventEndSection)
				sections = sections[:len(sections)-1]
			}
			w.heading(h)
			sections = append(sections, h.Level)
			n = n.NextSibling()
			continue
		}
		if cmds, lead := w.commands(n); len(cmds) > 0 {
			if lead {
				w.within(n, 0, cmds[0].line)
				w.kind(EventNewParagraph)
			}
			n = n.NextSibling()
			for n != nil {
				more, lead := w.commands(n)
				if len(more) == 0 || lead {
					break
				}
				cmds = append(cmds, more...)
				n = n.NextSibling()
			}
			w.commandRun(cmds)
			continue
		}
		w.block(n)
		n = n.NextSibling()
	}
	for range sections {
		w.kind(EventEndSection)
	}
}

func (w *markdownWalker) block(n gmast.Node) {
	switch node := n.(type) {
	case *gmast.Paragraph, *gmast.TextBlock:
		w.paragraph(node)
		w.kind(EventNewParagraph)
	case *gmast.ThematicBreak:
		w.kind(EventRuler)
	case *gmast.FencedCodeBlock:
		w.codeBlock(node, string(node.Language(w.src)))
	case *gmast.CodeBlock:
		w.codeBlock(node, "")
	case *gmast.Blockquote:
		w.blocks(node)
	case *gmast.List:
		w.list(node)
	case *gmast.HTMLBlock:
		var b bytes.Buffer
		lines := node.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			b.Write(seg.Value(w.src))
		}
		if node.HasClosure() {
			b.Write(node.ClosureLine.Value(w.src))
		}
		w.emit(Event{Kind: EventVerbatim, Verbatim: VerbatimHTML, Text: b.String()})
	case *east.Table:
		w.table(node)
	case *east.DefinitionList:
		w.definitionList(node)
	default:
		w.blocks(node)
	}
}

func (w *markdownWalker) heading(h *gmast.Heading) {
	level := h.Level
	if level > 3 {
		level = 3
	}
	id := ""
	if v, ok := h.AttributeString("id"); ok {
		if b, ok := v.([]byte); ok {
			id = string(b)
		}
	}
	if id != "" && w.idPrefix != "" {
		id = w.idPrefix + anchorSeparator + id
	}
	w.emit(Event{Kind: EventStartSection, ID: id, N: level})
	w.kind(EventStartTitle)
	w.paragraph(h)
	w.kind(EventEndTitle)
}

func (w *markdownWalker) codeBlock(n gmast.Node, lang string) {
	class := "normal"
	if lang != "" {
		class = lang
	}
	w.kind(EventStartCodeFragment)
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		line := strings.TrimRight(string(seg.Value(w.src)), "\r\n")
		w.kind(EventStartCodeLine)
		w.emit(Event{Kind: EventStartHighlight, ID: class})
		w.emit(Event{Kind: EventCodify, Text: line})
		w.kind(EventEndHighlight)
		w.kind(EventEndCodeLine)
	}
	w.kind(EventEndCodeFragment)
	w.kind(EventNewParagraph)
}

func (w *markdownWalker) list(l *gmast.List) {
	kind := ListItemized
	if l.IsOrdered() {
		kind = ListOrdered
	}
	w.emit(Event{Kind: EventStartList, List: kind})
	for item := l.FirstChild(); item != nil; item = item.NextSibling() {
		w.kind(EventItem)
		w.blocks(item)
	}
	w.emit(Event{Kind: EventEndList, List: kind})
}

func (w *markdownWalker) table(t *east.Table) {
	w.emit(Event{Kind: EventStartTable, N: len(t.Alignments)})
	for row := t.FirstChild(); row != nil; row = row.NextSibling() {
		first := true
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			if first {
				w.kind(EventRow)
				first = false
			} else {
				w.kind(EventCell)
			}
			w.paragraph(cell)
			w.kind(EventEndCell)
		}
		if !first {
			w.kind(EventEndRow)
		}
	}
	w.kind(EventEndTable)
}

func (w *markdownWalker) definitionList(l *east.DefinitionList) {
	w.kind(EventStartDescription)
	afterTerm := false
	for n := l.FirstChild(); n != nil; n = n.NextSibling() {
		switch n.(type) {
		case *east.DefinitionTerm:
			w.kind(EventTerm)
			w.paragraph(n)
			afterTerm = true
		case *east.DefinitionDescription:
			if afterTerm {
				w.kind(EventValue)
			} else {
				w.kind(EventNewParagraph)
			}
			afterTerm = false
			w.blocks(n)
		}
	}
	w.kind(EventEndDescription)
}

// paragraph renders the inlines of n and closes whatever they left open.
func (w *markdownWalker) paragraph(n gmast.Node) {
	w.inlines(n)
	w.closeInlines()
}

func (w *markdownWalker) inlines(parent gmast.Node) {
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		if w.inRange(n) {
			w.inline(n)
		}
	}
}

// within renders the inline content of n that lies in [lo, hi).
func (w *markdownWalker) within(n gmast.Node, lo, hi int) {
	w.lo, w.hi, w.pos = lo, hi, lo
	w.paragraph(n)
	w.lo, w.hi, w.pos = 0, 0, 0
}

// inRange reports whether n has content in the current range. Atomic nodes
// belong to the range they start in. Containers are entered when they
// overlap the range, so one straddling a boundary is rendered, clipped, in
// both ranges.
func (w *markdownWalker) inRange(n gmast.Node) bool {
	if w.lo == 0 && w.hi == 0 {
		return true
	}
	if _, ok := n.(*gmast.Text); ok {
		// clipped by inline
		return true
	}
	start := firstOffset(n)
	if start < 0 {
		start = w.pos
	}
	if atomicInline(n) {
		return start >= w.lo && (w.hi == 0 || start < w.hi)
	}
	end := lastOffset(n)
	if end < 0 {
		end = start + 1
	}
	return end > w.lo && (w.hi == 0 || start < w.hi)
}

// atomicInline reports nodes rendered from their whole text at once.
func atomicInline(n gmast.Node) bool {
	switch node := n.(type) {
	case *gmast.CodeSpan, *gmast.AutoLink, *gmast.RawHTML, *gmast.String:
		return true
	case *gmast.Link:
		return bytes.HasPrefix(node.Destination, []byte("ref:"))
	}
	return false
}

// firstOffset returns the source offset of the first text in n, or -1.
func firstOffset(n gmast.Node) int {
	switch node := n.(type) {
	case *gmast.Text:
		return node.Segment.Start
	case *gmast.RawHTML:
		if node.Segments.Len() > 0 {
			return node.Segments.At(0).Start
		}
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if off := firstOffset(c); off >= 0 {
			return off
		}
	}
	return -1
}

// lastOffset returns the source offset just past the last text in n, or -1.
func lastOffset(n gmast.Node) int {
	switch node := n.(type) {
	case *gmast.Text:
		return node.Segment.Stop
	case *gmast.RawHTML:
		if l := node.Segments.Len(); l > 0 {
			return node.Segments.At(l - 1).Stop
		}
	}
	for c := n.LastChild(); c != nil; c = c.PreviousSibling() {
		if off := lastOffset(c); off >= 0 {
			return off
		}
	}
	return -1
}

// endsRange reports whether the line ending at stop is the last one in range.
func (w *markdownWalker) endsRange(stop int) bool {
	if w.hi == 0 {
		return false
	}
	next := len(w.src)
	if i := bytes.IndexByte(w.src[stop:], '\n'); i >= 0 {
		next = stop + i + 1
	}
	return next >= w.hi
}

func (w *markdownWalker) inline(n gmast.Node) {
	switch node := n.(type) {
	case *gmast.Text:
		seg := node.Segment
		if seg.Start < w.lo {
			if seg.Stop <= w.lo {
				return
			}
			seg.Start = w.lo
		}
		if w.hi > 0 {
			if seg.Start >= w.hi {
				return
			}
			seg.Stop = min(seg.Stop, w.hi)
		}
		if v := seg.Value(w.src); len(v) > 0 {
			w.emit(Event{Kind: EventText, Text: string(v)})
		}
		w.pos = seg.Stop
		if w.endsRange(seg.Stop) {
			return
		}
		switch {
		case node.HardLineBreak():
			w.kind(EventLineBreak)
		case node.SoftLineBreak():
			w.emit(Event{Kind: EventText, Text: " "})
		}
	case *gmast.String:
		w.emit(Event{Kind: EventText, Text: string(node.Value)})
	case *gmast.CodeSpan:
		w.emit(Event{Kind: EventStartStyle, Style: StyleTypewriter})
		w.emit(Event{Kind: EventText, Text: w.plain(node)})
		w.emit(Event{Kind: EventEndStyle, Style: StyleTypewriter})
	case *gmast.Emphasis:
		style := StyleEmphasis
		if node.Level >= 2 {
			style = StyleBold
		}
		w.openStyle(style, false)
		w.inlines(node)
		w.closeTo(EventEndStyle, style)
	case *gmast.Link:
		dest := string(node.Destination)
		if ref, ok := strings.CutPrefix(dest, "ref:"); ok {
			compound, anchor, _ := strings.Cut(ref, "#")
			w.emit(Event{Kind: EventObjectLink, ID: compound, Anchor: anchor, Text: w.plain(node)})
			return
		}
		w.emit(Event{Kind: EventStartHTMLLink, ID: dest})
		w.open = append(w.open, openInline{end: EventEndHTMLLink})
		w.inlines(node)
		w.closeTo(EventEndHTMLLink, 0)
	case *gmast.AutoLink:
		if node.AutoLinkType == gmast.AutoLinkEmail {
			w.emit(Event{Kind: EventMailLink, Text: string(node.Label(w.src))})
			return
		}
		w.emit(Event{Kind: EventStartHTMLLink, ID: string(node.URL(w.src))})
		w.emit(Event{Kind: EventText, Text: string(node.Label(w.src))})
		w.kind(EventEndHTMLLink)
	case *gmast.Image:
		w.emit(Event{Kind: EventStartImage, ID: string(node.Destination)})
		w.open = append(w.open, openInline{end: EventEndImage})
		w.inlines(node)
		w.closeTo(EventEndImage, 0)
	case *gmast.RawHTML:
		w.rawHTML(node)
	default:
		w.inlines(node)
	}
}

var htmlStyles = map[string]Style{
	"b":      StyleBold,
	"strong": StyleBold,
	"i":      StyleEmphasis,
	"em":     StyleEmphasis,
	"tt":     StyleTypewriter,
	"code":   StyleTypewriter,
	"center": StyleCenter,
	"small":  StyleSmall,
	"sub":    StyleSubscript,
	"sup":    StyleSuperscript,
}

func (w *markdownWalker) openStyle(style Style, raw bool) {
	w.emit(Event{Kind: EventStartStyle, Style: style})
	w.open = append(w.open, openInline{end: EventEndStyle, style: style, raw: raw})
}

// closeTo closes open inline elements up to and including the innermost one
// matching end and style. Nothing is closed when there is no match.
func (w *markdownWalker) closeTo(end EventKind, style Style) {
	for i := len(w.open) - 1; i >= 0; i-- {
		o := w.open[i]
		if o.end == end && (end != EventEndStyle || o.style == style) {
			for len(w.open) > i {
				w.closeInline()
			}
			return
		}
	}
}

func (w *markdownWalker) closeInline() {
	o := w.open[len(w.open)-1]
	w.open = w.open[:len(w.open)-1]
	w.emit(Event{Kind: o.end, Style: o.style})
}

func (w *markdownWalker) closeInlines() {
	for len(w.open) > 0 {
		w.closeInline()
	}
}

// rawHTML maps the few inline tags with a markup equivalent; anything else
// is dropped. A closing tag only closes the innermost element, and only when
// that element was opened by the same tag.
func (w *markdownWalker) rawHTML(n *gmast.RawHTML) {
	var b bytes.Buffer
	for i := 0; i < n.Segments.Len(); i++ {
		seg := n.Segments.At(i)
		b.Write(seg.Value(w.src))
	}
	name, closing, empty := htmlTag(b.String())
	if name == "br" {
		w.kind(EventLineBreak)
		return
	}
	style, ok := htmlStyles[name]
	if !ok || empty {
		return
	}
	if !closing {
		w.openStyle(style, true)
		return
	}
	if l := len(w.open); l > 0 {
		if top := w.open[l-1]; top.raw && top.style == style {
			w.closeInline()
		}
	}
}

// htmlTag returns the lower-cased element name of an HTML tag, whether it is
// a closing tag and whether it closes itself.
func htmlTag(tag string) (name string, closing, empty bool) {
	tag = strings.TrimSpace(tag)
	empty = strings.HasSuffix(tag, "/>")
	s := strings.TrimPrefix(tag, "<")
	if rest, ok := strings.CutPrefix(s, "/"); ok {
		s, closing = rest, true
	}
	if i := strings.IndexAny(s, " \t\r\n/>"); i >= 0 {
		s = s[:i]
	}
	return strings.ToLower(s), closing, empty
}

// plain returns the text content of n without markup.
func (w *markdownWalker) plain(n gmast.Node) string {
	var b strings.Builder
	var walk func(gmast.Node)
	walk = func(n gmast.Node) {
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			switch node := c.(type) {
			case *gmast.Text:
				b.Write(node.Segment.Value(w.src))
				if node.SoftLineBreak() {
					b.WriteByte(' ')
				}
			case *gmast.String:
				b.Write(node.Value)
			default:
				walk(c)
			}
		}
	}
	walk(n)
	return b.String()
}

type commandKind uint8

const (
	commandParam commandKind = iota
	commandSection
)

type command struct {
	kind    commandKind
	param   ParamKind
	section SectionKind
	// name is the parameter name of a param command.
	name string
	node gmast.Node
	// line is the source offset of the command line; body and end delimit
	// the text that belongs to the command (end 0 means the end of node).
	line, body, end int
}

var paramCommands = map[string]ParamKind{
	"param":     ParamParam,
	"tparam":    ParamParam,
	"retval":    ParamRetVal,
	"exception": ParamException,
	"throw":     ParamException,
	"throws":    ParamException,
}

var paramTitles = [...]string{
	ParamParam:     "Parameters",
	ParamRetVal:    "Return values",
	ParamException: "Exceptions",
}

// commands returns the command lines of a paragraph. lead reports plain
// text before the first command.
func (w *markdownWalker) commands(n gmast.Node) (cmds []command, lead bool) {
	switch n.(type) {
	case *gmast.Paragraph, *gmast.TextBlock:
	default:
		return nil, false
	}
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		cmd, ok := w.parseCommand(lines.At(i))
		if !ok {
			continue
		}
		if len(cmds) == 0 {
			lead = i > 0
		} else {
			cmds[len(cmds)-1].end = cmd.line
		}
		cmd.node = n
		cmds = append(cmds, cmd)
	}
	return cmds, lead
}

// parseCommand recognizes "@cmd" or "\cmd" at the start of a line.
func (w *markdownWalker) parseCommand(seg text.Segment) (command, bool) {
	line := seg.Value(w.src)
	pos := 0
	skipSpace := func() {
		for pos < len(line) && (line[pos] == ' ' || line[pos] == '\t') {
			pos++
		}
	}
	word := func() string {
		start := pos
		for pos < len(line) && line[pos] != ' ' && line[pos] != '\t' && line[pos] != '\n' && line[pos] != '\r' {
			pos++
		}
		return string(line[start:pos])
	}
	skipSpace()
	if pos >= len(line) || (line[pos] != '@' && line[pos] != '\\') {
		return command{}, false
	}
	pos++
	name := word()
	if i := strings.IndexByte(name, '['); i > 0 {
		// direction attribute, as in @param[in]
		name = name[:i]
	}
	name = strings.ToLower(name)
	var cmd command
	if kind, ok := paramCommands[name]; ok {
		skipSpace()
		cmd = command{kind: commandParam, param: kind, name: word()}
		if cmd.name == "" {
			return command{}, false
		}
	} else if kind, ok := SectionKindByName(name); ok {
		cmd = command{kind: commandSection, section: kind}
	} else {
		return command{}, false
	}
	skipSpace()
	cmd.line = seg.Start
	cmd.body = seg.Start + pos
	return cmd, true
}

// commandRun renders command paragraphs. Consecutive parameter commands of
// one kind share a parameter list; each section command is a simple section.
func (w *markdownWalker) commandRun(cmds []command) {
	for i := 0; i < len(cmds); {
		cmd := cmds[i]
		if cmd.kind == commandSection {
			w.emit(Event{Kind: EventStartSimpleSect, Section: cmd.section})
			if title := cmd.section.Title(); title != "" {
				w.emit(Event{Kind: EventText, Text: title})
			}
			w.kind(EventEndDescTitle)
			w.within(cmd.node, cmd.body, cmd.end)
			w.kind(EventEndSimpleSect)
			i++
			continue
		}
		w.emit(Event{Kind: EventStartParamList, Param: cmd.param})
		w.emit(Event{Kind: EventText, Text: paramTitles[cmd.param]})
		w.kind(EventEndDescTitle)
		for ; i < len(cmds) && cmds[i].kind == commandParam && cmds[i].param == cmd.param; i++ {
			item := cmds[i]
			w.kind(EventParamItem)
			w.kind(EventStartParamName)
			w.emit(Event{Kind: EventText, Text: item.name})
			w.kind(EventEndParamName)
			w.kind(EventStartParamDesc)
			w.within(item.node, item.body, item.end)
			w.kind(EventEndParamDesc)
		}
		w.emit(Event{Kind: EventEndParamList, Param: cmd.param})
	}
}

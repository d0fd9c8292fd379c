package docxml

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Text writes escaped free text, opening a paragraph if needed.
func (e *Emitter) Text(s string) {
	e.par.enter(&e.out)
	e.out.escape(s)
}

// Codify writes escaped program text. Identifiers known to the configured
// resolver become code links.
func (e *Emitter) Codify(s string) {
	e.par.enter(&e.out)
	e.out.linkify(s, e.cfg.resolver)
}

// NewParagraph ends the current paragraph; the next inline content opens a
// new one.
func (e *Emitter) NewParagraph() {
	e.par.exit(&e.out)
}

// LineBreak writes a forced line break.
func (e *Emitter) LineBreak() {
	e.inline("<linebreak/>")
}

// Ruler writes a horizontal rule.
func (e *Emitter) Ruler() {
	e.inline("<hruler/>")
}

// NonBreakingSpace writes n non-breaking spaces.
func (e *Emitter) NonBreakingSpace(n int) {
	e.par.enter(&e.out)
	for i := 0; i < n; i++ {
		e.out.writeString("&#160;")
	}
}

// Style is an inline style toggle.
type Style uint8

const (
	StyleBold Style = iota
	StyleEmphasis
	StyleTypewriter
	StyleCenter
	StyleSmall
	StyleSubscript
	StyleSuperscript
)

var styleTags = [...]string{
	StyleBold:        "bold",
	StyleEmphasis:    "emphasis",
	StyleTypewriter:  "computeroutput",
	StyleCenter:      "center",
	StyleSmall:       "small",
	StyleSubscript:   "subscript",
	StyleSuperscript: "superscript",
}

func (s Style) String() string {
	if int(s) < len(styleTags) {
		return styleTags[s]
	}
	return "unknown"
}

// ParseStyle maps a style element name to a Style.
func ParseStyle(name string) (Style, bool) {
	for i, tag := range styleTags {
		if tag == name {
			return Style(i), true
		}
	}
	switch name {
	case "typewriter", "code":
		return StyleTypewriter, true
	case "italic":
		return StyleEmphasis, true
	}
	return 0, false
}

// StartStyle opens an inline style element.
func (e *Emitter) StartStyle(s Style) {
	e.par.enter(&e.out)
	e.out.writeString("<")
	e.out.writeString(s.String())
	e.out.writeString(">")
}

// EndStyle closes an inline style element.
func (e *Emitter) EndStyle(s Style) {
	e.out.writeString("</")
	e.out.writeString(s.String())
	e.out.writeString(">")
}

// StartBold is StartStyle(StyleBold).
func (e *Emitter) StartBold() { e.StartStyle(StyleBold) }

// EndBold is EndStyle(StyleBold).
func (e *Emitter) EndBold() { e.EndStyle(StyleBold) }

// StartEmphasis is StartStyle(StyleEmphasis).
func (e *Emitter) StartEmphasis() { e.StartStyle(StyleEmphasis) }

// EndEmphasis is EndStyle(StyleEmphasis).
func (e *Emitter) EndEmphasis() { e.EndStyle(StyleEmphasis) }

// StartTypewriter is StartStyle(StyleTypewriter).
func (e *Emitter) StartTypewriter() { e.StartStyle(StyleTypewriter) }

// EndTypewriter is EndStyle(StyleTypewriter).
func (e *Emitter) EndTypewriter() { e.EndStyle(StyleTypewriter) }

// StartCodeFragment opens a program listing inside the current paragraph.
func (e *Emitter) StartCodeFragment() {
	e.inline("<programlisting>")
}

// EndCodeFragment closes a program listing.
func (e *Emitter) EndCodeFragment() {
	e.out.writeString("</programlisting>")
}

// ObjectLink writes a cross-reference to a documented entity.
func (e *Emitter) ObjectLink(ext, compound, anchor, text string) {
	e.par.enter(&e.out)
	e.out.link(ext, compound, anchor, text)
}

// CodeLink writes a cross-reference inside a code line. Code lines own their
// scope, so no paragraph is opened.
func (e *Emitter) CodeLink(ext, compound, anchor, text string) {
	e.out.link(ext, compound, anchor, text)
}

// StartHTMLLink opens a link to an external URL.
func (e *Emitter) StartHTMLLink(url string) {
	e.par.enter(&e.out)
	e.out.writeString("<ulink")
	e.out.attr("url", url)
	e.out.writeString(">")
}

// EndHTMLLink closes a link opened by StartHTMLLink or StartTextLink.
func (e *Emitter) EndHTMLLink() {
	e.out.writeString("</ulink>")
}

// StartTextLink opens a link to an anchor in another output file.
func (e *Emitter) StartTextLink(name, anchor string) {
	e.StartHTMLLink(name + "#" + anchor)
}

// MailLink writes an e-mail address.
func (e *Emitter) MailLink(addr string) {
	e.inline("<email>")
	e.out.escape(addr)
	e.out.writeString("</email>")
}

// SectionRef writes a link to a section or anchor label.
func (e *Emitter) SectionRef(file, label, text string) {
	e.par.enter(&e.out)
	e.out.writeString("<link")
	e.out.attr("linkend", file+"_"+label)
	e.out.writeString(">")
	e.out.escape(text)
	e.out.writeString("</link>")
}

// Anchor writes a link target.
func (e *Emitter) Anchor(file, name string) {
	e.par.enter(&e.out)
	e.out.writeString("<anchor")
	e.out.attr("id", file+"_"+name)
	e.out.writeString("/>")
}

// IndexItem writes an index entry.
func (e *Emitter) IndexItem(primary, secondary string) {
	e.inline("<indexentry><primaryie>")
	e.out.escape(primary)
	e.out.writeString("</primaryie><secondaryie>")
	e.out.escape(secondary)
	e.out.writeString("</secondaryie></indexentry>")
}

// Formula writes a formula with its source text.
func (e *Emitter) Formula(id, text string) {
	e.par.enter(&e.out)
	e.out.writeString("<formula")
	e.out.attr("id", id)
	e.out.writeString(">")
	e.out.escape(text)
	e.out.writeString("</formula>")
}

// StartImage opens an image; its content is the caption.
func (e *Emitter) StartImage(name, size string) {
	e.par.enter(&e.out)
	e.out.writeString("<image")
	e.out.attr("name", name)
	if size != "" {
		e.out.attr("size", size)
	}
	e.out.writeString(">")
}

// EndImage closes an image.
func (e *Emitter) EndImage() {
	e.out.writeString("</image>")
}

// StartDotFile opens a dot graph reference; its content is the caption.
func (e *Emitter) StartDotFile(name string) {
	e.par.enter(&e.out)
	e.out.writeString("<dotfile")
	e.out.attr("name", name)
	e.out.writeString(">")
}

// EndDotFile closes a dot graph reference.
func (e *Emitter) EndDotFile() {
	e.out.writeString("</dotfile>")
}

// Accent selects the diacritic written by WriteAccent.
type Accent uint8

const (
	AccentUmlaut Accent = iota
	AccentAcute
	AccentGrave
	AccentCirc
	AccentTilde
	AccentRing
	AccentCedil
)

var accentNames = [...]string{
	AccentUmlaut: "uml",
	AccentAcute:  "acute",
	AccentGrave:  "grave",
	AccentCirc:   "circ",
	AccentTilde:  "tilde",
	AccentRing:   "ring",
	AccentCedil:  "cedil",
}

var accentMarks = [...]rune{
	AccentUmlaut: '\u0308',
	AccentAcute:  '\u0301',
	AccentGrave:  '\u0300',
	AccentCirc:   '\u0302',
	AccentTilde:  '\u0303',
	AccentRing:   '\u030A',
	AccentCedil:  '\u0327',
}

func (a Accent) String() string {
	if int(a) < len(accentNames) {
		return accentNames[a]
	}
	return "unknown"
}

// ParseAccent maps an entity suffix such as "uml" or "acute" to an Accent.
func ParseAccent(name string) (Accent, bool) {
	for i, n := range accentNames {
		if n == name {
			return Accent(i), true
		}
	}
	return 0, false
}

// WriteAccent writes c carrying accent a as a single composed character
// where Unicode has one.
func (e *Emitter) WriteAccent(a Accent, c rune) {
	if int(a) >= len(accentMarks) {
		e.Text(string(c))
		return
	}
	e.Text(norm.NFC.String(string([]rune{c, accentMarks[a]})))
}

// WriteSharpS writes a German sharp s.
func (e *Emitter) WriteSharpS() { e.Text("ß") }

// WriteCopyright writes a copyright sign.
func (e *Emitter) WriteCopyright() { e.Text("©") }

// WriteQuote writes a double quote.
func (e *Emitter) WriteQuote() { e.Text(`"`) }

// VerbatimKind selects the output-format-only block of Verbatim.
type VerbatimKind uint8

const (
	VerbatimHTML VerbatimKind = iota
	VerbatimLatex
)

var verbatimTags = [...]string{
	VerbatimHTML:  "htmlonly",
	VerbatimLatex: "latexonly",
}

func (k VerbatimKind) String() string {
	if int(k) < len(verbatimTags) {
		return verbatimTags[k]
	}
	return verbatimTags[VerbatimHTML]
}

// ParseVerbatimKind accepts "html", "latex" or the element names.
func ParseVerbatimKind(s string) (VerbatimKind, bool) {
	switch s {
	case "html", "htmlonly":
		return VerbatimHTML, true
	case "latex", "latexonly":
		return VerbatimLatex, true
	}
	return 0, false
}

// Verbatim writes text meant for a single output format. The text is kept
// as escaped character data.
func (e *Emitter) Verbatim(kind VerbatimKind, text string) {
	tag := kind.String()
	e.out.writeString("<" + tag + ">\n")
	e.out.escape(strings.TrimSuffix(text, "\n"))
	e.out.writeString("\n</" + tag + ">\n")
}

// StartCodeLine opens one line of a code listing.
func (e *Emitter) StartCodeLine() {
	e.inline("<codeline>")
}

// EndCodeLine closes a code line.
func (e *Emitter) EndCodeLine() {
	e.out.writeString("</codeline>\n")
}

// LineNumber writes the line number of a code line, optionally linked to
// the definition found on that line.
func (e *Emitter) LineNumber(line int, compound, anchor string) {
	e.out.writeString("<linenumber")
	e.out.attrInt("line", line)
	if compound != "" {
		e.out.attrRef("refid", compound, anchor)
	}
	e.out.writeString("/>")
}

// StartCodeAnchor opens an anchor inside a code listing.
func (e *Emitter) StartCodeAnchor(id string) {
	e.par.enter(&e.out)
	e.out.writeString("<anchor")
	e.out.attr("id", id)
	e.out.writeString(">")
}

// EndCodeAnchor closes a code anchor.
func (e *Emitter) EndCodeAnchor() {
	e.out.writeString("</anchor>")
}

// StartHighlight opens a syntax highlighting class.
func (e *Emitter) StartHighlight(class string) {
	e.out.writeString("<highlight")
	e.out.attr("class", class)
	e.out.writeString(">")
}

// EndHighlight closes a syntax highlighting class.
func (e *Emitter) EndHighlight() {
	e.out.writeString("</highlight>")
}

func (e *Emitter) inline(markup string) {
	e.par.enter(&e.out)
	e.out.writeString(markup)
}

package docxml

// anchorSeparator joins a compound id and a member anchor in reference ids.
const anchorSeparator = "_1"

// Target identifies a cross-reference destination.
type Target struct {
	// External names the tag file of an external reference, empty for local ones.
	External string
	Compound string
	Anchor   string
}

// RefID returns the reference id of t.
func (t Target) RefID() string {
	return refID(t.Compound, t.Anchor)
}

// Resolver maps identifiers found in type strings and code to link targets.
type Resolver interface {
	Resolve(name string) (Target, bool)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(name string) (Target, bool)

// Resolve calls f.
func (f ResolverFunc) Resolve(name string) (Target, bool) {
	return f(name)
}

func refID(compound, anchor string) string {
	if anchor == "" {
		return compound
	}
	return compound + anchorSeparator + anchor
}

// attrRef writes a reference id attribute without building the id first.
func (o *output) attrRef(name, compound, anchor string) {
	o.buf = append(o.buf, ' ')
	o.buf = append(o.buf, name...)
	o.buf = append(o.buf, '=', '"')
	o.buf = appendEscaped(o.buf, compound)
	if anchor != "" {
		o.buf = append(o.buf, anchorSeparator...)
		o.buf = appendEscaped(o.buf, anchor)
	}
	o.buf = append(o.buf, '"')
}

// link writes a <ref> element around the escaped display text.
func (o *output) link(ext, compound, anchor, text string) {
	o.writeString("<ref")
	o.attrRef("refid", compound, anchor)
	if ext != "" {
		o.attr("external", ext)
	}
	o.writeString(">")
	o.escape(text)
	o.writeString("</ref>")
}

// linkify writes text, turning identifiers known to r into links.
func (o *output) linkify(text string, r Resolver) {
	if r == nil {
		o.escape(text)
		return
	}
	start := 0
	for i := 0; i < len(text); {
		if !isIdentStart(text[i]) {
			i++
			continue
		}
		j := identEnd(text, i)
		if t, ok := r.Resolve(text[i:j]); ok {
			o.escape(text[start:i])
			o.link(t.External, t.Compound, t.Anchor, text[i:j])
			start = j
		}
		i = j
	}
	o.escape(text[start:])
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentByte(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

// identEnd returns the end of the (possibly ::-qualified) identifier at i.
func identEnd(s string, i int) int {
	for i < len(s) {
		switch {
		case isIdentByte(s[i]):
			i++
		case s[i] == ':' && i+2 < len(s) && s[i+1] == ':' && isIdentStart(s[i+2]):
			i += 2
		default:
			return i
		}
	}
	return i
}

package docxml

// ScopeKind tags a paragraph scope with the construct that opened it.
type ScopeKind uint8

const (
	ScopeTop ScopeKind = iota
	ScopeItem
	ScopeValue
	ScopeCell
	ScopeTitle
	ScopeSection
	ScopeParamDesc
	ScopeSimpleSect
	ScopeCode
)

var scopeNames = [...]string{
	ScopeTop:        "top",
	ScopeItem:       "item",
	ScopeValue:      "value",
	ScopeCell:       "cell",
	ScopeTitle:      "title",
	ScopeSection:    "section",
	ScopeParamDesc:  "paramdesc",
	ScopeSimpleSect: "simplesect",
	ScopeCode:       "code",
}

func (k ScopeKind) String() string {
	if int(k) < len(scopeNames) {
		return scopeNames[k]
	}
	return "unknown"
}

const (
	paraOpen  = "<para>\n"
	paraClose = "</para>\n"
)

type scope struct {
	kind ScopeKind
	open bool
	// suppressed scopes never carry a paragraph.
	suppressed bool
	// level is the section depth for ScopeSection, or the owner of a
	// ScopeTitle (see titleFor*).
	level uint8
}

// paragraphs tracks whether an implicit paragraph is open per scope.
type paragraphs struct {
	scopes []scope
}

func (p *paragraphs) reset() {
	p.scopes = p.scopes[:0]
}

func (p *paragraphs) top() *scope {
	if len(p.scopes) == 0 {
		return nil
	}
	return &p.scopes[len(p.scopes)-1]
}

// enter opens a paragraph at the innermost scope unless one is open.
// Without any scope a top-level scope is created.
func (p *paragraphs) enter(out *output) {
	top := p.top()
	switch {
	case top == nil:
		p.scopes = append(p.scopes, scope{kind: ScopeTop, open: true})
	case top.open || top.suppressed:
		return
	default:
		top.open = true
	}
	out.writeString(paraOpen)
}

// exit closes the paragraph of the innermost scope if one is open.
func (p *paragraphs) exit(out *output) {
	top := p.top()
	if top == nil || !top.open {
		return
	}
	top.open = false
	out.writeString(paraClose)
}

// push starts a scope. open records a paragraph marker the caller already
// wrote.
func (p *paragraphs) push(kind ScopeKind, open bool) {
	p.scopes = append(p.scopes, scope{kind: kind, open: open})
}

func (p *paragraphs) pushLevel(kind ScopeKind, level uint8) {
	p.scopes = append(p.scopes, scope{kind: kind, level: level})
}

// pushSuppressed starts a scope in which inline content gets no paragraph.
func (p *paragraphs) pushSuppressed(kind ScopeKind, level uint8) {
	p.scopes = append(p.scopes, scope{kind: kind, suppressed: true, level: level})
}

func (p *paragraphs) pop() (scope, bool) {
	n := len(p.scopes)
	if n == 0 {
		return scope{}, false
	}
	s := p.scopes[n-1]
	p.scopes = p.scopes[:n-1]
	return s, true
}

func (p *paragraphs) clone() paragraphs {
	return paragraphs{scopes: append([]scope(nil), p.scopes...)}
}

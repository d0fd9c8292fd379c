package docxml

import "strings"

// writeListing appends the source listing of a file compound. Code lines
// carry no paragraphs.
func (e *Emitter) writeListing(lines []CodeLine) error {
	if len(lines) == 0 {
		return nil
	}
	e.out.writeString("    <programlisting>\n")
	child := e.Clone()
	child.StartCodeBlock()
	for _, l := range lines {
		child.WriteCodeLine(l)
	}
	err := child.EndBlock()
	e.Append(child)
	e.out.writeString("    </programlisting>\n")
	return err
}

// WriteCodeLine writes one listing line: its number, linked to the
// definition on the line when l.Ref is set, and its text with known
// identifiers linked.
func (e *Emitter) WriteCodeLine(l CodeLine) {
	e.StartCodeLine()
	compound, anchor := splitRef(l.Ref)
	e.LineNumber(l.Line, compound, anchor)
	e.StartHighlight("normal")
	e.Codify(strings.TrimRight(l.Text, "\r\n"))
	e.EndHighlight()
	e.EndCodeLine()
}

// splitRef splits "compound#anchor".
func splitRef(ref string) (compound, anchor string) {
	compound, anchor, _ = strings.Cut(ref, "#")
	return compound, anchor
}

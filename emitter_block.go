package docxml

// Title scope owners, kept in scope.level of a ScopeTitle.
const (
	titlePlain uint8 = iota
	titleParamList
	titleSimpleSect
	titleTerm
	titleParamName
)

// StartList opens an itemized or ordered list.
func (e *Emitter) StartList(kind ListKind) {
	if kind != ListItemized && kind != ListOrdered {
		e.violation("StartList", "%s is not an item list", kind)
		return
	}
	e.par.exit(&e.out)
	e.out.writeString(listOpenTag(kind))
	e.list.open(kind, ParamParam)
}

// Item starts the next list item, closing the previous one first.
func (e *Emitter) Item() {
	top := e.list.top()
	if top == nil || (top.kind != ListItemized && top.kind != ListOrdered) {
		e.violation("Item", "no open item list")
		return
	}
	closePrev, _ := e.list.next()
	if closePrev {
		e.closeScope("Item", ScopeItem)
		e.out.writeString("</listitem>\n")
	}
	e.out.writeString("<listitem>")
	e.par.push(ScopeItem, false)
}

// EndList closes an itemized or ordered list and its last item.
func (e *Emitter) EndList(kind ListKind) {
	_, hadItems, ok := e.closeList("EndList", kind)
	if !ok {
		return
	}
	if hadItems {
		e.closeScope("EndList", ScopeItem)
		e.out.writeString("</listitem>\n")
	}
	e.out.writeString(listCloseTag(kind))
}

func listOpenTag(kind ListKind) string {
	if kind == ListOrdered {
		return "<orderedlist>\n"
	}
	return "<itemizedlist>\n"
}

func listCloseTag(kind ListKind) string {
	if kind == ListOrdered {
		return "</orderedlist>\n"
	}
	return "</itemizedlist>\n"
}

// StartDescription opens a description (term/value) list.
func (e *Emitter) StartDescription() {
	e.par.exit(&e.out)
	e.out.writeString("<variablelist>")
	e.list.open(ListDescription, ParamParam)
}

// Term starts the term of the next entry, closing the previous value first.
// Terms never carry paragraphs.
func (e *Emitter) Term() {
	closePrev, ok := e.nextItem("Term", ListDescription)
	if !ok {
		return
	}
	if closePrev {
		e.closeDescEntry("Term")
	}
	e.out.writeString("<varlistentry><term>")
	e.par.pushSuppressed(ScopeTitle, titleTerm)
}

// Value ends the current term and starts its description.
func (e *Emitter) Value() {
	if top := e.par.top(); top == nil || top.kind != ScopeTitle || top.level != titleTerm {
		e.violation("Value", "no open term")
		return
	}
	e.popScope("Value", ScopeTitle)
	e.out.writeString("</term></varlistentry><listitem>")
	e.par.push(ScopeValue, false)
}

// EndDescription closes a description list and its last value.
func (e *Emitter) EndDescription() {
	_, hadItems, ok := e.closeList("EndDescription", ListDescription)
	if !ok {
		return
	}
	if hadItems {
		e.closeDescEntry("EndDescription")
	}
	e.out.writeString("</variablelist>")
}

// closeDescEntry closes the value of the current entry, or its term when no
// value followed.
func (e *Emitter) closeDescEntry(op string) {
	if top := e.par.top(); top != nil && top.kind == ScopeTitle && top.level == titleTerm {
		e.popScope(op, ScopeTitle)
		e.out.writeString("</term></varlistentry><listitem>")
	} else {
		e.closeScope(op, ScopeValue)
	}
	e.out.writeString("</listitem>")
}

// StartParamList opens a parameter list of the given kind and its title.
// The title ends with EndDescTitle.
func (e *Emitter) StartParamList(kind ParamKind) {
	e.par.exit(&e.out)
	e.out.writeString("<parameterlist")
	e.out.attr("kind", kind.String())
	e.out.writeString("><title>")
	e.list.open(ListParam, kind)
	e.par.pushSuppressed(ScopeTitle, titleParamList)
}

// StartSimpleSect opens a simple section (see also, returns, note, ...) and
// its title. The title ends with EndDescTitle.
func (e *Emitter) StartSimpleSect(kind SectionKind) {
	e.par.exit(&e.out)
	e.out.writeString("<simplesect")
	e.out.attr("kind", kind.String())
	e.out.writeString("><title>")
	e.par.pushSuppressed(ScopeTitle, titleSimpleSect)
}

// EndDescTitle ends the title of a parameter list or simple section. A simple
// section continues with its body.
func (e *Emitter) EndDescTitle() {
	s, ok := e.popScope("EndDescTitle", ScopeTitle)
	if !ok {
		return
	}
	e.out.writeString("</title>")
	if s.level == titleSimpleSect {
		e.par.push(ScopeSimpleSect, false)
	}
}

// EndSimpleSect closes a simple section.
func (e *Emitter) EndSimpleSect() {
	e.closeScope("EndSimpleSect", ScopeSimpleSect)
	e.out.writeString("</simplesect>")
}

// ParamItem starts the next parameter entry, closing the previous one first.
func (e *Emitter) ParamItem() {
	closePrev, ok := e.nextItem("ParamItem", ListParam)
	if !ok {
		return
	}
	if closePrev {
		e.out.writeString("</parameteritem>")
	}
	e.out.writeString("<parameteritem>")
}

// StartParamName opens a parameter name. Names never carry paragraphs.
func (e *Emitter) StartParamName() {
	e.out.writeString("<parametername>")
	e.par.pushSuppressed(ScopeTitle, titleParamName)
}

// EndParamName closes a parameter name.
func (e *Emitter) EndParamName() {
	e.popScope("EndParamName", ScopeTitle)
	e.out.writeString("</parametername>")
}

// StartParamDesc opens a parameter description, which has its own
// paragraph scope.
func (e *Emitter) StartParamDesc() {
	e.out.writeString("<parameterdescription>")
	e.par.push(ScopeParamDesc, false)
}

// EndParamDesc closes a parameter description.
func (e *Emitter) EndParamDesc() {
	e.closeScope("EndParamDesc", ScopeParamDesc)
	e.out.writeString("</parameterdescription>")
}

// EndParamList closes a parameter list opened with the same kind.
func (e *Emitter) EndParamList(kind ParamKind) {
	l, hadItems, ok := e.closeList("EndParamList", ListParam)
	if !ok {
		return
	}
	if l.param != kind {
		e.violation("EndParamList", "closing %s list opened as %s", kind, l.param)
	}
	if hadItems {
		e.out.writeString("</parameteritem>")
	}
	e.out.writeString("</parameterlist>")
}

// StartTable opens a table with cols columns.
func (e *Emitter) StartTable(cols int) {
	e.par.exit(&e.out)
	e.out.writeString("<table")
	e.out.attrInt("cols", cols)
	e.out.writeString(">\n")
	e.list.open(ListTable, ParamParam)
}

// Row starts a row and its first cell. Cell content arrives already
// paragraph-parsed, so the cell paragraph is opened eagerly.
func (e *Emitter) Row() {
	top := e.list.top()
	if top == nil || top.kind != ListTable {
		e.violation("Row", "no open table")
		return
	}
	if !top.first {
		e.out.writeString("</row>\n")
	}
	top.first = false
	e.out.writeString("<row>")
	e.startCell()
}

// Cell starts the next cell of the current row.
func (e *Emitter) Cell() {
	top := e.list.top()
	if top == nil || top.kind != ListTable || top.first {
		e.violation("Cell", "no open table row")
		return
	}
	e.startCell()
}

func (e *Emitter) startCell() {
	e.out.writeString("<entry>")
	e.out.writeString("<para>")
	e.par.push(ScopeCell, true)
}

// EndCell closes the current cell and its paragraph.
func (e *Emitter) EndCell() {
	top := e.par.top()
	if top == nil || top.kind != ScopeCell {
		e.violation("EndCell", "no open cell")
		return
	}
	if !top.open {
		// a paragraph break at the end of the cell
		e.out.writeString("<para>")
	}
	top.open = false
	e.out.writeString("</para>")
	e.par.pop()
	e.out.writeString("</entry>")
}

// EndRow closes the current row.
func (e *Emitter) EndRow() {
	top := e.list.top()
	if top == nil || top.kind != ListTable || top.first {
		e.violation("EndRow", "no open table row")
		return
	}
	top.first = true
	e.out.writeString("</row>\n")
}

// EndTable closes a table, including a row left open.
func (e *Emitter) EndTable() {
	l, _, ok := e.closeList("EndTable", ListTable)
	if !ok {
		return
	}
	if !l.first {
		e.out.writeString("</row>\n")
	}
	e.out.writeString("</table>\n")
}

// StartSection opens a section; subsections use the second level.
func (e *Emitter) StartSection(id string, subsection bool) {
	level := 1
	if subsection {
		level = 2
	}
	e.StartSectionLevel(id, level)
}

// StartSectionLevel opens a section at level 1 to 3. An empty id omits the
// id attribute.
func (e *Emitter) StartSectionLevel(id string, level int) {
	if level < 1 {
		level = 1
	}
	if level > 3 {
		level = 3
	}
	e.par.exit(&e.out)
	e.out.writeString("<sect")
	e.out.writeInt(level)
	if id != "" {
		e.out.attr("id", id)
	}
	e.out.writeString(">")
	e.par.pushLevel(ScopeSection, uint8(level))
}

// EndSection closes the innermost section.
func (e *Emitter) EndSection() {
	s, ok := e.closeScope("EndSection", ScopeSection)
	if !ok {
		return
	}
	e.out.writeString("</sect")
	e.out.writeInt(int(s.level))
	e.out.writeString(">")
}

// StartTitle opens a title. Titles never carry paragraphs.
func (e *Emitter) StartTitle() {
	e.par.exit(&e.out)
	e.out.writeString("<title>")
	e.par.pushSuppressed(ScopeTitle, titlePlain)
}

// EndTitle closes a title.
func (e *Emitter) EndTitle() {
	e.popScope("EndTitle", ScopeTitle)
	e.out.writeString("</title>\n")
}

// StartCodeBlock prepares the emitter for a code listing: code lines are
// never wrapped in paragraphs. EndBlock ends the listing.
func (e *Emitter) StartCodeBlock() {
	e.par.pushSuppressed(ScopeCode, 0)
}

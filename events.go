package docxml

import "unicode/utf8"

// EventKind identifies a markup event.
type EventKind uint8

const (
	EventText EventKind = iota
	EventCodify
	EventNewParagraph
	EventLineBreak
	EventRuler
	EventNonBreakingSpace
	EventStartStyle
	EventEndStyle
	EventStartCodeFragment
	EventEndCodeFragment
	EventObjectLink
	EventCodeLink
	EventStartHTMLLink
	EventEndHTMLLink
	EventStartTextLink
	EventMailLink
	EventSectionRef
	EventAnchor
	EventIndexItem
	EventFormula
	EventStartImage
	EventEndImage
	EventStartDotFile
	EventEndDotFile
	EventAccent
	EventVerbatim
	EventStartList
	EventItem
	EventEndList
	EventStartDescription
	EventTerm
	EventValue
	EventEndDescription
	EventStartParamList
	EventEndDescTitle
	EventParamItem
	EventStartParamName
	EventEndParamName
	EventStartParamDesc
	EventEndParamDesc
	EventEndParamList
	EventStartSimpleSect
	EventEndSimpleSect
	EventStartTable
	EventRow
	EventCell
	EventEndCell
	EventEndRow
	EventEndTable
	EventStartSection
	EventEndSection
	EventStartTitle
	EventEndTitle
	EventStartCodeLine
	EventEndCodeLine
	EventLineNumber
	EventStartCodeAnchor
	EventEndCodeAnchor
	EventStartHighlight
	EventEndHighlight
)

// Event is one markup event. Which fields are meaningful depends on Kind:
//
//	Text, Codify, MailLink, Verbatim   Text
//	ObjectLink, CodeLink               Ext, ID (compound), Anchor, Text
//	StartHTMLLink                      ID (url)
//	StartTextLink, Anchor              ID (file), Anchor
//	SectionRef                         ID (file), Anchor (label), Text
//	IndexItem                          Text (primary), ID (secondary)
//	Formula                            ID, Text
//	StartImage                         ID (name), Text (size)
//	StartDotFile, StartCodeAnchor      ID
//	StartHighlight                     ID (class)
//	Accent                             Accent, Text (base character)
//	NonBreakingSpace                   N (count)
//	StartTable                         N (columns)
//	StartSection                       ID, N (level)
//	LineNumber                         N (line), ID (compound), Anchor
//
// Events never nest other events.
type Event struct {
	Kind     EventKind
	Text     string
	ID       string
	Anchor   string
	Ext      string
	N        int
	List     ListKind
	Param    ParamKind
	Section  SectionKind
	Style    Style
	Accent   Accent
	Verbatim VerbatimKind
}

type eventField uint16

const (
	fieldText eventField = 1 << iota
	fieldID
	fieldAnchor
	fieldExt
	fieldN
	fieldList
	fieldParam
	fieldSection
	fieldStyle
	fieldAccent
	fieldVerbatim
)

type eventInfo struct {
	name   string
	fields eventField
}

var eventKinds = [...]eventInfo{
	EventText:              {"text", fieldText},
	EventCodify:            {"codify", fieldText},
	EventNewParagraph:      {"new_paragraph", 0},
	EventLineBreak:         {"line_break", 0},
	EventRuler:             {"ruler", 0},
	EventNonBreakingSpace:  {"nbsp", fieldN},
	EventStartStyle:        {"start_style", fieldStyle},
	EventEndStyle:          {"end_style", fieldStyle},
	EventStartCodeFragment: {"start_code_fragment", 0},
	EventEndCodeFragment:   {"end_code_fragment", 0},
	EventObjectLink:        {"object_link", fieldExt | fieldID | fieldAnchor | fieldText},
	EventCodeLink:          {"code_link", fieldExt | fieldID | fieldAnchor | fieldText},
	EventStartHTMLLink:     {"start_html_link", fieldID},
	EventEndHTMLLink:       {"end_html_link", 0},
	EventStartTextLink:     {"start_text_link", fieldID | fieldAnchor},
	EventMailLink:          {"mail_link", fieldText},
	EventSectionRef:        {"section_ref", fieldID | fieldAnchor | fieldText},
	EventAnchor:            {"anchor", fieldID | fieldAnchor},
	EventIndexItem:         {"index_item", fieldText | fieldID},
	EventFormula:           {"formula", fieldID | fieldText},
	EventStartImage:        {"start_image", fieldID | fieldText},
	EventEndImage:          {"end_image", 0},
	EventStartDotFile:      {"start_dot_file", fieldID},
	EventEndDotFile:        {"end_dot_file", 0},
	EventAccent:            {"accent", fieldAccent | fieldText},
	EventVerbatim:          {"verbatim", fieldVerbatim | fieldText},
	EventStartList:         {"start_list", fieldList},
	EventItem:              {"item", 0},
	EventEndList:           {"end_list", fieldList},
	EventStartDescription:  {"start_description", 0},
	EventTerm:              {"term", 0},
	EventValue:             {"value", 0},
	EventEndDescription:    {"end_description", 0},
	EventStartParamList:    {"start_param_list", fieldParam},
	EventEndDescTitle:      {"end_desc_title", 0},
	EventParamItem:         {"param_item", 0},
	EventStartParamName:    {"start_param_name", 0},
	EventEndParamName:      {"end_param_name", 0},
	EventStartParamDesc:    {"start_param_desc", 0},
	EventEndParamDesc:      {"end_param_desc", 0},
	EventEndParamList:      {"end_param_list", fieldParam},
	EventStartSimpleSect:   {"start_simple_sect", fieldSection},
	EventEndSimpleSect:     {"end_simple_sect", 0},
	EventStartTable:        {"start_table", fieldN},
	EventRow:               {"row", 0},
	EventCell:              {"cell", 0},
	EventEndCell:           {"end_cell", 0},
	EventEndRow:            {"end_row", 0},
	EventEndTable:          {"end_table", 0},
	EventStartSection:      {"start_section", fieldID | fieldN},
	EventEndSection:        {"end_section", 0},
	EventStartTitle:        {"start_title", 0},
	EventEndTitle:          {"end_title", 0},
	EventStartCodeLine:     {"start_code_line", 0},
	EventEndCodeLine:       {"end_code_line", 0},
	EventLineNumber:        {"line_number", fieldN | fieldID | fieldAnchor},
	EventStartCodeAnchor:   {"start_code_anchor", fieldID},
	EventEndCodeAnchor:     {"end_code_anchor", 0},
	EventStartHighlight:    {"start_highlight", fieldID},
	EventEndHighlight:      {"end_highlight", 0},
}

func (k EventKind) String() string {
	if int(k) < len(eventKinds) {
		return eventKinds[k].name
	}
	return "unknown"
}

// EventKindByName returns the event kind with the given script name.
func EventKindByName(name string) (EventKind, bool) {
	for i, info := range eventKinds {
		if info.name == name {
			return EventKind(i), true
		}
	}
	return 0, false
}

// Emit applies ev to the emitter. Unknown kinds are contract violations.
func (e *Emitter) Emit(ev Event) {
	switch ev.Kind {
	case EventText:
		e.Text(ev.Text)
	case EventCodify:
		e.Codify(ev.Text)
	case EventNewParagraph:
		e.NewParagraph()
	case EventLineBreak:
		e.LineBreak()
	case EventRuler:
		e.Ruler()
	case EventNonBreakingSpace:
		e.NonBreakingSpace(ev.N)
	case EventStartStyle:
		e.StartStyle(ev.Style)
	case EventEndStyle:
		e.EndStyle(ev.Style)
	case EventStartCodeFragment:
		e.StartCodeFragment()
	case EventEndCodeFragment:
		e.EndCodeFragment()
	case EventObjectLink:
		e.ObjectLink(ev.Ext, ev.ID, ev.Anchor, ev.Text)
	case EventCodeLink:
		e.CodeLink(ev.Ext, ev.ID, ev.Anchor, ev.Text)
	case EventStartHTMLLink:
		e.StartHTMLLink(ev.ID)
	case EventEndHTMLLink:
		e.EndHTMLLink()
	case EventStartTextLink:
		e.StartTextLink(ev.ID, ev.Anchor)
	case EventMailLink:
		e.MailLink(ev.Text)
	case EventSectionRef:
		e.SectionRef(ev.ID, ev.Anchor, ev.Text)
	case EventAnchor:
		e.Anchor(ev.ID, ev.Anchor)
	case EventIndexItem:
		e.IndexItem(ev.Text, ev.ID)
	case EventFormula:
		e.Formula(ev.ID, ev.Text)
	case EventStartImage:
		e.StartImage(ev.ID, ev.Text)
	case EventEndImage:
		e.EndImage()
	case EventStartDotFile:
		e.StartDotFile(ev.ID)
	case EventEndDotFile:
		e.EndDotFile()
	case EventAccent:
		if r, _ := utf8.DecodeRuneInString(ev.Text); r != utf8.RuneError {
			e.WriteAccent(ev.Accent, r)
		}
	case EventVerbatim:
		e.Verbatim(ev.Verbatim, ev.Text)
	case EventStartList:
		e.StartList(ev.List)
	case EventItem:
		e.Item()
	case EventEndList:
		e.EndList(ev.List)
	case EventStartDescription:
		e.StartDescription()
	case EventTerm:
		e.Term()
	case EventValue:
		e.Value()
	case EventEndDescription:
		e.EndDescription()
	case EventStartParamList:
		e.StartParamList(ev.Param)
	case EventEndDescTitle:
		e.EndDescTitle()
	case EventParamItem:
		e.ParamItem()
	case EventStartParamName:
		e.StartParamName()
	case EventEndParamName:
		e.EndParamName()
	case EventStartParamDesc:
		e.StartParamDesc()
	case EventEndParamDesc:
		e.EndParamDesc()
	case EventEndParamList:
		e.EndParamList(ev.Param)
	case EventStartSimpleSect:
		e.StartSimpleSect(ev.Section)
	case EventEndSimpleSect:
		e.EndSimpleSect()
	case EventStartTable:
		e.StartTable(ev.N)
	case EventRow:
		e.Row()
	case EventCell:
		e.Cell()
	case EventEndCell:
		e.EndCell()
	case EventEndRow:
		e.EndRow()
	case EventEndTable:
		e.EndTable()
	case EventStartSection:
		e.StartSectionLevel(ev.ID, ev.N)
	case EventEndSection:
		e.EndSection()
	case EventStartTitle:
		e.StartTitle()
	case EventEndTitle:
		e.EndTitle()
	case EventStartCodeLine:
		e.StartCodeLine()
	case EventEndCodeLine:
		e.EndCodeLine()
	case EventLineNumber:
		e.LineNumber(ev.N, ev.ID, ev.Anchor)
	case EventStartCodeAnchor:
		e.StartCodeAnchor(ev.ID)
	case EventEndCodeAnchor:
		e.EndCodeAnchor()
	case EventStartHighlight:
		e.StartHighlight(ev.ID)
	case EventEndHighlight:
		e.EndHighlight()
	default:
		e.violation("Emit", "unknown event kind %d", ev.Kind)
	}
}

// Recorder is a Sink that keeps the events it receives.
type Recorder struct {
	Events []Event
}

// Emit records ev.
func (r *Recorder) Emit(ev Event) {
	r.Events = append(r.Events, ev)
}

// Reset drops all recorded events.
func (r *Recorder) Reset() {
	r.Events = r.Events[:0]
}

// Replay sends the recorded events to s in order.
func (r *Recorder) Replay(s Sink) {
	for _, ev := range r.Events {
		s.Emit(ev)
	}
}

// Tee is a Sink that forwards every event to each of its sinks.
type Tee []Sink

// Emit forwards ev.
func (t Tee) Emit(ev Event) {
	for _, s := range t {
		s.Emit(ev)
	}
}

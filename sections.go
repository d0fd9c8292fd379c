package docxml

import (
	"sort"
	"strings"
)

// SectionKind is the kind of a simple section such as "see" or "note".
type SectionKind uint8

const (
	SectSee SectionKind = iota
	SectReturn
	SectAuthor
	SectVersion
	SectSince
	SectDate
	SectBug
	SectNote
	SectWarning
	SectPar
	SectDeprecated
	SectPre
	SectPost
	SectInvariant
	SectRemark
	SectAttention
	SectTodo
	SectTest
	SectRCS
	SectEnumValues
	SectExamples
)

type sectionInfo struct {
	name  string
	title string
}

var sectionKinds = [...]sectionInfo{
	SectSee:        {"see", "See also"},
	SectReturn:     {"return", "Returns"},
	SectAuthor:     {"author", "Author"},
	SectVersion:    {"version", "Version"},
	SectSince:      {"since", "Since"},
	SectDate:       {"date", "Date"},
	SectBug:        {"bug", "Bug"},
	SectNote:       {"note", "Note"},
	SectWarning:    {"warning", "Warning"},
	SectPar:        {"par", ""},
	SectDeprecated: {"deprecated", "Deprecated"},
	SectPre:        {"pre", "Precondition"},
	SectPost:       {"post", "Postcondition"},
	SectInvariant:  {"invariant", "Invariant"},
	SectRemark:     {"remark", "Remarks"},
	SectAttention:  {"attention", "Attention"},
	SectTodo:       {"todo", "Todo"},
	SectTest:       {"test", "Test"},
	SectRCS:        {"rcs", ""},
	SectEnumValues: {"enumvalues", "Enumeration values"},
	SectExamples:   {"examples", "Examples"},
}

// command aliases accepted by SectionKindByName in addition to the names.
var sectionAliases = map[string]SectionKind{
	"sa":            SectSee,
	"returns":       SectReturn,
	"result":        SectReturn,
	"authors":       SectAuthor,
	"remarks":       SectRemark,
	"precondition":  SectPre,
	"postcondition": SectPost,
}

func (k SectionKind) String() string {
	if int(k) < len(sectionKinds) {
		return sectionKinds[k].name
	}
	return "illegal"
}

// Title returns the default heading of a simple section of kind k.
func (k SectionKind) Title() string {
	if int(k) < len(sectionKinds) {
		return sectionKinds[k].title
	}
	return ""
}

// AvailableSectionKinds returns the names of all simple section kinds.
func AvailableSectionKinds() []string {
	names := make([]string, 0, len(sectionKinds))
	for _, info := range sectionKinds {
		names = append(names, info.name)
	}
	sort.Strings(names)
	return names
}

// SectionKindByName returns the simple section kind for a name or command alias.
func SectionKindByName(name string) (SectionKind, bool) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for i, info := range sectionKinds {
		if info.name == normalized {
			return SectionKind(i), true
		}
	}
	kind, ok := sectionAliases[normalized]
	return kind, ok
}

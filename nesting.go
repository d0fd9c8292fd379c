package docxml

// ListKind tags a list-like construct on the nesting stack.
type ListKind uint8

const (
	ListItemized ListKind = iota
	ListOrdered
	ListDescription
	ListParam
	ListTable
)

var listNames = [...]string{
	ListItemized:    "itemized",
	ListOrdered:     "ordered",
	ListDescription: "description",
	ListParam:       "param",
	ListTable:       "table",
}

func (k ListKind) String() string {
	if int(k) < len(listNames) {
		return listNames[k]
	}
	return "unknown"
}

// ParseListKind maps a list kind name such as "itemized" to a ListKind.
func ParseListKind(s string) (ListKind, bool) {
	for i, name := range listNames {
		if name == s {
			return ListKind(i), true
		}
	}
	return 0, false
}

// ParamKind is the kind tag of a parameter list.
type ParamKind uint8

const (
	ParamParam ParamKind = iota
	ParamRetVal
	ParamException
)

var paramNames = [...]string{
	ParamParam:     "param",
	ParamRetVal:    "retval",
	ParamException: "exception",
}

func (k ParamKind) String() string {
	if int(k) < len(paramNames) {
		return paramNames[k]
	}
	return "param"
}

// ParseParamKind maps "param", "retval" or "exception" to a ParamKind.
func ParseParamKind(s string) (ParamKind, bool) {
	for i, name := range paramNames {
		if name == s {
			return ParamKind(i), true
		}
	}
	return ParamParam, false
}

type level struct {
	kind  ListKind
	param ParamKind
	// first is true until the first item (or, for tables, while no row is open).
	first bool
}

// nesting tracks first-item state for every open list-like construct.
type nesting struct {
	levels []level
}

func (n *nesting) reset() {
	n.levels = n.levels[:0]
}

func (n *nesting) open(kind ListKind, param ParamKind) {
	n.levels = append(n.levels, level{kind: kind, param: param, first: true})
}

func (n *nesting) top() *level {
	if len(n.levels) == 0 {
		return nil
	}
	return &n.levels[len(n.levels)-1]
}

// next advances to the next item and reports whether a previous item has to
// be closed first.
func (n *nesting) next() (closePrev bool, ok bool) {
	top := n.top()
	if top == nil {
		return false, false
	}
	if top.first {
		top.first = false
		return false, true
	}
	return true, true
}

// close pops the innermost construct; hadItems is false for an empty one.
func (n *nesting) close() (l level, hadItems bool, ok bool) {
	top := n.top()
	if top == nil {
		return level{}, false, false
	}
	l = *top
	n.levels = n.levels[:len(n.levels)-1]
	return l, !l.first, true
}

func (n *nesting) clone() nesting {
	return nesting{levels: append([]level(nil), n.levels...)}
}

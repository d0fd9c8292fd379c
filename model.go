package docxml

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidModel reports a documentation model that cannot be rendered.
var ErrInvalidModel = errors.New("invalid documentation model")

// Model is an in-memory documentation model.
type Model struct {
	Project   string      `yaml:"project,omitempty"`
	Compounds []*Compound `yaml:"compounds"`
}

// Compound is a documented entity: a class, namespace, file, group or page.
type Compound struct {
	ID       string `yaml:"id"`
	Kind     string `yaml:"kind"`
	Name     string `yaml:"name"`
	Title    string `yaml:"title,omitempty"`
	Prot     string `yaml:"prot,omitempty"`
	Language string `yaml:"language,omitempty"`
	// External names the tag file of a compound documented elsewhere.
	// External compounds are link targets only and get no record.
	External string `yaml:"external,omitempty"`

	Bases      []Ref     `yaml:"bases,omitempty"`
	Derived    []Ref     `yaml:"derived,omitempty"`
	Includes   []Include `yaml:"includes,omitempty"`
	IncludedBy []Include `yaml:"includedby,omitempty"`
	Inner      []Ref     `yaml:"inner,omitempty"`

	Sections []*MemberSection `yaml:"sections,omitempty"`

	Brief    string `yaml:"brief,omitempty"`
	Detailed string `yaml:"detailed,omitempty"`

	Listing  []CodeLine `yaml:"listing,omitempty"`
	Location *Location  `yaml:"location,omitempty"`
}

// MemberSection groups the members of a compound, as in "public-func".
type MemberSection struct {
	Kind        string    `yaml:"kind"`
	Header      string    `yaml:"header,omitempty"`
	Description string    `yaml:"description,omitempty"`
	Members     []*Member `yaml:"members"`
}

// Member is a documented member of a compound.
type Member struct {
	ID       string `yaml:"id"`
	Kind     string `yaml:"kind"`
	Name     string `yaml:"name"`
	Type     string `yaml:"type,omitempty"`
	Args     string `yaml:"args,omitempty"`
	Prot     string `yaml:"prot,omitempty"`
	Virt     string `yaml:"virt,omitempty"`
	Static   bool   `yaml:"static,omitempty"`
	Const    bool   `yaml:"const,omitempty"`
	Volatile bool   `yaml:"volatile,omitempty"`

	Params      []Param `yaml:"params,omitempty"`
	Initializer string  `yaml:"initializer,omitempty"`
	Exceptions  string  `yaml:"exceptions,omitempty"`

	Reimplements    []Ref `yaml:"reimplements,omitempty"`
	ReimplementedBy []Ref `yaml:"reimplementedby,omitempty"`
	References      []Ref `yaml:"references,omitempty"`
	ReferencedBy    []Ref `yaml:"referencedby,omitempty"`

	EnumValues []*Member `yaml:"enumvalues,omitempty"`

	Brief    string    `yaml:"brief,omitempty"`
	Detailed string    `yaml:"detailed,omitempty"`
	Location *Location `yaml:"location,omitempty"`
}

// Param is a function or template parameter.
type Param struct {
	Attributes string `yaml:"attributes,omitempty"`
	Type       string `yaml:"type,omitempty"`
	DeclName   string `yaml:"declname,omitempty"`
	DefName    string `yaml:"defname,omitempty"`
	Array      string `yaml:"array,omitempty"`
	DefVal     string `yaml:"defval,omitempty"`
}

// Ref is a named reference to a compound or member. Kind selects the
// element of an inner compound reference (class, namespace, file, group,
// page or dir).
type Ref struct {
	Kind string `yaml:"kind,omitempty"`
	Ref  string `yaml:"ref,omitempty"`
	Name string `yaml:"name"`
	Prot string `yaml:"prot,omitempty"`
	Virt string `yaml:"virt,omitempty"`
}

// Include is an #include relation of a file.
type Include struct {
	Ref   string `yaml:"ref,omitempty"`
	Name  string `yaml:"name"`
	Local bool   `yaml:"local,omitempty"`
}

// Location is the source position of a declaration.
type Location struct {
	File      string `yaml:"file"`
	Line      int    `yaml:"line,omitempty"`
	BodyFile  string `yaml:"bodyfile,omitempty"`
	BodyStart int    `yaml:"bodystart,omitempty"`
	BodyEnd   int    `yaml:"bodyend,omitempty"`
}

// CodeLine is one line of a source listing. Ref links the line number to
// the definition found on the line.
type CodeLine struct {
	Line int    `yaml:"line"`
	Text string `yaml:"text"`
	Ref  string `yaml:"ref,omitempty"`
}

// compoundGroups orders compounds in the output.
var compoundGroups = map[string]int{
	"class":     0,
	"struct":    0,
	"union":     0,
	"interface": 0,
	"protocol":  0,
	"category":  0,
	"exception": 0,
	"namespace": 1,
	"file":      2,
	"group":     3,
	"page":      4,
}

// LoadModel decodes a YAML documentation model and checks it.
func LoadModel(r io.Reader) (*Model, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("model: read: %w", err)
	}
	return ParseModel(src)
}

// ParseModel decodes a YAML documentation model and checks it.
func ParseModel(src []byte) (*Model, error) {
	if err := ValidateInput(src); err != nil {
		return nil, fmt.Errorf("model: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(src))
	dec.KnownFields(true)
	var m Model
	if err := dec.Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return &m, nil
		}
		return nil, fmt.Errorf("model: %w: %v", ErrInvalidModel, err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks that every compound has an id and a known kind and that
// ids are unique.
func (m *Model) Validate() error {
	seen := make(map[string]struct{}, len(m.Compounds))
	for i, c := range m.Compounds {
		if c == nil {
			return fmt.Errorf("model: %w: compound %d is empty", ErrInvalidModel, i)
		}
		if c.ID == "" {
			return fmt.Errorf("model: %w: compound %q has no id", ErrInvalidModel, c.Name)
		}
		if _, ok := compoundGroups[c.Kind]; !ok {
			return fmt.Errorf("model: %w: compound %q has unknown kind %q", ErrInvalidModel, c.ID, c.Kind)
		}
		if _, dup := seen[c.ID]; dup {
			return fmt.Errorf("model: %w: duplicate compound id %q", ErrInvalidModel, c.ID)
		}
		seen[c.ID] = struct{}{}
		for _, s := range c.Sections {
			if s == nil {
				continue
			}
			for _, mem := range s.Members {
				if mem == nil || mem.ID == "" {
					return fmt.Errorf("model: %w: member without id in %q", ErrInvalidModel, c.ID)
				}
			}
		}
	}
	return nil
}

// Merge appends the compounds of other to m.
func (m *Model) Merge(other *Model) {
	if other == nil {
		return
	}
	if m.Project == "" {
		m.Project = other.Project
	}
	m.Compounds = append(m.Compounds, other.Compounds...)
}

// Anonymous reports whether c is an unnamed compound such as an anonymous
// namespace or struct.
func (c *Compound) Anonymous() bool {
	return strings.Contains(c.Name, "@")
}

// renderable returns the compounds that get a record, grouped by kind and
// otherwise in model order.
func (m *Model) renderable() []*Compound {
	var groups [5][]*Compound
	for _, c := range m.Compounds {
		if c == nil || c.External != "" || c.Anonymous() {
			continue
		}
		g := compoundGroups[c.Kind]
		groups[g] = append(groups[g], c)
	}
	out := make([]*Compound, 0, len(m.Compounds))
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// Resolver returns a resolver for the compound names and qualified member
// names of m. Unqualified member names resolve when they are unique. Targets
// carry record ids, so pass the options used for generation; only
// WithCaseSensitiveNames is consulted.
func (m *Model) Resolver(opts ...Option) Resolver {
	return m.resolver(newConfig(opts).caseSensitive)
}

func (m *Model) resolver(caseSensitive bool) Resolver {
	index := make(map[string]Target)
	ambiguous := make(map[string]bool)
	add := func(name string, t Target) {
		if name == "" {
			return
		}
		if _, ok := index[name]; ok {
			ambiguous[name] = true
			return
		}
		index[name] = t
	}
	for _, c := range m.Compounds {
		if c == nil || c.Anonymous() {
			continue
		}
		ext := c.External
		id := recordID(c, caseSensitive)
		add(c.Name, Target{External: ext, Compound: id})
		for _, s := range c.Sections {
			if s == nil {
				continue
			}
			for _, mem := range s.Members {
				t := Target{External: ext, Compound: id, Anchor: mem.ID}
				if c.Kind != "file" && c.Kind != "group" && c.Kind != "page" {
					add(c.Name+"::"+mem.Name, t)
				}
				add(mem.Name, t)
			}
		}
	}
	for name := range ambiguous {
		delete(index, name)
	}
	return ResolverFunc(func(name string) (Target, bool) {
		t, ok := index[name]
		return t, ok
	})
}

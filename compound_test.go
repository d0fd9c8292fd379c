package docxml

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCompoundClass(t *testing.T) {
	t.Parallel()
	c := &Compound{
		ID:       "classfoo",
		Kind:     "class",
		Name:     "Foo",
		Prot:     "public",
		Language: "C++",
		Bases:    []Ref{{Ref: "classbase", Name: "Base"}},
		Sections: []*MemberSection{
			{Kind: "public-attrib"},
			{
				Kind: "public-func",
				Members: []*Member{{
					ID:    "a1",
					Kind:  "function",
					Name:  "size",
					Type:  "size_t",
					Args:  "() const",
					Const: true,
					Brief: "Returns the size.",
				}},
			},
		},
		Brief:    "A *foo*.",
		Location: &Location{File: "foo.h", Line: 3},
	}
	e := NewEmitter()
	require.NoError(t, e.WriteCompound(c))
	want := `  <compounddef id="classfoo" kind="class" language="C++" prot="public">
    <compoundname>Foo</compoundname>
    <basecompoundref refid="classbase" prot="public" virt="non-virtual">Base</basecompoundref>
    <sectiondef kind="public-func">
      <memberdef kind="function" id="classfoo_1a1" prot="public" static="no" const="yes" volatile="no" virt="non-virtual">
        <type>size_t</type>
        <definition>size_t Foo::size</definition>
        <argsstring>() const</argsstring>
        <name>size</name>
        <briefdescription>
<para>
Returns the size.</para>
        </briefdescription>
        <detaileddescription>
        </detaileddescription>
      </memberdef>
    </sectiondef>
    <briefdescription>
<para>
A <emphasis>foo</emphasis>.</para>
    </briefdescription>
    <detaileddescription>
    </detaileddescription>
    <location file="foo.h" line="3"/>
  </compounddef>
`
	assert.Equal(t, want, e.String())
	wellFormed(t, e.String())
	scopes, lists := e.Depth()
	assert.Zero(t, scopes)
	assert.Zero(t, lists)
}

func TestWriteCompoundFileWithEnumAndListing(t *testing.T) {
	t.Parallel()
	c := &Compound{
		ID:         "foo_8h",
		Kind:       "file",
		Name:       "foo.h",
		Includes:   []Include{{Name: "stdio.h"}, {Ref: "bar_8h", Name: "bar.h", Local: true}},
		IncludedBy: []Include{{Ref: "main_8c", Name: "main.c", Local: true}},
		Inner:      []Ref{{Kind: "namespace", Ref: "namespacens", Name: "ns"}, {Kind: "struct", Ref: "structs", Name: "S", Prot: "public"}},
		Sections: []*MemberSection{{
			Kind:   "enum",
			Header: "Colors & more",
			Members: []*Member{
				{
					ID:   "e1",
					Kind: "enum",
					Name: "Color",
					EnumValues: []*Member{
						{ID: "e2", Kind: "enumvalue", Name: "Red", Initializer: "= 1", Brief: "Warm."},
					},
				},
				{ID: "e2", Kind: "enumvalue", Name: "Red"},
			},
		}},
		Listing: []CodeLine{
			{Line: 1, Text: "enum Color { Red = 1 };\n", Ref: "foo_8h#e1"},
			{Line: 2, Text: ""},
		},
		Location: &Location{File: "foo.h"},
	}
	e := NewEmitter()
	require.NoError(t, e.WriteCompound(c))
	out := e.String()
	wellFormed(t, out)

	assert.Contains(t, out, `    <includes local="no">stdio.h</includes>`+"\n")
	assert.Contains(t, out, `    <includes refid="bar_8h" local="yes">bar.h</includes>`+"\n")
	assert.Contains(t, out, `    <includedby refid="main_8c" local="yes">main.c</includedby>`+"\n")
	assert.Contains(t, out, `    <innernamespace refid="namespacens">ns</innernamespace>`+"\n")
	assert.Contains(t, out, `    <innerclass refid="structs" prot="public">S</innerclass>`+"\n")
	assert.Contains(t, out, "      <header>Colors &amp; more</header>\n")
	assert.Contains(t, out, `      <memberdef kind="enum" id="foo_8h_1e1" prot="public" static="no">`+"\n        <name>Color</name>\n")
	assert.NotContains(t, out, "<type>", "enums carry no type")
	assert.Equal(t, 1, bytes.Count(e.Bytes(), []byte(`<enumvalue id="foo_8h_1e2" prot="public">`)))
	assert.Contains(t, out, "          <initializer>= 1</initializer>\n")
	assert.Contains(t, out, "          <briefdescription>\n<para>\nWarm.</para>\n          </briefdescription>\n")
	assert.Contains(t, out, "    <programlisting>\n"+
		`<codeline><linenumber line="1" refid="foo_8h_1e1"/><highlight class="normal">enum Color { Red = 1 };</highlight></codeline>`+"\n"+
		`<codeline><linenumber line="2"/><highlight class="normal"></highlight></codeline>`+"\n"+
		"    </programlisting>\n")
	assert.Contains(t, out, `    <location file="foo.h"/>`+"\n")
}

func TestWriteCompoundFileMembersAreUnqualified(t *testing.T) {
	t.Parallel()
	c := &Compound{ID: "x_8c", Kind: "file", Name: "x.c", Sections: []*MemberSection{{
		Kind:    "func",
		Members: []*Member{{ID: "f", Kind: "function", Name: "run", Type: "int", Static: true}},
	}}}
	e := NewEmitter()
	require.NoError(t, e.WriteCompound(c))
	assert.Contains(t, e.String(), "<definition>int run</definition>")
	assert.Contains(t, e.String(), `static="yes"`)
}

func TestWriteCompoundLinksTypes(t *testing.T) {
	t.Parallel()
	r := ResolverFunc(func(name string) (Target, bool) {
		if name == "Foo" {
			return Target{Compound: "classfoo"}, true
		}
		return Target{}, false
	})
	c := &Compound{ID: "classbar", Kind: "class", Name: "Bar", Sections: []*MemberSection{{
		Kind: "public-func",
		Members: []*Member{{
			ID:         "b1",
			Kind:       "function",
			Name:       "get",
			Type:       "const Foo &",
			Params:     []Param{{Type: "Foo *", DeclName: "f", DefVal: "nullptr"}},
			Exceptions: "throw(Foo)",
			References: []Ref{{Ref: "classfoo", Name: "Foo"}},
		}},
	}}}
	e := NewEmitter(WithResolver(r))
	require.NoError(t, e.WriteCompound(c))
	out := e.String()
	wellFormed(t, out)
	assert.Contains(t, out, `<type>const <ref refid="classfoo">Foo</ref> &amp;</type>`)
	assert.Contains(t, out, "        <param>\n          <type><ref refid=\"classfoo\">Foo</ref> *</type>\n          <declname>f</declname>\n          <defval>nullptr</defval>\n        </param>\n")
	assert.Contains(t, out, `<exceptions>throw(<ref refid="classfoo">Foo</ref>)</exceptions>`)
	assert.Contains(t, out, `        <references refid="classfoo">Foo</references>`+"\n")
}

func TestWriteCompoundPageIDs(t *testing.T) {
	t.Parallel()
	c := &Compound{ID: "Intro", Kind: "page", Name: "Intro", Title: "Intro", Detailed: "# Usage\n\nText.\n"}

	e := NewEmitter()
	require.NoError(t, e.WriteCompound(c))
	assert.Contains(t, e.String(), `<compounddef id="intro" kind="page">`)
	assert.Contains(t, e.String(), `<sect1 id="intro_1usage">`)
	assert.Contains(t, e.String(), "    <title>Intro</title>\n")

	e = NewEmitter(WithCaseSensitiveNames(true))
	require.NoError(t, e.WriteCompound(c))
	assert.Contains(t, e.String(), `<compounddef id="Intro" kind="page">`)
	assert.Contains(t, e.String(), `<sect1 id="Intro_1usage">`)
}

func TestWriteCompoundDescriptionErrors(t *testing.T) {
	t.Parallel()
	c := &Compound{ID: "classfoo", Kind: "class", Name: "Foo", Brief: "bad \xff"}
	err := NewEmitter().WriteCompound(c)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidUTF8)
	assert.Contains(t, err.Error(), "compound classfoo")

	assert.Error(t, NewEmitter().WriteCompound(nil))
}

func TestWriteCompoundLogsUnbalancedDescription(t *testing.T) {
	t.Parallel()
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	e := NewEmitter(WithLogger(logger))
	e.Item()
	require.Equal(t, 1, e.Violations())

	c := &Compound{ID: "classfoo", Kind: "class", Name: "Foo", Brief: "text"}
	require.NoError(t, e.WriteCompound(c))
	assert.Contains(t, logs.String(), "unbalanced description")
	assert.Contains(t, logs.String(), "element=briefdescription")
	assert.Zero(t, e.Violations())
}

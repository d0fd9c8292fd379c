package docxml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInlineMarkup(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		emit func(e *Emitter)
		want string
	}{
		{
			name: "styles",
			emit: func(e *Emitter) {
				e.StartBold()
				e.Text("b")
				e.EndBold()
				e.StartEmphasis()
				e.Text("i")
				e.EndEmphasis()
				e.StartTypewriter()
				e.Text("t")
				e.EndTypewriter()
				e.StartStyle(StyleSuperscript)
				e.Text("2")
				e.EndStyle(StyleSuperscript)
			},
			want: "<para>\n<bold>b</bold><emphasis>i</emphasis><computeroutput>t</computeroutput><superscript>2</superscript></para>\n",
		},
		{
			name: "breaks",
			emit: func(e *Emitter) {
				e.Text("a")
				e.LineBreak()
				e.NonBreakingSpace(2)
				e.Ruler()
			},
			want: "<para>\na<linebreak/>&#160;&#160;<hruler/></para>\n",
		},
		{
			name: "object link",
			emit: func(e *Emitter) {
				e.ObjectLink("", "classfoo", "a1b2", "Foo::bar")
			},
			want: "<para>\n<ref refid=\"classfoo_1a1b2\">Foo::bar</ref></para>\n",
		},
		{
			name: "external link without anchor",
			emit: func(e *Emitter) {
				e.ObjectLink("qt.tag", "classQString", "", "QString")
			},
			want: "<para>\n<ref refid=\"classQString\" external=\"qt.tag\">QString</ref></para>\n",
		},
		{
			name: "html link",
			emit: func(e *Emitter) {
				e.StartHTMLLink("https://example.com/?a=1&b=2")
				e.Text("site")
				e.EndHTMLLink()
			},
			want: "<para>\n<ulink url=\"https://example.com/?a=1&amp;b=2\">site</ulink></para>\n",
		},
		{
			name: "text link",
			emit: func(e *Emitter) {
				e.StartTextLink("other.html", "sec")
				e.Text("there")
				e.EndHTMLLink()
			},
			want: "<para>\n<ulink url=\"other.html#sec\">there</ulink></para>\n",
		},
		{
			name: "mail and section ref",
			emit: func(e *Emitter) {
				e.MailLink("a@b.org")
				e.SectionRef("index", "intro", "Intro")
			},
			want: "<para>\n<email>a@b.org</email><link linkend=\"index_intro\">Intro</link></para>\n",
		},
		{
			name: "anchor index formula",
			emit: func(e *Emitter) {
				e.Anchor("index", "here")
				e.IndexItem("primary", "sub")
				e.Formula("3", "$x<y$")
			},
			want: "<para>\n<anchor id=\"index_here\"/><indexentry><primaryie>primary</primaryie><secondaryie>sub</secondaryie></indexentry><formula id=\"3\">$x&lt;y$</formula></para>\n",
		},
		{
			name: "image and dot file",
			emit: func(e *Emitter) {
				e.StartImage("pic.png", "width=10")
				e.Text("cap")
				e.EndImage()
				e.StartDotFile("g.dot")
				e.EndDotFile()
			},
			want: "<para>\n<image name=\"pic.png\" size=\"width=10\">cap</image><dotfile name=\"g.dot\"></dotfile></para>\n",
		},
		{
			name: "code fragment",
			emit: func(e *Emitter) {
				e.StartCodeFragment()
				e.StartCodeLine()
				e.Codify("x < y")
				e.EndCodeLine()
				e.EndCodeFragment()
			},
			want: "<para>\n<programlisting><codeline>x &lt; y</codeline>\n</programlisting></para>\n",
		},
		{
			name: "code anchor",
			emit: func(e *Emitter) {
				e.StartCodeAnchor("l00001")
				e.EndCodeAnchor()
			},
			want: "<para>\n<anchor id=\"l00001\"></anchor></para>\n",
		},
		{
			name: "accents",
			emit: func(e *Emitter) {
				e.WriteAccent(AccentUmlaut, 'u')
				e.WriteAccent(AccentAcute, 'e')
				e.WriteAccent(AccentCedil, 'c')
				e.WriteSharpS()
				e.WriteCopyright()
				e.WriteQuote()
			},
			want: "<para>\nüéçß©&quot;</para>\n",
		},
		{
			name: "verbatim",
			emit: func(e *Emitter) {
				e.Verbatim(VerbatimHTML, "<b>x</b>\n")
				e.Verbatim(VerbatimLatex, "\\alpha")
			},
			want: "<htmlonly>\n&lt;b&gt;x&lt;/b&gt;\n</htmlonly>\n<latexonly>\n\\alpha\n</latexonly>\n",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			e := NewEmitter()
			tc.emit(e)
			require.NoError(t, e.EndBlock())
			assert.Equal(t, tc.want, e.String())
			wellFormed(t, e.String())
		})
	}
}

func TestCodifyLinksKnownIdentifiers(t *testing.T) {
	t.Parallel()
	resolver := ResolverFunc(func(name string) (Target, bool) {
		switch name {
		case "ns::Foo":
			return Target{Compound: "classns_1_1Foo"}, true
		case "size_t":
			return Target{External: "std.tag", Compound: "std", Anchor: "sz"}, true
		}
		return Target{}, false
	})
	e := NewEmitter(WithResolver(resolver))
	e.Codify("const ns::Foo<size_t> &")
	require.NoError(t, e.EndBlock())
	want := "<para>\nconst <ref refid=\"classns_1_1Foo\">ns::Foo</ref>&lt;" +
		"<ref refid=\"std_1sz\" external=\"std.tag\">size_t</ref>&gt; &amp;</para>\n"
	assert.Equal(t, want, e.String())
}

func TestCodeLinkDoesNotOpenParagraph(t *testing.T) {
	t.Parallel()
	e := NewEmitter()
	e.CodeLink("", "classfoo", "", "Foo")
	assert.Equal(t, "<ref refid=\"classfoo\">Foo</ref>", e.String())
	require.NoError(t, e.EndBlock())
}

func TestParseStyle(t *testing.T) {
	t.Parallel()
	for name, want := range map[string]Style{
		"bold":           StyleBold,
		"computeroutput": StyleTypewriter,
		"code":           StyleTypewriter,
		"italic":         StyleEmphasis,
		"subscript":      StyleSubscript,
	} {
		got, ok := ParseStyle(name)
		require.True(t, ok, name)
		assert.Equal(t, want, got, name)
	}
	_, ok := ParseStyle("blink")
	assert.False(t, ok)
}

func TestParseAccentAndVerbatim(t *testing.T) {
	t.Parallel()
	a, ok := ParseAccent("ring")
	require.True(t, ok)
	assert.Equal(t, AccentRing, a)
	_, ok = ParseAccent("macron")
	assert.False(t, ok)

	v, ok := ParseVerbatimKind("latex")
	require.True(t, ok)
	assert.Equal(t, VerbatimLatex, v)
	assert.Equal(t, "htmlonly", VerbatimHTML.String())
}

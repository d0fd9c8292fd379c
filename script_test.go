package docxml

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listScript = `# two items
start_list list=itemized
item
text "a"

item
text text=b
end_list list=itemized
`

func TestParseScript(t *testing.T) {
	t.Parallel()
	events, err := ParseScript(strings.NewReader(listScript))
	require.NoError(t, err)
	assert.Equal(t, []Event{
		{Kind: EventStartList, List: ListItemized},
		{Kind: EventItem},
		{Kind: EventText, Text: "a"},
		{Kind: EventItem},
		{Kind: EventText, Text: "b"},
		{Kind: EventEndList, List: ListItemized},
	}, events)
}

func TestParseScriptFields(t *testing.T) {
	t.Parallel()
	src := `object_link ext=std.tag id=classfoo anchor="a 1" "Foo::bar"
start_section id=page_1intro level=2
start_table cols=3
start_param_list param=retval
start_simple_sect section=sa
start_style style=code
accent accent=uml "o"
verbatim verbatim=latex "\\alpha\n"
line_number line=12 id=filefoo anchor=a7
start_html_link url="https://example.com/?a=1&b=2"`
	events, err := ParseScript(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, events, 10)
	assert.Equal(t, Event{Kind: EventObjectLink, Ext: "std.tag", ID: "classfoo", Anchor: "a 1", Text: "Foo::bar"}, events[0])
	assert.Equal(t, Event{Kind: EventStartSection, ID: "page_1intro", N: 2}, events[1])
	assert.Equal(t, 3, events[2].N)
	assert.Equal(t, ParamRetVal, events[3].Param)
	assert.Equal(t, SectSee, events[4].Section)
	assert.Equal(t, StyleTypewriter, events[5].Style)
	assert.Equal(t, Event{Kind: EventAccent, Accent: AccentUmlaut, Text: "o"}, events[6])
	assert.Equal(t, Event{Kind: EventVerbatim, Verbatim: VerbatimLatex, Text: "\\alpha\n"}, events[7])
	assert.Equal(t, Event{Kind: EventLineNumber, N: 12, ID: "filefoo", Anchor: "a7"}, events[8])
	assert.Equal(t, "https://example.com/?a=1&b=2", events[9].ID)
}

func TestParseScriptErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"unknown event", "text \"a\"\nfrobnicate\n", ErrUnknownEvent},
		{"missing equals", "start_list itemized", ErrInvalidScript},
		{"unknown field", "item color=red", ErrInvalidScript},
		{"bad list kind", "start_list list=bulleted", ErrInvalidScript},
		{"bad number", "start_table cols=many", ErrInvalidScript},
		{"unterminated quote", `text "abc`, ErrInvalidScript},
		{"invalid utf8", "text \"\xff\"", ErrInvalidUTF8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScript(strings.NewReader(tt.src))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParseScriptReportsLine(t *testing.T) {
	t.Parallel()
	_, err := ParseScript(strings.NewReader("item\n\n# c\nnope\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 4")
}

func TestRunScriptNilArguments(t *testing.T) {
	t.Parallel()
	assert.Error(t, RunScript(nil, &Recorder{}))
	assert.Error(t, RunScript(strings.NewReader(""), nil))
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("boom") }

func TestRunScriptReadError(t *testing.T) {
	t.Parallel()
	err := RunScript(failingReader{}, &Recorder{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestRunScriptIntoEmitter(t *testing.T) {
	t.Parallel()
	e := NewEmitter()
	require.NoError(t, RunScript(strings.NewReader(listScript), e))
	require.NoError(t, e.EndBlock())
	want := "<itemizedlist>\n" +
		"<listitem><para>\na</para>\n</listitem>\n" +
		"<listitem><para>\nb</para>\n</listitem>\n" +
		"</itemizedlist>\n"
	assert.Equal(t, want, e.String())
}

func TestFormatEvent(t *testing.T) {
	t.Parallel()
	assert.Equal(t, `item`, FormatEvent(Event{Kind: EventItem}))
	assert.Equal(t, `text "a \"b\"\n"`, FormatEvent(Event{Kind: EventText, Text: "a \"b\"\n"}))
	assert.Equal(t, `object_link id="classfoo" anchor="a1" "Foo"`,
		FormatEvent(Event{Kind: EventObjectLink, ID: "classfoo", Anchor: "a1", Text: "Foo"}))
	assert.Equal(t, `start_table n=2`, FormatEvent(Event{Kind: EventStartTable, N: 2}))
	assert.Equal(t, `end_list list=ordered`, FormatEvent(Event{Kind: EventEndList, List: ListOrdered}))
}

func TestWriteScriptRoundTrip(t *testing.T) {
	t.Parallel()
	events := append(sampleEvents(),
		Event{Kind: EventAccent, Accent: AccentCedil, Text: "c"},
		Event{Kind: EventStartParamList, Param: ParamException},
		Event{Kind: EventStartSimpleSect, Section: SectWarning},
		Event{Kind: EventVerbatim, Verbatim: VerbatimHTML, Text: "<b>x</b>"},
		Event{Kind: EventLineNumber, N: 3, ID: "filex", Anchor: "a"},
		Event{Kind: EventCodeLink, Ext: "t.tag", ID: "classy", Text: "y"},
	)
	var buf bytes.Buffer
	require.NoError(t, WriteScript(&buf, events))
	got, err := ParseScript(&buf)
	require.NoError(t, err)
	assert.Equal(t, events, got)
}

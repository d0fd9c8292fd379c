package docxml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmitMatchesDirectCalls(t *testing.T) {
	t.Parallel()
	direct := NewEmitter()
	direct.Text("Intro ")
	direct.StartBold()
	direct.Text("bold")
	direct.EndBold()
	direct.NewParagraph()
	direct.StartList(ListItemized)
	direct.Item()
	direct.Text("one")
	direct.Item()
	direct.Text("two")
	direct.StartList(ListOrdered)
	direct.Item()
	direct.Text("nested")
	direct.EndList(ListOrdered)
	direct.EndList(ListItemized)
	direct.StartDescription()
	direct.Term()
	direct.Text("term")
	direct.Value()
	direct.Text("value")
	direct.EndDescription()
	direct.StartTable(2)
	direct.Row()
	direct.Text("h1")
	direct.EndCell()
	direct.Cell()
	direct.Text("h2")
	direct.EndCell()
	direct.EndRow()
	direct.EndTable()
	direct.StartSectionLevel("page_1s", 1)
	direct.StartTitle()
	direct.Text("Title")
	direct.EndTitle()
	direct.Text("body")
	direct.EndSection()
	direct.ObjectLink("", "classfoo", "a1", "Foo::bar")
	require.NoError(t, direct.EndBlock())

	assert.Equal(t, direct.String(), render(t, sampleEvents()))
}

func TestEventKindNamesRoundTrip(t *testing.T) {
	t.Parallel()
	for k := EventText; k <= EventEndHighlight; k++ {
		name := k.String()
		require.NotEqual(t, "unknown", name, "kind %d", k)
		got, ok := EventKindByName(name)
		require.True(t, ok, name)
		assert.Equal(t, k, got)
	}
	assert.Equal(t, "unknown", EventKind(255).String())
	_, ok := EventKindByName("bogus")
	assert.False(t, ok)
}

func TestEmitUnknownKindIsViolation(t *testing.T) {
	t.Parallel()
	e := NewEmitter()
	e.Emit(Event{Kind: EventKind(255)})
	assert.Empty(t, e.String())
	assert.Equal(t, 1, e.Violations())
	assert.ErrorIs(t, e.EndBlock(), ErrUnbalanced)
}

func TestEmitAccentUsesFirstRune(t *testing.T) {
	t.Parallel()
	out := render(t, []Event{
		{Kind: EventAccent, Accent: AccentTilde, Text: "nx"},
		{Kind: EventAccent, Accent: AccentAcute},
	})
	assert.Equal(t, "<para>\nñ</para>\n", out)
}

func TestRecorderReplay(t *testing.T) {
	t.Parallel()
	var rec Recorder
	for _, ev := range sampleEvents() {
		rec.Emit(ev)
	}
	require.Len(t, rec.Events, len(sampleEvents()))

	e := NewEmitter()
	rec.Replay(e)
	require.NoError(t, e.EndBlock())
	assert.Equal(t, render(t, sampleEvents()), e.String())

	rec.Reset()
	assert.Empty(t, rec.Events)
}

func TestTeeFansOut(t *testing.T) {
	t.Parallel()
	var rec Recorder
	e := NewEmitter()
	sink := Tee{&rec, e}
	for _, ev := range sampleEvents() {
		sink.Emit(ev)
	}
	require.NoError(t, e.EndBlock())
	assert.Equal(t, sampleEvents(), rec.Events)
	assert.Equal(t, render(t, sampleEvents()), e.String())
}

package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pkt.systems/docxml"
)

func TestOpenInputFileAndURL(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "input.events")
	if err := os.WriteFile(path, []byte("hello"), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	reader, closer, err := openInputs([]string{path})
	if err != nil {
		t.Fatalf("openInputs file: %v", err)
	}
	if closer != nil {
		defer func() { _ = closer.Close() }()
	}
	buf, _ := io.ReadAll(reader)
	if string(buf) != "hello" {
		t.Fatalf("unexpected file content: %q", string(buf))
	}

	fileURL := "file://" + path
	reader, closer, err = openInputs([]string{fileURL})
	if err != nil {
		t.Fatalf("openInputs file URL: %v", err)
	}
	if closer != nil {
		defer func() { _ = closer.Close() }()
	}
	buf, _ = io.ReadAll(reader)
	if string(buf) != "hello" {
		t.Fatalf("unexpected file URL content: %q", string(buf))
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("stream"))
	}))
	defer srv.Close()
	reader, closer, err = openInputs([]string{srv.URL})
	if err != nil {
		t.Fatalf("openInputs http: %v", err)
	}
	if closer != nil {
		defer func() { _ = closer.Close() }()
	}
	buf, _ = io.ReadAll(reader)
	if string(buf) != "stream" {
		t.Fatalf("unexpected http content: %q", string(buf))
	}
}

func TestOpenInputsConcatenates(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "a.events")
	second := filepath.Join(dir, "b.events")
	if err := os.WriteFile(first, []byte("text \"one\"\n"), 0o644); err != nil {
		t.Fatalf("write first: %v", err)
	}
	if err := os.WriteFile(second, []byte("text \"two\"\n"), 0o644); err != nil {
		t.Fatalf("write second: %v", err)
	}
	reader, closer, err := openInputs([]string{first, second})
	if err != nil {
		t.Fatalf("openInputs concat: %v", err)
	}
	if closer != nil {
		defer func() { _ = closer.Close() }()
	}
	buf, _ := io.ReadAll(reader)
	if string(buf) != "text \"one\"\ntext \"two\"\n" {
		t.Fatalf("unexpected concatenated content: %q", string(buf))
	}
}

func TestOpenInputsRejectsEmptyArgument(t *testing.T) {
	if _, _, err := openInputs([]string{"  "}); err == nil {
		t.Fatalf("expected error for empty input argument")
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadModelMergesModelsAndPages(t *testing.T) {
	dir := t.TempDir()
	model := writeFile(t, dir, "api.yaml", "project: demo\ncompounds:\n  - id: classfoo\n    kind: class\n    name: Foo\n")
	page := writeFile(t, dir, "Guide.md", "---\ntitle: Guide\n---\nRead this.\n")
	m, err := loadModel([]string{model, page})
	if err != nil {
		t.Fatalf("loadModel: %v", err)
	}
	if m.Project != "demo" {
		t.Fatalf("unexpected project %q", m.Project)
	}
	if len(m.Compounds) != 2 {
		t.Fatalf("expected 2 compounds, got %d", len(m.Compounds))
	}
	if got := m.Compounds[1]; got.Kind != "page" || got.ID != "Guide" || got.Title != "Guide" {
		t.Fatalf("unexpected page compound %+v", got)
	}
}

func TestLoadModelRejectsDuplicates(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.yaml", "compounds:\n  - id: x\n    kind: class\n")
	b := writeFile(t, dir, "b.yml", "compounds:\n  - id: x\n    kind: file\n")
	if _, err := loadModel([]string{a, b}); err == nil {
		t.Fatalf("expected duplicate id error")
	}
	if _, err := loadModel([]string{filepath.Join(dir, "missing.yaml")}); err == nil {
		t.Fatalf("expected error for missing input")
	}
}

func testOptions(out string) options {
	return options{
		outPath: out,
		workers: 2,
		logger:  slog.New(slog.DiscardHandler),
	}
}

func TestRunGeneratesDocument(t *testing.T) {
	dir := t.TempDir()
	model := writeFile(t, dir, "api.yaml", "compounds:\n  - id: classfoo\n    kind: class\n    name: Foo\n    brief: A *foo*.\n")
	out := filepath.Join(dir, "out", "doc.xml")
	opts := testOptions(out)
	opts.inputs = []string{model}
	if err := run(context.Background(), opts); err != nil {
		t.Fatalf("run: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	doc := string(data)
	if !strings.HasPrefix(doc, "<?xml version='1.0' encoding='UTF-8' standalone='yes'?>\n<doxygen>\n") {
		t.Fatalf("missing document header: %q", doc)
	}
	if !strings.Contains(doc, "<para>\nA <emphasis>foo</emphasis>.</para>\n") {
		t.Fatalf("missing brief description: %q", doc)
	}
}

func TestRunRendersEventScripts(t *testing.T) {
	dir := t.TempDir()
	script := writeFile(t, dir, "list.events", "start_list list=itemized\nitem\ntext \"a\"\nend_list list=itemized\n")
	out := filepath.Join(dir, "list.xml")
	opts := testOptions(out)
	opts.events = true
	opts.inputs = []string{script}
	if err := run(context.Background(), opts); err != nil {
		t.Fatalf("run: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	want := "<itemizedlist>\n<listitem><para>\na</para>\n</listitem>\n</itemizedlist>\n"
	if string(data) != want {
		t.Fatalf("unexpected output %q", string(data))
	}
}

func TestWriteSummary(t *testing.T) {
	records := []docxml.RecordInfo{
		{ID: "classfoo", Kind: "class", Name: "Foo", Size: 120},
		{ID: "classbar", Kind: "class", Name: strings.Repeat("VeryLongName", 10), Size: 3_000_000},
	}
	var buf bytes.Buffer
	writeSummary(&buf, records, 40)
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %q", buf.String())
	}
	if !strings.HasPrefix(lines[0], "class      Foo") || !strings.HasSuffix(lines[0], " 120 B") {
		t.Fatalf("unexpected summary line %q", lines[0])
	}
	if !strings.Contains(lines[1], "…") || !strings.HasSuffix(lines[1], " 3.0 MB") {
		t.Fatalf("expected truncated label, got %q", lines[1])
	}
	if lines[2] != "total 3.0 MB" {
		t.Fatalf("unexpected total line %q", lines[2])
	}
}

func TestTruncateWithEllipsis(t *testing.T) {
	cases := []struct {
		in    string
		limit int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly", 7, "exactly"},
		{"truncated", 5, "trun…"},
		{"x", 0, ""},
		{"xy", 1, "…"},
	}
	for _, tc := range cases {
		if got := truncateWithEllipsis(tc.in, tc.limit); got != tc.want {
			t.Fatalf("truncateWithEllipsis(%q, %d)=%q want %q", tc.in, tc.limit, got, tc.want)
		}
	}
}

func TestLocalInputsSkipsURLs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.yaml")
	files := localInputs([]string{path, "file://" + path, "https://example.com/m.yaml"})
	if len(files) != 1 || !files[filepath.Clean(path)] {
		t.Fatalf("unexpected local inputs %v", files)
	}
}

func TestNormalizePathExpandsHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := normalizePath("~/x.yaml"); got != filepath.Join(home, "x.yaml") {
		t.Fatalf("unexpected path %q", got)
	}
}

package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fsnotify/fsnotify"
	"github.com/muesli/reflow/ansi"
	"github.com/spf13/pflag"
	"golang.org/x/term"
	"pkt.systems/docxml"
	"pkt.systems/version"
)

const (
	defaultWidth  = 80
	watchDebounce = 150 * time.Millisecond
)

func init() {
	version.SetDefaultModule("pkt.systems/docxml")
}

type options struct {
	outPath       string
	workers       int
	events        bool
	strict        bool
	caseSensitive bool
	idPrefix      string
	summary       bool
	inputs        []string
	logger        *slog.Logger
}

func main() {
	var (
		opts         options
		verbose      bool
		watch        bool
		listSections bool
		showVersion  bool
	)
	flags := pflag.NewFlagSet("docxml", pflag.ExitOnError)
	flags.StringVarP(&opts.outPath, "output", "o", "", "Output file instead of stdout")
	flags.IntVarP(&opts.workers, "workers", "j", 0, "Compounds rendered concurrently (0 uses GOMAXPROCS)")
	flags.BoolVar(&opts.events, "events", false, "Inputs are event scripts instead of models and pages")
	flags.StringVar(&opts.idPrefix, "id-prefix", "", "Section id prefix for event scripts")
	flags.BoolVar(&opts.strict, "strict", false, "Panic on markup contract violations")
	flags.BoolVar(&opts.caseSensitive, "case-sensitive", false, "Keep page ids in their original case")
	flags.BoolVar(&opts.summary, "summary", false, "Print a per-compound size summary to stderr")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Debug logging")
	flags.BoolVarP(&watch, "watch", "w", false, "Re-render when local inputs change")
	flags.BoolVar(&listSections, "list-sections", false, "List simple section kinds")
	flags.BoolVar(&showVersion, "version", false, "Print version and exit")

	flags.SetInterspersed(true)
	flags.Usage = func() {
		fmt.Fprintln(os.Stderr, version.Module(), version.Current())
		fmt.Fprintf(os.Stderr, "Usage: docxml [flags] [inputs...]\n")
		fmt.Fprintln(os.Stderr, "\nInputs are YAML models (.yaml, .yml) and Markdown pages (.md), or event")
		fmt.Fprintln(os.Stderr, "scripts with --events. If no input is provided, stdin is read.")
		fmt.Fprintln(os.Stderr, "\nFlags:")
		flags.PrintDefaults()
	}
	if err := flags.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}
	if showVersion {
		fmt.Fprintln(os.Stdout, version.Module(), version.Current())
		return
	}
	if listSections {
		printSections(os.Stdout)
		return
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	opts.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	opts.inputs = flags.Args()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if watch {
		if err := watchInputs(ctx, opts); err != nil && !errors.Is(err, context.Canceled) {
			opts.logger.Error("watch", slog.Any("error", err))
			os.Exit(1)
		}
		return
	}
	if err := run(ctx, opts); err != nil {
		opts.logger.Error("render", slog.Any("error", err))
		os.Exit(1)
	}
}

func (o options) docOptions() []docxml.Option {
	return []docxml.Option{
		docxml.WithLogger(o.logger),
		docxml.WithStrict(o.strict),
		docxml.WithWorkers(o.workers),
		docxml.WithCaseSensitiveNames(o.caseSensitive),
	}
}

func run(ctx context.Context, opts options) error {
	writer, closeOut, err := resolveOutput(opts.outPath)
	if err != nil {
		return fmt.Errorf("open output: %w", err)
	}
	if closeOut != nil {
		defer func() { _ = closeOut.Close() }()
	}
	if opts.events {
		reader, closer, err := openInputs(opts.inputs)
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		if closer != nil {
			defer func() { _ = closer.Close() }()
		}
		return docxml.Render(docxml.RenderRequest{
			Reader:   reader,
			Writer:   writer,
			Format:   docxml.FormatEvents,
			IDPrefix: opts.idPrefix,
			Options:  opts.docOptions(),
		})
	}
	model, err := loadModel(opts.inputs)
	if err != nil {
		return err
	}
	var records []docxml.RecordInfo
	req := docxml.GenerateRequest{
		Model:   model,
		Writer:  writer,
		Options: opts.docOptions(),
	}
	if opts.summary {
		req.OnRecord = func(r docxml.RecordInfo) { records = append(records, r) }
	}
	if err := docxml.Generate(ctx, req); err != nil {
		return err
	}
	if opts.summary {
		writeSummary(os.Stderr, records, terminalWidth(defaultWidth))
	}
	return nil
}

// loadModel merges every model and page input into one model.
func loadModel(args []string) (*docxml.Model, error) {
	sources, err := inputSources(args)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	model := &docxml.Model{}
	for _, src := range sources {
		data, err := src.readAll()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", src.name, err)
		}
		switch strings.ToLower(filepath.Ext(src.name)) {
		case ".md", ".markdown":
			page, err := docxml.LoadPage(src.name, data)
			if err != nil {
				return nil, err
			}
			model.Compounds = append(model.Compounds, page)
		default:
			m, err := docxml.ParseModel(data)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", src.name, err)
			}
			model.Merge(m)
		}
	}
	if err := model.Validate(); err != nil {
		return nil, err
	}
	return model, nil
}

func printSections(w io.Writer) {
	for _, name := range docxml.AvailableSectionKinds() {
		fmt.Fprintln(w, name)
	}
}

// writeSummary prints one line per written record with its size.
func writeSummary(w io.Writer, records []docxml.RecordInfo, width int) {
	var total uint64
	for _, r := range records {
		size := humanize.Bytes(uint64(r.Size))
		total += uint64(r.Size)
		label := fmt.Sprintf("%-10s %s", r.Kind, r.Name)
		limit := width - len(size) - 1
		label = truncateWithEllipsis(label, limit)
		pad := width - ansi.PrintableRuneWidth(label) - len(size)
		if pad < 1 {
			pad = 1
		}
		fmt.Fprintf(w, "%s%s%s\n", label, strings.Repeat(" ", pad), size)
	}
	fmt.Fprintf(w, "total %s\n", humanize.Bytes(total))
}

func truncateWithEllipsis(text string, limit int) string {
	if ansi.PrintableRuneWidth(text) <= limit {
		return text
	}
	if limit <= 0 {
		return ""
	}
	if limit == 1 {
		return "…"
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit-1]) + "…"
}

func terminalWidth(fallback int) int {
	fd := int(os.Stderr.Fd())
	if term.IsTerminal(fd) {
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			return w
		}
	}
	if value := os.Getenv("COLUMNS"); value != "" {
		if w, err := strconv.Atoi(value); err == nil && w > 0 {
			return w
		}
	}
	return fallback
}

// watchInputs renders once and again after every change to a local input
// file, until ctx is done.
func watchInputs(ctx context.Context, opts options) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer watcher.Close()
	files := localInputs(opts.inputs)
	if len(files) == 0 {
		return fmt.Errorf("watch: no local input files")
	}
	dirs := map[string]bool{}
	for path := range files {
		dir := filepath.Dir(path)
		if dirs[dir] {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		dirs[dir] = true
	}
	render := func() {
		if err := run(ctx, opts); err != nil {
			opts.logger.Error("render", slog.Any("error", err))
			return
		}
		opts.logger.Info("rendered", slog.Int("inputs", len(opts.inputs)))
	}
	render()
	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !files[filepath.Clean(ev.Name)] || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			opts.logger.Debug("input changed", slog.String("path", ev.Name), slog.String("op", ev.Op.String()))
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
			} else {
				timer.Reset(watchDebounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			render()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			opts.logger.Warn("watch", slog.Any("error", err))
		}
	}
}

// localInputs returns the absolute paths of file inputs.
func localInputs(args []string) map[string]bool {
	files := map[string]bool{}
	for _, raw := range args {
		raw = strings.TrimSpace(raw)
		if u, err := url.Parse(raw); err == nil && u.Scheme != "" {
			if !strings.EqualFold(u.Scheme, "file") {
				continue
			}
			raw = fileURLPath(u)
		}
		files[filepath.Clean(normalizePath(raw))] = true
	}
	return files
}

type inputSource struct {
	name string
	open func() (io.Reader, io.Closer, error)
}

func (s inputSource) readAll() ([]byte, error) {
	r, closer, err := s.open()
	if err != nil {
		return nil, err
	}
	if closer != nil {
		defer func() { _ = closer.Close() }()
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type multiInputReader struct {
	sources   []inputSource
	idx       int
	cur       io.Reader
	curCloser io.Closer
	closed    bool
}

func (m *multiInputReader) Read(p []byte) (int, error) {
	for {
		if m.closed {
			return 0, io.EOF
		}
		if m.cur == nil {
			if m.idx >= len(m.sources) {
				m.closed = true
				return 0, io.EOF
			}
			reader, closer, err := m.sources[m.idx].open()
			if err != nil {
				return 0, err
			}
			m.cur = reader
			m.curCloser = closer
			m.idx++
		}
		n, err := m.cur.Read(p)
		if n > 0 {
			return n, nil
		}
		if err == io.EOF {
			if m.curCloser != nil {
				_ = m.curCloser.Close()
			}
			m.cur = nil
			m.curCloser = nil
			continue
		}
		if err != nil {
			return 0, err
		}
	}
}

func (m *multiInputReader) Close() error {
	m.closed = true
	if m.curCloser != nil {
		return m.curCloser.Close()
	}
	return nil
}

// openInputs concatenates the inputs into one stream.
func openInputs(args []string) (io.Reader, io.Closer, error) {
	if len(args) == 0 {
		return os.Stdin, nil, nil
	}
	sources, err := inputSources(args)
	if err != nil {
		return nil, nil, err
	}
	m := &multiInputReader{sources: sources}
	return m, m, nil
}

func inputSources(args []string) ([]inputSource, error) {
	if len(args) == 0 {
		return []inputSource{{name: "stdin.yaml", open: func() (io.Reader, io.Closer, error) {
			return os.Stdin, nil, nil
		}}}, nil
	}
	sources := make([]inputSource, 0, len(args))
	for _, raw := range args {
		src, err := makeInputSource(raw)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	return sources, nil
}

func makeInputSource(raw string) (inputSource, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return inputSource{}, fmt.Errorf("empty input argument")
	}
	u, err := url.Parse(raw)
	if err == nil && u.Scheme != "" {
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return inputSource{name: u.Path, open: func() (io.Reader, io.Closer, error) {
				return openURL(raw)
			}}, nil
		case "file":
			path := fileURLPath(u)
			return inputSource{name: path, open: func() (io.Reader, io.Closer, error) {
				return openFile(path)
			}}, nil
		}
	}
	return inputSource{name: raw, open: func() (io.Reader, io.Closer, error) {
		return openFile(raw)
	}}, nil
}

func fileURLPath(u *url.URL) string {
	path := u.Path
	if path == "" {
		path = u.Host
	}
	if unescaped, err := url.PathUnescape(path); err == nil {
		path = unescaped
	}
	return path
}

func openURL(raw string) (io.Reader, io.Closer, error) {
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, raw, nil)
	if err != nil {
		return nil, nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_ = resp.Body.Close()
		return nil, nil, fmt.Errorf("http %s: %s", raw, resp.Status)
	}
	return resp.Body, resp.Body, nil
}

func openFile(path string) (io.Reader, io.Closer, error) {
	clean := normalizePath(path)
	f, err := os.Open(clean)
	if err != nil {
		return nil, nil, err
	}
	return f, f, nil
}

func resolveOutput(path string) (io.Writer, io.Closer, error) {
	if strings.TrimSpace(path) == "" {
		return os.Stdout, nil, nil
	}
	clean := normalizePath(path)
	dir := filepath.Dir(clean)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, err
		}
	}
	f, err := os.Create(clean)
	if err != nil {
		return nil, nil, err
	}
	return f, f, nil
}

func normalizePath(path string) string {
	if strings.HasPrefix(path, "~/") || path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			if path == "~" {
				path = home
			} else {
				path = filepath.Join(home, path[2:])
			}
		}
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		return abs
	}
	return path
}

package docxml

import (
	"bytes"
	"fmt"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

// pageMeta is the front matter of a Markdown page.
type pageMeta struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Title string `yaml:"title"`
	Brief string `yaml:"brief"`
}

// LoadPage turns a Markdown page into a page compound. The page body becomes
// the detailed description; YAML (---) or JSON (;;;) front matter may set
// id, name, title and brief. Without an id the file name, minus its
// extension, is used.
func LoadPage(name string, src []byte) (*Compound, error) {
	if err := ValidateInput(src); err != nil {
		return nil, fmt.Errorf("page %s: %w", name, err)
	}
	meta, body, delim, ok := splitFrontMatter(src)
	var pm pageMeta
	if ok {
		if string(delim) == "+++" {
			return nil, fmt.Errorf("page %s: %w: TOML front matter is not supported", name, ErrInvalidModel)
		}
		dec := yaml.NewDecoder(bytes.NewReader(meta))
		dec.KnownFields(true)
		if err := dec.Decode(&pm); err != nil {
			return nil, fmt.Errorf("page %s: %w: front matter: %v", name, ErrInvalidModel, err)
		}
	}
	base := strings.TrimSuffix(path.Base(strings.ReplaceAll(name, "\\", "/")), path.Ext(name))
	if pm.ID == "" {
		pm.ID = base
	}
	if pm.Name == "" {
		pm.Name = pm.ID
	}
	return &Compound{
		ID:       pm.ID,
		Kind:     "page",
		Name:     pm.Name,
		Title:    pm.Title,
		Brief:    pm.Brief,
		Detailed: string(body),
		Location: &Location{File: name},
	}, nil
}

// splitFrontMatter separates leading front matter from the page body.
func splitFrontMatter(src []byte) (meta, body, delim []byte, ok bool) {
	openLine, openNext, found := nextLine(src, 0, true)
	if !found {
		return nil, src, nil, false
	}
	delim, isFrontMatter := parseOpeningFrontMatterDelimiter(openLine)
	if !isFrontMatter {
		return nil, src, nil, false
	}
	secondLine, _, found := nextLine(src, openNext, true)
	if !found || !frontMatterMetadataLikely(secondLine) {
		return nil, src, nil, false
	}
	closeStart, closeNext, found := findClosingFrontMatterDelimiter(src, openNext, delim)
	if !found {
		return nil, src, nil, false
	}
	return src[openNext:closeStart], src[closeNext:], delim, true
}

func nextLine(src []byte, start int, eof bool) ([]byte, int, bool) {
	if start > len(src) {
		return nil, 0, false
	}
	if start == len(src) {
		if eof {
			return src[start:], start, true
		}
		return nil, 0, false
	}
	i := bytes.IndexByte(src[start:], '\n')
	if i < 0 {
		if !eof {
			return nil, 0, false
		}
		return trimCR(src[start:]), len(src), true
	}
	lineEnd := start + i
	return trimCR(src[start:lineEnd]), lineEnd + 1, true
}

func parseOpeningFrontMatterDelimiter(line []byte) ([]byte, bool) {
	trimmed := bytes.TrimSpace(trimBOM(line))
	switch {
	case bytes.Equal(trimmed, []byte("---")):
		return []byte("---"), true
	case bytes.Equal(trimmed, []byte("+++")):
		return []byte("+++"), true
	case bytes.Equal(trimmed, []byte(";;;")):
		return []byte(";;;"), true
	default:
		return nil, false
	}
}

func frontMatterMetadataLikely(line []byte) bool {
	trimmed := bytes.TrimSpace(line)
	if len(trimmed) == 0 {
		return false
	}
	if bytes.HasPrefix(trimmed, []byte("{")) || bytes.HasPrefix(trimmed, []byte("[")) {
		return true
	}
	return bytes.Contains(trimmed, []byte(":")) || bytes.Contains(trimmed, []byte("="))
}

// findClosingFrontMatterDelimiter returns the offsets of the closing
// delimiter line and of the line after it.
func findClosingFrontMatterDelimiter(src []byte, start int, delim []byte) (int, int, bool) {
	for idx := start; idx < len(src); {
		line, next, ok := nextLine(src, idx, true)
		if !ok {
			return 0, 0, false
		}
		if bytes.Equal(bytes.TrimSpace(line), delim) {
			return idx, next, true
		}
		if next == idx {
			return 0, 0, false
		}
		idx = next
	}
	return 0, 0, false
}

func trimCR(b []byte) []byte {
	if len(b) > 0 && b[len(b)-1] == '\r' {
		return b[:len(b)-1]
	}
	return b
}

func trimBOM(b []byte) []byte {
	if len(b) >= 3 && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		return b[3:]
	}
	return b
}

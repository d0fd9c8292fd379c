package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"pkt.systems/docxml"
)

// gen-golden regenerates testdata/*.golden from the models (.yaml) and event
// scripts (.events) next to them.
func main() {
	root := "testdata"
	var paths []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".events") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		fatalf("walk %s: %v", root, err)
	}
	if len(paths) == 0 {
		fatalf("no models or event scripts found under %s", root)
	}
	for _, path := range paths {
		src, err := os.ReadFile(path)
		if err != nil {
			fatalf("read %s: %v", path, err)
		}
		var out bytes.Buffer
		if strings.HasSuffix(path, ".events") {
			err = docxml.Render(docxml.RenderRequest{
				Reader: bytes.NewReader(src),
				Writer: &out,
				Format: docxml.FormatEvents,
			})
		} else {
			var model *docxml.Model
			model, err = docxml.ParseModel(src)
			if err == nil {
				err = docxml.Generate(context.Background(), docxml.GenerateRequest{
					Model:   model,
					Writer:  &out,
					Options: []docxml.Option{docxml.WithWorkers(1)},
				})
			}
		}
		if err != nil {
			fatalf("render %s: %v", path, err)
		}
		goldenPath := goldenPath(path)
		if err := os.WriteFile(goldenPath, out.Bytes(), 0o644); err != nil {
			fatalf("write %s: %v", goldenPath, err)
		}
		fmt.Fprintf(os.Stdout, "wrote %s\n", goldenPath)
	}
}

func goldenPath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ".golden"
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

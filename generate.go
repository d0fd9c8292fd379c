package docxml

import (
	"context"
	"fmt"
	"io"
	"runtime"

	"golang.org/x/sync/errgroup"
)

const (
	documentHeader = "<?xml version='1.0' encoding='UTF-8' standalone='yes'?>\n<doxygen>\n"
	documentFooter = "</doxygen>\n"
)

// GenerateRequest configures Generate.
type GenerateRequest struct {
	Model   *Model
	Writer  io.Writer
	Options []Option
	// OnRecord, if set, is called after each record is written, in document
	// order and from a single goroutine.
	OnRecord func(RecordInfo)
}

// RecordInfo describes one compound record written by Generate.
type RecordInfo struct {
	ID   string
	Kind string
	Name string
	Size int
}

// Generate writes the XML document for a model: one compound record per
// class, namespace, file, group and page, in that order and otherwise in
// model order. Compounds are rendered concurrently (see WithWorkers) but
// streamed to the writer strictly in order; at most one finished record per
// worker is buffered.
//
// Without WithResolver, identifiers in types, initializers and listings are
// linked through the model's own names.
func Generate(ctx context.Context, req GenerateRequest) error {
	if req.Model == nil {
		return fmt.Errorf("generate: model is nil")
	}
	if req.Writer == nil {
		return fmt.Errorf("generate: writer is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("generate: %w", err)
	}
	cfg := newConfig(req.Options)
	if cfg.resolver == nil {
		cfg.resolver = req.Model.resolver(cfg.caseSensitive)
	}
	workers := cfg.workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	compounds := req.Model.renderable()
	cfg.logger.Debug("generate", "compounds", len(compounds), "workers", workers)

	g, gctx := errgroup.WithContext(ctx)
	// sem is released by the writer, which bounds rendered but unwritten records.
	sem := make(chan struct{}, workers)
	slots := make([]chan *Emitter, len(compounds))
	for i := range slots {
		slots[i] = make(chan *Emitter, 1)
	}

	g.Go(func() error {
		for i, c := range compounds {
			select {
			case sem <- struct{}{}:
			case <-gctx.Done():
				return gctx.Err()
			}
			g.Go(func() error {
				e := getEmitter(cfg)
				if err := e.WriteCompound(c); err != nil {
					putEmitter(e)
					return err
				}
				slots[i] <- e
				return nil
			})
		}
		return nil
	})

	g.Go(func() error {
		if _, err := io.WriteString(req.Writer, documentHeader); err != nil {
			return fmt.Errorf("write: %w", err)
		}
		for i := range slots {
			var e *Emitter
			select {
			case e = <-slots[i]:
			case <-gctx.Done():
				return gctx.Err()
			}
			n, err := e.WriteTo(req.Writer)
			id := e.compoundID(compounds[i])
			putEmitter(e)
			<-sem
			if err != nil {
				return fmt.Errorf("write: %w", err)
			}
			if req.OnRecord != nil {
				c := compounds[i]
				req.OnRecord(RecordInfo{ID: id, Kind: c.Kind, Name: c.Name, Size: int(n)})
			}
		}
		if _, err := io.WriteString(req.Writer, documentFooter); err != nil {
			return fmt.Errorf("write: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("generate: %w", err)
	}
	return nil
}

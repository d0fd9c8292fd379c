package docxml

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// maxModelBytes caps a model fetched over HTTP.
const maxModelBytes = 64 << 20

// HTTPGenerateRequest configures HTTPGenerate.
type HTTPGenerateRequest struct {
	URL     string
	Client  *http.Client
	Writer  io.Writer
	Options []Option
}

// HTTPGenerate fetches a YAML documentation model over HTTP(S) and writes
// its XML document.
func HTTPGenerate(ctx context.Context, req HTTPGenerateRequest) error {
	if req.URL == "" {
		return fmt.Errorf("generate http: URL is required")
	}
	if req.Writer == nil {
		return fmt.Errorf("generate http: Writer is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	model, err := FetchModel(ctx, req.Client, req.URL)
	if err != nil {
		return fmt.Errorf("generate http: %w", err)
	}
	return Generate(ctx, GenerateRequest{
		Model:   model,
		Writer:  req.Writer,
		Options: req.Options,
	})
}

// FetchModel downloads and decodes a YAML documentation model.
func FetchModel(ctx context.Context, client *http.Client, url string) (*Model, error) {
	body, err := fetch(ctx, client, url)
	if err != nil {
		return nil, err
	}
	return ParseModel(body)
}

func fetch(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if httpReq.URL.Scheme != "http" && httpReq.URL.Scheme != "https" {
		return nil, fmt.Errorf("unsupported scheme %q", httpReq.URL.Scheme)
	}
	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("status %s", resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxModelBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(body) > maxModelBytes {
		return nil, fmt.Errorf("body exceeds %d bytes", maxModelBytes)
	}
	return body, nil
}

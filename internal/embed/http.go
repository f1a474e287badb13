package embed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// DefaultEmbedServerHost and DefaultEmbedServerPort locate the external
// embedding-model runtime. The runtime itself (model loading, batching,
// GPU/CPU dispatch) is an out-of-scope black box; this package only speaks
// its HTTP contract.
const (
	DefaultEmbedServerHost = "127.0.0.1"
	DefaultEmbedServerPort = 8121
)

// httpProvider calls an external embedding model runtime over HTTP.
// It assumes the server is already running and model-ready; starting,
// downloading, or supervising that process is outside this package's
// responsibility.
type httpProvider struct {
	endpoint   string
	dimensions int
	client     *http.Client
}

// newHTTPProvider creates a Provider backed by an HTTP embedding endpoint.
func newHTTPProvider(endpoint string, dimensions int) *httpProvider {
	return &httpProvider{
		endpoint:   endpoint,
		dimensions: dimensions,
		client:     &http.Client{Timeout: 30 * time.Second},
	}
}

type embedRequest struct {
	Texts []string `json:"texts"`
	Mode  string   `json:"mode"`
}

type embedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
}

// Embed posts texts to the external runtime and returns its vectors verbatim.
func (p *httpProvider) Embed(ctx context.Context, texts []string, mode EmbedMode) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	body, err := json.Marshal(embedRequest{Texts: texts, Mode: string(mode)})
	if err != nil {
		return nil, fmt.Errorf("encode embed request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build embed request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embedding runtime unreachable at %s: %w", p.endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("embedding runtime returned status %d", resp.StatusCode)
	}

	var out embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode embed response: %w", err)
	}
	if len(out.Embeddings) != len(texts) {
		return nil, fmt.Errorf("embedding runtime returned %d vectors for %d texts", len(out.Embeddings), len(texts))
	}

	return out.Embeddings, nil
}

// Dimensions returns the configured vector width for this endpoint.
func (p *httpProvider) Dimensions() int {
	return p.dimensions
}

// Close is a no-op: the runtime process is managed externally.
func (p *httpProvider) Close() error {
	return nil
}

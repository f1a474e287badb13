package embed

import "fmt"

// Config contains configuration for creating an embedding provider.
type Config struct {
	// Provider specifies which embedding provider to use ("http", "mock").
	Provider string

	// Endpoint is the URL for the external embedding runtime (http provider).
	Endpoint string

	// Dimensions is the vector width the configured model produces.
	Dimensions int

	// Model is the embedding model identifier, persisted alongside each
	// module's chunk payloads so a model change can be detected.
	Model string
}

// NewProvider creates an embedding provider based on the configuration.
// The embedding model runtime itself is an external collaborator; this
// factory only selects how to reach it.
func NewProvider(config Config) (Provider, error) {
	switch config.Provider {
	case "http", "": // empty defaults to http
		endpoint := config.Endpoint
		if endpoint == "" {
			endpoint = fmt.Sprintf("http://%s:%d/embed", DefaultEmbedServerHost, DefaultEmbedServerPort)
		}
		dims := config.Dimensions
		if dims == 0 {
			dims = 384
		}
		return newHTTPProvider(endpoint, dims), nil

	case "mock": // for testing
		return NewMockProvider(), nil

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s (supported: http, mock)", config.Provider)
	}
}

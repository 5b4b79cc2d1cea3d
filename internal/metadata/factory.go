package metadata

import (
	"fmt"

	"github.com/bookfriends/server/internal/config"
)

// NewProvider builds the provider client selected by configuration.
func NewProvider(cfg config.Provider) (Provider, error) {
	opts := ClientOptions{
		BaseURL:           cfg.BaseURL,
		Timeout:           cfg.Timeout,
		RequestsPerSecond: cfg.RequestsPerSecond,
		Burst:             cfg.Burst,
		UserAgent:         cfg.UserAgent,
	}

	switch cfg.Kind {
	case "", config.ProviderProxy:
		if cfg.BaseURL == "" {
			return nil, fmt.Errorf("provider base URL is required for the book proxy")
		}
		return NewProxyClient(opts), nil
	case config.ProviderOpenLibrary:
		return NewOpenLibraryClient(opts), nil
	default:
		return nil, fmt.Errorf("unknown metadata provider %q", cfg.Kind)
	}
}

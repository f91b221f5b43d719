package adapter

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/user/hx-chapters/internal/adapter/jsonplaceholder"
	"github.com/user/hx-chapters/internal/config"
	"github.com/user/hx-chapters/internal/directory"
)

// NewSource builds the upstream named by cfg.Source.
func NewSource(cfg config.UpstreamConfig, logger zerolog.Logger) (directory.Source, error) {
	switch cfg.Source {
	case "", "jsonplaceholder":
		return jsonplaceholder.New(cfg.BaseURL, cfg.Timeout, logger), nil
	default:
		return nil, fmt.Errorf("unknown upstream source %q", cfg.Source)
	}
}

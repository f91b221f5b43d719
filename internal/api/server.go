package api

import (
	"context"
	"net"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/user/hx-chapters/internal/config"
	"github.com/user/hx-chapters/internal/directory"
	"github.com/user/hx-chapters/internal/profile"
	"github.com/user/hx-chapters/internal/ticker"
)

type Server struct {
	config   *config.Config
	source   directory.Source
	fetcher  *directory.Fetcher
	ticker   *ticker.Ticker
	profiles *profile.Store
	logger   zerolog.Logger
	server   *http.Server
}

func NewServer(cfg *config.Config, source directory.Source, logger zerolog.Logger) *Server {
	s := &Server{
		config: cfg,
		source: source,
		fetcher: directory.NewFetcher(source, cfg.Cache.TTL,
			directory.WithTimeout(cfg.Upstream.Timeout),
			directory.WithLogger(logger.With().Str("component", "directory").Logger()),
		),
		ticker:   ticker.New(ticker.StartPrice),
		profiles: profile.NewStore(profile.Default),
		logger:   logger,
	}

	mux := http.NewServeMux()
	s.registerHandlers(mux)

	s.server = &http.Server{
		Addr: net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler: chain(mux,
			RequestIDMiddleware(),
			LoggingMiddleware(logger),
			RecoveryMiddleware(logger),
		),
	}

	return s
}

func (s *Server) Addr() string {
	return s.server.Addr
}

func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

func (s *Server) Fetcher() *directory.Fetcher {
	return s.fetcher
}

func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.server.Addr).Msg("starting API server")
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

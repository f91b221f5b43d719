package cli

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/user/hx-chapters/internal/adapter"
	"github.com/user/hx-chapters/internal/config"
	"github.com/user/hx-chapters/internal/directory"
	"github.com/user/hx-chapters/internal/logging"
)

var (
	cfgFile  string
	logLevel string
	rootCmd  = &cobra.Command{
		Use:          "hx-chapters",
		Short:        "Hypermedia tutorial server",
		Long:         `Serves the HTML fragments behind the htmx tutorial chapters: user listing, BMI, price ticker, live search, form validation and an inline profile editor.`,
		SilenceUsage: true,
	}
)

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/hx-chapters/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log.level (debug, info, warn, error)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(usersCmd)
	rootCmd.AddCommand(configCmd)
}

func setup(cmd *cobra.Command) (*config.Config, zerolog.Logger, directory.Source, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, zerolog.Nop(), nil, fmt.Errorf("failed to load config: %w", err)
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	logger := logging.New(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cmd.ErrOrStderr(),
	})

	source, err := adapter.NewSource(cfg.Upstream, logger.With().Str("component", "upstream").Logger())
	if err != nil {
		return nil, logger, nil, err
	}

	return cfg, logger, source, nil
}

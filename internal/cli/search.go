package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"
	"github.com/user/hx-chapters/internal/directory"
)

func init() {
	searchCmd.Flags().BoolP("json", "j", false, "Output as JSON")
}

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search upstream users by name, email or username",
	Args:  cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, source, err := setup(cmd)
		if err != nil {
			return err
		}

		fetcher := directory.NewFetcher(source, cfg.Cache.TTL,
			directory.WithTimeout(cfg.Upstream.Timeout),
			directory.WithLogger(logger),
		)

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Upstream.Timeout)
		defer cancel()

		result := fetcher.Search(ctx, strings.Join(args, " "))

		jsonOutput, _ := cmd.Flags().GetBool("json")
		if jsonOutput {
			return PrintJSON(cmd.OutOrStdout(), result)
		}
		return PrintSearch(cmd.OutOrStdout(), result)
	},
}

package cli

import (
	"context"

	"github.com/spf13/cobra"
)

func init() {
	usersCmd.Flags().IntP("limit", "l", 0, "Maximum number of users (default users.default_limit)")
	usersCmd.Flags().BoolP("json", "j", false, "Output as JSON")
}

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "List upstream users",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, source, err := setup(cmd)
		if err != nil {
			return err
		}

		limit, _ := cmd.Flags().GetInt("limit")
		if limit <= 0 {
			limit = cfg.Users.DefaultLimit
		}

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Upstream.Timeout)
		defer cancel()

		users, err := source.FetchUsers(ctx, limit)
		if err != nil {
			return err
		}

		jsonOutput, _ := cmd.Flags().GetBool("json")
		if jsonOutput {
			return PrintJSON(cmd.OutOrStdout(), users)
		}
		return PrintUsers(cmd.OutOrStdout(), "Users", users, "")
	},
}

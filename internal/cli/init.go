package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/recipebump/internal/config"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	var upstream, repoPath, baseBranch, token string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the recipebump configuration",
		Long: `Write .recipebump/config.json in the current directory.

Examples:
  recipebump init --upstream example/recipes
  recipebump init --upstream example/recipes --repo ~/src/recipes --token ghp_...`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if upstream == "" {
				return fmt.Errorf("--upstream is required (owner/name of the recipes repository)")
			}

			dir, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}

			cfg := &config.Config{
				Version:      "1",
				UpstreamRepo: upstream,
				RepoPath:     repoPath,
				BaseBranch:   baseBranch,
				HostToken:    token,
			}
			if err := config.SaveConfig(dir, cfg); err != nil {
				return fmt.Errorf("failed to write config: %w", err)
			}

			fmt.Printf("✓ Wrote %s/.recipebump/config.json\n", dir)
			fmt.Println()
			fmt.Println("Next steps:")
			fmt.Println("  recipebump doctor")
			fmt.Println("  recipebump bump <name> --url <new-source-url>")

			return nil
		},
	}

	cmd.Flags().StringVar(&upstream, "upstream", "", "Upstream recipes repository as owner/name (required)")
	cmd.Flags().StringVar(&repoPath, "repo", "", "Local recipes checkout (default: current directory)")
	cmd.Flags().StringVar(&baseBranch, "base", "", "Proposal target branch (default: main)")
	cmd.Flags().StringVar(&token, "token", "", "Code-host API token")

	return cmd
}

// Package cli provides CLI commands for the recipebump application.
package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/recipebump/internal/ports/primary"
	"github.com/example/recipebump/internal/wire"
)

// BumpCmd returns the bump command, the tool's main entry point.
func BumpCmd() *cobra.Command {
	var req primary.BumpRequest

	cmd := &cobra.Command{
		Use:   "bump [name-or-path]",
		Short: "Bump a recipe declaration to a new upstream version",
		Long: `Bump a recipe declaration to a new upstream version and open a change
proposal against the upstream recipes repository.

For URL/sha256 declarations pass --url (the hash is computed by downloading
the source unless --sha256 is also given). For tag/revision declarations
pass --tag and --revision.

Examples:
  recipebump bump wget --url https://ftp.gnu.org/gnu/wget/wget-1.22.tar.gz
  recipebump bump wget --url https://... --sha256 abc123... --dry-run
  recipebump bump gitpick --tag v1.0.0 --revision f5c0b1a...
  recipebump bump wget --devel --url https://... --set-version 1.22-rc1
  recipebump bump wget --url https://... --write   # patch only, no PR`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Target = args[0]
			if err := validateBumpRequest(&req); err != nil {
				return err
			}

			resp, err := wire.BumpService().Bump(cmd.Context(), req)
			if err != nil {
				return err
			}

			for _, note := range resp.Notes {
				fmt.Println(color.New(color.FgYellow).Sprintf("⚠ %s", note))
			}
			for _, dup := range resp.Duplicates {
				fmt.Println(color.New(color.FgYellow).Sprintf("⚠ open proposal may already cover %s: %s (%s)",
					resp.Name, dup.Title, dup.URL))
			}

			if req.DryRun {
				fmt.Printf("==> %s: %s -> %s (dry run)\n", resp.Name, resp.OldVersion, resp.NewVersion)
				fmt.Print(resp.Preview)
				return nil
			}

			fmt.Printf("✓ Patched %s: %s -> %s\n", resp.Name, resp.OldVersion, resp.NewVersion)
			if resp.AliasRename != nil {
				fmt.Printf("  Alias: %s -> %s\n", resp.AliasRename.Old, resp.AliasRename.New)
			}
			if req.WriteOnly {
				return nil
			}

			fmt.Printf("  Branch: %s\n", resp.Branch)
			fmt.Printf("  Proposal: %s\n", resp.ProposalURL)
			if req.Browse {
				if err := openInBrowser(resp.ProposalURL); err != nil {
					fmt.Println(color.New(color.FgYellow).Sprintf("⚠ could not open browser: %v", err))
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&req.Devel, "devel", false, "Bump the devel spec instead of stable")
	cmd.Flags().BoolVarP(&req.DryRun, "dry-run", "n", false, "Print the patched declaration without writing it")
	cmd.Flags().BoolVar(&req.WriteOnly, "write", false, "Patch the file but skip git and proposal creation")
	cmd.Flags().StringVar(&req.URL, "url", "", "New source URL")
	cmd.Flags().StringVar(&req.Sha256, "sha256", "", "sha256 of the new source (computed from --url when omitted)")
	cmd.Flags().StringVar(&req.Tag, "tag", "", "New source tag")
	cmd.Flags().StringVar(&req.Revision, "revision", "", "New source revision for --tag")
	cmd.Flags().StringVar(&req.Mirror, "mirror", "", "New mirror URL (auto-derived for known hosts when omitted)")
	cmd.Flags().StringVar(&req.Version, "set-version", "", `Force the version override ("0" removes an existing one)`)
	cmd.Flags().StringVarP(&req.Message, "message", "m", "", "Commit and proposal message (default: \"{name} {version}\")")
	cmd.Flags().BoolVar(&req.SkipAudit, "no-audit", false, "Skip the audit pass on the patched declaration")
	cmd.Flags().BoolVar(&req.StrictAudit, "strict-audit", false, "Run the audit pass in strict mode")
	cmd.Flags().BoolVar(&req.SkipFork, "no-fork", false, "Push to origin instead of a personal fork")
	cmd.Flags().BoolVar(&req.Browse, "browse", false, "Open the created proposal in a browser")
	cmd.Flags().BoolVarP(&req.Force, "force", "f", false, "Ignore open proposals that already mention the declaration")
	cmd.Flags().BoolVarP(&req.Quiet, "quiet", "q", false, "Suppress the duplicate-proposal listing")

	return cmd
}

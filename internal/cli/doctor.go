package cli

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/recipebump/internal/adapters/auditcmd"
	"github.com/example/recipebump/internal/config"
)

// CheckResult represents the outcome of a single check
type CheckResult struct {
	Name    string
	Status  string // "✓", "⚠", "✗"
	Details string // Only shown if Status != "✓"
}

// DoctorCmd returns the doctor command for environment validation
func DoctorCmd() *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Validate the recipebump environment",
		Long: `Environment health check for recipebump.

Validates:
- Configuration (.recipebump/config.json)
- Recipes repository checkout
- git availability
- Audit tool availability
- Code-host token presence

Examples:
  recipebump doctor           # Run full health check
  recipebump doctor --quiet   # Exit code only (0=healthy, 1=issues)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, cfgResult := checkConfig()

			results := []CheckResult{cfgResult}
			results = append(results, checkRepo(cfg))
			results = append(results, checkGit())
			results = append(results, checkAuditTool(cfg))
			results = append(results, checkToken(cfg))

			hasErrors := false
			for _, r := range results {
				if r.Status == "✗" {
					hasErrors = true
					break
				}
			}

			if !quiet {
				fmt.Println()
				fmt.Println("Check              Status")
				fmt.Println("─────────────────────────")
				for _, r := range results {
					fmt.Printf("%-18s %s\n", r.Name, r.Status)
				}
				fmt.Println()

				hasDetails := false
				for _, r := range results {
					if r.Status != "✓" && r.Details != "" {
						if !hasDetails {
							fmt.Println("Details:")
							hasDetails = true
						}
						fmt.Printf("\n%s:\n%s\n", r.Name, r.Details)
					}
				}

				if hasErrors {
					fmt.Println("\n⚠ Issues found.")
				} else {
					fmt.Println("All checks passed.")
				}
			}

			if hasErrors {
				return fmt.Errorf("environment validation failed")
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Quiet mode - exit code only")

	return cmd
}

// checkConfig loads the configuration; a missing config fails every later
// check, so the loaded value is handed back for reuse.
func checkConfig() (*config.Config, CheckResult) {
	dir, err := os.Getwd()
	if err != nil {
		return nil, CheckResult{Name: "Config", Status: "✗", Details: "  Cannot get working directory"}
	}

	cfg, err := config.LoadConfig(dir)
	if err != nil {
		home, homeErr := os.UserHomeDir()
		if homeErr == nil {
			cfg, err = config.LoadConfig(home)
		}
	}
	if err != nil {
		return nil, CheckResult{
			Name:    "Config",
			Status:  "✗",
			Details: "  No .recipebump/config.json found\n  Run: recipebump init --upstream owner/recipes",
		}
	}

	if cfg.UpstreamRepo == "" {
		return cfg, CheckResult{Name: "Config", Status: "✗", Details: "  upstream_repo is not set"}
	}
	return cfg, CheckResult{Name: "Config", Status: "✓"}
}

// checkRepo validates the recipes checkout and its Recipes directory
func checkRepo(cfg *config.Config) CheckResult {
	if cfg == nil {
		return CheckResult{Name: "Recipes Repo", Status: "✗", Details: "  No configuration loaded"}
	}

	if _, err := os.Stat(cfg.RepoPath); err != nil {
		return CheckResult{
			Name:    "Recipes Repo",
			Status:  "✗",
			Details: fmt.Sprintf("  %s not found", cfg.RepoPath),
		}
	}
	if _, err := os.Stat(filepath.Join(cfg.RepoPath, ".git")); err != nil {
		return CheckResult{
			Name:    "Recipes Repo",
			Status:  "⚠",
			Details: fmt.Sprintf("  %s is not a git checkout", cfg.RepoPath),
		}
	}
	if _, err := os.Stat(filepath.Join(cfg.RepoPath, "Recipes")); err != nil {
		return CheckResult{
			Name:    "Recipes Repo",
			Status:  "⚠",
			Details: "  No Recipes/ directory; bumps must name declaration paths explicitly",
		}
	}
	return CheckResult{Name: "Recipes Repo", Status: "✓"}
}

// checkGit validates that git is installed
func checkGit() CheckResult {
	path, err := exec.LookPath("git")
	if err != nil {
		return CheckResult{Name: "Git", Status: "✗", Details: "  'git' not found in PATH"}
	}
	return CheckResult{Name: "Git", Status: "✓", Details: "  " + path}
}

// checkAuditTool validates the configured audit command
func checkAuditTool(cfg *config.Config) CheckResult {
	command := auditcmd.DefaultCommand
	if cfg != nil && cfg.AuditCommand != "" {
		command = strings.Fields(cfg.AuditCommand)[0]
	}

	if _, err := exec.LookPath(command); err != nil {
		return CheckResult{
			Name:    "Audit Tool",
			Status:  "⚠",
			Details: fmt.Sprintf("  %q not found in PATH; bumps will need --no-audit", command),
		}
	}
	return CheckResult{Name: "Audit Tool", Status: "✓"}
}

// checkToken validates code-host token presence, not validity
func checkToken(cfg *config.Config) CheckResult {
	if cfg == nil || cfg.HostToken == "" {
		return CheckResult{
			Name:    "Host Token",
			Status:  "⚠",
			Details: "  host_token is not set; only --dry-run and --write bumps will work",
		}
	}
	return CheckResult{Name: "Host Token", Status: "✓"}
}

package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"

	"github.com/spf13/cobra"
)

const chglogInstall = "go install github.com/git-chglog/git-chglog/cmd/git-chglog@latest"

func chglogArgs(next, output, tag string) []string {
	if output == "" {
		output = "CHANGELOG.md"
	}
	var args []string
	if next != "" {
		args = append(args, "--next-tag", next)
	}
	args = append(args, "--output", output)
	if tag != "" {
		args = append(args, tag)
	}
	return args
}

func ChangelogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "changelog",
		Short: "Regenerate CHANGELOG.md from conventional commits",
		Long: `Runs git-chglog over the git history. Commit subjects are expected as
<type>[scope]: <description>, e.g. "fix(i2c): re-apply address before reads".

Install git-chglog with:
  ` + chglogInstall,
		Example: "  dev changelog --next v0.2.0",
		RunE: func(cmd *cobra.Command, args []string) error {
			next, _ := cmd.Flags().GetString("next")
			output, _ := cmd.Flags().GetString("output")
			tag, _ := cmd.Flags().GetString("tag")

			if _, err := exec.LookPath("git-chglog"); err != nil {
				slog.Error("git-chglog not found in PATH", "install", chglogInstall)
				return fmt.Errorf("git-chglog not installed: %w", err)
			}

			chglog := exec.CommandContext(cmd.Context(), "git-chglog", chglogArgs(next, output, tag)...)
			chglog.Stdout = os.Stdout
			chglog.Stderr = os.Stderr
			slog.Info("generating changelog", "args", chglog.Args[1:])
			if err := chglog.Run(); err != nil {
				return fmt.Errorf("failed to generate changelog: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().String("next", "", "tag of the upcoming release, e.g. v0.2.0")
	cmd.Flags().String("output", "CHANGELOG.md", "output file")
	cmd.Flags().String("tag", "", "limit the changelog to a single tag")
	return cmd
}

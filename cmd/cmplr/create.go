// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"cmplr-cli/internal/issue"
	"cmplr-cli/internal/scaffold"

	"github.com/spf13/cobra"
)

// createCmd scaffolds a new package skeleton.
var createCmd = &cobra.Command{
	Use:   "create [project-name]",
	Short: "Scaffold a new TypeScript package",
	Long: `Scaffold a new TypeScript package.

This creates the project directory with a src/ subdirectory, a package.json
(or merges build/test scripts into an existing one), an opinionated
tsconfig.json, an empty src/index.ts, and a starter test file, then installs
the initial dependencies. Existing files are never overwritten.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCreate,
}

func init() {
	createCmd.Flags().StringVar(&installerCmd, "installer-cmd", "", "override the package installer command (default: npm)")
}

func runCreate(cmd *cobra.Command, args []string) error {
	cfg := loadToolConfig()

	name := ""
	if len(args) > 0 {
		name = args[0]
	}

	installer := cfg.Tools.Installer
	if installerCmd != "" {
		installer = installerCmd
	}

	s := scaffold.New(scaffold.Options{
		Name:         name,
		InstallerCmd: installer,
	})
	if err := s.Create(cmd.Context()); err != nil {
		return fatal(err, 0)
	}
	if s.InstallFailed() {
		renderIssueHelp(issue.InstallFailedId)
	}

	target := name
	if target == "" {
		target = "."
	}
	fmt.Printf("%s Created package skeleton in %s\n", SuccessStyle.Render("✓"), target)
	fmt.Println()
	fmt.Println(SubtitleStyle.Render("Next steps:"))
	if name != "" {
		fmt.Println("  1. cd " + name)
		fmt.Println("  2. Add your code to " + CmdStyle.Render("src/index.ts"))
		fmt.Println("  3. Run " + CmdStyle.Render("cmplr") + " to build")
	} else {
		fmt.Println("  1. Add your code to " + CmdStyle.Render("src/index.ts"))
		fmt.Println("  2. Run " + CmdStyle.Render("cmplr") + " to build")
	}

	return nil
}

package cmd

import (
	"fmt"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/nxtstudios/appship/internal/config"
	"github.com/nxtstudios/appship/internal/workspace"
)

var (
	cleanProject string
	cleanYes     bool
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove build and dist directories",
	Long: `Remove the pipeline's build-output and final-output directories.

The release pipeline cleans these automatically at the start of every run;
this command is for reclaiming disk space between releases. Deletion is
irreversible, so it asks for confirmation unless --yes is given.`,
	RunE: runClean,
}

func init() {
	rootCmd.AddCommand(cleanCmd)
	cleanCmd.Flags().StringVarP(&cleanProject, "project", "p", "", "Application project root (default: current directory)")
	cleanCmd.Flags().BoolVarP(&cleanYes, "yes", "y", false, "Skip the confirmation prompt")
}

func runClean(cmd *cobra.Command, args []string) error {
	root, err := projectRoot(cleanProject)
	if err != nil {
		return err
	}

	cfg, err := config.Load(root)
	if err != nil {
		return err
	}

	cleaner := workspace.NewCleaner(root, cfg.Output.BuildDir, cfg.Output.DistDir)

	existing := cleaner.Existing()
	if len(existing) == 0 {
		fmt.Println("✨ Workspace already clean")
		return nil
	}

	if !cleanYes {
		fmt.Println("The following directories will be removed:")
		for _, dir := range existing {
			fmt.Printf("   - %s\n", dir)
		}

		prompt := promptui.Prompt{
			Label:     "Remove these directories",
			IsConfirm: true,
		}
		if _, err := prompt.Run(); err != nil {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	if err := cleaner.Clean(); err != nil {
		return err
	}

	fmt.Println("✅ Workspace cleaned")
	return nil
}

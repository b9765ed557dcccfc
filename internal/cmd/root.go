package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "appship",
	Short: "appship - release packaging for the NXT Scanner app",
	Long: `appship turns the NXT Scanner source tree into a signed, distributable
disk image. One command resolves the version, cleans the workspace, verifies
the toolchain, bundles the app with py2app, signs it and wraps it in a .dmg.

Every stage must succeed before the next one runs; the first failure aborts
the release.`,
	Version: "1.2.0",
}

func Execute() error {
	return rootCmd.Execute()
}

// projectRoot resolves the application project directory for a command.
// An empty flag value means the current directory.
func projectRoot(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}
	return dir, nil
}

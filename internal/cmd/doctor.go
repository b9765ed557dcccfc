package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nxtstudios/appship/internal/py2app"
	"github.com/nxtstudios/appship/internal/tools"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that every external tool the pipeline needs is available",
	Long: `Report the availability of the external toolchain without installing
anything or touching the workspace. Each missing tool is listed with the
command that installs it.

py2app is the only tool the release pipeline installs on its own; everything
else must be installed by the operator.`,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	fmt.Println("🔍 Checking release toolchain...")
	fmt.Println()

	verifier := tools.NewVerifier(py2app.NewInstaller(false))

	missing := 0
	for _, status := range verifier.Report(ctx) {
		if status.Present {
			if status.Path != "" {
				fmt.Printf("  ✅ %-12s %s\n", status.Name, status.Path)
			} else {
				fmt.Printf("  ✅ %-12s\n", status.Name)
			}
			continue
		}

		missing++
		fmt.Printf("  ❌ %-12s missing — install with: %s\n", status.Name, status.Remedy)
	}

	fmt.Println()
	if missing > 0 {
		return fmt.Errorf("%d tool(s) missing", missing)
	}

	fmt.Println("✅ All tools present. Ready to release.")
	return nil
}

package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nxtstudios/appship/internal/config"
	"github.com/nxtstudios/appship/internal/pipeline"
	"github.com/nxtstudios/appship/internal/watch"
)

var (
	releaseVerbose bool
	releaseProject string
	releaseWatch   bool
)

var releaseCmd = &cobra.Command{
	Use:   "release",
	Short: "Build, sign and package a release disk image",
	Long: `Run the full release pipeline:

  1. Resolve the version from the app's __version__ declaration
  2. Clean the build and dist directories
  3. Verify the external toolchain (installs py2app if missing)
  4. Bundle the app with py2app
  5. Ad-hoc sign the bundle
  6. Wrap the signed bundle into <AppName>-<version>.dmg

Examples:
  appship release                  # Release from the current directory
  appship release --verbose        # Stream the full tool output
  appship release --watch          # Rebuild whenever sources change`,
	RunE: runRelease,
}

func init() {
	rootCmd.AddCommand(releaseCmd)
	releaseCmd.Flags().BoolVarP(&releaseVerbose, "verbose", "v", false, "Show full output of the underlying tools")
	releaseCmd.Flags().StringVarP(&releaseProject, "project", "p", "", "Application project root (default: current directory)")
	releaseCmd.Flags().BoolVarP(&releaseWatch, "watch", "w", false, "Re-run the pipeline when sources change")
}

func runRelease(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root, err := projectRoot(releaseProject)
	if err != nil {
		return err
	}

	cfg, err := config.Load(root)
	if err != nil {
		return err
	}

	if !releaseWatch {
		_, err := pipeline.NewDefault(root, cfg, releaseVerbose).Run(ctx)
		return err
	}

	return watchAndRelease(ctx, root, cfg)
}

// watchAndRelease runs the pipeline once, then again after every debounced
// source change. A failed run is reported but keeps the watch alive; the
// next change gets a fresh attempt.
func watchAndRelease(ctx context.Context, root string, cfg *config.Config) error {
	watcher, err := watch.New(watch.DefaultConfig(root, cfg.Output.BuildDir, cfg.Output.DistDir))
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Start(ctx); err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	runOnce := func() {
		if _, err := pipeline.NewDefault(root, cfg, releaseVerbose).Run(ctx); err != nil {
			fmt.Printf("❌ Release failed: %v\n", err)
		}
	}

	runOnce()
	fmt.Println("👀 Watching for source changes (ctrl-c to stop)...")

	for {
		select {
		case <-ctx.Done():
			fmt.Println("\nStopped.")
			return nil
		case path := <-watcher.Triggers():
			fmt.Printf("\n🔁 Change detected: %s\n", path)
			runOnce()
			fmt.Println("👀 Watching for source changes (ctrl-c to stop)...")
		case err := <-watcher.Errors():
			fmt.Printf("⚠️  Watcher error: %v\n", err)
		}
	}
}

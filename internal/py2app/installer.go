package py2app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
)

// Installer handles py2app installation through pip.
type Installer struct {
	python  string
	verbose bool
}

// NewInstaller creates a new py2app installer.
func NewInstaller(verbose bool) *Installer {
	return &Installer{
		python:  "python3",
		verbose: verbose,
	}
}

// IsInstalled checks whether py2app is importable by the interpreter that
// will run the packaging step. A PATH lookup is not enough: pip installs
// into a specific interpreter's site-packages.
func (i *Installer) IsInstalled(ctx context.Context) bool {
	cmd := exec.CommandContext(ctx, i.python, "-c", "import py2app")
	return cmd.Run() == nil
}

// Install installs py2app quietly via pip.
func (i *Installer) Install(ctx context.Context) error {
	fmt.Println("📦 Installing py2app...")

	cmd := exec.CommandContext(ctx, i.python, "-m", "pip", "install", "--quiet", "py2app")

	if i.verbose {
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		if err := cmd.Run(); err != nil {
			return fmt.Errorf("pip install py2app failed: %w", err)
		}
	} else {
		if err := i.runWithSpinner(cmd); err != nil {
			return err
		}
	}

	fmt.Println("✅ py2app installed successfully!")
	return nil
}

// runWithSpinner runs pip behind an indeterminate progress bar, ticking
// once per output line so the operator sees movement on slow installs.
func (i *Installer) runWithSpinner(cmd *exec.Cmd) error {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription("Installing py2app"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(os.Stderr, "\n")
		}),
	)

	pr, pw := io.Pipe()
	cmd.Stdout = pw
	cmd.Stderr = pw

	var tail []string
	done := make(chan struct{})
	go func() {
		defer close(done)
		scanner := bufio.NewScanner(pr)
		for scanner.Scan() {
			_ = bar.Add(1)
			tail = append(tail, scanner.Text())
			if len(tail) > 10 {
				tail = tail[1:]
			}
		}
	}()

	err := cmd.Run()
	pw.Close()
	<-done
	_ = bar.Finish()

	if err != nil {
		if len(tail) > 0 {
			return fmt.Errorf("pip install py2app failed: %w\n%s", err, strings.Join(tail, "\n"))
		}
		return fmt.Errorf("pip install py2app failed: %w", err)
	}

	return nil
}

// Version returns the installed py2app version.
func (i *Installer) Version(ctx context.Context) (string, error) {
	cmd := exec.CommandContext(ctx, i.python, "-c", "import py2app; print(py2app.__version__)")

	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("py2app not importable: %w", err)
	}

	return strings.TrimSpace(string(output)), nil
}

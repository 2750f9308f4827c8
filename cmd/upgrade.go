package cmd

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/wheelkit/cli/pkg/update"
)

var upgradeCmd = &cobra.Command{
	Use:     "upgrade",
	Aliases: []string{"update"},
	Short:   "Upgrade wheel to the latest release",
	Long: `Upgrade wheel to the latest release.

Supported installation methods:
  - Homebrew (brew)
  - go install

If your installation method cannot be detected, manual upgrade instructions will be provided.`,
	Args: cobra.NoArgs,
	RunE: runUpgrade,
}

func init() {
	upgradeCmd.Flags().Bool("dry-run", false, "Show what would be executed without running")
}

// UpgradeCmd replaces the running binary with the latest release.
type UpgradeCmd struct {
	releases ReleaseService
	repo     string
	detect   func() (update.InstallMethod, string)
	run      func(name string, args ...string) error
}

// UpgradeInput holds input for upgrading.
type UpgradeInput struct {
	DryRun bool
}

// Upgrade checks for a newer release and runs the upgrade command matching
// the installation method.
func (u UpgradeCmd) Upgrade(ctx context.Context, in UpgradeInput) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pterm.Info.Println("Checking for updates...")

	latestTag, releaseURL, err := u.releases.FetchLatest(ctx, u.repo)
	if err != nil {
		return fmt.Errorf("failed to check for updates: %w", err)
	}

	isNewer, err := update.IsNewerVersion(metadata.Version, latestTag)
	if err != nil {
		// Development builds have no comparable version; upgrade anyway.
		pterm.Warning.Printfln("Could not compare versions (%s vs %s): %v", metadata.Version, latestTag, err)
		pterm.Info.Println("Proceeding with upgrade...")
	} else if !isNewer {
		pterm.Success.Printfln("You are already on the latest version (%s)", strings.TrimPrefix(metadata.Version, "v"))
		return nil
	} else {
		pterm.Info.Printfln("New version available: %s → %s", strings.TrimPrefix(metadata.Version, "v"), strings.TrimPrefix(latestTag, "v"))
		if releaseURL != "" {
			pterm.Info.Printfln("Release notes: %s", releaseURL)
		}
	}

	method, binaryPath := u.detect()
	if method == update.InstallMethodUnknown {
		printManualUpgradeInstructions(u.repo, latestTag, binaryPath)
		return fmt.Errorf("could not detect installation method")
	}

	command := update.SuggestUpgradeCommand(method)
	if in.DryRun {
		pterm.Info.Printfln("Would run: %s", command)
		return nil
	}

	pterm.Info.Printfln("Upgrading via %s...", method)
	fields := strings.Fields(command)
	return u.run(fields[0], fields[1:]...)
}

func runCommand(name string, args ...string) error {
	c := exec.Command(name, args...)
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	c.Stdin = os.Stdin
	return c.Run()
}

// printManualUpgradeInstructions prints how to replace the binary by hand.
func printManualUpgradeInstructions(repo, version, binaryPath string) {
	version = strings.TrimPrefix(version, "v")
	if repo == "" {
		repo = update.DefaultRepo
	}

	downloadURL := fmt.Sprintf(
		"https://github.com/%s/releases/download/v%s/wheel_%s_%s_%s.tar.gz",
		repo, version, version, runtime.GOOS, runtime.GOARCH,
	)

	if binaryPath == "" {
		binaryPath = "/usr/local/bin/wheel"
	}

	pterm.Warning.Println("Could not detect installation method.")
	pterm.Info.Println("To upgrade manually, run:")
	pterm.Println()
	pterm.Printfln("  curl -fsSL %s -o /tmp/wheel.tar.gz", downloadURL)
	pterm.Printfln("  tar -xzf /tmp/wheel.tar.gz -C /tmp")
	pterm.Printfln("  sudo cp /tmp/wheel %s", binaryPath)
	pterm.Println()
}

func runUpgrade(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	u := UpgradeCmd{
		releases: githubReleases{},
		repo:     appConfig.Update.Repo,
		detect:   update.DetectInstallMethod,
		run:      runCommand,
	}
	return u.Upgrade(cmd.Context(), UpgradeInput{DryRun: dryRun})
}

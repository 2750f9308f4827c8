package cmd

import (
	"context"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/wheelkit/cli/pkg/update"
	"github.com/wheelkit/cli/pkg/util"
)

// ReleaseService looks up published releases.
type ReleaseService interface {
	FetchLatest(ctx context.Context, repo string) (tag, url string, err error)
}

type githubReleases struct{}

func (githubReleases) FetchLatest(ctx context.Context, repo string) (string, string, error) {
	return update.FetchLatest(ctx, repo)
}

// VersionCmd reports the build and checks for newer releases.
type VersionCmd struct {
	releases ReleaseService
	repo     string
}

// VersionInput holds input for the version command.
type VersionInput struct {
	Check bool
}

// Show prints the build metadata and, when asked, whether a newer release
// exists. Lookup failures are reported as warnings.
func (v VersionCmd) Show(ctx context.Context, in VersionInput) error {
	rows := pterm.TableData{{"Property", "Value"}}
	rows = append(rows, []string{"Version", util.OrDash(metadata.Version)})
	rows = append(rows, []string{"Commit", util.OrDash(metadata.Commit)})
	rows = append(rows, []string{"Built", util.OrDash(metadata.Date)})
	PrintTableNoPad(rows, true)

	if !in.Check {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	latest, releaseURL, err := v.releases.FetchLatest(ctx, v.repo)
	if err != nil {
		pterm.Warning.Printfln("Could not check for updates: %v", err)
		return nil
	}
	newer, err := update.IsNewerVersion(metadata.Version, latest)
	if err != nil {
		pterm.Warning.Printfln("Could not compare versions (%s vs %s): %v", metadata.Version, latest, err)
		return nil
	}
	if !newer {
		pterm.Success.Printfln("You are on the latest version (%s)", strings.TrimPrefix(metadata.Version, "v"))
		return nil
	}
	pterm.Info.Printfln("New version available: %s → %s", strings.TrimPrefix(metadata.Version, "v"), strings.TrimPrefix(latest, "v"))
	if releaseURL != "" {
		pterm.Info.Printfln("Release notes: %s", releaseURL)
	}
	pterm.Info.Println("Run `wheel upgrade` to install it")
	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Args:  cobra.NoArgs,
	RunE:  runVersion,
}

func init() {
	versionCmd.Flags().Bool("check", false, "Also check GitHub for a newer release")
}

func runVersion(cmd *cobra.Command, args []string) error {
	check, _ := cmd.Flags().GetBool("check")
	v := VersionCmd{releases: githubReleases{}, repo: appConfig.Update.Repo}
	return v.Show(cmd.Context(), VersionInput{Check: check})
}

package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"sync"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/wheelkit/cli/pkg/util"
	"github.com/wheelkit/cli/pkg/web"
)

// TokenSource supplies the bearer token for authorized downloads.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// DownloadCmd fetches audit content archives.
type DownloadCmd struct {
	client  *http.Client
	tokens  TokenSource
	baseURL string
}

// DownloadInput holds input for downloading content.
type DownloadInput struct {
	ContentID string
	Output    string
	Quiet     bool
}

// Download writes the archive for a content id to a file. The data lands in
// a .part file first and is renamed once complete.
func (d DownloadCmd) Download(ctx context.Context, in DownloadInput) error {
	if in.ContentID == "" {
		return fmt.Errorf("content id is required")
	}
	token, err := d.tokens.Token(ctx)
	if err != nil {
		return fmt.Errorf("failed to read token: %w", err)
	}
	if token == "" {
		pterm.Warning.Println("No token stored; the request is sent without credentials. Set one with: wheel store token <token>")
	}

	out := in.Output
	if out == "" {
		out = in.ContentID + ".zip"
	}
	part := out + ".part"
	f, err := os.OpenFile(part, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", part, err)
	}

	var progress web.Progress
	var rep *progressReporter
	if !in.Quiet {
		rep = newProgressReporter(in.ContentID)
		progress = rep.update
	}

	url := web.DownloadURL(d.baseURL, in.ContentID, token)
	pterm.Debug.Printfln("GET %s", url)
	n, err := web.Download(ctx, d.client, url, f, progress)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(part)
		if rep != nil {
			rep.fail(err)
		}
		return err
	}
	if err := os.Rename(part, out); err != nil {
		_ = os.Remove(part)
		return fmt.Errorf("failed to move download into place: %w", err)
	}

	if rep != nil {
		rep.done()
	}
	pterm.Success.Printfln("Saved %s (%s)", out, util.FormatBytes(n))
	return nil
}

// progressReporter drives a spinner from throttled progress callbacks, which
// may arrive on a timer goroutine.
type progressReporter struct {
	mu      sync.Mutex
	label   string
	spinner *pterm.SpinnerPrinter
}

func newProgressReporter(label string) *progressReporter {
	r := &progressReporter{label: label}
	spinner, err := pterm.DefaultSpinner.Start(fmt.Sprintf("Downloading %s", label))
	if err == nil {
		r.spinner = spinner
	}
	return r
}

func (r *progressReporter) update(written, total int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.spinner == nil {
		return
	}
	text := fmt.Sprintf("Downloading %s: %s", r.label, util.FormatBytes(written))
	if total > 0 {
		text += fmt.Sprintf(" of %s (%d%%)", util.FormatBytes(total), written*100/total)
	}
	r.spinner.UpdateText(text)
}

func (r *progressReporter) done() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.spinner != nil {
		_ = r.spinner.Stop()
		r.spinner = nil
	}
}

func (r *progressReporter) fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.spinner != nil {
		r.spinner.Fail(fmt.Sprintf("Download of %s failed: %v", r.label, err))
		r.spinner = nil
	}
}

var downloadCmd = &cobra.Command{
	Use:   "download <content-id>",
	Short: "Download the audit archive for a content id",
	Long: `Download the audit archive for a content id from the configured
download.base_url, authorized with the stored token.`,
	Args: cobra.ExactArgs(1),
	RunE: runDownload,
}

func init() {
	downloadCmd.Flags().StringP("output", "o", "", "Destination file (default <content-id>.zip)")
	downloadCmd.Flags().BoolP("quiet", "q", false, "Hide the progress spinner")
}

func runDownload(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	quiet, _ := cmd.Flags().GetBool("quiet")

	return withStore(cmd, func(c StoreCmd) error {
		d := DownloadCmd{
			client:  &http.Client{Timeout: appConfig.Download.Timeout},
			tokens:  c.globals,
			baseURL: appConfig.Download.BaseURL,
		}
		return d.Download(cmd.Context(), DownloadInput{ContentID: args[0], Output: output, Quiet: quiet})
	})
}

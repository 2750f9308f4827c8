// Package web opens links in the user's browser and downloads files.
package web

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/pkg/browser"
	"github.com/wheelkit/cli/pkg/timing"
)

// ErrStatus is returned for non-2xx download responses.
var ErrStatus = errors.New("unexpected response status")

// opener is swapped out in tests.
var opener = browser.OpenURL

// OpenURL opens rawURL in a new browser window or tab.
func OpenURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid url %q: %w", rawURL, err)
	}
	if u.Scheme == "" {
		return fmt.Errorf("invalid url %q: missing scheme", rawURL)
	}
	return opener(u.String())
}

// DownloadURL builds the batch download address for contentID, authorized with
// the bearer token.
func DownloadURL(base, contentID, token string) string {
	q := url.Values{}
	q.Set("contentId", contentID)
	q.Set("Authorization", "Bearer "+token)
	return strings.TrimRight(base, "/") + "/api/recAuditInfo/batchAuidtDownload?" +
		strings.ReplaceAll(q.Encode(), "+", "%20")
}

// Progress reports bytes written so far and the expected total, which is -1
// when the server sends no length. Download never runs two Progress calls at
// once, reports written in non-decreasing order, and makes no call after it
// returns.
type Progress func(written, total int64)

// DefaultProgressInterval bounds how often Download reports progress.
const DefaultProgressInterval = 100 * time.Millisecond

// Download streams the body at rawURL into w. progress, when non-nil, is called
// at most once per DefaultProgressInterval while copying and once more after
// the copy completes.
func Download(ctx context.Context, client *http.Client, rawURL string, w io.Writer, progress Progress) (int64, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, fmt.Errorf("%w: %s", ErrStatus, resp.Status)
	}

	var dst io.Writer = w
	var throttle *timing.Throttler[int64]
	var gate *progressGate
	if progress != nil {
		gate = &progressGate{fn: progress, total: resp.ContentLength}
		throttle = timing.NewThrottler(gate.report, DefaultProgressInterval, true)
		dst = &countingWriter{w: w, onWrite: func(n int64) { throttle.Call(n) }}
	}

	n, err := io.Copy(dst, resp.Body)
	if throttle != nil {
		throttle.Stop()
	}
	if gate != nil {
		gate.finish(n, err == nil)
	}
	if err != nil {
		return n, fmt.Errorf("download interrupted after %d bytes: %w", n, err)
	}
	return n, nil
}

// progressGate serializes Progress calls. A trailing throttled call that
// fires after finish, or carries a stale count, is dropped.
type progressGate struct {
	mu    sync.Mutex
	fn    Progress
	total int64
	last  int64
	done  bool
}

func (g *progressGate) report(n int64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.done || n < g.last {
		return
	}
	g.last = n
	g.fn(n, g.total)
}

// finish closes the gate, making a last call with n when final is set.
func (g *progressGate) finish(n int64, final bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.done {
		return
	}
	g.done = true
	if final {
		g.last = n
		g.fn(n, g.total)
	}
}

type countingWriter struct {
	w       io.Writer
	n       int64
	onWrite func(int64)
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	c.onWrite(c.n)
	return n, err
}

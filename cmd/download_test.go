package cmd

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wheelkit/cli/pkg/web"
)

type FakeTokenSource struct {
	TokenFunc func(ctx context.Context) (string, error)
}

func (f *FakeTokenSource) Token(ctx context.Context) (string, error) {
	if f.TokenFunc != nil {
		return f.TokenFunc(ctx)
	}
	return "", nil
}

func TestDownload_SavesFile(t *testing.T) {
	setupStdoutCapture(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/recAuditInfo/batchAuidtDownload", r.URL.Path)
		assert.Equal(t, "c-42", r.URL.Query().Get("contentId"))
		assert.Equal(t, "Bearer tok", r.URL.Query().Get("Authorization"))
		_, _ = w.Write([]byte("archive-bytes"))
	}))
	defer srv.Close()

	out := filepath.Join(t.TempDir(), "out.zip")
	d := DownloadCmd{
		client:  srv.Client(),
		baseURL: srv.URL,
		tokens: &FakeTokenSource{TokenFunc: func(context.Context) (string, error) {
			return "tok", nil
		}},
	}

	require.NoError(t, d.Download(context.Background(), DownloadInput{ContentID: "c-42", Output: out, Quiet: true}))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "archive-bytes", string(data))
	assert.NoFileExists(t, out+".part")
	assert.Contains(t, outBuf.String(), "Saved")
	assert.Contains(t, outBuf.String(), "13 B")
}

func TestDownload_BadStatusLeavesNoFile(t *testing.T) {
	setupStdoutCapture(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "denied", http.StatusForbidden)
	}))
	defer srv.Close()

	out := filepath.Join(t.TempDir(), "out.zip")
	d := DownloadCmd{client: srv.Client(), baseURL: srv.URL, tokens: &FakeTokenSource{}}

	err := d.Download(context.Background(), DownloadInput{ContentID: "c-1", Output: out, Quiet: true})
	require.Error(t, err)
	assert.ErrorIs(t, err, web.ErrStatus)
	assert.NoFileExists(t, out)
	assert.NoFileExists(t, out+".part")
	assert.Contains(t, outBuf.String(), "No token stored")
}

func TestDownload_TokenError(t *testing.T) {
	setupStdoutCapture(t)
	d := DownloadCmd{tokens: &FakeTokenSource{TokenFunc: func(context.Context) (string, error) {
		return "", errors.New("keyring locked")
	}}}

	err := d.Download(context.Background(), DownloadInput{ContentID: "c-1", Quiet: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "keyring locked")
}

func TestDownload_RequiresContentID(t *testing.T) {
	setupStdoutCapture(t)
	d := DownloadCmd{tokens: &FakeTokenSource{}}
	assert.Error(t, d.Download(context.Background(), DownloadInput{}))
}

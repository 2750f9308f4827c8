package web

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenURL(t *testing.T) {
	var opened []string
	orig := opener
	opener = func(u string) error {
		opened = append(opened, u)
		return nil
	}
	defer func() { opener = orig }()

	require.NoError(t, OpenURL("https://example.com/a?b=c"))
	assert.Equal(t, []string{"https://example.com/a?b=c"}, opened)

	err := OpenURL("example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing scheme")
	assert.Len(t, opened, 1)
}

func TestDownloadURL(t *testing.T) {
	got := DownloadURL("https://api.example.com/", "c-42", "tok")
	assert.Equal(t,
		"https://api.example.com/api/recAuditInfo/batchAuidtDownload?Authorization=Bearer%20tok&contentId=c-42",
		got)
}

func TestDownload(t *testing.T) {
	body := strings.Repeat("x", 64*1024)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "65536")
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	var mu sync.Mutex
	var calls [][2]int64
	var buf bytes.Buffer

	n, err := Download(context.Background(), srv.Client(), srv.URL, &buf, func(written, total int64) {
		mu.Lock()
		defer mu.Unlock()
		calls = append(calls, [2]int64{written, total})
	})

	require.NoError(t, err)
	assert.Equal(t, int64(len(body)), n)
	assert.Equal(t, body, buf.String())

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, calls)
	assert.Equal(t, [2]int64{65536, 65536}, calls[len(calls)-1])
}

func TestDownload_ProgressSerializedAndFinal(t *testing.T) {
	const chunks = 8
	chunk := strings.Repeat("y", 1024)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "8192")
		flusher, _ := w.(http.Flusher)
		for range chunks {
			_, _ = w.Write([]byte(chunk))
			if flusher != nil {
				flusher.Flush()
			}
			time.Sleep(DefaultProgressInterval / 3)
		}
	}))
	defer srv.Close()

	var (
		mu       sync.Mutex
		inFlight atomic.Int32
		overlap  atomic.Bool
		written  []int64
	)
	var buf bytes.Buffer

	_, err := Download(context.Background(), srv.Client(), srv.URL, &buf, func(n, total int64) {
		if inFlight.Add(1) > 1 {
			overlap.Store(true)
		}
		defer inFlight.Add(-1)
		time.Sleep(5 * time.Millisecond)
		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, int64(8192), total)
		written = append(written, n)
	})
	require.NoError(t, err)

	mu.Lock()
	seen := len(written)
	mu.Unlock()
	time.Sleep(2 * DefaultProgressInterval)

	mu.Lock()
	defer mu.Unlock()
	assert.False(t, overlap.Load())
	assert.Len(t, written, seen, "no progress after Download returns")
	require.NotEmpty(t, written)
	assert.IsNonDecreasing(t, written)
	assert.Equal(t, int64(8192), written[len(written)-1])
}

func TestDownload_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	var buf bytes.Buffer
	_, err := Download(context.Background(), srv.Client(), srv.URL, &buf, nil)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStatus))
	assert.Contains(t, err.Error(), "403")
	assert.Zero(t, buf.Len())
}

func TestDownload_Cancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("data"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	_, err := Download(ctx, srv.Client(), srv.URL, &buf, nil)
	assert.Error(t, err)
}

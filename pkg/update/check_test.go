package update

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggestUpgradeCommand(t *testing.T) {
	tests := []struct {
		method   InstallMethod
		expected string
	}{
		{InstallMethodBrew, "brew upgrade wheelkit/tap/wheel"},
		{InstallMethodGo, "go install github.com/wheelkit/cli@latest"},
		{InstallMethodUnknown, "brew upgrade wheelkit/tap/wheel"},
	}
	for _, tt := range tests {
		t.Run(string(tt.method), func(t *testing.T) {
			assert.Equal(t, tt.expected, SuggestUpgradeCommand(tt.method))
		})
	}
}

func TestPathMatchesHomebrew(t *testing.T) {
	tests := []struct {
		path     string
		expected bool
	}{
		{"/opt/homebrew/bin/wheel", true},
		{"/usr/local/Cellar/wheel/1.0/bin/wheel", true},
		{"/home/linuxbrew/.linuxbrew/Cellar/wheel/1.0/bin/wheel", true},
		{"/home/user/go/bin/wheel", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, pathMatchesHomebrew(tt.path))
		})
	}
}

func TestPathMatchesGo(t *testing.T) {
	t.Setenv("GOBIN", "/custom/bin")
	tests := []struct {
		path     string
		expected bool
	}{
		{"/home/user/go/bin/wheel", true},
		{"/custom/bin/wheel", true},
		{"/custom/binaries/wheel", false},
		{"/usr/local/bin/wheel", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, pathMatchesGo(tt.path))
		})
	}
}

func TestInstallMethodRulesPathPrecedence(t *testing.T) {
	t.Setenv("GOBIN", "")
	rules := installMethodRules()

	detect := func(path string) InstallMethod {
		for _, r := range rules {
			if r.check(path) {
				return r.method
			}
		}
		return InstallMethodUnknown
	}

	assert.Equal(t, InstallMethodBrew, detect("/opt/homebrew/bin/wheel"))
	assert.Equal(t, InstallMethodGo, detect("/home/user/go/bin/wheel"))
	assert.Equal(t, InstallMethodUnknown, detect("/usr/local/bin/wheel"))
}

func TestIsNewerVersion(t *testing.T) {
	tests := []struct {
		current, latest string
		newer           bool
		wantErr         bool
	}{
		{"v1.0.0", "v1.1.0", true, false},
		{"1.2.0", "v1.2.0", false, false},
		{"v2.0.0", "v1.9.9", false, false},
		{"v1.0.0-rc.1", "v1.0.0", true, false},
		{"dev", "v1.0.0", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.current+"->"+tt.latest, func(t *testing.T) {
			newer, err := IsNewerVersion(tt.current, tt.latest)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.newer, newer)
		})
	}
}

func TestFetchLatest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/acme/tool/releases/latest", r.URL.Path)
		_, _ = w.Write([]byte(`{"tag_name":"v1.4.0","html_url":"https://github.com/acme/tool/releases/v1.4.0"}`))
	}))
	defer srv.Close()
	orig := apiBase
	apiBase = srv.URL
	defer func() { apiBase = orig }()

	tag, url, err := FetchLatest(context.Background(), "acme/tool")
	require.NoError(t, err)
	assert.Equal(t, "v1.4.0", tag)
	assert.Equal(t, "https://github.com/acme/tool/releases/v1.4.0", url)
}

func TestFetchLatest_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()
	orig := apiBase
	apiBase = srv.URL
	defer func() { apiBase = orig }()

	_, _, err := FetchLatest(context.Background(), "acme/tool")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

package cmd

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wheelkit/cli/pkg/update"
)

type FakeReleaseService struct {
	FetchLatestFunc func(ctx context.Context, repo string) (string, string, error)
}

func (f *FakeReleaseService) FetchLatest(ctx context.Context, repo string) (string, string, error) {
	if f.FetchLatestFunc != nil {
		return f.FetchLatestFunc(ctx, repo)
	}
	return "", "", errors.New("not found")
}

func withVersion(t *testing.T, v string) {
	t.Helper()
	prev := metadata
	metadata = Metadata{Version: v, Commit: "abc123"}
	t.Cleanup(func() { metadata = prev })
}

func latest(tag string) *FakeReleaseService {
	return &FakeReleaseService{FetchLatestFunc: func(ctx context.Context, repo string) (string, string, error) {
		return tag, "https://github.com/" + repo + "/releases/" + tag, nil
	}}
}

func TestVersionShow(t *testing.T) {
	tests := []struct {
		name     string
		current  string
		releases *FakeReleaseService
		check    bool
		want     string
	}{
		{"no check", "v1.0.0", &FakeReleaseService{}, false, "abc123"},
		{"newer", "v1.0.0", latest("v1.2.0"), true, "New version available: 1.0.0 → 1.2.0"},
		{"latest", "v1.2.0", latest("v1.2.0"), true, "You are on the latest version (1.2.0)"},
		{"dev build", "dev", latest("v1.2.0"), true, "Could not compare versions"},
		{"lookup fails", "v1.0.0", &FakeReleaseService{}, true, "Could not check for updates"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupStdoutCapture(t)
			withVersion(t, tt.current)

			v := VersionCmd{releases: tt.releases, repo: "wheelkit/cli"}
			require.NoError(t, v.Show(context.Background(), VersionInput{Check: tt.check}))
			assert.Contains(t, outBuf.String(), tt.want)
		})
	}
}

func TestUpgrade(t *testing.T) {
	t.Run("already latest", func(t *testing.T) {
		setupStdoutCapture(t)
		withVersion(t, "v2.0.0")
		u := UpgradeCmd{releases: latest("v2.0.0"), detect: func() (update.InstallMethod, string) {
			t.Fatal("detect should not run")
			return "", ""
		}}

		require.NoError(t, u.Upgrade(context.Background(), UpgradeInput{}))
		assert.Contains(t, outBuf.String(), "already on the latest version")
	})

	t.Run("dry run", func(t *testing.T) {
		setupStdoutCapture(t)
		withVersion(t, "v1.0.0")
		u := UpgradeCmd{
			releases: latest("v2.0.0"),
			detect:   func() (update.InstallMethod, string) { return update.InstallMethodBrew, "/opt/homebrew/bin/wheel" },
			run: func(string, ...string) error {
				t.Fatal("dry run should not execute")
				return nil
			},
		}

		require.NoError(t, u.Upgrade(context.Background(), UpgradeInput{DryRun: true}))
		assert.Contains(t, outBuf.String(), "Would run: brew upgrade wheelkit/tap/wheel")
	})

	t.Run("runs go install", func(t *testing.T) {
		setupStdoutCapture(t)
		withVersion(t, "v1.0.0")
		var ran []string
		u := UpgradeCmd{
			releases: latest("v2.0.0"),
			detect:   func() (update.InstallMethod, string) { return update.InstallMethodGo, "/home/u/go/bin/wheel" },
			run: func(name string, args ...string) error {
				ran = append([]string{name}, args...)
				return nil
			},
		}

		require.NoError(t, u.Upgrade(context.Background(), UpgradeInput{}))
		assert.Equal(t, []string{"go", "install", "github.com/wheelkit/cli@latest"}, ran)
	})

	t.Run("unknown method prints manual steps", func(t *testing.T) {
		setupStdoutCapture(t)
		withVersion(t, "v1.0.0")
		u := UpgradeCmd{
			releases: latest("v2.0.0"),
			repo:     "wheelkit/cli",
			detect:   func() (update.InstallMethod, string) { return update.InstallMethodUnknown, "/usr/bin/wheel" },
		}

		err := u.Upgrade(context.Background(), UpgradeInput{})
		require.Error(t, err)
		out := outBuf.String()
		assert.Contains(t, out, "releases/download/v2.0.0/wheel_2.0.0_")
		assert.Contains(t, out, "sudo cp /tmp/wheel /usr/bin/wheel")
	})

	t.Run("lookup error", func(t *testing.T) {
		setupStdoutCapture(t)
		u := UpgradeCmd{releases: &FakeReleaseService{}}
		assert.Error(t, u.Upgrade(context.Background(), UpgradeInput{}))
	})
}

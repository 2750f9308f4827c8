// Package update checks GitHub releases for newer versions of the CLI.
package update

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// DefaultRepo is the GitHub repository releases are published from.
const DefaultRepo = "wheelkit/cli"

// apiBase is swapped out in tests.
var apiBase = "https://api.github.com"

type release struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

// FetchLatest returns the tag and page URL of the latest release of repo.
func FetchLatest(ctx context.Context, repo string) (tag, url string, err error) {
	if repo == "" {
		repo = DefaultRepo
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiBase+"/repos/"+repo+"/releases/latest", nil)
	if err != nil {
		return "", "", err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("release lookup failed: %s", resp.Status)
	}

	var rel release
	if err := json.NewDecoder(resp.Body).Decode(&rel); err != nil {
		return "", "", fmt.Errorf("invalid release response: %w", err)
	}
	if rel.TagName == "" {
		return "", "", fmt.Errorf("release response has no tag")
	}
	return rel.TagName, rel.HTMLURL, nil
}

// IsNewerVersion reports whether latest is a higher semantic version than
// current. Either may carry a leading "v".
func IsNewerVersion(current, latest string) (bool, error) {
	cur, err := semver.NewVersion(strings.TrimPrefix(current, "v"))
	if err != nil {
		return false, fmt.Errorf("invalid current version %q: %w", current, err)
	}
	lat, err := semver.NewVersion(strings.TrimPrefix(latest, "v"))
	if err != nil {
		return false, fmt.Errorf("invalid latest version %q: %w", latest, err)
	}
	return lat.GreaterThan(cur), nil
}

// InstallMethod is how the running binary was installed.
type InstallMethod string

const (
	InstallMethodBrew    InstallMethod = "brew"
	InstallMethodGo      InstallMethod = "go"
	InstallMethodUnknown InstallMethod = "unknown"
)

type installRule struct {
	method InstallMethod
	check  func(path string) bool
}

func pathMatchesHomebrew(p string) bool {
	return strings.Contains(p, "/opt/homebrew/") ||
		strings.Contains(p, "/Cellar/") ||
		strings.Contains(p, "/.linuxbrew/")
}

func pathMatchesGo(p string) bool {
	if gobin := os.Getenv("GOBIN"); gobin != "" && strings.HasPrefix(p, filepath.Clean(gobin)+string(filepath.Separator)) {
		return true
	}
	return strings.Contains(filepath.ToSlash(p), "/go/bin/")
}

func installMethodRules() []installRule {
	return []installRule{
		{InstallMethodBrew, pathMatchesHomebrew},
		{InstallMethodGo, pathMatchesGo},
	}
}

// DetectInstallMethod inspects the executable path.
func DetectInstallMethod() (InstallMethod, string) {
	exe, err := os.Executable()
	if err != nil {
		return InstallMethodUnknown, ""
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	for _, r := range installMethodRules() {
		if r.check(exe) {
			return r.method, exe
		}
	}
	return InstallMethodUnknown, exe
}

// SuggestUpgradeCommand returns the shell command that upgrades an
// installation made with method.
func SuggestUpgradeCommand(method InstallMethod) string {
	switch method {
	case InstallMethodGo:
		return "go install github.com/" + DefaultRepo + "@latest"
	default:
		return "brew upgrade wheelkit/tap/wheel"
	}
}

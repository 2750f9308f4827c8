// Package config loads CLI settings from defaults, a TOML file, a .env file
// and WHEEL_* environment variables, each layer overriding the previous one.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	envPrefix     = "WHEEL_"
	envConfigPath = envPrefix + "CONFIG"
	appDir        = "wheel"
)

// Config is the merged CLI configuration.
type Config struct {
	Title    string         `toml:"title"`
	Store    StoreConfig    `toml:"store"`
	Download DownloadConfig `toml:"download"`
	Update   UpdateConfig   `toml:"update"`

	// Source is the config file that was read, or "" when none was found.
	Source string `toml:"-"`
}

type StoreConfig struct {
	Backend string `toml:"backend"`
	Path    string `toml:"path"`
	Service string `toml:"service"`
}

type DownloadConfig struct {
	BaseURL string        `toml:"base_url"`
	Timeout time.Duration `toml:"timeout"`
}

type UpdateConfig struct {
	Repo string `toml:"repo"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Title: "wheel",
		Store: StoreConfig{
			Backend: "file",
			Service: "wheel",
		},
		Download: DownloadConfig{
			BaseURL: "http://localhost:8080",
			Timeout: 5 * time.Minute,
		},
		Update: UpdateConfig{
			Repo: "wheelkit/cli",
		},
	}
}

// LoadOptions controls where Load looks.
type LoadOptions struct {
	// ConfigPath overrides WHEEL_CONFIG and the default file location.
	ConfigPath string
	// EnvFile is the dotenv file to read. Empty means ".env" in the working
	// directory; a missing default file is ignored.
	EnvFile string
	// LookupEnv reads process variables. Nil uses os.LookupEnv.
	LookupEnv func(string) (string, bool)
}

// Load builds a Config from all layers.
func Load(opts LoadOptions) (Config, error) {
	cfg := Default()

	lookup := opts.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}

	dotenv, err := readDotenv(opts.EnvFile)
	if err != nil {
		return cfg, err
	}
	env := func(key string) (string, bool) {
		if v, ok := lookup(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}

	path, explicit := opts.ConfigPath, opts.ConfigPath != ""
	if !explicit {
		if v, ok := env(envConfigPath); ok && v != "" {
			path, explicit = v, true
		}
	}
	if !explicit {
		path, err = DefaultPath()
		if err != nil {
			return cfg, err
		}
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if !errors.Is(err, fs.ErrNotExist) || explicit {
			return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else {
		cfg.Source = path
	}

	if err := applyEnv(&cfg, env); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// DefaultPath is $XDG_CONFIG_HOME/wheel/config.toml, falling back to the
// platform user config directory.
func DefaultPath() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appDir, "config.toml"), nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate config directory: %w", err)
	}
	return filepath.Join(dir, appDir, "config.toml"), nil
}

func readDotenv(path string) (map[string]string, error) {
	explicit := path != ""
	if !explicit {
		path = ".env"
	}
	vals, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("failed to read env file %s: %w", path, err)
	}
	return vals, nil
}

func applyEnv(cfg *Config, env func(string) (string, bool)) error {
	strs := map[string]*string{
		"TITLE":             &cfg.Title,
		"STORE_BACKEND":     &cfg.Store.Backend,
		"STORE_PATH":        &cfg.Store.Path,
		"STORE_SERVICE":     &cfg.Store.Service,
		"DOWNLOAD_BASE_URL": &cfg.Download.BaseURL,
		"UPDATE_REPO":       &cfg.Update.Repo,
	}
	for key, dst := range strs {
		if v, ok := env(envPrefix + key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}

	if v, ok := env(envPrefix + "DOWNLOAD_TIMEOUT"); ok && strings.TrimSpace(v) != "" {
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid %sDOWNLOAD_TIMEOUT: %w", envPrefix, err)
		}
		cfg.Download.Timeout = d
	}
	cfg.Download.BaseURL = strings.TrimRight(cfg.Download.BaseURL, "/")
	return nil
}

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/wheelkit/cli/internal/config"
	"github.com/wheelkit/cli/pkg/store"
)

// Metadata describes the running build.
type Metadata struct {
	Version string
	Commit  string
	Date    string
}

var metadata = Metadata{Version: "dev"}

// appConfig is loaded once per invocation by the root pre-run hook.
var appConfig = config.Default()

// stdout receives machine-readable output (JSON, YAML). Styled output goes
// through pterm.
var stdout io.Writer = os.Stdout

var rootCmd = &cobra.Command{
	Use:   "wheel",
	Short: "Build trees from flat records and run everyday front-end helpers",
	Long: `wheel turns flat parent/child record lists into nested trees and bundles the
small helpers that usually travel with them: value kinds, formatting, a
persistent key-value store, downloads and browser opening.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default $XDG_CONFIG_HOME/wheel/config.toml)")
	rootCmd.PersistentFlags().Bool("debug", false, "Print debug messages")

	rootCmd.AddCommand(treeCmd)
	rootCmd.AddCommand(storeCmd)
	rootCmd.AddCommand(kindCmd)
	rootCmd.AddCommand(fmtCmd)
	rootCmd.AddCommand(openCmd)
	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(upgradeCmd)
}

func loadConfig(cmd *cobra.Command, args []string) error {
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		pterm.EnableDebugMessages()
	}

	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(config.LoadOptions{ConfigPath: path})
	if err != nil {
		return err
	}
	appConfig = cfg
	if cfg.Source != "" {
		pterm.Debug.Printfln("Loaded config from %s", cfg.Source)
	}
	return nil
}

// openStore opens the configured store backend. Callers close it.
func openStore(ctx context.Context) (store.Store, error) {
	s, err := store.Open(ctx, store.Options{
		Backend: store.Backend(appConfig.Store.Backend),
		Path:    appConfig.Store.Path,
		Service: appConfig.Store.Service,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", appConfig.Store.Backend, err)
	}
	pterm.Debug.Printfln("Using %s store", appConfig.Store.Backend)
	return s, nil
}

// Execute runs the root command and exits non-zero on failure.
func Execute(m Metadata) {
	metadata = m

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := fang.Execute(ctx, rootCmd, fang.WithVersion(m.Version)); err != nil {
		stop()
		os.Exit(1)
	}
}

package cmd

import (
	"fmt"
	"io"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"seat-reserve-cli/config"
	"seat-reserve-cli/service"
	"seat-reserve-cli/tui"
)

const appName = "seat-reserve-cli"

var (
	version = "dev"
	commit  = "none"
)

type rootFlags struct {
	dataset     string
	url         string
	revealDelay time.Duration
	logFile     string
	noMouse     bool
	noCache     bool
}

var flags rootFlags

var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "Browse a hall seat map from the terminal",
	Long: `Pan, zoom and inspect the seats of a hall.
Drag with the mouse or use the arrow keys to pan, scroll or +/- to zoom,
click a seat to select it.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig(cmd)
		if err != nil {
			return err
		}
		closeLog, err := setupLogging(cfg.LogFile)
		if err != nil {
			return err
		}
		defer closeLog()

		ld := newLoader(cfg, service.NewClient(nil))
		model := tui.New(tui.Options{
			Source:      ld.source(),
			Load:        ld.Load,
			RevealDelay: cfg.RevealDelay,
		})
		_, err = tea.NewProgram(model, programOptions(cfg)...).Run()
		return err
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), versionString())
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.dataset, "dataset", "", "path to a seat dataset JSON file")
	pf.StringVar(&flags.url, "url", "", "URL of a remote seat dataset")
	pf.BoolVar(&flags.noCache, "no-cache", false, "always fetch remote datasets")
	rootCmd.Flags().DurationVar(&flags.revealDelay, "reveal-delay", 0, "delay before the seat detail panel opens")
	rootCmd.Flags().StringVar(&flags.logFile, "log-file", "", "write debug logs to this file")
	rootCmd.Flags().BoolVar(&flags.noMouse, "no-mouse", false, "disable mouse input")

	rootCmd.AddCommand(listCmd, inspectCmd, versionCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		config.Exitf("%s: %v", appName, err)
	}
}

// programOptions enables focus reporting so that losing focus interrupts
// gestures in flight.
func programOptions(cfg config.Config) []tea.ProgramOption {
	opts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithReportFocus()}
	if cfg.Mouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	return opts
}

// resolveConfig reads the environment and lets explicitly set flags win.
func resolveConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}
	if changed("dataset") {
		cfg.Dataset = flags.dataset
	}
	if changed("url") {
		cfg.URL = flags.url
	}
	if changed("no-cache") {
		cfg.NoCache = flags.noCache
	}
	if changed("reveal-delay") {
		if flags.revealDelay < 0 {
			return config.Config{}, fmt.Errorf("reveal delay must not be negative: %s", flags.revealDelay)
		}
		cfg.RevealDelay = flags.revealDelay
	}
	if changed("log-file") {
		cfg.LogFile = flags.logFile
	}
	if changed("no-mouse") {
		cfg.Mouse = !flags.noMouse
	}
	return cfg, nil
}

// setupLogging sends the standard logger to path. With no path logs are
// dropped, since the terminal belongs to the UI.
func setupLogging(path string) (func(), error) {
	if path == "" {
		log.SetOutput(io.Discard)
		return func() {}, nil
	}
	f, err := tea.LogToFile(path, appName)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return func() { _ = f.Close() }, nil
}

func versionString() string {
	s := appName + " " + version
	if commit != "none" && commit != "" {
		s += " (" + commit + ")"
	}
	return s
}

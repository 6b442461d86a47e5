// Package cli implements the satchel command-line interface: inspection,
// diffing, and merging of context dumps using the core engine.
// See docs/ARCHITECTURE.md § CLI.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	jsonMode  bool
	verbose   bool
}

var flags rootFlags

// logger is built once per invocation in the root PersistentPreRunE.
var logger = zap.NewNop()

// NewRootCmd creates the top-level "satchel" command with global flags and
// all subcommands registered.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "satchel",
		Short: "A hierarchical context store with merge strategies",
		Long: "Satchel manages hierarchical context dumps: inspect their containers,\n" +
			"diff two dumps structurally, and merge them under a chosen\n" +
			"conflict-resolution strategy.",
		// Do not print usage on errors returned by subcommands.
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initLogger()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
	}

	root.PersistentFlags().StringVar(&flags.configDir, "config-dir", "", "configuration directory (default: .satchel)")
	root.PersistentFlags().BoolVar(&flags.jsonMode, "json", false, "output in JSON format")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "verbose logging")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInspectCmd())
	root.AddCommand(newDiffCmd())
	root.AddCommand(newMergeCmd())

	return root
}

// initLogger builds the process logger. Verbose mode uses the development
// config so debug output is readable.
func initLogger() error {
	var (
		l   *zap.Logger
		err error
	)
	if flags.verbose {
		l, err = zap.NewDevelopment()
	} else {
		cfg := zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
		l, err = cfg.Build()
	}
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	logger = l
	return nil
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitUserError)
	}
}

// resolveConfigDir returns the config directory from flag, env, or default.
func resolveConfigDir() string {
	if flags.configDir != "" {
		return flags.configDir
	}
	if v := os.Getenv("SATCHEL_CONFIG_DIR"); v != "" {
		return v
	}
	return ".satchel"
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/teranos/geckocaps/am"
	"github.com/teranos/geckocaps/cmd/geckocaps/commands"
	"github.com/teranos/geckocaps/logger"
)

var rootCmd = &cobra.Command{
	Use:   "geckocaps",
	Short: "geckocaps - Firefox session capabilities resolver",
	Long: `geckocaps - Resolve WebDriver capabilities into Firefox launch configurations.

geckocaps validates the moz:firefoxOptions capability a remote client sends
with a new session request and resolves it into the binary, profile,
arguments, environment and preferences Firefox is launched with.

Available commands:
  validate         - Validate moz: capabilities
  resolve          - Resolve the launch configuration for a capabilities object
  browser-version  - Show the version of a Firefox binary
  am               - Manage geckocaps configuration ("I am")
  version          - Show build information

Examples:
  geckocaps validate caps.json          # Check capabilities
  geckocaps resolve caps.json -v        # Resolve, logging each stage
  geckocaps browser-version             # Version of the default Firefox
  geckocaps am show                     # Show current configuration`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Root().PersistentFlags()
		if err := am.BindFlag("log.verbosity", flags.Lookup("verbose")); err != nil {
			return err
		}
		if err := am.BindFlag("log.json", flags.Lookup("json-log")); err != nil {
			return err
		}

		// Invalid configuration is reported by the command itself; log
		// with the flag values meanwhile
		jsonLog, _ := flags.GetBool("json-log")
		verbosity, _ := flags.GetCount("verbose")
		if cfg, err := commands.LoadConfig(); err == nil {
			jsonLog, verbosity = cfg.Log.JSON, cfg.Log.Verbosity
		}

		if err := logger.Initialize(jsonLog, verbosity); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger.Debugw("Logger initialized", "level", logger.LevelName(verbosity))
		return nil
	},
}

func init() {
	// Add global flags
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")
	rootCmd.PersistentFlags().Bool("json-log", false, "Write logs as JSON")
	rootCmd.PersistentFlags().StringVar(&commands.ConfigPath, "config", "", "Merge this TOML config file over the config cascade")

	// Add commands
	rootCmd.AddCommand(commands.ValidateCmd)
	rootCmd.AddCommand(commands.ResolveCmd)
	rootCmd.AddCommand(commands.BrowserVersionCmd)
	rootCmd.AddCommand(commands.AmCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	defer logger.Cleanup()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		logger.Cleanup()
		os.Exit(1)
	}
}

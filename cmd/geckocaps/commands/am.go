package commands

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"github.com/teranos/geckocaps/am"
	"github.com/teranos/geckocaps/display"
	"gopkg.in/yaml.v3"
)

// AmCmd represents the am (configuration) command
var AmCmd = &cobra.Command{
	Use:   "am",
	Short: "Manage geckocaps configuration",
	Long: `am - Manage geckocaps configuration ("I am")

Display and manage the driver, remote transport, profile and log settings.

Configuration sources (in order of precedence):
1. Command line flags
2. Environment variables (GECKOCAPS_* prefix)
3. File given with --config
4. Project config (./am.toml or ./config.toml)
5. User config (~/.geckocaps/am.toml or ~/.geckocaps/config.toml)
6. System config (/etc/geckocaps/config.toml)
7. Default values

Examples:
  geckocaps am show                           # Show current configuration
  geckocaps am show --format json             # Show configuration in JSON format
  geckocaps am get remote.websocket_port      # Get specific config value
  geckocaps am set driver.binary /opt/firefox/firefox
  geckocaps am validate                       # Validate current configuration`,
}

var amShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  "Display the current geckocaps configuration from all sources",
	RunE:  runAmShow,
}

var amGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a specific configuration value",
	Long:  "Get a specific configuration value using dot notation (e.g., driver.binary, remote.allow_hosts)",
	Args:  cobra.ExactArgs(1),
	RunE:  runAmGet,
}

var amSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a value in the user configuration",
	Long: `Set a value in ~/.geckocaps/am.toml using dot notation.

The value is read as a TOML literal (9222, true, ["localhost"]) and
otherwise kept as a string. The previous file is kept as am.toml.back1.`,
	Args: cobra.ExactArgs(2),
	RunE: runAmSet,
}

var amValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate current configuration",
	Long:  "Validate that the current geckocaps configuration is valid",
	RunE:  runAmValidate,
}

var amWhereCmd = &cobra.Command{
	Use:   "where",
	Short: "Show where configuration is loaded from",
	Long: `Show the configuration cascade and which files were checked.

Lists all configuration sources in order of precedence, showing
which settings each source contributed.`,
	RunE: runAmWhere,
}

var configFormat string

func init() {
	amShowCmd.Flags().StringVar(&configFormat, "format", "toml", "Output format: toml, json, yaml")
	amWhereCmd.Flags().Bool("json", false, "Output introspection as JSON")

	AmCmd.AddCommand(amShowCmd)
	AmCmd.AddCommand(amGetCmd)
	AmCmd.AddCommand(amSetCmd)
	AmCmd.AddCommand(amValidateCmd)
	AmCmd.AddCommand(amWhereCmd)
}

func runAmShow(cmd *cobra.Command, args []string) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch configFormat {
	case "json":
		return display.OutputJSON(cmd, cfg)

	case "yaml":
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to marshal config to YAML: %w", err)
		}
		fmt.Fprintf(out, "# geckocaps configuration\n%s", string(data))

	case "toml":
		data, err := toml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to marshal config to TOML: %w", err)
		}
		fmt.Fprintf(out, "# geckocaps configuration\n%s", string(data))

	default:
		return fmt.Errorf("unsupported format: %s (supported: toml, json, yaml)", configFormat)
	}

	return nil
}

func runAmGet(cmd *cobra.Command, args []string) error {
	key := args[0]

	if _, err := LoadConfig(); err != nil {
		return err
	}
	v := am.GetViper()
	if !v.IsSet(key) {
		return fmt.Errorf("configuration key %q not found", key)
	}

	fmt.Fprintln(cmd.OutOrStdout(), am.Get(key))
	return nil
}

func runAmSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], am.ParseValue(args[1])

	if err := am.SetUserValue(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	// Warn when the new value makes the configuration invalid
	if _, err := LoadConfig(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ %s = %v (%s)\n", key, value, am.UserConfigPath())
	return nil
}

func runAmValidate(cmd *cobra.Command, args []string) error {
	if _, err := LoadConfig(); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "✓ Configuration is valid")
	return nil
}

func runAmWhere(cmd *cobra.Command, args []string) error {
	// --config is merged by LoadConfig; load before introspecting
	if _, err := LoadConfig(); err != nil {
		return err
	}
	intro := am.GetConfigIntrospection()

	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(cmd, intro)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Configuration cascade (later overrides earlier):")
	fmt.Fprintf(out, "  1. %-10s Built-in defaults\n", "[DEFAULT]")
	for i, file := range intro.Files {
		fmt.Fprintf(out, "  %d. %-10s %s\n", i+2, "["+sourceLabel(file.Source)+"]", file.Path)
	}
	fmt.Fprintf(out, "  %d. %-10s %s_* environment variables\n", len(intro.Files)+2, "[ENV]", am.EnvPrefix)
	fmt.Fprintln(out)

	// Group settings by actual file path (to distinguish config.toml from am.toml)
	type fileGroup struct {
		source   am.ConfigSource
		path     string
		settings []am.SettingInfo
	}

	settingsByPath := make(map[string]*fileGroup)
	for _, setting := range intro.Settings {
		key := setting.SourcePath
		if setting.Source == am.SourceDefault || setting.Source == am.SourceEnvironment {
			key = string(setting.Source)
		}

		if group, exists := settingsByPath[key]; exists {
			group.settings = append(group.settings, setting)
		} else {
			settingsByPath[key] = &fileGroup{
				source:   setting.Source,
				path:     setting.SourcePath,
				settings: []am.SettingInfo{setting},
			}
		}
	}

	sourceOrder := []am.ConfigSource{
		am.SourceDefault,
		am.SourceSystem,
		am.SourceUser,
		am.SourceProject,
		am.SourceCommandLine,
		am.SourceEnvironment,
	}

	fmt.Fprintln(out, "Active configuration:")
	for _, source := range sourceOrder {
		var groups []*fileGroup
		for _, group := range settingsByPath {
			if group.source == source && len(group.settings) > 0 {
				groups = append(groups, group)
			}
		}

		// Put config.toml before am.toml at same level
		sort.Slice(groups, func(i, j int) bool {
			iBase := filepath.Base(groups[i].path)
			jBase := filepath.Base(groups[j].path)
			if iBase == am.LegacyConfig && jBase == am.ConfigName {
				return true
			}
			if iBase == am.ConfigName && jBase == am.LegacyConfig {
				return false
			}
			return groups[i].path < groups[j].path
		})

		for _, group := range groups {
			switch source {
			case am.SourceDefault:
				fmt.Fprintf(out, "\n%s: %d settings\n", source, len(group.settings))
			case am.SourceEnvironment:
				fmt.Fprintf(out, "\n%s: %d settings from environment variables\n", source, len(group.settings))
			default:
				fmt.Fprintf(out, "\n%s: %d settings from %s\n", source, len(group.settings), group.path)
			}

			for _, setting := range group.settings {
				valueStr := fmt.Sprintf("%v", setting.Value)
				if len(valueStr) > 50 {
					valueStr = valueStr[:47] + "..."
				}
				fmt.Fprintf(out, "  %s = %s\n", setting.Key, valueStr)
			}
		}
	}

	return nil
}

func sourceLabel(source am.ConfigSource) string {
	switch source {
	case am.SourceCommandLine:
		return "FLAG"
	default:
		return strings.ToUpper(string(source))
	}
}

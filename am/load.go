package am

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/teranos/geckocaps/errors"
)

// Application directory names
const (
	EnvPrefix      = "GECKOCAPS"
	UserDirName    = ".geckocaps"
	SystemConfig   = "/etc/geckocaps/config.toml"
	ConfigName     = "am.toml"
	LegacyConfig   = "config.toml"
	configTypeTOML = "toml"
)

var globalConfig *Config
var viperInstance *viper.Viper

// ConfigSources records, per dotted key, the file that last set it during
// loading. Keys missing from the map come from defaults or the environment.
var ConfigSources = map[string]SourceInfo{}

// mergedFiles are the files merged with MergeFile, in order
var mergedFiles []SourceInfo

// Load reads the geckocaps configuration using Viper
func Load() (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	v := initViper()

	config, err := LoadWithViper(v)
	if err != nil {
		return nil, err
	}

	globalConfig = config
	return globalConfig, nil
}

// GetViper returns the Viper instance for advanced configuration access
// (e.g. binding cobra flags)
func GetViper() *viper.Viper {
	return initViper()
}

// BindFlag binds a command-line flag to key. A configuration loaded before
// the binding is dropped so the next Load sees the flag.
func BindFlag(key string, flag *pflag.Flag) error {
	if flag == nil {
		return errors.Newf("no flag to bind to %s", key)
	}
	if err := initViper().BindPFlag(key, flag); err != nil {
		return errors.Wrapf(err, "failed to bind flag --%s", flag.Name)
	}
	globalConfig = nil
	return nil
}

// LoadWithViper loads configuration using a provided Viper instance
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	return &config, nil
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType(configTypeTOML)

	// Set defaults but don't bind environment variables for this specific load
	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", configPath)
	}

	config, err := LoadWithViper(v)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load config from %s", configPath)
	}
	return config, nil
}

// Reset clears the cached configuration (useful for testing)
func Reset() {
	globalConfig = nil
	viperInstance = nil
	ConfigSources = map[string]SourceInfo{}
	mergedFiles = nil
}

// initViper initializes Viper with configuration sources and defaults
func initViper() *viper.Viper {
	if viperInstance != nil {
		return viperInstance
	}

	v := viper.New()

	// Set up environment variable binding
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	BindEnvAliases(v)

	// Set defaults first
	SetDefaults(v)

	// Merge configs in precedence order: system -> user -> project.
	// Env vars and bound flags sit above the merged files.
	mergeConfigFiles(v)

	viperInstance = v
	return v
}

// UserConfigDir returns ~/.geckocaps
func UserConfigDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, UserDirName)
}

// findProjectConfig searches for am.toml or config.toml by walking up the directory tree
// Returns the path to the first config file found, or empty string if none found
func findProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	userDir := UserConfigDir()
	for {
		// ~/.geckocaps is the user level, not a project
		if dir != userDir {
			for _, name := range []string{ConfigName, LegacyConfig} {
				path := filepath.Join(dir, name)
				if _, err := os.Stat(path); err == nil {
					return path
				}
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// configCascade lists the config files to merge, lowest precedence first
func configCascade() []SourceInfo {
	cascade := []SourceInfo{{Source: SourceSystem, Path: SystemConfig}}

	if userDir := UserConfigDir(); userDir != "" {
		cascade = append(cascade,
			SourceInfo{Source: SourceUser, Path: filepath.Join(userDir, LegacyConfig)},
			SourceInfo{Source: SourceUser, Path: filepath.Join(userDir, ConfigName)},
		)
	}

	if projectConfig := findProjectConfig(); projectConfig != "" {
		cascade = append(cascade, SourceInfo{Source: SourceProject, Path: projectConfig})
	}
	return cascade
}

// mergeConfigFiles merges configuration files in precedence order and
// records which file set each key
func mergeConfigFiles(v *viper.Viper) {
	for _, file := range configCascade() {
		if _, err := os.Stat(file.Path); err != nil {
			continue
		}
		// A broken file in the cascade is skipped; `am validate` reports it
		_ = mergeFile(v, file)
	}
}

func mergeFile(v *viper.Viper, file SourceInfo) error {
	tempViper := viper.New()
	tempViper.SetConfigFile(file.Path)
	tempViper.SetConfigType(configTypeTOML)
	if err := tempViper.ReadInConfig(); err != nil {
		return errors.Wrapf(err, "failed to read config file %s", file.Path)
	}

	if err := v.MergeConfigMap(tempViper.AllSettings()); err != nil {
		return errors.Wrapf(err, "failed to merge config file %s", file.Path)
	}
	for _, key := range tempViper.AllKeys() {
		ConfigSources[key] = file
	}
	return nil
}

// MergeFile merges the TOML file at path over the config file cascade.
// Environment variables and bound flags still take precedence.
func MergeFile(path string) error {
	file := SourceInfo{Source: SourceCommandLine, Path: path}
	if err := mergeFile(initViper(), file); err != nil {
		return err
	}
	mergedFiles = append(mergedFiles, file)
	globalConfig = nil
	return nil
}

// MergedFiles returns the files merged with MergeFile since the last Reset
func MergedFiles() []SourceInfo {
	return append([]SourceInfo(nil), mergedFiles...)
}

// Get returns a configuration value using dot notation
func Get(key string) interface{} {
	return initViper().Get(key)
}

// GetString returns a configuration value as string using dot notation
func GetString(key string) string {
	return initViper().GetString(key)
}

// GetInt returns a configuration value as int using dot notation
func GetInt(key string) int {
	return initViper().GetInt(key)
}

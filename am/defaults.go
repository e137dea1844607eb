package am

import (
	"fmt"

	"github.com/spf13/viper"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	// Driver defaults (empty binary = search PATH and install locations)
	v.SetDefault("driver.binary", "")
	v.SetDefault("driver.profile_root", "")
	v.SetDefault("driver.android_storage", "auto")

	// Remote agent defaults
	v.SetDefault("remote.websocket_port", DefaultWebSocketPort)
	v.SetDefault("remote.allow_hosts", []string{})
	v.SetDefault("remote.allow_origins", []string{})

	// Profile archive limits (zip bombs)
	v.SetDefault("profile.max_files", DefaultProfileMaxFiles)
	v.SetDefault("profile.max_size_mb", DefaultProfileMaxSizeMB)

	// Logging defaults
	v.SetDefault("log.json", false)
	v.SetDefault("log.verbosity", 0)
}

// BindEnvAliases binds short environment variable names in addition to the
// GECKOCAPS_<SECTION>_<KEY> form
func BindEnvAliases(v *viper.Viper) {
	v.BindEnv("driver.binary", "GECKOCAPS_DRIVER_BINARY", "GECKOCAPS_BINARY")
	v.BindEnv("driver.profile_root", "GECKOCAPS_DRIVER_PROFILE_ROOT", "GECKOCAPS_PROFILE_ROOT")
	v.BindEnv("remote.websocket_port", "GECKOCAPS_REMOTE_WEBSOCKET_PORT", "GECKOCAPS_WEBSOCKET_PORT")
}

// String returns a string representation of the config
func (c *Config) String() string {
	return fmt.Sprintf("Config{Driver: {Binary: %s}, Remote: {WebSocketPort: %d}, Profile: {MaxFiles: %d}}",
		c.Driver.Binary, c.Remote.WebSocketPort, c.Profile.MaxFiles)
}

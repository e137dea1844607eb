package am

// Config represents the geckocaps configuration
type Config struct {
	Driver  DriverConfig  `mapstructure:"driver" toml:"driver" json:"driver" yaml:"driver"`
	Remote  RemoteConfig  `mapstructure:"remote" toml:"remote" json:"remote" yaml:"remote"`
	Profile ProfileConfig `mapstructure:"profile" toml:"profile" json:"profile" yaml:"profile"`
	Log     LogConfig     `mapstructure:"log" toml:"log" json:"log" yaml:"log"`
}

// DriverConfig configures how sessions find Firefox
type DriverConfig struct {
	Binary         string `mapstructure:"binary" toml:"binary" json:"binary" yaml:"binary"`                                     // Fallback Firefox binary when capabilities name none
	ProfileRoot    string `mapstructure:"profile_root" toml:"profile_root" json:"profile_root" yaml:"profile_root"`             // Where temporary profiles are created (empty = system temp dir)
	AndroidStorage string `mapstructure:"android_storage" toml:"android_storage" json:"android_storage" yaml:"android_storage"` // auto, app, internal or sdcard
}

// RemoteConfig configures the WebSocket (BiDi) transport
type RemoteConfig struct {
	WebSocketPort int      `mapstructure:"websocket_port" toml:"websocket_port" json:"websocket_port" yaml:"websocket_port"` // --remote-debugging-port (default: 9222)
	AllowHosts    []string `mapstructure:"allow_hosts" toml:"allow_hosts" json:"allow_hosts" yaml:"allow_hosts"`             // Extra hosts accepted by the remote agent
	AllowOrigins  []string `mapstructure:"allow_origins" toml:"allow_origins" json:"allow_origins" yaml:"allow_origins"`     // Extra origins accepted by the remote agent (absolute URLs)
}

// ProfileConfig limits embedded profile archives
type ProfileConfig struct {
	MaxFiles  int `mapstructure:"max_files" toml:"max_files" json:"max_files" yaml:"max_files"`         // Max archive entries (0 = unlimited)
	MaxSizeMB int `mapstructure:"max_size_mb" toml:"max_size_mb" json:"max_size_mb" yaml:"max_size_mb"` // Max total uncompressed size in MiB (0 = unlimited)
}

// LogConfig configures geckocaps' own logging
type LogConfig struct {
	JSON      bool `mapstructure:"json" toml:"json" json:"json" yaml:"json"`
	Verbosity int  `mapstructure:"verbosity" toml:"verbosity" json:"verbosity" yaml:"verbosity"`
}

// Remote transport defaults
const (
	DefaultWebSocketPort = 9222
	MaxPort              = 65535
)

// Profile archive defaults
const (
	DefaultProfileMaxFiles  = 10000
	DefaultProfileMaxSizeMB = 512
)

// File system constants
const (
	DefaultDirPermissions  = 0755 // Standard directory permissions (rwxr-xr-x)
	DefaultFilePermissions = 0644 // Standard file permissions (rw-r--r--)
)

// ProfileMaxSizeBytes returns profile.max_size_mb in bytes.
func (c *Config) ProfileMaxSizeBytes() int64 {
	return int64(c.Profile.MaxSizeMB) << 20
}

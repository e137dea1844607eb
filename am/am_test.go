package am

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	// Create isolated viper instance without loading user/system config
	v := viper.New()
	SetDefaults(v)

	cfg, err := LoadWithViper(v)
	if err != nil {
		t.Fatalf("LoadWithViper() failed: %v", err)
	}

	if cfg.Remote.WebSocketPort != DefaultWebSocketPort {
		t.Errorf("expected default port %d, got %d", DefaultWebSocketPort, cfg.Remote.WebSocketPort)
	}
	if cfg.Driver.AndroidStorage != "auto" {
		t.Errorf("expected default android storage 'auto', got %q", cfg.Driver.AndroidStorage)
	}
	if cfg.Profile.MaxFiles != DefaultProfileMaxFiles {
		t.Errorf("expected default max files %d, got %d", DefaultProfileMaxFiles, cfg.Profile.MaxFiles)
	}
	if cfg.ProfileMaxSizeBytes() != 512<<20 {
		t.Errorf("expected 512 MiB, got %d", cfg.ProfileMaxSizeBytes())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Driver: DriverConfig{AndroidStorage: "auto"},
			Remote: RemoteConfig{WebSocketPort: DefaultWebSocketPort},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"empty storage is auto", func(c *Config) { c.Driver.AndroidStorage = "" }, false},
		{"unknown storage", func(c *Config) { c.Driver.AndroidStorage = "usb" }, true},
		{"zero port", func(c *Config) { c.Remote.WebSocketPort = 0 }, true},
		{"port too large", func(c *Config) { c.Remote.WebSocketPort = 70000 }, true},
		{"hosts", func(c *Config) { c.Remote.AllowHosts = []string{"foo", "bar.local"} }, false},
		{"empty host", func(c *Config) { c.Remote.AllowHosts = []string{" "} }, true},
		{"host with comma", func(c *Config) { c.Remote.AllowHosts = []string{"a,b"} }, true},
		{"origins", func(c *Config) { c.Remote.AllowOrigins = []string{"http://foo/", "https://bar:8443"} }, false},
		{"relative origin", func(c *Config) { c.Remote.AllowOrigins = []string{"foo"} }, true},
		{"zero limits are unlimited", func(c *Config) { c.Profile = ProfileConfig{} }, false},
		{"negative max files", func(c *Config) { c.Profile.MaxFiles = -1 }, true},
		{"negative max size", func(c *Config) { c.Profile.MaxSizeMB = -1 }, true},
		{"negative verbosity", func(c *Config) { c.Log.Verbosity = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSetDefaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	tests := []struct {
		key      string
		expected interface{}
	}{
		{"remote.websocket_port", DefaultWebSocketPort},
		{"driver.android_storage", "auto"},
		{"profile.max_files", DefaultProfileMaxFiles},
		{"profile.max_size_mb", DefaultProfileMaxSizeMB},
		{"log.json", false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got := v.Get(tt.key)
			if got != tt.expected {
				t.Errorf("default %s = %v, want %v", tt.key, got, tt.expected)
			}
		})
	}
}

func TestFindProjectConfig(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)

	t.Run("prefers am.toml", func(t *testing.T) {
		subDir := filepath.Join(tmpDir, "test1", "subdir")
		require.NoError(t, os.MkdirAll(subDir, DefaultDirPermissions))
		require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "test1", "am.toml"), []byte(""), DefaultFilePermissions))
		require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "test1", "config.toml"), []byte(""), DefaultFilePermissions))

		t.Chdir(subDir)

		result := findProjectConfig()
		require.NotEmpty(t, result)
		assert.True(t, filepath.IsAbs(result))
		assert.Equal(t, "am.toml", filepath.Base(result))
	})

	t.Run("fallback to config.toml", func(t *testing.T) {
		subDir := filepath.Join(tmpDir, "test2", "subdir")
		require.NoError(t, os.MkdirAll(subDir, DefaultDirPermissions))
		require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "test2", "config.toml"), []byte(""), DefaultFilePermissions))

		t.Chdir(subDir)

		assert.Equal(t, "config.toml", filepath.Base(findProjectConfig()))
	})
}

func TestLoad_Cascade(t *testing.T) {
	Reset()
	defer Reset()

	home := t.TempDir()
	t.Setenv("HOME", home)
	userDir := filepath.Join(home, UserDirName)
	require.NoError(t, os.MkdirAll(userDir, DefaultDirPermissions))

	require.NoError(t, os.WriteFile(filepath.Join(userDir, ConfigName), []byte(`
[driver]
binary = "/opt/firefox/firefox"

[remote]
websocket_port = 9333
allow_hosts = ["foo"]
`), DefaultFilePermissions))

	project := filepath.Join(home, "work", "project")
	require.NoError(t, os.MkdirAll(project, DefaultDirPermissions))
	require.NoError(t, os.WriteFile(filepath.Join(project, ConfigName), []byte(`
[remote]
allow_hosts = ["foo", "bar"]
`), DefaultFilePermissions))
	t.Chdir(project)

	t.Setenv("GECKOCAPS_PROFILE_MAX_FILES", "50")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/opt/firefox/firefox", cfg.Driver.Binary, "user value survives project merge")
	assert.Equal(t, 9333, cfg.Remote.WebSocketPort)
	assert.Equal(t, []string{"foo", "bar"}, cfg.Remote.AllowHosts, "project overrides user")
	assert.Equal(t, 50, cfg.Profile.MaxFiles, "env overrides files")

	assert.Equal(t, SourceUser, ConfigSources["driver.binary"].Source)
	assert.Equal(t, SourceProject, ConfigSources["remote.allow_hosts"].Source)

	intro := GetConfigIntrospection()
	sources := map[string]ConfigSource{}
	for _, s := range intro.Settings {
		sources[s.Key] = s.Source
	}
	assert.Equal(t, SourceEnvironment, sources["profile.max_files"])
	assert.Equal(t, SourceDefault, sources["log.json"])
	assert.Equal(t, SourceProject, sources["remote.allow_hosts"])
}

func TestLoad_EnvAlias(t *testing.T) {
	Reset()
	defer Reset()

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(home)
	t.Setenv("GECKOCAPS_BINARY", "/usr/local/bin/firefox")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/usr/local/bin/firefox", cfg.Driver.Binary)
}

func TestBindFlag(t *testing.T) {
	Reset()
	defer Reset()

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(home)
	require.NoError(t, os.WriteFile(filepath.Join(home, ConfigName), []byte("[driver]\nbinary = \"/usr/bin/firefox\"\n"), DefaultFilePermissions))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/usr/bin/firefox", cfg.Driver.Binary)

	flags := pflag.NewFlagSet("resolve", pflag.ContinueOnError)
	flags.String("binary", "", "")
	require.NoError(t, flags.Parse([]string{"--binary", "/opt/firefox/firefox"}))

	require.NoError(t, BindFlag("driver.binary", flags.Lookup("binary")))

	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, "/opt/firefox/firefox", cfg.Driver.Binary, "a flag bound after loading wins")

	assert.Error(t, BindFlag("driver.binary", nil))
}

func TestMergeFile(t *testing.T) {
	Reset()
	defer Reset()

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(home)
	t.Setenv("GECKOCAPS_REMOTE_WEBSOCKET_PORT", "9555")

	path := filepath.Join(t.TempDir(), "override.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[remote]
websocket_port = 9444
allow_origins = ["https://example.test"]
`), DefaultFilePermissions))

	require.NoError(t, MergeFile(path))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.test"}, cfg.Remote.AllowOrigins)
	assert.Equal(t, 9555, cfg.Remote.WebSocketPort, "env overrides the merged file")

	files := MergedFiles()
	require.Len(t, files, 1)
	assert.Equal(t, SourceCommandLine, files[0].Source)
	assert.Contains(t, GetConfigIntrospection().Files, files[0])

	assert.Error(t, MergeFile(filepath.Join(home, "missing.toml")))
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.toml")
	require.NoError(t, os.WriteFile(path, []byte("[driver]\nandroid_storage = \"sdcard\"\n"), DefaultFilePermissions))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "sdcard", cfg.Driver.AndroidStorage)
	assert.Equal(t, DefaultWebSocketPort, cfg.Remote.WebSocketPort)

	_, err = LoadFromFile(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestSetFileValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "am.toml")

	require.NoError(t, SetFileValue(path, "remote.websocket_port", ParseValue("9444")))
	require.NoError(t, SetFileValue(path, "remote.allow_hosts", ParseValue(`["foo", "bar"]`)))
	require.NoError(t, SetFileValue(path, "driver.binary", ParseValue("/opt/firefox/firefox")))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 9444, cfg.Remote.WebSocketPort)
	assert.Equal(t, []string{"foo", "bar"}, cfg.Remote.AllowHosts)
	assert.Equal(t, "/opt/firefox/firefox", cfg.Driver.Binary)

	assert.FileExists(t, path+".back1")
	assert.FileExists(t, path+".back2")

	assert.Error(t, SetFileValue(path, "remote..port", 1))
}

func TestParseValue(t *testing.T) {
	assert.Equal(t, int64(42), ParseValue("42"))
	assert.Equal(t, true, ParseValue("true"))
	assert.Equal(t, "sdcard", ParseValue("sdcard"))
	assert.Equal(t, "quoted", ParseValue(`"quoted"`))
	assert.Equal(t, []interface{}{"a", "b"}, ParseValue(`["a", "b"]`))
}

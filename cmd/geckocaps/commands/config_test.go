package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teranos/geckocaps/am"
	"github.com/teranos/geckocaps/android"
)

func TestTransportSettings(t *testing.T) {
	cfg := &am.Config{
		Driver: am.DriverConfig{ProfileRoot: "/var/tmp/profiles", AndroidStorage: "sdcard"},
		Remote: am.RemoteConfig{
			WebSocketPort: 9333,
			AllowHosts:    []string{"localhost", "127.0.0.1"},
			AllowOrigins:  []string{"http://localhost:8000"},
		},
	}

	settings, err := transportSettings(cfg)
	require.NoError(t, err)
	assert.Equal(t, "/var/tmp/profiles", settings.ProfileRoot)
	assert.Equal(t, android.StorageSdcard, settings.AndroidStorage)
	assert.Equal(t, uint16(9333), settings.WebSocketPort)
	assert.Equal(t, []string{"localhost", "127.0.0.1"}, settings.AllowHosts)
	assert.Equal(t, []string{"http://localhost:8000"}, settings.AllowOrigins)
}

func TestTransportSettings_Invalid(t *testing.T) {
	tests := []struct {
		name string
		cfg  am.Config
	}{
		{"unknown storage", am.Config{Driver: am.DriverConfig{AndroidStorage: "cloud"}, Remote: am.RemoteConfig{WebSocketPort: 9222}}},
		{"port zero", am.Config{Remote: am.RemoteConfig{WebSocketPort: 0}}},
		{"port too large", am.Config{Remote: am.RemoteConfig{WebSocketPort: 70000}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := transportSettings(&tt.cfg)
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	isolate(t, nil)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, am.DefaultWebSocketPort, cfg.Remote.WebSocketPort)
	assert.Equal(t, am.DefaultProfileMaxFiles, cfg.Profile.MaxFiles)
}

func TestLoadConfig_ConfigFlag(t *testing.T) {
	dir := isolate(t, nil)
	writeFile(t, dir, am.ConfigName, "[remote]\nwebsocket_port = 9400\n")
	ConfigPath = writeFile(t, t.TempDir(), "override.toml", "[remote]\nallow_hosts = [\"example.test\"]\n")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 9400, cfg.Remote.WebSocketPort, "project config still applies")
	assert.Equal(t, []string{"example.test"}, cfg.Remote.AllowHosts)

	// A second load does not merge the file twice
	_, err = LoadConfig()
	require.NoError(t, err)
	assert.Len(t, am.MergedFiles(), 1)

	intro := am.GetConfigIntrospection()
	var found bool
	for _, s := range intro.Settings {
		if s.Key == "remote.allow_hosts" {
			found = true
			assert.Equal(t, am.SourceCommandLine, s.Source)
			assert.Equal(t, ConfigPath, s.SourcePath)
		}
	}
	assert.True(t, found)
}

func TestLoadConfig_Invalid(t *testing.T) {
	dir := isolate(t, nil)
	writeFile(t, dir, am.ConfigName, "[remote]\nwebsocket_port = 0\n")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "remote.websocket_port")
}

func TestLoadConfig_MissingConfigFlag(t *testing.T) {
	isolate(t, nil)
	ConfigPath = "/nonexistent/geckocaps.toml"

	_, err := LoadConfig()
	assert.Error(t, err)
}

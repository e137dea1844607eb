package commands

import (
	"github.com/teranos/geckocaps/am"
	"github.com/teranos/geckocaps/android"
	"github.com/teranos/geckocaps/capabilities"
	"github.com/teranos/geckocaps/errors"
	"github.com/teranos/geckocaps/mozprofile"
	"github.com/teranos/geckocaps/mozversion"
)

// ConfigPath is set by the global --config flag
var ConfigPath string

// LoadConfig merges --config over the config cascade, loads and
// validates the result
func LoadConfig() (*am.Config, error) {
	if ConfigPath != "" && !merged(ConfigPath) {
		if err := am.MergeFile(ConfigPath); err != nil {
			return nil, err
		}
	}

	cfg, err := am.Load()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return cfg, nil
}

func merged(path string) bool {
	for _, file := range am.MergedFiles() {
		if file.Path == path {
			return true
		}
	}
	return false
}

// transportSettings converts the driver and remote sections into the
// settings the session builder needs
func transportSettings(cfg *am.Config) (capabilities.TransportSettings, error) {
	storage, err := android.ParseStorage(cfg.Driver.AndroidStorage)
	if err != nil {
		return capabilities.TransportSettings{}, errors.Wrap(err, "driver.android_storage")
	}
	if cfg.Remote.WebSocketPort <= 0 || cfg.Remote.WebSocketPort > am.MaxPort {
		return capabilities.TransportSettings{}, errors.Newf("remote.websocket_port out of range: %d", cfg.Remote.WebSocketPort)
	}

	return capabilities.TransportSettings{
		ProfileRoot:    cfg.Driver.ProfileRoot,
		AndroidStorage: storage,
		WebSocketPort:  uint16(cfg.Remote.WebSocketPort),
		AllowHosts:     cfg.Remote.AllowHosts,
		AllowOrigins:   cfg.Remote.AllowOrigins,
	}, nil
}

// newProbe is replaced in tests
var newProbe = func() mozversion.Probe {
	return mozversion.NewSystemProbe()
}

// newResolver returns a version resolver with an empty cache
func newResolver() *mozversion.Resolver {
	return mozversion.NewResolver(newProbe(), mozversion.NewCache())
}

// newBuilder returns a session builder honouring the profile archive limits
func newBuilder(cfg *am.Config) *capabilities.Builder {
	extractor := mozprofile.NewZipExtractor(cfg.Profile.MaxFiles, cfg.ProfileMaxSizeBytes())
	return capabilities.NewBuilder(mozprofile.DirStore{}, extractor)
}

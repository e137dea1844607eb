package am

import (
	"net/url"
	"strings"

	"github.com/teranos/geckocaps/android"
	"github.com/teranos/geckocaps/errors"
)

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	// Android storage must be one of the known locations
	if _, err := android.ParseStorage(c.Driver.AndroidStorage); err != nil {
		return errors.Wrap(err, "driver.android_storage")
	}

	// WebSocket port: 0 is invalid (Firefox would pick a random port the
	// driver cannot know)
	if c.Remote.WebSocketPort <= 0 || c.Remote.WebSocketPort > MaxPort {
		return errors.Newf("remote.websocket_port must be between 1 and %d, got %d", MaxPort, c.Remote.WebSocketPort)
	}

	for _, host := range c.Remote.AllowHosts {
		if strings.TrimSpace(host) == "" {
			return errors.New("remote.allow_hosts cannot contain empty hosts")
		}
		if strings.Contains(host, ",") {
			return errors.Newf("remote.allow_hosts entry %q cannot contain ','", host)
		}
	}

	for _, origin := range c.Remote.AllowOrigins {
		u, err := url.Parse(origin)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return errors.Newf("remote.allow_origins entry %q is not an absolute URL", origin)
		}
		if strings.Contains(origin, ",") {
			return errors.Newf("remote.allow_origins entry %q cannot contain ','", origin)
		}
	}

	// Profile limits: 0 = unlimited, negative = invalid
	if c.Profile.MaxFiles < 0 {
		return errors.Newf("profile.max_files must be >= 0, got %d", c.Profile.MaxFiles)
	}
	if c.Profile.MaxSizeMB < 0 {
		return errors.Newf("profile.max_size_mb must be >= 0, got %d", c.Profile.MaxSizeMB)
	}

	if c.Log.Verbosity < 0 {
		return errors.Newf("log.verbosity must be >= 0, got %d", c.Log.Verbosity)
	}

	return nil
}

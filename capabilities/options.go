package capabilities

import (
	"encoding/json"
	"strings"

	"github.com/teranos/geckocaps/android"
	"github.com/teranos/geckocaps/errors"
	"github.com/teranos/geckocaps/mozprofile"
	"go.uber.org/zap/zapcore"
)

// Capability keys.
const (
	KeyFirefoxOptions  = "moz:firefoxOptions"
	KeyDebuggerAddress = "moz:debuggerAddress"
	KeyWebDriverClick  = "moz:webdriverClick"
	KeyWebSocketURL    = "webSocketUrl"

	vendorPrefix = "moz:"
)

// Keys inside moz:firefoxOptions.
const (
	optArgs    = "args"
	optBinary  = "binary"
	optEnv     = "env"
	optLog     = "log"
	optPrefs   = "prefs"
	optProfile = "profile"

	logLevelKey = "level"
)

// TransportSettings are the server-side values the builder needs.
type TransportSettings struct {
	// ProfileRoot is where temporary profiles are created, empty for the
	// system temp directory
	ProfileRoot    string
	AndroidStorage android.Storage
	// WebSocketPort is passed as --remote-debugging-port
	WebSocketPort uint16
	AllowHosts    []string
	AllowOrigins  []string
}

// LogLevel is a Firefox log level from moz:firefoxOptions.log.level.
type LogLevel int

const (
	LogFatal LogLevel = iota
	LogError
	LogWarn
	LogInfo
	LogConfig
	LogDebug
	LogTrace
)

var logLevelNames = []string{"fatal", "error", "warn", "info", "config", "debug", "trace"}

// ParseLogLevel parses a level name case-insensitively.
func ParseLogLevel(s string) (LogLevel, bool) {
	for i, name := range logLevelNames {
		if strings.EqualFold(s, name) {
			return LogLevel(i), true
		}
	}
	return 0, false
}

func (l LogLevel) String() string {
	if l < 0 || int(l) >= len(logLevelNames) {
		return "unknown"
	}
	return logLevelNames[l]
}

// MarshalText renders the level name.
func (l LogLevel) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// ZapLevel maps the level onto zap. Config and trace have no zap
// counterpart and map to the nearest more verbose level.
func (l LogLevel) ZapLevel() zapcore.Level {
	switch l {
	case LogFatal:
		return zapcore.FatalLevel
	case LogError:
		return zapcore.ErrorLevel
	case LogWarn:
		return zapcore.WarnLevel
	case LogInfo:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}

// LogOptions holds moz:firefoxOptions.log.
type LogOptions struct {
	// Level is nil when the client did not ask for one
	Level *LogLevel `json:"level,omitempty"`
}

// EnvVar is one environment variable for the browser process.
type EnvVar struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// loadArgs reads options.args. nil means absent.
func loadArgs(options *Map) ([]string, error) {
	raw, ok := options.Get(optArgs)
	if !ok {
		return nil, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, errors.NewInvalidArgument("Arguments were not an array")
	}
	args := make([]string, 0, len(list))
	for _, item := range list {
		s, ok := item.(string)
		if !ok {
			return nil, errors.NewInvalidArgument("Arguments entries were not all strings")
		}
		args = append(args, s)
	}
	return args, nil
}

// loadEnv reads options.env in document order. nil means absent.
func loadEnv(options *Map) ([]EnvVar, error) {
	raw, ok := options.Get(optEnv)
	if !ok {
		return nil, nil
	}
	env, ok := raw.(*Map)
	if !ok {
		return nil, errors.NewInvalidArgument("Env was not an object")
	}
	vars := make([]EnvVar, 0, env.Len())
	for pair := env.Oldest(); pair != nil; pair = pair.Next() {
		s, ok := pair.Value.(string)
		if !ok {
			return nil, errors.NewInvalidArgument("Env value is not a string")
		}
		vars = append(vars, EnvVar{Name: pair.Key, Value: s})
	}
	return vars, nil
}

func loadLog(options *Map) (LogOptions, error) {
	raw, ok := options.Get(optLog)
	if !ok {
		return LogOptions{}, nil
	}
	section, ok := raw.(*Map)
	if !ok {
		return LogOptions{}, errors.NewInvalidArgument("Log section is not an object")
	}

	raw, ok = section.Get(logLevelKey)
	if !ok {
		return LogOptions{}, nil
	}
	name, ok := raw.(string)
	if !ok {
		return LogOptions{}, errors.NewInvalidArgument("Log level is not a string")
	}
	level, ok := ParseLogLevel(name)
	if !ok {
		return LogOptions{}, errors.NewInvalidArgument("Log level is unknown")
	}
	return LogOptions{Level: &level}, nil
}

// loadPrefs reads options.prefs in document order.
func loadPrefs(options *Map) ([]mozprofile.Pref, error) {
	raw, ok := options.Get(optPrefs)
	if !ok {
		return nil, nil
	}
	prefs, ok := raw.(*Map)
	if !ok {
		return nil, errors.NewInvalidArgument("Prefs were not an object")
	}
	out := make([]mozprofile.Pref, 0, prefs.Len())
	for pair := prefs.Oldest(); pair != nil; pair = pair.Next() {
		value, err := prefFromJSON(pair.Value)
		if err != nil {
			return nil, err
		}
		out = append(out, mozprofile.Pref{Name: pair.Key, Value: value})
	}
	return out, nil
}

func prefFromJSON(v any) (mozprofile.PrefValue, error) {
	switch x := v.(type) {
	case string:
		return mozprofile.StringPref(x), nil
	case bool:
		return mozprofile.BoolPref(x), nil
	case json.Number:
		if i, ok := asInt64(x); ok {
			return mozprofile.IntPref(i), nil
		}
	}
	return nil, errors.NewUnknownErrorf("Could not convert pref value to string, boolean, or integer")
}

// isPrefValue reports whether v has one of the accepted preference shapes.
func isPrefValue(v any) bool {
	switch x := v.(type) {
	case string, bool:
		return true
	case json.Number:
		return isInteger(x)
	default:
		return false
	}
}

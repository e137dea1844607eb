// Package android resolves the Android launch options of a Firefox session:
// which app package to start, through which activity, on which device.
package android

import (
	"regexp"
	"strings"

	"github.com/teranos/geckocaps/errors"
)

// Option keys inside moz:firefoxOptions.
const (
	KeyPackage         = "androidPackage"
	KeyActivity        = "androidActivity"
	KeyDeviceSerial    = "androidDeviceSerial"
	KeyIntentArguments = "androidIntentArguments"
)

// https://developer.android.com/studio/build/application-id
var packagePattern = regexp.MustCompile(`^([a-zA-Z][a-zA-Z0-9_]*\.)+([a-zA-Z][a-zA-Z0-9_]*)$`)

const (
	fenixActivity = "org.mozilla.fenix.IntentReceiverActivity"
	focusActivity = "org.mozilla.focus.activity.IntentReceiverActivity"
)

// knownActivities maps Mozilla app packages to their intent receiver.
var knownActivities = map[string]string{
	"org.mozilla.firefox":           fenixActivity,
	"org.mozilla.firefox_beta":      fenixActivity,
	"org.mozilla.fenix":             fenixActivity,
	"org.mozilla.fenix.debug":       fenixActivity,
	"org.mozilla.reference.browser": fenixActivity,
	"org.mozilla.focus":             focusActivity,
	"org.mozilla.focus.debug":       focusActivity,
	"org.mozilla.klar":              focusActivity,
	"org.mozilla.klar.debug":        focusActivity,
}

// DefaultIntentArguments opens a blank page.
func DefaultIntentArguments() []string {
	return []string{"-a", "android.intent.action.VIEW", "-d", "about:blank"}
}

// Storage selects where test files are pushed on the device.
type Storage int

const (
	StorageAuto Storage = iota
	StorageApp
	StorageInternal
	StorageSdcard
)

// ParseStorage parses auto, app, internal or sdcard (case-insensitive).
// The empty string is auto.
func ParseStorage(s string) (Storage, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return StorageAuto, nil
	case "app":
		return StorageApp, nil
	case "internal":
		return StorageInternal, nil
	case "sdcard":
		return StorageSdcard, nil
	default:
		return StorageAuto, errors.Newf("unknown android storage %q (expected auto, app, internal or sdcard)", s)
	}
}

func (s Storage) String() string {
	switch s {
	case StorageApp:
		return "app"
	case StorageInternal:
		return "internal"
	case StorageSdcard:
		return "sdcard"
	default:
		return "auto"
	}
}

// MarshalText renders the storage name.
func (s Storage) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Options are the resolved Android launch options.
type Options struct {
	Package string `json:"package"`
	// Activity is empty when the launcher should detect it
	Activity string `json:"activity,omitempty"`
	// DeviceSerial is empty when any attached device will do
	DeviceSerial    string   `json:"deviceSerial,omitempty"`
	IntentArguments []string `json:"intentArguments"`
	Storage         Storage  `json:"storage"`
}

// Fields gives access to the decoded moz:firefoxOptions object.
type Fields interface {
	Get(key string) (any, bool)
}

// Resolve reads the android* options from fields. It returns nil when no
// androidPackage is present.
func Resolve(storage Storage, fields Fields) (*Options, error) {
	raw, ok := fields.Get(KeyPackage)
	if !ok {
		return nil, nil
	}

	pkg, ok := raw.(string)
	if !ok {
		return nil, errors.NewInvalidArgument("androidPackage is not a string")
	}
	if !ValidPackage(pkg) {
		return nil, errors.NewInvalidArgument("Not a valid androidPackage name")
	}

	opts := &Options{Package: pkg, Storage: storage}

	if raw, ok := fields.Get(KeyActivity); ok {
		activity, ok := raw.(string)
		if !ok {
			return nil, errors.NewInvalidArgument("androidActivity is not a string")
		}
		if strings.Contains(activity, "/") {
			return nil, errors.NewInvalidArgument("androidActivity should not contain '/")
		}
		opts.Activity = activity
	} else {
		opts.Activity = DefaultActivity(pkg)
	}

	if raw, ok := fields.Get(KeyDeviceSerial); ok {
		serial, ok := raw.(string)
		if !ok {
			return nil, errors.NewInvalidArgument("androidDeviceSerial is not a string")
		}
		opts.DeviceSerial = serial
	}

	if raw, ok := fields.Get(KeyIntentArguments); ok {
		list, ok := raw.([]any)
		if !ok {
			return nil, errors.NewInvalidArgument("androidIntentArguments is not an array")
		}
		args := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, errors.NewInvalidArgument("androidIntentArguments entries are not all strings")
			}
			args = append(args, s)
		}
		opts.IntentArguments = args
	} else {
		opts.IntentArguments = DefaultIntentArguments()
	}

	return opts, nil
}

// ValidPackage reports whether pkg is a valid Android application id.
func ValidPackage(pkg string) bool {
	return packagePattern.MatchString(pkg)
}

// DefaultActivity returns the intent receiver of a known Mozilla package,
// or "" for anything else.
func DefaultActivity(pkg string) string {
	return knownActivities[pkg]
}

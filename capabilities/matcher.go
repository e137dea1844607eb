package capabilities

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/teranos/geckocaps/errors"
	"github.com/teranos/geckocaps/logger"
	"github.com/teranos/geckocaps/mozversion"
	"go.uber.org/zap"
)

// BrowserName is the browserName this driver matches.
const BrowserName = "firefox"

// Features are the fixed answers to optional WebDriver features.
type Features struct {
	AcceptInsecureCerts           bool `json:"acceptInsecureCerts"`
	AcceptProxy                   bool `json:"acceptProxy"`
	SetWindowRect                 bool `json:"setWindowRect"`
	StrictFileInteractability     bool `json:"strictFileInteractability"`
	WebSocketURL                  bool `json:"webSocketUrl"`
	WebAuthnVirtualAuthenticators bool `json:"webauthn:virtualAuthenticators"`
	WebAuthnExtensionUVM          bool `json:"webauthn:extension:uvm"`
	WebAuthnExtensionPRF          bool `json:"webauthn:extension:prf"`
	WebAuthnExtensionLargeBlob    bool `json:"webauthn:extension:largeBlob"`
	WebAuthnExtensionCredBlob     bool `json:"webauthn:extension:credBlob"`
}

// Matcher answers capability-matching questions for one new-session
// request and picks the Firefox binary the session will use.
type Matcher struct {
	fallbackBinary string
	chosenBinary   string
	resolver       *mozversion.Resolver
	defaultBinary  func() string
	logger         *zap.SugaredLogger
}

// NewMatcher creates a matcher. fallbackBinary is used when the request
// names no binary, typically the --binary flag; it may be empty.
func NewMatcher(fallbackBinary string, resolver *mozversion.Resolver) *Matcher {
	return &Matcher{
		fallbackBinary: fallbackBinary,
		resolver:       resolver,
		defaultBinary:  DefaultBinary,
		logger:         logger.ComponentLogger("capabilities"),
	}
}

// Init chooses the binary: moz:firefoxOptions.binary, then the fallback,
// then the platform default.
func (m *Matcher) Init(caps *Map) {
	m.chosenBinary = ""
	if raw, ok := caps.Get(KeyFirefoxOptions); ok {
		if options, ok := raw.(*Map); ok {
			if binary, ok := options.Get(optBinary); ok {
				if s, ok := binary.(string); ok {
					m.chosenBinary = s
				}
			}
		}
	}
	if m.chosenBinary == "" {
		m.chosenBinary = m.fallbackBinary
	}
	if m.chosenBinary == "" {
		m.chosenBinary = m.defaultBinary()
	}
	m.logger.Debugw("Chose binary", logger.FieldBinary, m.chosenBinary)
}

// ChosenBinary returns the binary picked by Init, empty if none was found.
func (m *Matcher) ChosenBinary() string {
	return m.chosenBinary
}

// BrowserName implements capability matching.
func (m *Matcher) BrowserName() string {
	return BrowserName
}

// BrowserVersion resolves the version of the chosen binary.
func (m *Matcher) BrowserVersion() (string, error) {
	v, err := m.resolver.Resolve(m.chosenBinary)
	if err != nil {
		return "", errors.Mark(err, errors.ErrSessionNotCreated)
	}
	return v.String(), nil
}

// PlatformName returns the WebDriver platform name, empty on platforms
// without one.
func (m *Matcher) PlatformName() string {
	return platformName(runtime.GOOS)
}

func platformName(goos string) string {
	switch goos {
	case "windows":
		return "windows"
	case "darwin":
		return "mac"
	case "linux":
		return "linux"
	default:
		return ""
	}
}

// CompareBrowserVersion reports whether version satisfies comparison,
// e.g. ("115.0.2", ">=115").
func (m *Matcher) CompareBrowserVersion(version, comparison string) (bool, error) {
	v, err := mozversion.Parse(version)
	if err != nil {
		return false, errors.Mark(err, errors.ErrSessionNotCreated)
	}
	ok, err := v.Matches(comparison)
	if err != nil {
		return false, errors.Mark(err, errors.ErrSessionNotCreated)
	}
	return ok, nil
}

// Features returns the optional features this driver supports.
func (m *Matcher) Features() Features {
	return Features{
		AcceptInsecureCerts:           true,
		AcceptProxy:                   true,
		SetWindowRect:                 true,
		StrictFileInteractability:     true,
		WebSocketURL:                  true,
		WebAuthnVirtualAuthenticators: true,
	}
}

// Match validates caps and checks the standard matching capabilities
// against this browser. It returns the capabilities the session will
// report: the client's, plus browserName, browserVersion and platformName.
func (m *Matcher) Match(caps *Map) (*Map, error) {
	if err := m.ValidateAll(caps); err != nil {
		return nil, err
	}

	if raw, ok := caps.Get("browserName"); ok {
		if name, _ := raw.(string); name != BrowserName {
			return nil, errors.NewSessionNotCreatedf("Unable to match capability set: browserName %v", raw)
		}
	}

	platform := m.PlatformName()
	if raw, ok := caps.Get("platformName"); ok {
		if name, _ := raw.(string); name != platform {
			return nil, errors.NewSessionNotCreatedf("Unable to match capability set: platformName %v", raw)
		}
	}

	version, err := m.BrowserVersion()
	if err != nil {
		return nil, err
	}
	if raw, ok := caps.Get("browserVersion"); ok {
		comparison, ok := raw.(string)
		if !ok {
			return nil, errors.NewInvalidArgument("browserVersion is not a string")
		}
		matches, err := m.CompareBrowserVersion(version, comparison)
		if err != nil {
			return nil, err
		}
		if !matches {
			return nil, errors.NewSessionNotCreatedf("Unable to match capability set: browserVersion %s", comparison)
		}
	}

	matched := NewMap()
	matched.Set("browserName", BrowserName)
	matched.Set("browserVersion", version)
	if platform != "" {
		matched.Set("platformName", platform)
	}

	// Defaults for the optional features; the client's values win below.
	matched.Set("acceptInsecureCerts", false)
	matched.Set("setWindowRect", m.Features().SetWindowRect)
	matched.Set("strictFileInteractability", false)

	for pair := caps.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Key == "browserVersion" {
			continue
		}
		matched.Set(pair.Key, pair.Value)
	}
	return matched, nil
}

// DefaultBinary looks for an installed Firefox: firefox on PATH, then
// the usual install locations. It returns "" when none exists.
func DefaultBinary() string {
	if path, err := exec.LookPath("firefox"); err == nil {
		return path
	}
	for _, candidate := range defaultLocations() {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	return ""
}

func defaultLocations() []string {
	switch runtime.GOOS {
	case "darwin":
		locations := []string{"/Applications/Firefox.app/Contents/MacOS/firefox"}
		if home, err := os.UserHomeDir(); err == nil {
			locations = append(locations, filepath.Join(home, "Applications", "Firefox.app", "Contents", "MacOS", "firefox"))
		}
		return locations
	case "windows":
		var locations []string
		for _, env := range []string{"ProgramFiles", "ProgramFiles(x86)"} {
			if dir := os.Getenv(env); dir != "" {
				locations = append(locations, filepath.Join(dir, "Mozilla Firefox", "firefox.exe"))
			}
		}
		return locations
	default:
		return []string{"/usr/bin/firefox", "/usr/lib/firefox/firefox", "/snap/bin/firefox"}
	}
}

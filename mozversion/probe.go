package mozversion

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"github.com/teranos/geckocaps/errors"
	"github.com/teranos/geckocaps/logger"
	"go.uber.org/zap"
	"gopkg.in/ini.v1"
)

// Probe reads a raw version string for a binary.
// The two strategies are independent; Resolver tries MetadataVersion first.
type Probe interface {
	// MetadataVersion reads the version from files shipped with the binary
	// without starting it.
	MetadataVersion(binary string) (string, error)
	// BinaryVersion asks the binary itself.
	BinaryVersion(binary string) (string, error)
}

const applicationIni = "application.ini"

var binaryVersionPattern = regexp.MustCompile(`Mozilla Firefox[[:space:]]+(\S+)`)

// DefaultProbeTimeout bounds `firefox --version`.
const DefaultProbeTimeout = 30 * time.Second

// SystemProbe implements Probe against the local filesystem.
type SystemProbe struct {
	// Timeout bounds BinaryVersion; zero means no limit
	Timeout time.Duration
	logger  *zap.SugaredLogger
}

// NewSystemProbe creates a probe reading application.ini and running binaries.
func NewSystemProbe() *SystemProbe {
	return &SystemProbe{
		Timeout: DefaultProbeTimeout,
		logger:  logger.ComponentLogger("mozversion.probe"),
	}
}

// metadataDirs lists where application.ini may live relative to the binary.
// macOS bundles keep it in Contents/Resources next to Contents/MacOS.
func metadataDirs(binary string) []string {
	dir := filepath.Dir(binary)
	dirs := []string{dir}
	if runtime.GOOS == "darwin" {
		dirs = append(dirs, filepath.Join(dir, "..", "Resources"))
	}
	return dirs
}

// MetadataVersion reads [App] Version from application.ini.
func (p *SystemProbe) MetadataVersion(binary string) (string, error) {
	p.logger.Debugw("Trying to read firefox version from ini files", logger.FieldBinary, binary)

	for _, dir := range metadataDirs(binary) {
		path := filepath.Join(dir, applicationIni)
		if _, err := os.Stat(path); err != nil {
			continue
		}

		cfg, err := ini.Load(path)
		if err != nil {
			return "", errors.Wrapf(err, "failed to parse %s", path)
		}

		version := cfg.Section("App").Key("Version").String()
		if version == "" {
			return "", errors.Newf("missing version string in %s", path)
		}
		return version, nil
	}

	return "", errors.Newf("no %s found for %s", applicationIni, binary)
}

// BinaryVersion runs `<binary> --version` and extracts the version from
// "Mozilla Firefox 115.0".
func (p *SystemProbe) BinaryVersion(binary string) (string, error) {
	p.logger.Debugw("Trying to read firefox version from binary", logger.FieldBinary, binary)

	ctx := context.Background()
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, binary, "--version")
	cmd.WaitDelay = time.Second
	out, err := cmd.Output()
	if ctx.Err() == context.DeadlineExceeded {
		return "", errors.Newf("%s --version did not exit within %s", binary, p.Timeout)
	}
	if err != nil {
		return "", errors.Wrapf(err, "failed to run %s --version", binary)
	}

	m := binaryVersionPattern.FindStringSubmatch(string(out))
	if m == nil {
		return "", errors.Newf("unexpected --version output: %q", strings.TrimSpace(string(out)))
	}
	return m[1], nil
}

package commands

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
	"github.com/teranos/geckocaps/am"
	"github.com/teranos/geckocaps/errors"
	"github.com/teranos/geckocaps/mozversion"
)

const testBinary = "/opt/firefox/firefox"

// fakeProbe knows the versions of a fixed set of binaries
type fakeProbe struct {
	versions map[string]string
}

func (p *fakeProbe) MetadataVersion(binary string) (string, error) {
	return "", errors.New("no application.ini")
}

func (p *fakeProbe) BinaryVersion(binary string) (string, error) {
	if v, ok := p.versions[binary]; ok {
		return v, nil
	}
	return "", errors.Newf("%s: no such file or directory", binary)
}

// isolate gives the test an empty home and project directory, a fresh
// config and a fake version probe
func isolate(t *testing.T, versions map[string]string) string {
	t.Helper()

	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	t.Chdir(dir)

	am.Reset()
	t.Cleanup(am.Reset)

	ConfigPath = ""
	t.Cleanup(func() { ConfigPath = "" })

	orig := newProbe
	newProbe = func() mozversion.Probe { return &fakeProbe{versions: versions} }
	t.Cleanup(func() { newProbe = orig })

	return dir
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// execute runs cmd with args and returns what it wrote to stdout
func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	resetFlags(cmd)

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	t.Cleanup(func() {
		cmd.SetOut(nil)
		cmd.SetErr(nil)
		cmd.SetArgs(nil)
	})

	err := cmd.Execute()
	return out.String(), err
}

// resetFlags restores flag defaults left over from earlier executions
func resetFlags(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

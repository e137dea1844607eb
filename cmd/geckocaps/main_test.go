package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teranos/geckocaps/am"
	"github.com/teranos/geckocaps/cmd/geckocaps/commands"
	"github.com/tidwall/gjson"
)

// fakeFirefox creates a binary whose version is read from application.ini
func fakeFirefox(t *testing.T, version string) string {
	t.Helper()
	dir := t.TempDir()
	binary := filepath.Join(dir, "firefox")
	require.NoError(t, os.WriteFile(binary, []byte("#!/bin/sh\necho \"Mozilla Firefox "+version+"\"\n"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "application.ini"), []byte("[App]\nName=Firefox\nVersion="+version+"\n"), 0o644))
	return binary
}

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return out.String(), err
}

func TestRoot_ResolveBinaryFlag(t *testing.T) {
	tests := []struct {
		name   string
		config string
	}{
		{name: "no configured binary"},
		{name: "overrides driver.binary", config: "[driver]\nbinary = \"/nonexistent/firefox\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("HOME", t.TempDir())
			t.Setenv("PATH", "/nonexistent")
			dir := t.TempDir()
			t.Chdir(dir)
			am.Reset()
			t.Cleanup(am.Reset)
			commands.ConfigPath = ""

			if tt.config != "" {
				require.NoError(t, os.WriteFile(filepath.Join(dir, am.ConfigName), []byte(tt.config), 0o644))
			}
			caps := filepath.Join(dir, "caps.json")
			require.NoError(t, os.WriteFile(caps, []byte("{}"), 0o644))
			binary := fakeFirefox(t, "115.0")

			out, err := runRoot(t, "resolve", caps, "--binary", binary, "--json")
			require.NoError(t, err)
			assert.Equal(t, binary, gjson.Get(out, "session.binary").String())
			assert.Equal(t, "115.0", gjson.Get(out, "capabilities.browserVersion").String())
		})
	}
}

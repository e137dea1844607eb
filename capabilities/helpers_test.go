package capabilities

import (
	"archive/zip"
	"bytes"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/teranos/geckocaps/errors"
	"github.com/teranos/geckocaps/mozprofile"
	"github.com/teranos/geckocaps/mozversion"
)

// fakeProbe knows the versions of a fixed set of binaries.
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

func newTestResolver(versions map[string]string) *mozversion.Resolver {
	return mozversion.NewResolver(&fakeProbe{versions: versions}, nil)
}

// recordingExtractor counts calls and optionally fails.
type recordingExtractor struct {
	calls int
	err   error
	inner mozprofile.Extractor
}

func (e *recordingExtractor) Extract(archive []byte, dest string) error {
	e.calls++
	if e.err != nil {
		return e.err
	}
	if e.inner != nil {
		return e.inner.Extract(archive, dest)
	}
	return nil
}

// profileArchive builds a base64 encoded zip of files.
func profileArchive(t *testing.T, files map[string]string) string {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range files {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func newTestBuilder(t *testing.T) (*Builder, string) {
	t.Helper()
	root := t.TempDir()
	return NewBuilder(mozprofile.DirStore{}, mozprofile.NewZipExtractor(100, 1<<20)), root
}

// withOptions wraps options in a capabilities object.
func withOptions(options map[string]any) *Map {
	caps := NewMap()
	caps.Set(KeyFirefoxOptions, FromMap(options))
	return caps
}

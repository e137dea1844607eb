// Package mozprofile models Firefox profile directories: where a session's
// profile comes from, how an embedded profile archive is materialised, and
// the preference values that get written into it.
package mozprofile

import (
	"os"
	"path/filepath"

	"github.com/teranos/geckocaps/errors"
)

// Directory permissions for profile roots (rwx------ keeps other users out
// of cookies and saved logins)
const profileDirPermissions = 0o700

const tempProfilePrefix = "geckocaps_profile"

// Profile is a Firefox profile directory.
type Profile struct {
	// Path is the profile directory
	Path string

	temporary bool
}

// Temporary reports whether the directory was created for this session and
// is owned by whoever holds the Profile.
func (p *Profile) Temporary() bool {
	return p.temporary
}

// Remove deletes a temporary profile directory. Profiles pointing at an
// existing directory are left alone.
func (p *Profile) Remove() error {
	if p == nil || !p.temporary {
		return nil
	}
	return os.RemoveAll(p.Path)
}

// Store creates Profile values.
type Store interface {
	// NewEmpty creates a fresh empty profile directory under root, or under
	// the system temp directory when root is empty.
	NewEmpty(root string) (*Profile, error)
	// FromPath refers to an existing profile directory. The directory is not
	// required to exist yet; Firefox creates it on first start.
	FromPath(path string) (*Profile, error)
}

// DirStore is the filesystem-backed Store.
type DirStore struct{}

// NewEmpty implements Store.
func (DirStore) NewEmpty(root string) (*Profile, error) {
	if root != "" {
		if err := os.MkdirAll(root, profileDirPermissions); err != nil {
			return nil, errors.Wrapf(err, "failed to create profile root %s", root)
		}
	}

	dir, err := os.MkdirTemp(root, tempProfilePrefix)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create profile directory")
	}
	return &Profile{Path: dir, temporary: true}, nil
}

// FromPath implements Store.
func (DirStore) FromPath(path string) (*Profile, error) {
	if path == "" {
		return nil, errors.New("empty profile path")
	}
	return &Profile{Path: filepath.Clean(path)}, nil
}

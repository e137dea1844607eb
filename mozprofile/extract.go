package mozprofile

import (
	"os"

	"github.com/hashicorp/go-getter"
	"github.com/teranos/geckocaps/errors"
	"github.com/teranos/geckocaps/logger"
	"go.uber.org/zap"
)

// Extractor materialises a profile archive into a directory.
type Extractor interface {
	// Extract unpacks archive into dest, creating directories as needed.
	Extract(archive []byte, dest string) error
}

// Default extraction limits. Profile archives come from remote clients.
const (
	DefaultMaxFiles = 10000
	DefaultMaxSize  = 512 << 20
)

// ZipExtractor extracts zip archives with go-getter's decompressor, which
// rejects entries escaping dest via "..", creates intermediate directories
// and enforces the entry count and total size limits.
type ZipExtractor struct {
	// MaxFiles caps the number of archive entries (0 = unlimited)
	MaxFiles int
	// MaxSize caps the total uncompressed size in bytes (0 = unlimited)
	MaxSize int64

	logger *zap.SugaredLogger
}

// NewZipExtractor creates an extractor with the given limits.
func NewZipExtractor(maxFiles int, maxSize int64) *ZipExtractor {
	return &ZipExtractor{
		MaxFiles: maxFiles,
		MaxSize:  maxSize,
		logger:   logger.ComponentLogger("mozprofile"),
	}
}

// Extract implements Extractor.
func (z *ZipExtractor) Extract(archive []byte, dest string) error {
	if len(archive) == 0 {
		return errors.New("empty profile archive")
	}

	// The decompressor reads from a file path.
	tmp, err := os.CreateTemp("", "geckocaps-profile-*.zip")
	if err != nil {
		return errors.Wrap(err, "failed to stage profile archive")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(archive); err != nil {
		tmp.Close()
		return errors.Wrap(err, "failed to stage profile archive")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "failed to stage profile archive")
	}

	z.log().Debugw("Extracting profile", logger.FieldPath, dest, logger.FieldSize, len(archive))

	d := &getter.ZipDecompressor{
		FilesLimit:    z.MaxFiles,
		FileSizeLimit: z.MaxSize,
	}
	if err := d.Decompress(dest, tmp.Name(), true, 0); err != nil {
		return errors.Wrap(err, "failed to unzip profile")
	}
	return nil
}

func (z *ZipExtractor) log() *zap.SugaredLogger {
	if z.logger == nil {
		return logger.ComponentLogger("mozprofile")
	}
	return z.logger
}

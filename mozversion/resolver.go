package mozversion

import (
	"github.com/teranos/geckocaps/errors"
	"github.com/teranos/geckocaps/logger"
	"go.uber.org/zap"
)

// ErrMissingBinary is returned when no binary path is available to probe.
var ErrMissingBinary = errors.New("No binary provided")

// Resolver resolves binary paths to Firefox versions, memoising every
// answer in its Cache.
type Resolver struct {
	probe  Probe
	cache  *Cache
	logger *zap.SugaredLogger
}

// NewResolver creates a resolver. A nil cache gets a private one.
func NewResolver(probe Probe, cache *Cache) *Resolver {
	if cache == nil {
		cache = NewCache()
	}
	return &Resolver{
		probe:  probe,
		cache:  cache,
		logger: logger.ComponentLogger("mozversion"),
	}
}

// Cache returns the cache backing this resolver.
func (r *Resolver) Cache() *Cache {
	return r.cache
}

// Resolve returns the version of binary. An empty path fails with
// ErrMissingBinary. Errors are cached like successes: a path that failed
// once fails for the lifetime of the cache.
func (r *Resolver) Resolve(binary string) (Version, error) {
	rec, err := r.ResolveRecord(binary)
	if err != nil {
		return Version{}, err
	}
	return rec.Version, nil
}

// ResolveRecord is Resolve but also reports where the version came from.
func (r *Resolver) ResolveRecord(binary string) (Record, error) {
	if binary == "" {
		return Record{}, ErrMissingBinary
	}

	rec, cached := r.cache.getOrCompute(binary, func() Record {
		return r.probeVersion(binary)
	})
	if cached {
		r.logger.Debugw("Using cached version", logger.FieldBinary, binary, logger.FieldSource, rec.Source.String())
	}
	return rec, rec.Err
}

func (r *Resolver) probeVersion(binary string) Record {
	raw, err := r.probe.MetadataVersion(binary)
	if err == nil {
		v, parseErr := Parse(raw)
		if parseErr == nil {
			r.logger.Debugw("Found version", logger.FieldBinary, binary, logger.FieldVersion, v.String(), logger.FieldSource, SourceMetadata.String())
			return Record{Version: v, Source: SourceMetadata}
		}
		err = parseErr
	}
	r.logger.Debugw("Metadata lookup failed, falling back to binary", logger.FieldBinary, binary, logger.FieldError, err)

	raw, err = r.probe.BinaryVersion(binary)
	if err != nil {
		r.logger.Debugw("Failed to get binary version", logger.FieldBinary, binary, logger.FieldError, err)
		return Record{Source: SourceBinaryProbe, Err: err}
	}
	v, err := Parse(raw)
	if err != nil {
		r.logger.Debugw("Failed to get binary version", logger.FieldBinary, binary, logger.FieldError, err)
		return Record{Source: SourceBinaryProbe, Err: err}
	}

	r.logger.Debugw("Found version", logger.FieldBinary, binary, logger.FieldVersion, v.String(), logger.FieldSource, SourceBinaryProbe.String())
	return Record{Version: v, Source: SourceBinaryProbe}
}

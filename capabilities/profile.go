package capabilities

import (
	"encoding/base64"

	"github.com/teranos/geckocaps/errors"
	"github.com/teranos/geckocaps/logger"
	"github.com/teranos/geckocaps/mozargs"
	"github.com/teranos/geckocaps/mozprofile"
	"go.uber.org/zap"
)

// loadProfile extracts options.profile, a base64 zip archive, into a new
// temporary profile under root. It returns nil when no profile was sent.
func (b *Builder) loadProfile(root string, options *Map, log *zap.SugaredLogger) (*mozprofile.Profile, error) {
	raw, ok := options.Get(optProfile)
	if !ok {
		return nil, nil
	}
	encoded, ok := raw.(string)
	if !ok {
		return nil, errors.NewInvalidArgument("Profile is not a string")
	}

	archive, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, errors.WrapUnknownError(err, "Failed to decode profile")
	}

	profile, err := b.profiles.NewEmpty(root)
	if err != nil {
		return nil, errors.WrapUnknownError(err, "Failed to create profile")
	}

	if err := b.extractor.Extract(archive, profile.Path); err != nil {
		if rmErr := profile.Remove(); rmErr != nil {
			log.Warnw("Failed to remove profile", logger.FieldPath, profile.Path, logger.FieldError, rmErr)
		}
		return nil, errors.WrapUnknownError(err, "Failed to unzip profile")
	}

	log.Debugw("Extracted profile", logger.FieldPath, profile.Path, logger.FieldSize, len(archive))
	return profile, nil
}

// resolveArgProfile applies --profile and -P from the parsed arguments on
// top of the profile chosen from the options. A second source is an error.
func (b *Builder) resolveArgProfile(current mozprofile.Source, tokens []mozargs.Token, log *zap.SugaredLogger) (mozprofile.Source, error) {
	if path, ok := mozargs.LookupValue(tokens, mozargs.Profile); ok {
		if current.HasPath() {
			return current, errors.WithHint(
				errors.NewInvalidArgument("Can't provide both a --profile argument and a profile"),
				"send either moz:firefoxOptions.profile or a --profile argument",
			)
		}
		profile, err := b.profiles.FromPath(path)
		if err != nil {
			return current, errors.WrapUnknownError(err, "Failed to use profile")
		}
		current = mozprofile.PathSource(profile)
	}

	if name, ok := mozargs.LookupValue(tokens, mozargs.NamedProfile); ok {
		if current.HasPath() {
			return current, errors.NewInvalidArgument("Can't provide both a -P argument and a profile")
		}
		log.Warnw("Firefox was configured to use a named profile (`-P <name>`). "+
			"Support for named profiles will be removed in a future release. "+
			"Please instead use the `--profile <path>` Firefox argument to start with an existing profile",
			logger.FieldProfile, name)
		current = mozprofile.NamedSource(name)
	}

	return current, nil
}

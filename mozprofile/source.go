package mozprofile

import (
	"encoding/json"
)

// SourceKind says where a session's profile comes from.
type SourceKind int

const (
	// Ephemeral means Firefox gets a fresh temporary profile from the launcher
	Ephemeral SourceKind = iota
	// Embedded means the client sent a base64 zip archive of a profile
	Embedded
	// PathArgument means the client passed --profile <path>
	PathArgument
	// NamedArgument means the client passed -P <name>
	NamedArgument
)

func (k SourceKind) String() string {
	switch k {
	case Ephemeral:
		return "ephemeral"
	case Embedded:
		return "embedded"
	case PathArgument:
		return "path"
	case NamedArgument:
		return "named"
	default:
		return "unknown"
	}
}

// Source is the resolved profile for a session. Profile is set for
// Embedded and PathArgument, Name for NamedArgument.
type Source struct {
	Kind    SourceKind
	Profile *Profile
	Name    string
}

// EmbeddedSource wraps an extracted archive profile.
func EmbeddedSource(p *Profile) Source {
	return Source{Kind: Embedded, Profile: p}
}

// PathSource wraps a --profile directory.
func PathSource(p *Profile) Source {
	return Source{Kind: PathArgument, Profile: p}
}

// NamedSource wraps a -P profile name.
func NamedSource(name string) Source {
	return Source{Kind: NamedArgument, Name: name}
}

// HasPath reports whether the source is backed by a profile directory.
func (s Source) HasPath() bool {
	return (s.Kind == Embedded || s.Kind == PathArgument) && s.Profile != nil
}

// MarshalJSON renders the source for diagnostics.
func (s Source) MarshalJSON() ([]byte, error) {
	out := struct {
		Kind      string `json:"kind"`
		Path      string `json:"path,omitempty"`
		Name      string `json:"name,omitempty"`
		Temporary bool   `json:"temporary,omitempty"`
	}{Kind: s.Kind.String(), Name: s.Name}

	if s.Profile != nil {
		out.Path = s.Profile.Path
		out.Temporary = s.Profile.Temporary()
	}
	return json.Marshal(out)
}

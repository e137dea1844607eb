// Package mozargs parses Firefox command lines.
//
// Firefox accepts flags with one or two leading dashes (and a slash on
// Windows), takes values either inline after '=' or as the following token,
// and matches flag names case-insensitively. Parse follows the same grammar
// so that what the policy sees is what Firefox will act on.
package mozargs

import (
	"runtime"
	"strings"
)

// Arg identifies a command-line flag by its canonical name.
type Arg string

// Flags the resolver cares about. Anything else parses as an Arg with
// Known() == false.
const (
	Foreground          Arg = "foreground"
	Marionette          Arg = "marionette"
	NamedProfile        Arg = "P"
	NoRemote            Arg = "no-remote"
	Profile             Arg = "profile"
	ProfileManager      Arg = "ProfileManager"
	RemoteAllowHosts    Arg = "remote-allow-hosts"
	RemoteAllowOrigins  Arg = "remote-allow-origins"
	RemoteDebuggingPort Arg = "remote-debugging-port"
)

var knownArgs = []Arg{
	Foreground,
	Marionette,
	NamedProfile,
	NoRemote,
	Profile,
	ProfileManager,
	RemoteAllowHosts,
	RemoteAllowOrigins,
	RemoteDebuggingPort,
}

// argFromName canonicalises a flag name.
func argFromName(name string) Arg {
	for _, known := range knownArgs {
		if strings.EqualFold(name, string(known)) {
			return known
		}
	}
	return Arg(name)
}

// Known reports whether a is one of the flags declared in this package.
func (a Arg) Known() bool {
	for _, known := range knownArgs {
		if a == known {
			return true
		}
	}
	return false
}

// String renders the flag the way Firefox documents it.
func (a Arg) String() string {
	if a == NamedProfile {
		return "-P"
	}
	return "--" + string(a)
}

// Token is one parsed unit of a command line: a flag with an optional
// value, or a bare value.
type Token struct {
	// Arg is the flag, empty for bare values
	Arg Arg
	// Value is the flag's value or the bare token
	Value string
	// HasValue distinguishes "--flag" from "--flag ''"
	HasValue bool
	// Raw holds the original tokens this unit was built from
	Raw []string
}

// IsFlag reports whether the token is a flag rather than a bare value.
func (t Token) IsFlag() bool {
	return t.Arg != ""
}

func isPrefixChar(c byte) bool {
	return c == '-' || (runtime.GOOS == "windows" && c == '/')
}

func isNameEnd(c byte) bool {
	return c == '=' || c == ' '
}

// parseName extracts the flag name from s. inline holds whatever follows
// an '=' or ' ' terminator.
func parseName(s string) (name, inline string, hasInline, ok bool) {
	if len(s) < 2 || !isPrefixChar(s[0]) {
		return "", "", false, false
	}

	start := 1
	if s[1] == '-' {
		start = 2
	}

	end := start
	for end < len(s) && !isNameEnd(s[end]) {
		end++
	}
	if end == start {
		return "", "", false, false
	}

	name = s[start:end]
	if end < len(s) {
		return name, s[end+1:], true, true
	}
	return name, "", false, true
}

// IsFlag reports whether s would parse as a flag.
func IsFlag(s string) bool {
	_, _, _, ok := parseName(s)
	return ok
}

// Parse splits args into tokens. Order and duplicates are preserved and
// joining every token's Raw reproduces args.
func Parse(args []string) []Token {
	tokens := make([]Token, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		name, inline, hasInline, ok := parseName(arg)
		if !ok {
			tokens = append(tokens, Token{Value: arg, HasValue: true, Raw: []string{arg}})
			continue
		}

		tok := Token{Arg: argFromName(name), Raw: []string{arg}}
		switch {
		case hasInline:
			tok.Value = inline
			tok.HasValue = true
		case i+1 < len(args) && !IsFlag(args[i+1]):
			i++
			tok.Value = args[i]
			tok.HasValue = true
			tok.Raw = append(tok.Raw, args[i])
		}
		tokens = append(tokens, tok)
	}

	return tokens
}

// LookupValue returns the value of the first occurrence of arg. ok is
// false when the flag is absent or its first occurrence has no value.
func LookupValue(tokens []Token, arg Arg) (value string, ok bool) {
	for _, tok := range tokens {
		if tok.Arg == arg {
			return tok.Value, tok.HasValue
		}
	}
	return "", false
}

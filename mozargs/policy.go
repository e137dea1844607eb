package mozargs

import (
	"github.com/teranos/geckocaps/errors"
)

// Blocked lists flags owned by the driver, which clients may not set.
var Blocked = []Arg{
	Marionette,
	RemoteAllowHosts,
	RemoteAllowOrigins,
	RemoteDebuggingPort,
}

// IsBlocked reports whether arg may not be set by a client.
func IsBlocked(arg Arg) bool {
	for _, blocked := range Blocked {
		if arg == blocked {
			return true
		}
	}
	return false
}

// CheckBlocked returns an invalid-argument error naming the first blocked
// flag in tokens.
func CheckBlocked(tokens []Token) error {
	for _, tok := range tokens {
		if tok.IsFlag() && IsBlocked(tok.Arg) {
			return errors.NewInvalidArgumentf("Argument %s can't be set via capabilities", tok.Arg)
		}
	}
	return nil
}

// ParseAndCheck parses a client-supplied argument list and applies the
// blocked-flag policy.
func ParseAndCheck(args []string) ([]Token, error) {
	tokens := Parse(args)
	if err := CheckBlocked(tokens); err != nil {
		return nil, err
	}
	return tokens, nil
}

package capabilities

import (
	"strings"

	"github.com/teranos/geckocaps/android"
	"github.com/teranos/geckocaps/errors"
	"github.com/teranos/geckocaps/logger"
)

// fieldCheck validates one moz:firefoxOptions entry. options is the whole
// object for checks that depend on sibling fields.
type fieldCheck func(m *Matcher, key string, value any, options *Map) error

// optionsSchema lists every recognised moz:firefoxOptions field.
var optionsSchema = map[string]fieldCheck{
	android.KeyActivity:        checkString,
	android.KeyDeviceSerial:    checkString,
	android.KeyPackage:         checkString,
	optProfile:                 checkString,
	android.KeyIntentArguments: checkStringArray,
	optArgs:                    checkStringArray,
	optBinary:                  checkBinary,
	optEnv:                     checkEnv,
	optLog:                     checkLog,
	optPrefs:                   checkPrefs,
}

// ValidateCustom validates one vendor capability. Capabilities outside the
// moz: namespace are left to generic validation.
func (m *Matcher) ValidateCustom(name string, value any) error {
	if !strings.HasPrefix(name, vendorPrefix) {
		return nil
	}

	var err error
	switch name {
	case KeyFirefoxOptions:
		err = m.validateOptions(value)
	case KeyWebDriverClick, KeyDebuggerAddress:
		if _, ok := value.(bool); !ok {
			err = errors.NewInvalidArgumentf("%s is not a boolean", name)
		}
	default:
		err = errors.NewInvalidArgumentf("Unrecognised option %s", name)
	}

	if err != nil {
		m.logger.Debugw("Capability rejected", logger.FieldOperation, "validate", logger.FieldSource, name, logger.FieldError, err.Error())
	}
	return err
}

// ValidateAll runs ValidateCustom over every capability in order and
// returns the first failure.
func (m *Matcher) ValidateAll(caps *Map) error {
	for pair := caps.Oldest(); pair != nil; pair = pair.Next() {
		if err := m.ValidateCustom(pair.Key, pair.Value); err != nil {
			return err
		}
	}
	return nil
}

// validateOptions checks moz:firefoxOptions in two passes: the field set
// against the schema, then the shape of each field.
func (m *Matcher) validateOptions(value any) error {
	options, ok := value.(*Map)
	if !ok {
		return errors.NewInvalidArgumentf("%s is not an object", KeyFirefoxOptions)
	}

	if unknown := unrecognisedKeys(options); len(unknown) > 0 {
		return errors.NewInvalidArgumentf("Invalid %s field %s", KeyFirefoxOptions, unknown[0])
	}

	for pair := options.Oldest(); pair != nil; pair = pair.Next() {
		if err := optionsSchema[pair.Key](m, pair.Key, pair.Value, options); err != nil {
			return err
		}
	}
	return nil
}

// unrecognisedKeys returns the keys of options not in the schema, in order.
func unrecognisedKeys(options *Map) []string {
	var unknown []string
	for _, key := range Keys(options) {
		if _, ok := optionsSchema[key]; !ok {
			unknown = append(unknown, key)
		}
	}
	return unknown
}

func checkString(_ *Matcher, key string, value any, _ *Map) error {
	if _, ok := value.(string); !ok {
		return errors.NewInvalidArgumentf("%s is not a string", key)
	}
	return nil
}

func checkStringArray(_ *Matcher, key string, value any, _ *Map) error {
	list, ok := value.([]any)
	if !ok {
		return errors.NewInvalidArgumentf("%s is not an array", key)
	}
	for _, item := range list {
		if _, ok := item.(string); !ok {
			return errors.NewInvalidArgumentf("%s entry is not a string", key)
		}
	}
	return nil
}

// checkBinary requires a Firefox executable unless the session targets an
// Android package, where binary is rejected later anyway.
func checkBinary(m *Matcher, key string, value any, options *Map) error {
	binary, ok := value.(string)
	if !ok {
		return errors.NewInvalidArgumentf("%s is not a string", key)
	}
	if _, hasPackage := options.Get(android.KeyPackage); hasPackage {
		return nil
	}
	if _, err := m.resolver.Resolve(binary); err != nil {
		return errors.WithDetail(
			errors.NewInvalidArgumentf("%s is not a Firefox executable", key),
			err.Error(),
		)
	}
	return nil
}

func checkEnv(_ *Matcher, _ string, value any, _ *Map) error {
	env, ok := value.(*Map)
	if !ok {
		return errors.NewInvalidArgument("env value is not an object")
	}
	for pair := env.Oldest(); pair != nil; pair = pair.Next() {
		if _, ok := pair.Value.(string); !ok {
			return errors.NewInvalidArgument("Environment values were not all strings")
		}
	}
	return nil
}

func checkLog(_ *Matcher, _ string, value any, _ *Map) error {
	section, ok := value.(*Map)
	if !ok {
		return errors.NewInvalidArgument("log value is not an object")
	}
	for pair := section.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Key != logLevelKey {
			return errors.NewInvalidArgumentf("Invalid log field %s", pair.Key)
		}
		name, ok := pair.Value.(string)
		if !ok {
			return errors.NewInvalidArgument("log level is not a string")
		}
		if _, ok := ParseLogLevel(name); !ok {
			return errors.NewInvalidArgumentf("Not a valid log level: %s", name)
		}
	}
	return nil
}

func checkPrefs(_ *Matcher, _ string, value any, _ *Map) error {
	prefs, ok := value.(*Map)
	if !ok {
		return errors.NewInvalidArgument("prefs value is not an object")
	}
	for pair := prefs.Oldest(); pair != nil; pair = pair.Next() {
		if !isPrefValue(pair.Value) {
			return errors.NewInvalidArgument("Preference values not all string or integer or boolean")
		}
	}
	return nil
}

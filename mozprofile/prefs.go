package mozprofile

import (
	"fmt"
	"strconv"
)

// PrefValue is a Firefox preference value: StringPref, IntPref or BoolPref.
type PrefValue interface {
	// Literal renders the value as it appears in prefs.js.
	Literal() string
	prefValue()
}

// StringPref is a string preference.
type StringPref string

// IntPref is an integer preference.
type IntPref int64

// BoolPref is a boolean preference.
type BoolPref bool

func (StringPref) prefValue() {}
func (IntPref) prefValue()    {}
func (BoolPref) prefValue()   {}

// Literal implements PrefValue.
func (p StringPref) Literal() string { return strconv.Quote(string(p)) }

// Literal implements PrefValue.
func (p IntPref) Literal() string { return strconv.FormatInt(int64(p), 10) }

// Literal implements PrefValue.
func (p BoolPref) Literal() string { return strconv.FormatBool(bool(p)) }

// Pref is a named preference.
type Pref struct {
	Name  string    `json:"name"`
	Value PrefValue `json:"value"`
}

// UserPrefLine renders the pref as a user.js line.
func (p Pref) UserPrefLine() string {
	return fmt.Sprintf("user_pref(%s, %s);", strconv.Quote(p.Name), p.Value.Literal())
}

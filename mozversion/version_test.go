package mozversion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		want  Version
		str   string
	}{
		{"115.0", Version{Major: 115}, "115.0"},
		{"115.0.2", Version{Major: 115, Patch: 2}, "115.0.2"},
		{"116.0a1", Version{Major: 116, Pre: "a", PreNumber: 1}, "116.0a1"},
		{"116.0b12", Version{Major: 116, Pre: "b", PreNumber: 12}, "116.0b12"},
		{"115.3.1esr", Version{Major: 115, Minor: 3, Patch: 1, Pre: "esr"}, "115.3.1esr"},
		{" 128.0\n", Version{Major: 128}, "128.0"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, v)
			assert.Equal(t, tt.str, v.String())
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, input := range []string{"", "115", "firefox", "115.0-beta", "115.0A1", "1.2.3.4"} {
		_, err := Parse(input)
		assert.Error(t, err, "input %q", input)
	}
}

func TestVersion_Semver(t *testing.T) {
	nightly, err := Parse("116.0a1")
	require.NoError(t, err)
	assert.True(t, nightly.IsPrerelease())
	assert.Equal(t, "116.0.0-a.1", nightly.Semver().String())

	esr, err := Parse("115.3.1esr")
	require.NoError(t, err)
	assert.False(t, esr.IsPrerelease())
	assert.Equal(t, "115.3.1", esr.Semver().String())
}

func TestVersion_Matches(t *testing.T) {
	v, err := Parse("115.0.2")
	require.NoError(t, err)

	tests := []struct {
		constraint string
		want       bool
	}{
		{">=115", true},
		{"<115", false},
		{">=110, <120", true},
		{">120", false},
		{"115.0.2", true},
	}

	for _, tt := range tests {
		got, err := v.Matches(tt.constraint)
		require.NoError(t, err, tt.constraint)
		assert.Equal(t, tt.want, got, tt.constraint)
	}

	_, err = v.Matches("not a constraint")
	assert.Error(t, err)
}

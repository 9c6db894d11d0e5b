package util

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	s, err := Parse("1.2.3")
	require.NoError(t, err)
	assert.Equal(t, Semver{Major: 1, Minor: 2, Patch: 3}, s)

	s, err = Parse("v2.0.1-beta.4")
	require.NoError(t, err)
	assert.True(t, s.Beta)
	assert.Equal(t, 4, s.Prerelease)
	assert.Equal(t, "2.0.1-beta.4", s.String())

	for _, bad := range []string{"", "1.2", "1.x.3", "1.2.3-rc.1", "1.2.3-beta"} {
		_, err := Parse(bad)
		assert.Error(t, err, bad)
	}
}

func TestSatisfies(t *testing.T) {
	v, err := Parse("1.4.2")
	require.NoError(t, err)

	tests := []struct {
		constraint string
		want       bool
	}{
		{"1.4.2", true},
		{"1.4.3", false},
		{"~1.4.0", true},
		{"~1.3.0", false},
		{"^1.0.0", true},
		{"^1.5.0", false},
		{"^2.0.0", false},
		{">1.3.9", true},
		{">0.9.9", true},
		{">1.4.2", false},
		{">=1.4.2", true},
		{"<2.0.0", true},
		{"<1.4.2", false},
		{"<=1.4.2", true},
		{">1.4.2-beta.1", true},
	}
	for _, tt := range tests {
		t.Run(tt.constraint, func(t *testing.T) {
			ok, err := v.Satisfies(tt.constraint)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}

	_, err = v.Satisfies(">=abc")
	assert.Error(t, err)
}

func TestPrompter(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("y\n\nMeuProjeto\n"), &out)

	assert.True(t, p.YN("Overwrite?", false))
	assert.True(t, p.YN("Continue?", true))
	assert.Equal(t, "MeuProjeto", p.String("Project name", "NewProject"))
	assert.Equal(t, "fallback", p.String("Author", "fallback"), "EOF uses the default")
	assert.Equal(t, "Overwrite? (y/N): Continue? (Y/n): Project name (NewProject): Author (fallback): ", out.String())
}

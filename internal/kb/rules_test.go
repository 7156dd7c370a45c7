package kb

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain passes through", "Rule 1.1\nA ball at rest.", "Rule 1.1\nA ball at rest."},
		{"crlf normalized", "a\r\nb\rc", "a\nb\nc"},
		{"control chars stripped", "a\x00b\x01c\x7fd", "abcd"},
		{"tabs and newlines kept", "a\tb\nc", "a\tb\nc"},
		{"blank lines kept", "a\n\n\nb", "a\n\n\nb"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanText(tt.in))
		})
	}
}

func TestCleanTextIdempotent(t *testing.T) {
	inputs := []string{
		"Rule 1\r\n\r\nRule 2\x00\x1f ok\ttab",
		"ja netejat\n\nsense canvis",
		"\r\r\n\x7f",
	}
	for _, in := range inputs {
		once := CleanText(in)
		assert.Equal(t, once, CleanText(once))
	}
}

func TestExtractRulesMissingFile(t *testing.T) {
	_, err := ExtractRules(filepath.Join(t.TempDir(), "nope.pdf"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRulesNotFound))
}

func TestSaveAndLoadRules(t *testing.T) {
	dir := t.TempDir()

	// Missing file is not an error: no rules yet.
	text, err := LoadRules(dir)
	require.NoError(t, err)
	assert.Empty(t, text)

	require.NoError(t, SaveRules(dir, "Regla 1\n\nRegla 2"))
	text, err = LoadRules(dir)
	require.NoError(t, err)
	assert.Equal(t, "Regla 1\n\nRegla 2", text)

	// Corrupt directory entry surfaces as an error.
	require.NoError(t, os.Remove(filepath.Join(dir, RulesFile)))
	require.NoError(t, os.Mkdir(filepath.Join(dir, RulesFile), 0o755))
	_, err = LoadRules(dir)
	assert.Error(t, err)
}

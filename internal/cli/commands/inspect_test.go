package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/startpl/internal/config"
	"github.com/leapstack-labs/startpl/pkg/template"
)

func tokenWithTrim(before, after bool) template.Token {
	return template.Token{TrimBefore: before, TrimAfter: after}
}

func TestInspectCommand_Tokens(t *testing.T) {
	path := writeTemplate(t, "Hello {{ name }}!")

	out, _, err := execute(t, NewInspectCommand(), &config.Config{}, "", path)
	require.NoError(t, err)

	assert.Contains(t, out, "LITERAL")
	assert.Contains(t, out, "EXPR")
	assert.NotContains(t, out, "def _tpl_render", "generated program only shown with --source")
}

func TestInspectCommand_Source(t *testing.T) {
	path := writeTemplate(t, "{{ for i in range(3): }}{{ i }}{{ end }}")

	out, _, err := execute(t, NewInspectCommand(), &config.Config{}, "", path, "--source")
	require.NoError(t, err)

	assert.Contains(t, out, "STMT")
	assert.Contains(t, out, "def _tpl_render")
	assert.Contains(t, out, "for i in range(3):")
}

func TestInspectCommand_LexError(t *testing.T) {
	path := writeTemplate(t, "{{ never closed")

	_, _, err := execute(t, NewInspectCommand(), &config.Config{}, "", path)
	assert.Error(t, err)
}

func TestTrimMarks(t *testing.T) {
	assert.Equal(t, "", trimMarks(tokenWithTrim(false, false)))
	assert.Equal(t, "-/", trimMarks(tokenWithTrim(true, false)))
	assert.Equal(t, "/-", trimMarks(tokenWithTrim(false, true)))
	assert.Equal(t, "-/-", trimMarks(tokenWithTrim(true, true)))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
}

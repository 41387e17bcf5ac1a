package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/startpl/internal/config"
)

func TestVersionCommand(t *testing.T) {
	cmd := NewVersionCommand("1.2.3", "2026-08-30", "abc1234")

	out, _, err := execute(t, cmd, &config.Config{}, "")
	require.NoError(t, err)

	assert.Contains(t, out, "startpl 1.2.3")
	assert.Contains(t, out, "2026-08-30")
	assert.Contains(t, out, "abc1234")
}

package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionFlag(t *testing.T) {
	SetVersion("1.2.3")
	t.Cleanup(func() { SetVersion("dev"); showVersion = false })

	var out bytes.Buffer
	root := Root()
	root.SetOut(&out)
	root.SetArgs([]string{"--version"})

	require.NoError(t, root.Execute())
	assert.Equal(t, "1.2.3\n", out.String())
}

func TestReportsCommand(t *testing.T) {
	var out bytes.Buffer
	root := Root()
	root.SetOut(&out)
	root.SetArgs([]string{"reports"})

	require.NoError(t, root.Execute())
	for _, name := range []string{"summary", "trend", "long-running", "terminated", "event-bubbles"} {
		assert.Contains(t, out.String(), name)
	}
	assert.Contains(t, out.String(), "parameter hours (int, default 8, 1..48)")
	assert.Contains(t, out.String(), "parameters: none")
}

func TestRunCommand_RequiresReport(t *testing.T) {
	root := Root()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"run"})

	assert.Error(t, root.Execute())
}

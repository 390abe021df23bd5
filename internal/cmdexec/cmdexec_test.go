package cmdexec

import (
	"context"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapToEnvSlice(t *testing.T) {
	assert.Nil(t, mapToEnvSlice(nil))
	assert.Equal(t, []string{"A=1", "B=2"}, mapToEnvSlice(map[string]string{"B": "2", "A": "1"}))
}

func TestRealCommander_RunWithEnv(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	c := &RealCommander{}
	out, err := c.RunWithEnv(context.Background(), map[string]string{"LAUNCHPAD_TEST_VALUE": "ok"}, "sh", "-c", "echo $LAUNCHPAD_TEST_VALUE")
	require.NoError(t, err)
	assert.Equal(t, "ok", strings.TrimSpace(string(out)))
}

func TestRealCommander_LookPathMissing(t *testing.T) {
	c := &RealCommander{}
	_, err := c.LookPath("launchpad-definitely-not-installed")
	assert.Error(t, err)
}

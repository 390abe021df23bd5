package cli_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stacksjs/launchpad/internal/cli"
)

func TestMapExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want cli.ExitCode
	}{
		{"nil", nil, cli.ExitSuccess},
		{"general", errors.New("boom"), cli.ExitGeneral},
		{"install", fmt.Errorf("activate.Run: %w", cli.ErrInstallIncomplete), cli.ExitInstallIncomplete},
		{"not dir", fmt.Errorf("x: %w", cli.ErrNotDirectory), cli.ExitNotDirectory},
		{"shell", fmt.Errorf("x: %w", cli.ErrUnsupportedShell), cli.ExitUnsupported},
		{"service", fmt.Errorf("x: %w", cli.ErrUnknownService), cli.ExitUnsupported},
		{"platform", fmt.Errorf("x: %w", cli.ErrPlatformNotSupported), cli.ExitUnsupported},
		{"config", fmt.Errorf("x: %w", cli.ErrConfig), cli.ExitConfigError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cli.MapExitCode(tt.err))
		})
	}
}

package setup

import (
	"bytes"
	"errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stacksjs/launchpad/internal/config"
)

// mockFormRunner는 테스트용 FormRunner다.
type mockFormRunner struct {
	confirms   []bool
	confirmIdx int
	prompts    []string
	shell      string
	shellErr   error
}

func (m *mockFormRunner) RunConfirm(message string) (bool, error) {
	m.prompts = append(m.prompts, message)
	if m.confirmIdx >= len(m.confirms) {
		return false, nil
	}
	c := m.confirms[m.confirmIdx]
	m.confirmIdx++
	return c, nil
}

func (m *mockFormRunner) RunShellSelect(shells []string) (string, error) {
	return m.shell, m.shellErr
}

func newRunner(form FormRunner) (*Runner, afero.Fs, *bytes.Buffer) {
	fs := afero.NewMemMapFs()
	out := &bytes.Buffer{}
	return &Runner{
		Fs:         fs,
		CfgPath:    "/home/dev/.config/launchpad/config.toml",
		Home:       "/home/dev",
		Shell:      "zsh",
		Binary:     "launchpad",
		FormRunner: form,
		Out:        out,
	}, fs, out
}

func TestRunner_ConfirmedInstall(t *testing.T) {
	form := &mockFormRunner{confirms: []bool{true}}
	r, fs, out := newRunner(form)

	res, err := r.Run()
	require.NoError(t, err)

	assert.True(t, res.HookAdded)
	assert.True(t, res.ConfigAdded)
	assert.Equal(t, "/home/dev/.zshrc", res.RCPath)
	assert.Equal(t, []string{"Add launchpad shell integration to /home/dev/.zshrc?"}, form.prompts)
	assert.True(t, HookInstalled(fs, "/home/dev/.zshrc"))
	assert.Contains(t, out.String(), "Shell integration added")

	data, err := afero.ReadFile(fs, r.CfgPath)
	require.NoError(t, err)
	assert.Equal(t, config.Template, string(data))
}

func TestRunner_Declined(t *testing.T) {
	form := &mockFormRunner{confirms: []bool{false}}
	r, fs, out := newRunner(form)

	res, err := r.Run()
	require.NoError(t, err)
	assert.False(t, res.HookAdded)
	assert.False(t, HookInstalled(fs, "/home/dev/.zshrc"))
	assert.Contains(t, out.String(), "Skipped shell integration.")
}

func TestRunner_YesSkipsPrompts(t *testing.T) {
	form := &mockFormRunner{}
	r, fs, _ := newRunner(form)
	r.Yes = true
	r.Shell = "bash"

	res, err := r.Run()
	require.NoError(t, err)
	assert.True(t, res.HookAdded)
	assert.Empty(t, form.prompts)
	assert.True(t, HookInstalled(fs, "/home/dev/.bashrc"))
}

func TestRunner_AlreadyInstalled(t *testing.T) {
	form := &mockFormRunner{confirms: []bool{true}}
	r, fs, out := newRunner(form)
	require.NoError(t, afero.WriteFile(fs, "/home/dev/.zshrc", []byte("# launchpad shell integration (zsh)\n"), 0600))

	res, err := r.Run()
	require.NoError(t, err)
	assert.False(t, res.HookAdded)
	assert.Empty(t, form.prompts)
	assert.Contains(t, out.String(), "already present")
}

func TestRunner_KeepsExistingConfig(t *testing.T) {
	r, fs, _ := newRunner(&mockFormRunner{confirms: []bool{true}})
	require.NoError(t, afero.WriteFile(fs, r.CfgPath, []byte("verbose = true\n"), 0600))

	res, err := r.Run()
	require.NoError(t, err)
	assert.False(t, res.ConfigAdded)

	data, _ := afero.ReadFile(fs, r.CfgPath)
	assert.Equal(t, "verbose = true\n", string(data))
}

func TestRunner_UnknownShellAsks(t *testing.T) {
	form := &mockFormRunner{shell: "bash", confirms: []bool{true}}
	r, fs, _ := newRunner(form)
	r.Shell = "fish"

	res, err := r.Run()
	require.NoError(t, err)
	assert.Equal(t, "bash", res.Shell)
	assert.True(t, HookInstalled(fs, "/home/dev/.bashrc"))
}

func TestRunner_UnknownShellWithYes(t *testing.T) {
	r, _, _ := newRunner(&mockFormRunner{})
	r.Shell = "fish"
	r.Yes = true

	_, err := r.Run()
	assert.ErrorIs(t, err, ErrUnsupportedShell)
}

func TestRunner_ShellSelectError(t *testing.T) {
	r, _, _ := newRunner(&mockFormRunner{shellErr: errors.New("user aborted")})
	r.Shell = "fish"

	_, err := r.Run()
	assert.EqualError(t, err, "user aborted")
}

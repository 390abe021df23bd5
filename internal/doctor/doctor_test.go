package doctor_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stacksjs/launchpad/internal/doctor"
	"github.com/stacksjs/launchpad/internal/testutil"
)

func findResult(t *testing.T, results []doctor.DiagResult, name string) doctor.DiagResult {
	t.Helper()
	for _, r := range results {
		if r.Name == name {
			return r
		}
	}
	t.Fatalf("no result named %q", name)
	return doctor.DiagResult{}
}

func TestCheckBinaries_AllPresent(t *testing.T) {
	fake := testutil.NewFakeCommander()
	fake.Paths["pkgx"] = "/usr/local/bin/pkgx"
	fake.Paths["bash"] = "/bin/bash"
	fake.Register("/usr/local/bin/pkgx --version", "pkgx 2.7.0\n", nil)
	fake.Register("/bin/bash --version", "GNU bash, version 5.2.21\nCopyright", nil)

	results := doctor.CheckBinaries(context.Background(), fake, "pkgx")
	for _, r := range results {
		assert.Equal(t, doctor.StatusOK, r.Status, "check %s should be OK", r.Name)
	}
	assert.Equal(t, "GNU bash, version 5.2.21", findResult(t, results, "bash").Message)
}

func TestCheckBinaries_InstallerMissing(t *testing.T) {
	fake := testutil.NewFakeCommander()
	fake.Paths["bash"] = "/bin/bash"
	fake.Register("/bin/bash --version", "GNU bash", nil)

	results := doctor.CheckBinaries(context.Background(), fake, "pkgx")
	r := findResult(t, results, "pkgx")
	assert.Equal(t, doctor.StatusFail, r.Status)
	assert.NotEmpty(t, r.Fix)
	assert.False(t, fake.Called("pkgx"))
}

func TestCheckBinaries_VersionFails(t *testing.T) {
	fake := testutil.NewFakeCommander()
	fake.Paths["pkgx"] = "/opt/pkgx"
	fake.Register("/opt/pkgx --version", "", fmt.Errorf("exit status 1"))

	results := doctor.CheckBinaries(context.Background(), fake, "pkgx")
	assert.Equal(t, doctor.StatusWarn, findResult(t, results, "pkgx").Status)
	assert.Equal(t, doctor.StatusWarn, findResult(t, results, "bash").Status)
}

func TestCheckDataHome(t *testing.T) {
	fs := afero.NewMemMapFs()

	r := doctor.CheckDataHome(fs, "/data/launchpad")
	assert.Equal(t, doctor.StatusWarn, r.Status)

	require.NoError(t, fs.MkdirAll("/data/launchpad", 0755))
	r = doctor.CheckDataHome(fs, "/data/launchpad")
	assert.Equal(t, doctor.StatusOK, r.Status)

	entries, err := afero.ReadDir(fs, "/data/launchpad")
	require.NoError(t, err)
	assert.Empty(t, entries, "probe file must be removed")
}

func TestCheckDataHome_ReadOnly(t *testing.T) {
	base := afero.NewMemMapFs()
	require.NoError(t, base.MkdirAll("/data/launchpad", 0755))

	r := doctor.CheckDataHome(afero.NewReadOnlyFs(base), "/data/launchpad")
	assert.Equal(t, doctor.StatusFail, r.Status)
	assert.Contains(t, r.Fix, "chmod")
}

func TestCheckConfig(t *testing.T) {
	dir := t.TempDir()

	r := doctor.CheckConfig(filepath.Join(dir, "missing.toml"))
	assert.Equal(t, doctor.StatusOK, r.Status)

	bad := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("this is = = not toml"), 0600))
	assert.Equal(t, doctor.StatusFail, doctor.CheckConfig(bad).Status)

	open := filepath.Join(dir, "open.toml")
	require.NoError(t, os.WriteFile(open, []byte("verbose = true\n"), 0600))
	require.NoError(t, os.Chmod(open, 0644))
	r = doctor.CheckConfig(open)
	assert.Equal(t, doctor.StatusWarn, r.Status)
	assert.Contains(t, r.Fix, "chmod 600")

	good := filepath.Join(dir, "good.toml")
	require.NoError(t, os.WriteFile(good, []byte("verbose = true\n"), 0600))
	assert.Equal(t, doctor.StatusOK, doctor.CheckConfig(good).Status)
}

func TestCheckShellHook(t *testing.T) {
	fs := afero.NewMemMapFs()

	assert.Equal(t, doctor.StatusWarn, doctor.CheckShellHook(fs, "fish", "").Status)

	r := doctor.CheckShellHook(fs, "zsh", "/home/dev/.zshrc")
	assert.Equal(t, doctor.StatusWarn, r.Status)
	assert.Equal(t, "launchpad setup", r.Fix)

	require.NoError(t, afero.WriteFile(fs, "/home/dev/.zshrc", []byte("# launchpad shell integration (zsh)\n"), 0600))
	assert.Equal(t, doctor.StatusOK, doctor.CheckShellHook(fs, "zsh", "/home/dev/.zshrc").Status)
}

func TestCheckPath(t *testing.T) {
	assert.Equal(t, doctor.StatusOK, doctor.CheckPath("/opt/bin:/usr/bin:/bin").Status)

	r := doctor.CheckPath("/opt/bin")
	assert.Equal(t, doctor.StatusWarn, r.Status)
	assert.Contains(t, r.Message, "/usr/bin, /bin")
}

func TestRunAll(t *testing.T) {
	fake := testutil.NewFakeCommander()
	fs := afero.NewMemMapFs()

	results := doctor.RunAll(context.Background(), doctor.Options{
		Commander: fake,
		Fs:        fs,
		Installer: "pkgx",
		DataHome:  "/data/launchpad",
		CfgPath:   filepath.Join(t.TempDir(), "config.toml"),
		Shell:     "zsh",
		RCPath:    "/home/dev/.zshrc",
		Path:      "/usr/bin:/bin",
	})

	names := make([]string, 0, len(results))
	for _, r := range results {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"pkgx", "bash", "config", "data_home", "shell_hook", "path"}, names)
	assert.True(t, doctor.Failed(results))
}

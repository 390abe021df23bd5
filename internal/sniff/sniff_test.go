package sniff_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"github.com/stacksjs/launchpad/internal/sniff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindManifest(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/proj", 0755))

	_, ok := sniff.FindManifest(fs, "/proj")
	assert.False(t, ok)

	require.NoError(t, afero.WriteFile(fs, "/proj/pkgx.yaml", []byte("dependencies: {}"), 0644))
	require.NoError(t, afero.WriteFile(fs, "/proj/deps.yml", []byte("dependencies: {}"), 0644))

	path, ok := sniff.FindManifest(fs, "/proj")
	assert.True(t, ok)
	assert.Equal(t, "/proj/deps.yml", path)
}

func TestFindManifest_IgnoresDirectories(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/proj/deps.yaml", 0755))
	_, ok := sniff.FindManifest(fs, "/proj")
	assert.False(t, ok)
}

func TestParse_MappingDependencies(t *testing.T) {
	res, err := sniff.Parse([]byte(`
dependencies:
  node: ^20
  python.org: "~3.12"
  bun.sh:
    version: 1.1.0
    global: true
  zlib.net:
env:
  FOO: BAR
  API_URL: http://localhost:3000
`))
	require.NoError(t, err)
	assert.Equal(t, []sniff.Requirement{
		{Project: "node", Constraint: "^20"},
		{Project: "python.org", Constraint: "~3.12"},
		{Project: "bun.sh", Constraint: "1.1.0", Global: true},
		{Project: "zlib.net"},
	}, res.Packages)
	assert.Equal(t, []sniff.EnvVar{
		{Key: "FOO", Value: "BAR"},
		{Key: "API_URL", Value: "http://localhost:3000"},
	}, res.Env)
}

func TestParse_ListAndStringDependencies(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want []sniff.Requirement
	}{
		{
			name: "list",
			yaml: "dependencies:\n  - node@22\n  - git-scm.org\n  - '@scope/tool@1'\n",
			want: []sniff.Requirement{
				{Project: "node", Constraint: "22"},
				{Project: "git-scm.org"},
				{Project: "@scope/tool", Constraint: "1"},
			},
		},
		{
			name: "string",
			yaml: "dependencies: node@22 jq\n",
			want: []sniff.Requirement{
				{Project: "node", Constraint: "22"},
				{Project: "jq"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := sniff.Parse([]byte(tt.yaml))
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Packages)
		})
	}
}

func TestParse_TopLevelGlobal(t *testing.T) {
	res, err := sniff.Parse([]byte(`
global: true
dependencies:
  node: 22
  jq:
    version: "*"
    global: false
`))
	require.NoError(t, err)
	assert.Equal(t, []sniff.Requirement{
		{Project: "node", Constraint: "22", Global: true},
		{Project: "jq", Constraint: "*", Global: false},
	}, res.Packages)
}

func TestParse_ObjectShapedValueIsStringified(t *testing.T) {
	res, err := sniff.Parse([]byte("dependencies:\n  node: [1, 2]\n"))
	require.NoError(t, err)
	require.Len(t, res.Packages, 1)
	assert.Equal(t, "[1 2]", res.Packages[0].Constraint)
}

func TestParse_ObjectShapedVersionKeepsSiblings(t *testing.T) {
	res, err := sniff.Parse([]byte("dependencies:\n  node:\n    version: {major: 20}\n  deno:\n    version: [1, 2]\n    global: maybe\n  jq: 1.7\nenv:\n  FOO: BAR\n"))
	require.NoError(t, err)
	assert.Equal(t, []sniff.Requirement{
		{Project: "node", Constraint: "map[major:20]"},
		{Project: "deno", Constraint: "[1 2]"},
		{Project: "jq", Constraint: "1.7"},
	}, res.Packages)
	assert.Equal(t, []sniff.EnvVar{{Key: "FOO", Value: "BAR"}}, res.Env)
}

func TestParse_AliasesAndMergeKeys(t *testing.T) {
	res, err := sniff.Parse([]byte(`base: &base
  node: 20
  jq: 1.6
dependencies:
  <<: *base
  jq: 1.7
  bun.sh: &bun 1
env:
  HOME_DIR: &dir /srv/app
  APP_DIR: *dir
`))
	require.NoError(t, err)
	assert.Equal(t, []sniff.Requirement{
		{Project: "node", Constraint: "20"},
		{Project: "jq", Constraint: "1.7"},
		{Project: "bun.sh", Constraint: "1"},
	}, res.Packages)
	assert.Equal(t, []sniff.EnvVar{
		{Key: "HOME_DIR", Value: "/srv/app"},
		{Key: "APP_DIR", Value: "/srv/app"},
	}, res.Env)
}

func TestParse_Empty(t *testing.T) {
	res, err := sniff.Parse(nil)
	require.NoError(t, err)
	assert.True(t, res.Empty())
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"syntax", "dependencies: [node\n"},
		{"top level list", "- node\n"},
		{"env list", "env:\n  - FOO\n"},
		{"nested list entry", "dependencies:\n  - {node: 1}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sniff.Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestYAMLSniffer_Sniff(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/proj/dependencies.yaml", []byte("dependencies:\n  node: 22\nenv:\n  FOO: BAR\n"), 0644))

	s := &sniff.YAMLSniffer{Fs: fs}
	res, err := s.Sniff(context.Background(), "/proj")
	require.NoError(t, err)
	assert.Equal(t, "/proj/dependencies.yaml", res.File)
	assert.Len(t, res.Packages, 1)
	assert.Equal(t, []sniff.EnvVar{{Key: "FOO", Value: "BAR"}}, res.Env)
}

func TestYAMLSniffer_NoManifest(t *testing.T) {
	s := &sniff.YAMLSniffer{Fs: afero.NewMemMapFs()}
	res, err := s.Sniff(context.Background(), "/proj")
	require.NoError(t, err)
	assert.True(t, res.Empty())
	assert.Empty(t, res.File)
}

type stubSniffer struct {
	res   sniff.Result
	err   error
	panic bool
	block bool
}

func (s stubSniffer) Sniff(ctx context.Context, _ string) (sniff.Result, error) {
	if s.panic {
		panic("boom")
	}
	if s.block {
		<-ctx.Done()
		return sniff.Result{}, ctx.Err()
	}
	return s.res, s.err
}

func TestAdapter_PassesResultThrough(t *testing.T) {
	want := sniff.Result{Packages: []sniff.Requirement{{Project: "node", Constraint: "22"}}}
	a := &sniff.Adapter{Sniffer: stubSniffer{res: want}}
	assert.Equal(t, want, a.Sniff(context.Background(), "/proj"))
}

func TestAdapter_FailuresBecomeEmpty(t *testing.T) {
	tests := []struct {
		name    string
		sniffer stubSniffer
	}{
		{"error", stubSniffer{err: errors.New("bad yaml"), res: sniff.Result{Packages: []sniff.Requirement{{Project: "x"}}}}},
		{"panic", stubSniffer{panic: true}},
		{"timeout", stubSniffer{block: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
			a := &sniff.Adapter{Sniffer: tt.sniffer, Timeout: 20 * time.Millisecond, Logger: logger}

			res := a.Sniff(context.Background(), "/proj")
			assert.True(t, res.Empty())
			assert.Contains(t, buf.String(), "failed to read dependency file")
		})
	}
}

func TestAdapter_QuietWithoutVerbose(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.WarnLevel})
	a := &sniff.Adapter{Sniffer: stubSniffer{err: errors.New("bad")}, Logger: logger}
	a.Sniff(context.Background(), "/proj")
	assert.Empty(t, buf.String())
}

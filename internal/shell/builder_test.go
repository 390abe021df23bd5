package shell

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeDQ(t *testing.T) {
	assert.Equal(t, `a\"b\$c\\d\`+"`"+`e`, escapeDQ(`a"b$c\d`+"`"+`e`))
	assert.Equal(t, "/plain/path", escapeDQ("/plain/path"))
}

func TestScript_ExportJoined(t *testing.T) {
	s := &Script{}
	s.ExportJoined("PATH", Lit("/p/bin"), Lit(`/we"ird`), Ref("LAUNCHPAD_ORIGINAL_PATH"))
	assert.Equal(t, `export PATH="/p/bin:/we\"ird:$LAUNCHPAD_ORIGINAL_PATH"`+"\n", s.String())
}

func TestScript_ExportPrepend(t *testing.T) {
	s := &Script{}
	s.ExportPrepend("LD_LIBRARY_PATH", []string{"/a/lib", "/b/lib"}, "LAUNCHPAD_ORIGINAL_LD_LIBRARY_PATH")
	assert.Equal(t,
		`export LD_LIBRARY_PATH="/a/lib:/b/lib${LAUNCHPAD_ORIGINAL_LD_LIBRARY_PATH:+:$LAUNCHPAD_ORIGINAL_LD_LIBRARY_PATH}"`+"\n",
		s.String())
}

func TestScript_GuardedBackup(t *testing.T) {
	s := &Script{}
	s.GuardedBackup("B", "PATH", "/usr/bin:/bin")
	assert.Equal(t, "if [[ -z \"${B:-}\" ]]; then\n  export B=\"${PATH:-/usr/bin:/bin}\"\nfi\n", s.String())
}

func TestScript_BackupIfSet(t *testing.T) {
	s := &Script{}
	s.BackupIfSet("B", "X", "M")
	assert.Equal(t, "if [[ -z \"${M+x}\" && -n \"${X+x}\" ]]; then\n  export B=\"$X\"\nfi\n", s.String())
	assert.NoError(t, Validate(s.String()))
}

func TestScript_Export(t *testing.T) {
	s := &Script{}
	assert.True(t, s.Export("FOO", "BAR"))
	assert.True(t, s.Export("MSG", "hello $USER"))
	assert.True(t, s.Export("EMPTY", ""))
	assert.False(t, s.Export("NUL", "a\x00b"))
	assert.Equal(t, "export FOO=BAR\nexport MSG='hello $USER'\nexport EMPTY=''\n", s.String())
}

func TestScript_Nesting(t *testing.T) {
	s := &Script{}
	s.Func("f", func(s *Script) {
		s.If("true", func(s *Script) { s.Line("echo hi") })
	})
	assert.Equal(t, "f() {\n  if true; then\n    echo hi\n  fi\n}\n", s.String())
	assert.NoError(t, Validate(s.String()))
}

func TestInsidePattern(t *testing.T) {
	assert.Equal(t, `"/home/u/proj"|"/home/u/proj"/*`, insidePattern("/home/u/proj"))
	assert.Equal(t, `"/"|""/*`, insidePattern("/"))
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate("export A=1\n"))
	assert.Error(t, Validate("if then fi ((\n"))
}

package testutil

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"testing"
)

func TestFakeCommander_ExactMatch(t *testing.T) {
	t.Parallel()

	fc := NewFakeCommander()
	fc.Register("launchctl list", "com.launchpad.redis\n", nil)

	out, err := fc.Run(context.Background(), "launchctl", "list")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(out) != "com.launchpad.redis\n" {
		t.Errorf("got %q, want %q", string(out), "com.launchpad.redis\n")
	}
}

func TestFakeCommander_PrefixMatch(t *testing.T) {
	t.Parallel()

	fc := NewFakeCommander()
	fc.Register("pkgx install", "✅ installed", nil)

	out, err := fc.Run(context.Background(), "pkgx", "install", "--prefix", "/tmp/p", "node@22")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(out) != "✅ installed" {
		t.Errorf("unexpected output: %s", out)
	}
}

func TestFakeCommander_LongestPrefixWins(t *testing.T) {
	t.Parallel()

	fc := NewFakeCommander()
	fc.Register("systemctl", "generic", nil)
	fc.Register("systemctl --user is-active", "active", nil)

	out, _ := fc.Run(context.Background(), "systemctl", "--user", "is-active", "launchpad-redis.service")
	if string(out) != "active" {
		t.Errorf("got %q, want %q", string(out), "active")
	}
}

func TestFakeCommander_NoMatch(t *testing.T) {
	t.Parallel()

	fc := NewFakeCommander()

	_, err := fc.Run(context.Background(), "unknown", "command")
	if err == nil {
		t.Fatal("expected error for unregistered command")
	}
}

func TestFakeCommander_DefaultResponse(t *testing.T) {
	t.Parallel()

	fc := NewFakeCommander()
	fc.DefaultResponse = &Response{Output: []byte("default"), Err: nil}

	out, err := fc.Run(context.Background(), "any", "command")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(out) != "default" {
		t.Errorf("got %q, want %q", string(out), "default")
	}
}

func TestFakeCommander_RecordsCalls(t *testing.T) {
	t.Parallel()

	fc := NewFakeCommander()
	fc.DefaultResponse = &Response{}

	fc.Run(context.Background(), "pkgx", "--version")
	fc.Run(context.Background(), "launchctl", "load", "/tmp/x.plist")

	if len(fc.Calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(fc.Calls))
	}
	if !fc.Called("pkgx") {
		t.Error("expected pkgx to be called")
	}
	if fc.CallCount("launchctl") != 1 {
		t.Errorf("expected 1 launchctl call, got %d", fc.CallCount("launchctl"))
	}
}

func TestFakeCommander_ErrorResponse(t *testing.T) {
	t.Parallel()

	fc := NewFakeCommander()
	fc.Register("pkgx install", "error: no such package\n", fmt.Errorf("exit status 1"))

	out, err := fc.Run(context.Background(), "pkgx", "install", "nope")
	if err == nil {
		t.Fatal("expected error")
	}
	if string(out) != "error: no such package\n" {
		t.Errorf("got %q", string(out))
	}
}

func TestFakeCommander_RunWithEnv_RecordsEnvCalls(t *testing.T) {
	t.Parallel()

	fc := NewFakeCommander()
	fc.DefaultResponse = &Response{}

	env1 := map[string]string{"PKGX_DIR": "/path/one"}
	env2 := map[string]string{"PKGX_DIR": "/path/two", "EXTRA": "val"}

	fc.RunWithEnv(context.Background(), env1, "pkgx", "install", "a")
	fc.RunWithEnv(context.Background(), env2, "pkgx", "install", "b")

	if len(fc.EnvCalls) != 2 {
		t.Fatalf("expected 2 EnvCalls, got %d", len(fc.EnvCalls))
	}
	if fc.EnvCalls[1]["EXTRA"] != "val" {
		t.Errorf("EnvCalls[1] not recorded: %v", fc.EnvCalls[1])
	}
	if len(fc.Calls) != 2 {
		t.Errorf("expected 2 Calls, got %d", len(fc.Calls))
	}
}

func TestFakeCommander_LookPath(t *testing.T) {
	t.Parallel()

	fc := NewFakeCommander()
	fc.Paths["pkgx"] = "/usr/local/bin/pkgx"

	p, err := fc.LookPath("pkgx")
	if err != nil || p != "/usr/local/bin/pkgx" {
		t.Fatalf("LookPath(pkgx) = %q, %v", p, err)
	}
	_, err = fc.LookPath("missing")
	if !errors.Is(err, exec.ErrNotFound) {
		t.Errorf("expected exec.ErrNotFound, got %v", err)
	}
}

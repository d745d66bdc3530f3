// cmd/icpharvest/main_test.go
package main

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func exitCode(t *testing.T, err error) int {
	t.Helper()
	var ee *exitError
	if !errors.As(err, &ee) {
		t.Fatalf("expected exitError, got %v", err)
	}
	return ee.code
}

func TestRootCmd_Version(t *testing.T) {
	out, err := execute(t, "--version")
	if err != nil {
		t.Fatalf("--version: %v", err)
	}
	if !strings.HasPrefix(out, "icpharvest dev (commit none") {
		t.Errorf("version output = %q", out)
	}
}

func TestRootCmd_InvalidConfigExits2(t *testing.T) {
	_, err := execute(t, "--transport", "wget", "--ui", "quiet")
	if code := exitCode(t, err); code != 2 {
		t.Errorf("exit code = %d, want 2", code)
	}
}

func TestRootCmd_MissingTargetsFileExits2(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "targets.txt")
	_, err := execute(t, "--targets", missing, "--ui", "quiet", "--no-downstream")
	if code := exitCode(t, err); code != 2 {
		t.Errorf("exit code = %d, want 2", code)
	}
	if !strings.Contains(err.Error(), "does not exist") {
		t.Errorf("error = %v", err)
	}
}

func TestRootCmd_RejectsPositionalArgs(t *testing.T) {
	_, err := execute(t, "example.com")
	if err == nil {
		t.Fatal("expected an error for positional arguments")
	}
	var ee *exitError
	if errors.As(err, &ee) {
		t.Errorf("argument errors are usage errors, got exit code %d", ee.code)
	}
}

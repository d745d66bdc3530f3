// Package downstream runs the follow-up automation script once the batch is finished.
// The script is opaque: only its exit code and captured output are observed.
package downstream

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"icpharvest/internal/core/domain"
	"icpharvest/internal/core/ports"
	"icpharvest/internal/platform/errors"
	"icpharvest/internal/platform/logx"
)

// Runner executes a single script directly, without a shell.
type Runner struct {
	script string
	logger logx.Logger
}

// New creates a Runner for the script at path.
func New(path string, logger logx.Logger) *Runner {
	return &Runner{
		script: path,
		logger: logger.With("component", "downstream", "script", path),
	}
}

// ResolveScript returns name unchanged when it contains a directory, otherwise the path
// of name next to the running executable.
func ResolveScript(name string) (string, error) {
	if filepath.IsAbs(name) || filepath.Base(name) != name {
		return filepath.Abs(name)
	}
	exe, err := os.Executable()
	if err != nil {
		return "", errors.Wrap(err, "failed to locate executable")
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Join(filepath.Dir(exe), name), nil
}

// Script returns the script path.
func (r *Runner) Script() string {
	return r.script
}

// Run implements ports.DownstreamRunner. A non-zero exit is reported in the result,
// not as an error; a missing script or a failure to start it is an error.
func (r *Runner) Run(ctx context.Context) (ports.DownstreamResult, error) {
	res := ports.DownstreamResult{Script: r.script}

	info, err := os.Stat(r.script)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return res, fmt.Errorf("%w: %s", domain.ErrScriptNotFound, r.script)
		}
		return res, errors.Wrapf(err, "failed to stat %s", r.script)
	}
	if info.IsDir() {
		return res, fmt.Errorf("%w: %s is a directory", domain.ErrScriptNotFound, r.script)
	}

	if info.Mode().Perm()&0o111 == 0 {
		if err := os.Chmod(r.script, info.Mode().Perm()|0o111); err != nil {
			return res, errors.Wrapf(err, "failed to grant execute permission on %s", r.script)
		}
		res.PermissionGranted = true
		r.logger.Info("granted execute permission")
	}

	cmd := exec.CommandContext(ctx, r.script)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.logger.Info("running downstream script")
	start := time.Now()
	err = cmd.Run()
	res.Duration = time.Since(start)
	res.Stdout = stdout.String()
	res.Stderr = stderr.String()

	if err != nil {
		var exitErr *exec.ExitError
		if !stderrors.As(err, &exitErr) {
			return res, fmt.Errorf("%w: failed to run %s: %w", errors.ErrTransport, r.script, err)
		}
		res.ExitCode = exitErr.ExitCode()
	}

	r.logger.Info("downstream script finished",
		"exit_code", res.ExitCode,
		"duration_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}

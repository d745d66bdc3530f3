// internal/adapters/transport/curl.go
package transport

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"icpharvest/internal/core/domain"
	"icpharvest/internal/platform/errors"
	"icpharvest/internal/platform/logx"
)

// CurlTransport runs the curl binary once per attempt.
// Arguments are passed as a discrete argv; no shell ever sees the target.
type CurlTransport struct {
	execPath string
	proxyURL string
	logger   logx.Logger
}

// NewCurl creates a CurlTransport. execPath defaults to "curl" resolved via PATH.
func NewCurl(execPath, proxyURL string, logger logx.Logger) *CurlTransport {
	if execPath == "" {
		execPath = "curl"
	}
	return &CurlTransport{
		execPath: execPath,
		proxyURL: proxyURL,
		logger:   logger.With("component", "transport", "transport", KindCurl),
	}
}

// Name implements ports.Transport.
func (c *CurlTransport) Name() string { return KindCurl }

// Args returns the curl argv (without the binary) for d.
func (c *CurlTransport) Args(d domain.RequestDescriptor) []string {
	args := []string{
		"-sS",
		"-A", d.Identity,
		"--connect-timeout", seconds(d.ConnectTimeout),
		"--max-time", seconds(d.Timeout),
	}
	if c.proxyURL != "" {
		args = append(args, "-x", c.proxyURL)
	}
	return append(args, "--url", d.URL())
}

// Execute implements ports.Transport. The overall deadline is d.Timeout.
func (c *CurlTransport) Execute(ctx context.Context, d domain.RequestDescriptor) (string, error) {
	runCtx := ctx
	if d.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, d.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, c.execPath, c.Args(d)...)
	cmd.WaitDelay = 2 * time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)

	if err == nil {
		c.logger.Debug("curl finished",
			"url", d.URL(),
			"bytes", stdout.Len(),
			"duration_ms", elapsed.Milliseconds(),
		)
		return stdout.String(), nil
	}

	// the deadline check comes first: a killed process also reports an exit error
	if stderrors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		return "", errors.Wrapf(errors.ErrTimeout, "curl exceeded %s", d.Timeout)
	}
	if ctx.Err() != nil {
		return "", fmt.Errorf("%w: %w", errors.ErrTransport, ctx.Err())
	}

	var exitErr *exec.ExitError
	if stderrors.As(err, &exitErr) {
		return "", &errors.ExitError{
			Code:   exitErr.ExitCode(),
			Stderr: strings.TrimSpace(stderr.String()),
		}
	}

	return "", fmt.Errorf("%w: failed to run %s: %w", errors.ErrTransport, c.execPath, err)
}

// seconds formats d the way curl expects ("10", "0.5").
func seconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 64)
}

// internal/adapters/transport/http.go
package transport

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"time"

	"icpharvest/internal/core/domain"
	"icpharvest/internal/platform/errors"
	"icpharvest/internal/platform/httpclient"
	"icpharvest/internal/platform/logx"
)

// HTTPTransport performs the request in-process with net/http.
// Any completed HTTP exchange is a success, whatever its status code.
type HTTPTransport struct {
	client  *http.Client
	maxBody int64
	logger  logx.Logger
}

// NewHTTP creates an HTTPTransport from an httpclient configuration.
func NewHTTP(cfg httpclient.Config, logger logx.Logger) (*HTTPTransport, error) {
	client, err := httpclient.New(cfg)
	if err != nil {
		return nil, err
	}
	return &HTTPTransport{
		client:  client,
		maxBody: cfg.MaxBodyBytes,
		logger:  logger.With("component", "transport", "transport", KindHTTP),
	}, nil
}

// Name implements ports.Transport.
func (h *HTTPTransport) Name() string { return KindHTTP }

// Execute implements ports.Transport. The overall deadline is d.Timeout.
func (h *HTTPTransport) Execute(ctx context.Context, d domain.RequestDescriptor) (string, error) {
	reqCtx := ctx
	if d.Timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, d.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, d.URL(), nil)
	if err != nil {
		return "", fmt.Errorf("%w: failed to create request: %w", errors.ErrTransport, err)
	}
	req.Header.Set("User-Agent", d.Identity)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := h.client.Do(req)
	if err != nil {
		return "", h.classify(ctx, reqCtx, d, err)
	}

	body, err := httpclient.ReadBody(resp, h.maxBody)
	if err != nil {
		return "", h.classify(ctx, reqCtx, d, err)
	}

	h.logger.Debug("HTTP response received",
		"url", d.URL(),
		"status", resp.StatusCode,
		"bytes", len(body),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return string(body), nil
}

func (h *HTTPTransport) classify(parent, reqCtx context.Context, d domain.RequestDescriptor, err error) error {
	if stderrors.Is(reqCtx.Err(), context.DeadlineExceeded) && parent.Err() == nil {
		return errors.Wrapf(errors.ErrTimeout, "request exceeded %s", d.Timeout)
	}
	return fmt.Errorf("%w: %w", errors.ErrTransport, err)
}

// Package transport executes request descriptors against the aggregation service,
// either through the curl binary or in-process with net/http.
package transport

import (
	"fmt"

	"icpharvest/internal/core/ports"
	"icpharvest/internal/platform/config"
	"icpharvest/internal/platform/errors"
	"icpharvest/internal/platform/httpclient"
	"icpharvest/internal/platform/logx"
)

// Transport kinds.
const (
	KindCurl = config.TransportCurl
	KindHTTP = config.TransportHTTP
)

// New selects the transport named by cfg.Kind.
func New(cfg config.Transport, logger logx.Logger) (ports.Transport, error) {
	switch cfg.Kind {
	case KindCurl, "":
		return NewCurl(cfg.CurlPath, cfg.ProxyURL, logger), nil
	case KindHTTP:
		hc := httpclient.DefaultConfig()
		hc.ConnectTimeout = cfg.ConnectTimeout
		hc.ProxyURL = cfg.ProxyURL
		return NewHTTP(hc, logger)
	default:
		return nil, fmt.Errorf("%w: unknown transport %q", errors.ErrInvalidInput, cfg.Kind)
	}
}

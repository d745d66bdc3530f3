// Package httpclient builds the *http.Client used by the HTTP transport: connect timeout,
// optional http(s) or socks5 proxy, and a bounded body reader.
package httpclient

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/net/proxy"

	"icpharvest/internal/platform/errors"
)

// Config holds the configuration for the HTTP client.
type Config struct {
	// ConnectTimeout bounds TCP connect (and SOCKS handshake).
	// Default: 10 seconds
	ConnectTimeout time.Duration

	// ProxyURL routes requests through http://, https:// or socks5:// proxies.
	// Empty means the environment proxy settings apply (HTTP_PROXY, NO_PROXY).
	ProxyURL string

	// MaxBodyBytes caps how much of a response body is read.
	// Default: 64 MiB
	MaxBodyBytes int64
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		ConnectTimeout: 10 * time.Second,
		MaxBodyBytes:   64 << 20,
	}
}

// New creates an *http.Client. Overall request deadlines are left to the caller's context.
func New(config Config) (*http.Client, error) {
	// Apply defaults for zero values
	if config.ConnectTimeout <= 0 {
		config.ConnectTimeout = 10 * time.Second
	}

	dialer := &net.Dialer{
		Timeout:   config.ConnectTimeout,
		KeepAlive: 30 * time.Second,
	}

	tr := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		TLSHandshakeTimeout:   config.ConnectTimeout,
		MaxIdleConns:          4,
		IdleConnTimeout:       90 * time.Second,
		ExpectContinueTimeout: time.Second,
	}

	if config.ProxyURL != "" {
		u, err := url.Parse(config.ProxyURL)
		if err != nil || u.Host == "" {
			return nil, fmt.Errorf("%w: proxy url %q", errors.ErrInvalidInput, config.ProxyURL)
		}

		switch u.Scheme {
		case "http", "https":
			tr.Proxy = http.ProxyURL(u)
		case "socks5", "socks5h":
			d, err := socksDialer(u, dialer)
			if err != nil {
				return nil, err
			}
			tr.Proxy = nil
			tr.DialContext = d
		default:
			return nil, fmt.Errorf("%w: unsupported proxy scheme %q", errors.ErrInvalidInput, u.Scheme)
		}
	}

	return &http.Client{Transport: tr}, nil
}

// socksDialer returns a DialContext that tunnels through the SOCKS5 proxy at u.
func socksDialer(u *url.URL, forward *net.Dialer) (func(ctx context.Context, network, addr string) (net.Conn, error), error) {
	d, err := proxy.FromURL(u, forward)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to build socks dialer for %s", u.Redacted())
	}

	if cd, ok := d.(proxy.ContextDialer); ok {
		return cd.DialContext, nil
	}

	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return d.Dial(network, addr)
	}, nil
}

// ReadBody reads the response body up to limit bytes and closes it.
// This is a convenience method to ensure the body is always closed.
func ReadBody(resp *http.Response, limit int64) ([]byte, error) {
	if resp == nil {
		return nil, errors.New("response is nil")
	}
	defer resp.Body.Close()

	if limit <= 0 {
		limit = DefaultConfig().MaxBodyBytes
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, limit))
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response body")
	}

	return body, nil
}

// internal/adapters/request/builder.go
package request

import (
	"time"

	"icpharvest/internal/core/domain"
	"icpharvest/internal/platform/pacing"
)

// DefaultPageSize is the page size requested from the aggregation service.
const DefaultPageSize = 1000

// DefaultIdentities is the pool of browser User-Agent strings rotated per attempt.
var DefaultIdentities = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/128.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/127.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Edge/128.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.6 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/127.0.0.0 Safari/537.36",
}

// Options configures a Builder.
type Options struct {
	BaseURL        string
	PageSize       int
	ConnectTimeout time.Duration
	Timeout        time.Duration
	Identities     []string
	Rand           pacing.Rand
}

// Builder produces a fresh RequestDescriptor per call.
// It is read-only after construction; randomness is the only side effect.
type Builder struct {
	baseURL        string
	pageSize       int
	connectTimeout time.Duration
	timeout        time.Duration
	identities     []string
	rnd            pacing.Rand
}

// New creates a Builder, filling unset options with defaults.
func New(opts Options) *Builder {
	b := &Builder{
		baseURL:        opts.BaseURL,
		pageSize:       opts.PageSize,
		connectTimeout: opts.ConnectTimeout,
		timeout:        opts.Timeout,
		rnd:            opts.Rand,
	}
	if b.pageSize <= 0 {
		b.pageSize = DefaultPageSize
	}
	if b.connectTimeout <= 0 {
		b.connectTimeout = 10 * time.Second
	}
	if b.timeout <= 0 {
		b.timeout = 60 * time.Second
	}
	if b.rnd == nil {
		b.rnd = pacing.DefaultRand()
	}

	ids := opts.Identities
	if len(ids) == 0 {
		ids = DefaultIdentities
	}
	b.identities = append([]string(nil), ids...)

	return b
}

// Build returns a descriptor for (target, resource) with a uniformly chosen identity.
func (b *Builder) Build(target domain.Target, resource domain.ResourceType) domain.RequestDescriptor {
	return domain.RequestDescriptor{
		BaseURL:        b.baseURL,
		Resource:       resource,
		Target:         target,
		PageSize:       b.pageSize,
		Identity:       b.identity(),
		ConnectTimeout: b.connectTimeout,
		Timeout:        b.timeout,
	}
}

// Identities returns a copy of the identity pool.
func (b *Builder) Identities() []string {
	return append([]string(nil), b.identities...)
}

func (b *Builder) identity() string {
	return b.identities[b.rnd.IntN(len(b.identities))]
}

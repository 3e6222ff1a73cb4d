// Package nuget implements a client for NuGet v3 ("service index") package
// registries. The client resolves capability endpoints from each source's
// discovery document, caches them for its lifetime, and exposes search and
// metadata operations across one or many configured sources.
package nuget

import (
	"fmt"
	"net/http"
	"time"

	"golang.org/x/sync/singleflight"

	"nugo/internal/log"
)

// Per-operation-class timeouts. Service-index fetches gate everything else
// and must fail fast; readme downloads stream a larger body.
const (
	DefaultServiceIndexTimeout = 10 * time.Second
	DefaultSearchTimeout       = 15 * time.Second
	DefaultMetadataTimeout     = 15 * time.Second
	DefaultReadmeTimeout       = 30 * time.Second
)

// DefaultSemVerLevel is the semantic-versioning compatibility level sent
// with search requests when the caller does not override it.
const DefaultSemVerLevel = "2.0.0"

// Timeouts holds the per-operation-class request timeouts.
type Timeouts struct {
	ServiceIndex time.Duration
	Search       time.Duration
	Metadata     time.Duration
	Readme       time.Duration
}

// Options configures a RegistryClient beyond its source list. The zero
// value selects defaults for every field.
type Options struct {
	Timeouts    Timeouts
	SemVerLevel string
	Logger      log.Logger
	HTTPClient  *http.Client
}

// RegistryClient is the service-index registry client. Safe for concurrent
// use; endpoint caches are additive and populated at most once per source.
type RegistryClient struct {
	sources     []Source
	httpClient  *http.Client
	timeouts    Timeouts
	semVerLevel string
	logger      log.Logger
	cache       *endpointCache
	flight      singleflight.Group
}

var _ Client = (*RegistryClient)(nil)

// NewRegistryClient creates a client over the given ordered source list.
// Source order matters: it breaks ties during multi-source deduplication.
func NewRegistryClient(sources []Source, opts Options) *RegistryClient {
	t := opts.Timeouts
	if t.ServiceIndex <= 0 {
		t.ServiceIndex = DefaultServiceIndexTimeout
	}
	if t.Search <= 0 {
		t.Search = DefaultSearchTimeout
	}
	if t.Metadata <= 0 {
		t.Metadata = DefaultMetadataTimeout
	}
	if t.Readme <= 0 {
		t.Readme = DefaultReadmeTimeout
	}

	level := opts.SemVerLevel
	if level == "" {
		level = DefaultSemVerLevel
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.NewNoop()
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		// Per-request timeouts come from the context; the transport-level
		// timeout stays unset so it cannot race the classifier.
		httpClient = &http.Client{}
	}

	return &RegistryClient{
		sources:     sources,
		httpClient:  httpClient,
		timeouts:    t,
		semVerLevel: level,
		logger:      logger,
		cache:       newEndpointCache(),
	}
}

// Sources returns the configured sources in order.
func (c *RegistryClient) Sources() []Source {
	out := make([]Source, len(c.sources))
	copy(out, c.sources)
	return out
}

// enabledSources returns the enabled sources in configuration order.
func (c *RegistryClient) enabledSources() []Source {
	var out []Source
	for _, s := range c.sources {
		if s.Enabled {
			out = append(out, s)
		}
	}
	return out
}

// sourceByID finds an enabled source by identifier.
func (c *RegistryClient) sourceByID(id string) (Source, error) {
	for _, s := range c.sources {
		if s.ID == id {
			if !s.Enabled {
				return Source{}, NewRegistryError(ErrInvalidSource,
					fmt.Sprintf("source %q is disabled", id))
			}
			return s, nil
		}
	}
	return Source{}, NewRegistryError(ErrInvalidSource,
		fmt.Sprintf("source %q is not configured", id))
}

// pickSource resolves an optional source identifier for detail operations:
// empty means the first enabled source.
func (c *RegistryClient) pickSource(sourceID string) (Source, error) {
	if sourceID != "" {
		return c.sourceByID(sourceID)
	}
	enabled := c.enabledSources()
	if len(enabled) == 0 {
		return Source{}, NewRegistryError(ErrInvalidSource, "no enabled sources configured")
	}
	return enabled[0], nil
}

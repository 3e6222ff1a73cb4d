package nuget

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Capability type tags from the registry's published v3 schema. Each list
// is ordered by preference, newest variant first; resolution falls back
// through the list when a source's index predates the newer tags.
var (
	searchServiceTypes = []string{
		"SearchQueryService/3.5.0",
		"SearchQueryService/3.0.0-rc",
		"SearchQueryService/3.0.0-beta",
		"SearchQueryService",
	}
	registrationBaseTypes = []string{
		"RegistrationsBaseUrl/3.6.0",
		"RegistrationsBaseUrl/Versioned",
		"RegistrationsBaseUrl/3.4.0",
		"RegistrationsBaseUrl/3.0.0-rc",
		"RegistrationsBaseUrl/3.0.0-beta",
		"RegistrationsBaseUrl",
	}
	packageBaseTypes = []string{
		"PackageBaseAddress/3.0.0",
	}
)

// capability names one endpoint kind resolvable from a service index.
type capability struct {
	name  string   // used in cache keys and error messages
	types []string // acceptable @type tags, in preference order
}

var (
	capSearch       = capability{name: "search", types: searchServiceTypes}
	capRegistration = capability{name: "registration", types: registrationBaseTypes}
	capPackageBase  = capability{name: "package content", types: packageBaseTypes}
)

// endpointCache holds resolved endpoint URLs keyed by source ID, one map
// per capability. Entries are written once and never evicted; a populated
// entry is trusted for the life of the client.
type endpointCache struct {
	mu           sync.RWMutex
	search       map[string]string
	registration map[string]string
	packageBase  map[string]string
}

func newEndpointCache() *endpointCache {
	return &endpointCache{
		search:       make(map[string]string),
		registration: make(map[string]string),
		packageBase:  make(map[string]string),
	}
}

func (ec *endpointCache) table(kind capability) map[string]string {
	switch kind.name {
	case capSearch.name:
		return ec.search
	case capRegistration.name:
		return ec.registration
	default:
		return ec.packageBase
	}
}

func (ec *endpointCache) get(kind capability, sourceID string) (string, bool) {
	ec.mu.RLock()
	defer ec.mu.RUnlock()
	u, ok := ec.table(kind)[sourceID]
	return u, ok
}

func (ec *endpointCache) put(kind capability, sourceID, u string) {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	ec.table(kind)[sourceID] = u
}

// resolveEndpoint returns the endpoint URL for the requested capability,
// fetching the source's service index on first use. Concurrent misses for
// the same source collapse into a single index fetch.
func (c *RegistryClient) resolveEndpoint(ctx context.Context, source Source, kind capability) (string, error) {
	if u, ok := c.cache.get(kind, source.ID); ok {
		c.logger.Debug("endpoint cache hit", "source", source.ID, "capability", kind.name)
		return u, nil
	}

	_, err, _ := c.flight.Do("index:"+source.ID, func() (any, error) {
		return nil, c.populateEndpoints(ctx, source)
	})
	if err != nil {
		return "", err
	}

	if u, ok := c.cache.get(kind, source.ID); ok {
		return u, nil
	}
	return "", NewRegistryError(ErrAPI,
		fmt.Sprintf("source %s does not advertise a %s endpoint", source.Name, kind.name))
}

// populateEndpoints fetches and parses the source's service index, then
// records every resolvable capability at once so later lookups for other
// capabilities are cache hits.
func (c *RegistryClient) populateEndpoints(ctx context.Context, source Source) error {
	var index serviceIndex
	if err := c.getJSON(ctx, source, source.IndexURL, c.timeouts.ServiceIndex, nil, &index); err != nil {
		return err
	}

	for _, kind := range []capability{capSearch, capRegistration, capPackageBase} {
		if u, ok := pickResource(index.Resources, kind); ok {
			c.cache.put(kind, source.ID, strings.TrimSuffix(u, "/"))
		}
	}
	return nil
}

// pickResource finds the first resource matching the capability's type
// tags, honoring the tags' preference order.
func pickResource(resources []serviceResource, kind capability) (string, bool) {
	for _, typ := range kind.types {
		for _, r := range resources {
			if r.Type == typ && r.ID != "" {
				return r.ID, true
			}
		}
	}
	return "", false
}

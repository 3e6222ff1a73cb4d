package nuget

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"sync"
)

// SearchPackages searches one source, or every enabled source concurrently
// when sourceID is empty or AllSources. Multi-source results are merged and
// deduplicated; a failing source never aborts the others.
func (c *RegistryClient) SearchPackages(ctx context.Context, opts SearchOptions, sourceID string) ([]SearchResult, error) {
	if sourceID != "" && sourceID != AllSources {
		source, err := c.sourceByID(sourceID)
		if err != nil {
			return nil, err
		}
		return c.searchSource(ctx, source, opts)
	}
	return c.searchAll(ctx, opts)
}

// searchSource executes a search against a single source.
func (c *RegistryClient) searchSource(ctx context.Context, source Source, opts SearchOptions) ([]SearchResult, error) {
	endpoint, err := c.resolveEndpoint(ctx, source, capSearch)
	if err != nil {
		return nil, err
	}

	var payload searchResponse
	if err := c.getJSON(ctx, source, endpoint+"?"+c.searchQuery(opts), c.timeouts.Search, nil, &payload); err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, len(payload.Data))
	for _, w := range payload.Data {
		results = append(results, w.toDomain())
	}

	c.logger.Debug("search completed",
		"source", source.ID, "totalHits", payload.TotalHits, "returned", len(results))
	return results, nil
}

// searchQuery encodes the search options as the endpoint's query string.
func (c *RegistryClient) searchQuery(opts SearchOptions) string {
	params := url.Values{}
	if opts.Query != "" {
		params.Set("q", opts.Query)
	}
	params.Set("prerelease", strconv.FormatBool(opts.IncludePrerelease))
	if opts.Skip > 0 {
		params.Set("skip", strconv.Itoa(opts.Skip))
	}
	if opts.Take > 0 {
		params.Set("take", strconv.Itoa(opts.Take))
	}
	level := opts.SemVerLevel
	if level == "" {
		level = c.semVerLevel
	}
	params.Set("semVerLevel", level)
	return params.Encode()
}

// sourceOutcome is one source's settled result in a multi-source search.
type sourceOutcome struct {
	source  Source
	results []SearchResult
	err     error
}

// searchAll fans the search out across every enabled source and merges the
// successful outcomes. All requests settle before any outcome is
// inspected, so a slow or failing source cannot cancel its peers.
func (c *RegistryClient) searchAll(ctx context.Context, opts SearchOptions) ([]SearchResult, error) {
	sources := c.enabledSources()
	if len(sources) == 0 {
		return nil, NewRegistryError(ErrInvalidSource, "no enabled sources configured")
	}

	outcomes := make([]sourceOutcome, len(sources))
	var wg sync.WaitGroup
	for i, source := range sources {
		wg.Add(1)
		go func(i int, source Source) {
			defer wg.Done()
			results, err := c.searchSource(ctx, source, opts)
			outcomes[i] = sourceOutcome{source: source, results: results, err: err}
		}(i, source)
	}
	wg.Wait()

	// Outcomes keep configuration order, which drives the dedup tie-break.
	var succeeded [][]SearchResult
	failures := make(map[string]any)
	for _, o := range outcomes {
		if o.err != nil {
			failures[o.source.ID] = o.err.Error()
			c.logger.Warn("source search failed", "source", o.source.ID, "error", o.err)
			continue
		}
		tagged := make([]SearchResult, len(o.results))
		for j, r := range o.results {
			r.SourceID = o.source.ID
			r.SourceName = o.source.Name
			tagged[j] = r
		}
		succeeded = append(succeeded, tagged)
	}

	if len(succeeded) == 0 {
		re := NewRegistryError(ErrNetwork,
			fmt.Sprintf("all %d sources failed", len(sources)))
		re.Details = failures
		return nil, re
	}

	return dedupeResults(succeeded), nil
}

package nuget

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"nugo/internal/version"
)

// GetPackageIndex fetches a package's registration index from one source
// and merges every page into a version list sorted newest to oldest.
func (c *RegistryClient) GetPackageIndex(ctx context.Context, packageID, sourceID string) (*PackageIndex, error) {
	source, err := c.pickSource(sourceID)
	if err != nil {
		return nil, err
	}

	base, err := c.resolveEndpoint(ctx, source, capRegistration)
	if err != nil {
		return nil, err
	}

	indexURL := fmt.Sprintf("%s/%s/index.json", base, strings.ToLower(packageID))
	var index registrationIndex
	notFound := NewRegistryError(ErrPackageNotFound, packageID)
	if err := c.getJSON(ctx, source, indexURL, c.timeouts.Metadata, notFound, &index); err != nil {
		return nil, err
	}

	var versions []VersionDetails
	for _, page := range index.Items {
		leaves := page.Items
		if len(leaves) == 0 && page.ID != "" {
			// Large packages page out: the index only references the page
			// document, which is fetched with the same origin-scoped headers.
			var full registrationPage
			if err := c.getJSON(ctx, source, page.ID, c.timeouts.Metadata, nil, &full); err != nil {
				return nil, err
			}
			leaves = full.Items
		}
		for i := range leaves {
			entry, err := c.resolveCatalogEntry(ctx, source, &leaves[i])
			if err != nil {
				return nil, err
			}
			versions = append(versions, entry.toDomain(&leaves[i]))
		}
	}

	sort.SliceStable(versions, func(i, j int) bool {
		return version.CompareStrings(versions[i].Version, versions[j].Version) > 0
	})

	c.logger.Debug("package index fetched",
		"source", source.ID, "package", packageID, "versions", len(versions))
	return &PackageIndex{ID: packageID, Versions: versions}, nil
}

// GetPackageVersion fetches the registration leaf for a single version.
func (c *RegistryClient) GetPackageVersion(ctx context.Context, packageID, ver, sourceID string) (*VersionDetails, error) {
	source, err := c.pickSource(sourceID)
	if err != nil {
		return nil, err
	}

	base, err := c.resolveEndpoint(ctx, source, capRegistration)
	if err != nil {
		return nil, err
	}

	leafURL := fmt.Sprintf("%s/%s/%s.json",
		base, strings.ToLower(packageID), strings.ToLower(ver))
	var leaf registrationLeaf
	notFound := NewRegistryError(ErrVersionNotFound, fmt.Sprintf("%s@%s", packageID, ver))
	if err := c.getJSON(ctx, source, leafURL, c.timeouts.Metadata, notFound, &leaf); err != nil {
		return nil, err
	}

	entry, err := c.resolveCatalogEntry(ctx, source, &leaf)
	if err != nil {
		return nil, err
	}

	details := entry.toDomain(&leaf)
	return &details, nil
}

// resolveCatalogEntry decodes a leaf's catalog entry, following it when the
// registry inlined only a URL reference. The follow-up fetch runs on the
// same caller context with its own timeout.
func (c *RegistryClient) resolveCatalogEntry(ctx context.Context, source Source, leaf *registrationLeaf) (catalogEntry, error) {
	var entry catalogEntry
	if len(leaf.CatalogEntry) == 0 {
		return entry, NewRegistryError(ErrParse,
			fmt.Sprintf("registration leaf from source %s has no catalog entry", source.Name))
	}

	var ref string
	if err := json.Unmarshal(leaf.CatalogEntry, &ref); err == nil {
		if err := c.getJSON(ctx, source, ref, c.timeouts.Metadata, nil, &entry); err != nil {
			return entry, err
		}
		return entry, nil
	}

	if err := json.Unmarshal(leaf.CatalogEntry, &entry); err != nil {
		return entry, NewRegistryError(ErrParse,
			fmt.Sprintf("invalid catalog entry from source %s: %v", source.Name, err))
	}
	return entry, nil
}

package nuget

import "context"

// Client defines the operations a service-index registry client supports.
// sourceID selects one configured source; SearchPackages also accepts the
// empty string or AllSources to fan out across every enabled source.
type Client interface {
	// Search for packages, across one source or all enabled sources.
	SearchPackages(ctx context.Context, opts SearchOptions, sourceID string) ([]SearchResult, error)

	// Get the merged, version-sorted metadata index for a package.
	GetPackageIndex(ctx context.Context, packageID, sourceID string) (*PackageIndex, error)

	// Get the full metadata for a single package version.
	GetPackageVersion(ctx context.Context, packageID, version, sourceID string) (*VersionDetails, error)

	// Get a package version's readme text.
	GetPackageReadme(ctx context.Context, packageID, version, sourceID string) (string, error)
}

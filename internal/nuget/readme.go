package nuget

import (
	"context"
	"fmt"
	"strings"
)

// maxReadmeBytes caps readme downloads at 500 KiB. Larger readmes are
// refused outright instead of being truncated mid-document.
const maxReadmeBytes = 500 * 1024

// GetPackageReadme streams a package version's readme from the source's
// package-content endpoint.
func (c *RegistryClient) GetPackageReadme(ctx context.Context, packageID, ver, sourceID string) (string, error) {
	source, err := c.pickSource(sourceID)
	if err != nil {
		return "", err
	}

	base, err := c.resolveEndpoint(ctx, source, capPackageBase)
	if err != nil {
		return "", err
	}

	readmeURL := fmt.Sprintf("%s/%s/%s/readme",
		base, strings.ToLower(packageID), strings.ToLower(ver))
	notFound := NewRegistryError(ErrNotFound,
		fmt.Sprintf("no readme for %s@%s", packageID, ver))
	return c.getText(ctx, source, readmeURL, c.timeouts.Readme, notFound, maxReadmeBytes)
}

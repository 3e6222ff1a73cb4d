package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"nugo/internal/nuget"
)

var (
	searchPrerelease bool
	searchSkip       int
	searchTake       int
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search for packages across configured sources",
	Long: `Search for packages in the configured registry sources.

Without a query, browses all packages. By default every enabled source is
searched in parallel and duplicate packages are merged, keeping the highest
version.

Examples:
  nugo search Newtonsoft.Json
  nugo search logging --prerelease
  nugo search serilog --source=nuget.org --take=10`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := ""
		if len(args) > 0 {
			query = args[0]
		}
		return runSearch(cmd.Context(), query)
	},
}

func runSearch(ctx context.Context, query string) error {
	client, _, err := newClient()
	if err != nil {
		return err
	}

	opts := nuget.SearchOptions{
		Query:             query,
		IncludePrerelease: searchPrerelease,
		Skip:              searchSkip,
		Take:              searchTake,
	}

	results, err := client.SearchPackages(ctx, opts, sourceFlag)
	if err != nil {
		return describeError(err)
	}

	if len(results) == 0 {
		if query != "" {
			fmt.Printf("No packages found matching '%s'\n", query)
		} else {
			fmt.Println("No packages found")
		}
		return nil
	}

	fmt.Printf("Found %d package(s):\n\n", len(results))
	for _, r := range results {
		marker := ""
		if r.Verified {
			marker = " [verified]"
		}
		fmt.Printf("%s@%s%s\n", r.ID, r.Version, marker)
		if r.Description != "" {
			fmt.Printf("   %s\n", firstLine(r.Description))
		}
		if len(r.Authors) > 0 {
			fmt.Printf("   by %s\n", strings.Join(r.Authors, ", "))
		}
		fmt.Printf("   %d downloads\n\n", r.TotalDownloads)
	}

	return nil
}

// firstLine keeps package descriptions to one display line.
func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx != -1 {
		return strings.TrimSpace(s[:idx])
	}
	return s
}

func init() {
	searchCmd.Flags().BoolVar(&searchPrerelease, "prerelease", false, "include prerelease versions")
	searchCmd.Flags().IntVar(&searchSkip, "skip", 0, "number of results to skip")
	searchCmd.Flags().IntVar(&searchTake, "take", 20, "number of results to return")
}

package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var versionsAll bool

// versionsCmd represents the versions command
var versionsCmd = &cobra.Command{
	Use:   "versions <package-id>",
	Short: "List the published versions of a package",
	Long: `List a package's versions, newest first.

Examples:
  nugo versions Newtonsoft.Json
  nugo versions Serilog --all`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runVersions(cmd.Context(), args[0])
	},
}

func runVersions(ctx context.Context, packageID string) error {
	client, _, err := newClient()
	if err != nil {
		return err
	}

	index, err := client.GetPackageIndex(ctx, packageID, sourceFlag)
	if err != nil {
		return describeError(err)
	}

	if len(index.Versions) == 0 {
		fmt.Printf("No versions found for %s\n", packageID)
		return nil
	}

	shown := index.Versions
	if !versionsAll && len(shown) > 20 {
		shown = shown[:20]
	}

	fmt.Printf("%s (%d versions):\n", index.ID, len(index.Versions))
	for _, v := range shown {
		unlisted := ""
		if !v.Listed {
			unlisted = " (unlisted)"
		}
		fmt.Printf("  %s%s\n", v.Version, unlisted)
	}
	if len(shown) < len(index.Versions) {
		fmt.Printf("  ... %d more (use --all)\n", len(index.Versions)-len(shown))
	}

	return nil
}

func init() {
	versionsCmd.Flags().BoolVar(&versionsAll, "all", false, "show every version")
}

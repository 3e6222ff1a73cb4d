package cli

import (
	"context"
	"fmt"
	"html"

	"github.com/microcosm-cc/bluemonday"
	"github.com/spf13/cobra"
)

var readmeRaw bool

// readmeCmd represents the readme command
var readmeCmd = &cobra.Command{
	Use:   "readme <package-id> <version>",
	Short: "Show a package version's readme",
	Long: `Fetch and print a package version's readme.

Embedded HTML is stripped before printing; use --raw to print the readme
exactly as published.

Examples:
  nugo readme Newtonsoft.Json 13.0.3
  nugo readme Serilog 4.0.0 --raw`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReadme(cmd.Context(), args[0], args[1])
	},
}

func runReadme(ctx context.Context, packageID, version string) error {
	client, _, err := newClient()
	if err != nil {
		return err
	}

	readme, err := client.GetPackageReadme(ctx, packageID, version, sourceFlag)
	if err != nil {
		return describeError(err)
	}

	if !readmeRaw {
		// Readmes are markdown but frequently embed raw HTML; strip it so
		// the terminal output stays plain text.
		stripped := bluemonday.StrictPolicy().Sanitize(readme)
		readme = html.UnescapeString(stripped)
	}

	fmt.Println(readme)
	return nil
}

func init() {
	readmeCmd.Flags().BoolVar(&readmeRaw, "raw", false, "print the readme without HTML stripping")
}

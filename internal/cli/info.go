package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// infoCmd represents the info command
var infoCmd = &cobra.Command{
	Use:   "info <package-id> <version>",
	Short: "Show the full metadata for a package version",
	Long: `Show the metadata record for one package version: description,
authors, license, project URL and dependency groups.

Examples:
  nugo info Newtonsoft.Json 13.0.3
  nugo info Serilog 4.0.0 --source=nuget.org`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInfo(cmd.Context(), args[0], args[1])
	},
}

func runInfo(ctx context.Context, packageID, version string) error {
	client, _, err := newClient()
	if err != nil {
		return err
	}

	details, err := client.GetPackageVersion(ctx, packageID, version, sourceFlag)
	if err != nil {
		return describeError(err)
	}

	fmt.Printf("%s@%s\n", details.ID, details.Version)
	if details.Description != "" {
		fmt.Printf("\n%s\n", details.Description)
	}
	fmt.Println()
	if len(details.Authors) > 0 {
		fmt.Printf("Authors:    %s\n", strings.Join(details.Authors, ", "))
	}
	if details.LicenseExpression != "" {
		fmt.Printf("License:    %s\n", details.LicenseExpression)
	}
	if details.ProjectURL != "" {
		fmt.Printf("Project:    %s\n", details.ProjectURL)
	}
	if !details.Published.IsZero() {
		fmt.Printf("Published:  %s\n", details.Published.Format("2006-01-02"))
	}
	if !details.Listed {
		fmt.Printf("Listed:     no\n")
	}
	if len(details.Tags) > 0 {
		fmt.Printf("Tags:       %s\n", strings.Join(details.Tags, ", "))
	}

	if len(details.DependencyGroups) > 0 {
		fmt.Printf("\nDependencies:\n")
		for _, g := range details.DependencyGroups {
			framework := g.TargetFramework
			if framework == "" {
				framework = "any"
			}
			fmt.Printf("  %s:\n", framework)
			if len(g.Dependencies) == 0 {
				fmt.Printf("    (none)\n")
				continue
			}
			for _, d := range g.Dependencies {
				fmt.Printf("    %s %s\n", d.ID, d.Range)
			}
		}
	}

	return nil
}

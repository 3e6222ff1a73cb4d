package cli

import (
	"fmt"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"nugo/internal/config"
	"nugo/internal/nuget"
)

var (
	sourceAddName     string
	sourceAddKind     string
	sourceAddAuth     string
	sourceAddUsername string
	sourceAddHeader   string
	sourceAddDisabled bool
)

// sourceCmd represents the source command
var sourceCmd = &cobra.Command{
	Use:   "source",
	Short: "Manage registry sources",
	Long: `Manage the registry sources searched by nugo.

Sources are configured in order; when a multi-source search finds the same
package on several sources at the same version, the earlier source wins.`,
}

// sourceAddCmd adds a new source
var sourceAddCmd = &cobra.Command{
	Use:   "add <id> <index-url>",
	Short: "Add a registry source",
	Long: `Add a registry source by its service index URL.

Auth types:
  none     no credentials (default)
  basic    username + secret as HTTP basic auth
  bearer   secret as a bearer token
  api-key  secret in a custom header (--header)

The secret is prompted for interactively and never echoed.

Examples:
  nugo source add nuget.org https://api.nuget.org/v3/index.json
  nugo source add private https://feed.corp.example/v3/index.json --auth basic --username ci
  nugo source add telemetry https://pkgs.example.io/index.json --auth api-key --header X-Feed-Key`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSourceAdd(args[0], args[1])
	},
}

// sourceListCmd lists configured sources
var sourceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured sources",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSourceList()
	},
}

// sourceRemoveCmd removes a source
var sourceRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a source",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSourceRemove(args[0])
	},
}

// sourceEnableCmd re-enables a source
var sourceEnableCmd = &cobra.Command{
	Use:   "enable <id>",
	Short: "Enable a source",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSourceSetEnabled(args[0], true)
	},
}

// sourceDisableCmd disables a source without removing it
var sourceDisableCmd = &cobra.Command{
	Use:   "disable <id>",
	Short: "Disable a source",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSourceSetEnabled(args[0], false)
	},
}

func runSourceAdd(id, indexURL string) error {
	authType := nuget.AuthType(sourceAddAuth)
	switch authType {
	case nuget.AuthNone, nuget.AuthBasic, nuget.AuthBearer, nuget.AuthAPIKey:
	default:
		return fmt.Errorf("unknown auth type %q (use none, basic, bearer or api-key)", sourceAddAuth)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if _, exists := cfg.FindSource(id); exists {
		return fmt.Errorf("source '%s' already exists. Remove it first with 'nugo source remove %s'", id, id)
	}

	src := config.Source{
		ID:      id,
		Name:    sourceAddName,
		Kind:    sourceAddKind,
		URL:     indexURL,
		Enabled: !sourceAddDisabled,
	}

	if authType != nuget.AuthNone {
		secret, err := promptSecret(fmt.Sprintf("Secret for %s: ", id))
		if err != nil {
			return err
		}
		src.Auth = &config.Auth{
			Type:     string(authType),
			Username: sourceAddUsername,
			Secret:   secret,
			Header:   sourceAddHeader,
		}
	}

	cfg.Sources = append(cfg.Sources, src)
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Printf("✅ Added source '%s'\n", id)
	fmt.Printf("   URL: %s\n", indexURL)
	if src.Auth != nil {
		fmt.Printf("   Auth: %s\n", src.Auth.Type)
	}
	return nil
}

func runSourceList() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if len(cfg.Sources) == 0 {
		fmt.Printf("No sources configured.\n")
		fmt.Printf("Add one with: nugo source add <id> <index-url>\n")
		return nil
	}

	fmt.Printf("Configured sources:\n\n")
	for _, s := range cfg.Sources {
		status := "enabled"
		if !s.Enabled {
			status = "disabled"
		}
		fmt.Printf("  %s (%s)\n", s.ID, status)
		fmt.Printf("    URL: %s\n", s.URL)
		if s.Auth != nil && s.Auth.Type != string(nuget.AuthNone) {
			fmt.Printf("    Auth: %s [configured]\n", s.Auth.Type)
		}
		fmt.Printf("\n")
	}
	return nil
}

func runSourceRemove(id string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	kept := cfg.Sources[:0]
	found := false
	for _, s := range cfg.Sources {
		if s.ID == id {
			found = true
			continue
		}
		kept = append(kept, s)
	}
	if !found {
		return fmt.Errorf("source '%s' not found. Use 'nugo source list' to see configured sources", id)
	}

	cfg.Sources = kept
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Printf("✅ Removed source '%s'\n", id)
	return nil
}

func runSourceSetEnabled(id string, enabled bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	found := false
	for i := range cfg.Sources {
		if cfg.Sources[i].ID == id {
			cfg.Sources[i].Enabled = enabled
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("source '%s' not found. Use 'nugo source list' to see configured sources", id)
	}

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	verb := "Enabled"
	if !enabled {
		verb = "Disabled"
	}
	fmt.Printf("✅ %s source '%s'\n", verb, id)
	return nil
}

// promptSecret reads a credential from the terminal without echoing it.
func promptSecret(prompt string) (string, error) {
	fmt.Print(prompt)
	secretBytes, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read secret: %w", err)
	}
	return strings.TrimSpace(string(secretBytes)), nil
}

func init() {
	sourceAddCmd.Flags().StringVar(&sourceAddName, "name", "", "display name (defaults to the id)")
	sourceAddCmd.Flags().StringVar(&sourceAddKind, "kind", "nuget", "provider kind (nuget, github, azure)")
	sourceAddCmd.Flags().StringVar(&sourceAddAuth, "auth", "none", "auth type (none, basic, bearer, api-key)")
	sourceAddCmd.Flags().StringVar(&sourceAddUsername, "username", "", "username for basic auth")
	sourceAddCmd.Flags().StringVar(&sourceAddHeader, "header", "", "header name for api-key auth")
	sourceAddCmd.Flags().BoolVar(&sourceAddDisabled, "disabled", false, "add the source disabled")

	sourceCmd.AddCommand(sourceAddCmd)
	sourceCmd.AddCommand(sourceListCmd)
	sourceCmd.AddCommand(sourceRemoveCmd)
	sourceCmd.AddCommand(sourceEnableCmd)
	sourceCmd.AddCommand(sourceDisableCmd)
}

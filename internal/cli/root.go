package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"nugo/internal/config"
	"nugo/internal/log"
	"nugo/internal/nuget"
)

var (
	verbose    bool
	sourceFlag string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "nugo",
	Short: "nugo - NuGet registry explorer",
	Long: `nugo searches and inspects packages on NuGet v3 registries.

Configure one or more sources with 'nugo source add', then search across
all of them at once or pin a command to a single source with --source.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&sourceFlag, "source", "", "registry source id (default: all sources for search, first enabled otherwise)")

	// Add subcommands
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(versionsCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(readmeCmd)
	rootCmd.AddCommand(sourceCmd)
}

// newClient builds a registry client from the saved configuration.
func newClient() (*nuget.RegistryClient, config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, config.Config{}, fmt.Errorf("failed to load config: %w", err)
	}

	opts := cfg.ClientOptions()
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	opts.Logger = log.New(os.Stderr, level)

	return nuget.NewRegistryClient(cfg.ClientSources(), opts), cfg, nil
}

// Package main provides the CLI entrypoint for span-mapper.
//
// span-mapper enriches annotated documents with a dictionary:
//   - Resolves "Type" or "Type:feature" path specs against a type system
//   - Looks up the covered text (or a feature) of every source span
//   - Updates the source span or creates a target span on each hit
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"span-mapper/internal/logger"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "span-mapper",
	Short: "Map annotated spans through a dictionary",
	Long: `span-mapper applies a lookup dictionary to typed spans of annotated documents.

For every span of the source type, the key (covered text or a string feature)
is looked up; on a hit the value is written onto the same span (update mode)
or onto a new span of the target type over the same offsets (create mode).

Examples:
  span-mapper check -c mapper.toml          # Validate the rule against the types
  span-mapper run -c mapper.toml -o out/ docs/*.yaml
  span-mapper types ./typesystem/geo        # Describe Go struct types`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := logger.Initialize(false, ""); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Cleanup()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Configuration file (TOML or YAML)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(typesCmd)
}

func main() {
	// .env is optional
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

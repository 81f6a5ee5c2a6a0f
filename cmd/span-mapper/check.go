package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"span-mapper/internal/diagnostic"
	"span-mapper/internal/mapping"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the mapping rule against the configured type system",
	Long: `Validate the configuration and resolve the source and target path specs
against the configured type system, printing every diagnostic.

Exits non-zero when the rule cannot be applied.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ts, err := loadTypeSystem(cfg.DescriptorFiles(), cfg.Packages())
	if err != nil {
		return err
	}

	res := mapping.Validate(cfg.Rule(), ts)

	out := cmd.OutOrStdout()
	for _, group := range [][]diagnostic.Diagnostic{res.Errors, res.Warnings, res.Infos} {
		for _, d := range group {
			fmt.Fprintf(out, "%s: %s\n", d.Severity, d)
		}
	}

	if err := res.Error(); err != nil {
		return err
	}

	fmt.Fprintf(out, "OK: %s -> %s (update=%t)\n", cfg.Source, cfg.Target, cfg.Update)

	return nil
}

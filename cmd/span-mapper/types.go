package main

import (
	"strings"

	"github.com/spf13/cobra"

	"span-mapper/internal/schema"
)

var typesCmd = &cobra.Command{
	Use:   "types [descriptors or packages...]",
	Short: "Print a type system as a YAML descriptor",
	Long: `Load type-system descriptor files (.yaml) and Go package patterns and print
the combined type system as a single descriptor with qualified names.

Without arguments the types configured in --config are used.

Examples:
  span-mapper types ./typesystem/geo
  span-mapper types typesystem/geo.yaml
  span-mapper types -c mapper.toml`,
	RunE: runTypes,
}

func runTypes(cmd *cobra.Command, args []string) error {
	var descriptors, packages []string

	if len(args) == 0 {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		descriptors, packages = cfg.DescriptorFiles(), cfg.Packages()
	}

	for _, a := range args {
		if strings.HasSuffix(a, ".yaml") || strings.HasSuffix(a, ".yml") {
			descriptors = append(descriptors, a)
		} else {
			packages = append(packages, a)
		}
	}

	ts, err := loadTypeSystem(descriptors, packages)
	if err != nil {
		return err
	}

	data, err := schema.Marshal(schema.Describe(ts))
	if err != nil {
		return err
	}

	_, err = cmd.OutOrStdout().Write(data)

	return err
}

package main

import (
	"github.com/cockroachdb/errors"

	"span-mapper/internal/config"
	"span-mapper/internal/logger"
	"span-mapper/internal/lookup"
	"span-mapper/internal/schema"
)

// loadConfig reads the configuration and re-initializes the logger with its
// log settings.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	if err := logger.Initialize(cfg.Log.JSON, cfg.Log.Level); err != nil {
		return nil, errors.Wrap(err, "failed to initialize logger")
	}

	return cfg, nil
}

// loadTypeSystem builds one type system from descriptor files and Go
// package patterns.
func loadTypeSystem(descriptors, packages []string) (*schema.TypeSystem, error) {
	if len(descriptors) == 0 && len(packages) == 0 {
		return nil, errors.WithHint(errors.New("no type system configured"),
			"set types to descriptor files (.yaml) or Go package patterns")
	}

	ts, err := schema.Load(descriptors...)
	if err != nil {
		return nil, err
	}

	if len(packages) > 0 {
		if _, err := schema.NewAnalyzer(ts).LoadPackages(packages...); err != nil {
			return nil, err
		}
	}

	logger.Infow("Loaded type system", "types", len(ts.Types)-1,
		"descriptors", len(descriptors), "packages", len(packages))

	return ts, nil
}

// loadTable loads the dictionary into a holder. Without a file the holder
// stays empty and every lookup misses.
func loadTable(path string) (*lookup.Holder, error) {
	holder := lookup.NewHolder(nil)
	if path == "" {
		logger.Warnw("No dictionary configured, every lookup will miss")
		return holder, nil
	}

	dict, err := lookup.LoadFile(path)
	if err != nil {
		return nil, err
	}

	holder.Store(dict)

	return holder, nil
}

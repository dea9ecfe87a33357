package loader

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/nathoo/tilequest/types"
)

//go:embed default_config.lua
var defaultSource string

// DefaultName is the chunk name of the built-in configuration program.
const DefaultName = "default_config.lua"

// DefaultSource returns the built-in configuration program.
func DefaultSource() string { return defaultSource }

// Parse evaluates a configuration program and extracts its Config. Warnings
// are returned even when extraction fails.
func Parse(name, src string) (*types.Config, []Warning, error) {
	res, err := Evaluate(name, src)
	if err != nil {
		return nil, nil, err
	}
	cfg, err := Extract(res.Value)
	if err != nil {
		return nil, res.Warnings, fmt.Errorf("extracting config from %s: %w", name, err)
	}
	return cfg, res.Warnings, nil
}

// ParseFile reads and parses a configuration program from disk.
func ParseFile(path string) (*types.Config, []Warning, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return Parse(filepath.Base(path), string(data))
}

// Default parses the built-in configuration program. It panics if the
// embedded program is broken, which the package tests rule out.
func Default() *types.Config {
	cfg, _, err := Parse(DefaultName, defaultSource)
	if err != nil {
		panic(fmt.Sprintf("built-in config: %v", err))
	}
	return cfg
}

// Load parses src and falls back to the built-in config on any error, so
// a run can always start. The returned error, if any, is the reason for
// the fallback and has already been logged.
func Load(logger *log.Logger, name, src string) (*types.Config, error) {
	cfg, warnings, err := Parse(name, src)
	for _, w := range warnings {
		logger.Warn("config lint", "chunk", name, "line", w.Line, "kind", w.Kind, "name", w.Name)
	}
	if err != nil {
		logger.Error("config rejected, using built-in config", "chunk", name, "err", err)
		return Default(), err
	}
	logger.Debug("config loaded", "chunk", name,
		"segments", len(cfg.Segments), "entities", len(cfg.Entities), "hallways", len(cfg.Hallways))
	return cfg, nil
}

// Package config loads the engine defaults a host applies when a request
// leaves an option unset.
package config

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/banshee-data/series.align/internal/combine"
	"github.com/banshee-data/series.align/internal/fsutil"
	"github.com/banshee-data/series.align/internal/paramkey"
	"github.com/banshee-data/series.align/internal/sparse"
	"github.com/banshee-data/series.align/internal/timeutil"
)

// maxConfigSize caps config files at 1MB.
const maxConfigSize = 1 * 1024 * 1024

// EngineConfig holds host-level defaults. Every field is optional; the Get*
// methods fall back to the built-in default for anything not set, so
// partial configs are safe.
type EngineConfig struct {
	DefaultGranularity   *string             `json:"default_granularity,omitempty"`
	SparseRatioThreshold *float64            `json:"sparse_ratio_threshold,omitempty"`
	DifferenceDirection  *string             `json:"difference_direction,omitempty"`
	MissingDataMode      *string             `json:"missing_data_mode,omitempty"`
	LabelMode            *string             `json:"label_mode,omitempty"`
	ParameterAliases     map[string][]string `json:"parameter_aliases,omitempty"`
}

func ptrFloat64(v float64) *float64 { return &v }
func ptrString(v string) *string    { return &v }

// EmptyEngineConfig returns an EngineConfig with every field unset.
func EmptyEngineConfig() *EngineConfig {
	return &EngineConfig{}
}

// DefaultEngineConfig returns a config with every field set to its default.
func DefaultEngineConfig() *EngineConfig {
	return &EngineConfig{
		DefaultGranularity:   ptrString(string(timeutil.OneHour)),
		SparseRatioThreshold: ptrFloat64(sparse.DefaultThreshold),
		DifferenceDirection:  ptrString(string(combine.AMinusB)),
		MissingDataMode:      ptrString(string(combine.MissingSkip)),
		LabelMode:            ptrString(string(combine.LabelAlways)),
	}
}

// LoadEngineConfig loads an EngineConfig from a JSON file on disk.
func LoadEngineConfig(path string) (*EngineConfig, error) {
	return LoadEngineConfigFS(fsutil.OSFileSystem{}, path)
}

// LoadEngineConfigFS loads an EngineConfig from fsys.
// The file must have a .json extension and be under 1MB.
func LoadEngineConfigFS(fsys fsutil.FileSystem, path string) (*EngineConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	data, err := fsutil.ReadLimited(fsys, cleanPath, maxConfigSize)
	if err != nil {
		return nil, fmt.Errorf("config file: %w", err)
	}
	return ParseEngineConfig(data)
}

// ParseEngineConfig decodes and validates config JSON.
func ParseEngineConfig(data []byte) (*EngineConfig, error) {
	cfg := EmptyEngineConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configuration values are valid.
func (c *EngineConfig) Validate() error {
	if c.DefaultGranularity != nil {
		if _, err := timeutil.ParseGranularity(*c.DefaultGranularity); err != nil {
			return fmt.Errorf("default_granularity: %w", err)
		}
	}

	if c.SparseRatioThreshold != nil && *c.SparseRatioThreshold < 1 {
		return fmt.Errorf("sparse_ratio_threshold must be at least 1, got %f", *c.SparseRatioThreshold)
	}

	if c.DifferenceDirection != nil {
		if _, err := combine.ParseDirection(*c.DifferenceDirection); err != nil {
			return fmt.Errorf("difference_direction: %w", err)
		}
	}

	if c.MissingDataMode != nil {
		if _, err := combine.ParseMissingMode(*c.MissingDataMode); err != nil {
			return fmt.Errorf("missing_data_mode: %w", err)
		}
	}

	if c.LabelMode != nil {
		if _, err := combine.ParseLabelMode(*c.LabelMode); err != nil {
			return fmt.Errorf("label_mode: %w", err)
		}
	}

	for name, keys := range c.ParameterAliases {
		if name == "" {
			return fmt.Errorf("parameter_aliases: empty display name")
		}
		if len(keys) == 0 {
			return fmt.Errorf("parameter_aliases: %q has no storage keys", name)
		}
	}

	return nil
}

// GetDefaultGranularity returns the default_granularity value or 1hr.
func (c *EngineConfig) GetDefaultGranularity() timeutil.Granularity {
	if c.DefaultGranularity == nil {
		return timeutil.OneHour
	}
	g, err := timeutil.ParseGranularity(*c.DefaultGranularity)
	if err != nil {
		return timeutil.OneHour
	}
	return g
}

// GetSparseRatioThreshold returns the sparse_ratio_threshold value or the default.
func (c *EngineConfig) GetSparseRatioThreshold() float64 {
	if c.SparseRatioThreshold == nil {
		return sparse.DefaultThreshold
	}
	return *c.SparseRatioThreshold
}

// GetDifferenceDirection returns the difference_direction value or a-b.
func (c *EngineConfig) GetDifferenceDirection() combine.Direction {
	if c.DifferenceDirection == nil {
		return combine.AMinusB
	}
	d, err := combine.ParseDirection(*c.DifferenceDirection)
	if err != nil {
		return combine.AMinusB
	}
	return d
}

// GetMissingDataMode returns the missing_data_mode value or skip.
func (c *EngineConfig) GetMissingDataMode() combine.MissingMode {
	if c.MissingDataMode == nil {
		return combine.MissingSkip
	}
	m, err := combine.ParseMissingMode(*c.MissingDataMode)
	if err != nil {
		return combine.MissingSkip
	}
	return m
}

// GetLabelMode returns the label_mode value or always.
func (c *EngineConfig) GetLabelMode() combine.LabelMode {
	if c.LabelMode == nil {
		return combine.LabelAlways
	}
	m, err := combine.ParseLabelMode(*c.LabelMode)
	if err != nil {
		return combine.LabelAlways
	}
	return m
}

// GetParameterAliases returns the extra aliases as a paramkey table.
func (c *EngineConfig) GetParameterAliases() paramkey.AliasTable {
	if len(c.ParameterAliases) == 0 {
		return nil
	}
	out := make(paramkey.AliasTable, len(c.ParameterAliases))
	for name, keys := range c.ParameterAliases {
		out[name] = append([]string(nil), keys...)
	}
	return out
}

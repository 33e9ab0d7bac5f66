// Package config loads server configuration from defaults, an optional YAML
// file and environment variables.
//
// Sources are applied from lowest to highest priority:
//  1. Defaults (Default)
//  2. The YAML file named by ROSETTE_CONFIG, when set
//  3. ROSETTE_* environment variables
//
// The merged configuration is validated before it is returned. Callers that
// want a .env file honoured load it into the environment before calling Load.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ironsheep/rosette-tools-mcp/internal/imaging"
	"github.com/ironsheep/rosette-tools-mcp/internal/rosette"
	"github.com/ironsheep/rosette-tools-mcp/internal/validation"
)

// Environment variables read by Load.
const (
	EnvConfigFile     = "ROSETTE_CONFIG"
	EnvVertexRadius   = "ROSETTE_VERTEX_RADIUS"
	EnvMinCells       = "ROSETTE_MIN_CELLS"
	EnvNeighborRadius = "ROSETTE_NEIGHBOR_RADIUS"
	EnvMinCellArea    = "ROSETTE_MIN_CELL_AREA"
	EnvMaxCellArea    = "ROSETTE_MAX_CELL_AREA"
	EnvWorkers        = "ROSETTE_WORKERS"
	EnvBackground     = "ROSETTE_BACKGROUND"
	EnvLogLevel       = "ROSETTE_LOG_LEVEL"
	EnvDevelopment    = "ROSETTE_DEV"
)

// Default cell area limits in pixels.
const (
	DefaultMinCellArea = 100.0
	DefaultMaxCellArea = 5000.0
)

// ErrInvalidConfig is returned when the merged configuration fails validation
// or a source cannot be parsed.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config is the complete server configuration.
type Config struct {
	// VertexRadius is the contact and clustering radius in pixels.
	VertexRadius float64 `yaml:"vertex_radius" validate:"gt=0"`

	// MinCellsForRosette is the smallest junction order reported as a rosette.
	MinCellsForRosette int `yaml:"min_cells_for_rosette" validate:"gte=2"`

	// NeighborRadius is the boundary distance at which two cells count as neighbours.
	NeighborRadius float64 `yaml:"neighbor_radius" validate:"gt=0"`

	// MinCellArea and MaxCellArea bound the pixel area of extracted cells.
	// A MaxCellArea of zero means no upper limit.
	MinCellArea float64 `yaml:"min_cell_area" validate:"gte=0"`
	MaxCellArea float64 `yaml:"max_cell_area" validate:"eq=0|gtefield=MinCellArea"`

	// Workers caps contact search concurrency. Zero uses GOMAXPROCS.
	Workers int `yaml:"workers" validate:"gte=0"`

	// Background is the background colour of colour label masks.
	Background string `yaml:"background" validate:"required,hexcolor"`

	// LogLevel is one of debug, info, warn or error.
	LogLevel string `yaml:"log_level" validate:"oneof=debug info warn error"`

	// Development switches logging to the human-readable console encoder.
	Development bool `yaml:"development"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		VertexRadius:       rosette.DefaultVertexRadius,
		MinCellsForRosette: rosette.DefaultMinCellsForRosette,
		NeighborRadius:     rosette.DefaultNeighborRadius,
		MinCellArea:        DefaultMinCellArea,
		MaxCellArea:        DefaultMaxCellArea,
		Background:         "#000000",
		LogLevel:           "info",
	}
}

// Load builds the configuration from defaults, the file named by
// ROSETTE_CONFIG and ROSETTE_* environment variables.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv(EnvConfigFile); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile builds the configuration from defaults overlaid with the YAML file
// at path. Environment variables are not consulted.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if err := cfg.mergeFile(path); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	// Unmarshal onto the current values so keys absent from the file keep them.
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("%w: failed to parse %s: %v", ErrInvalidConfig, path, err)
	}
	return nil
}

// applyEnv overlays ROSETTE_* variables. lookup is os.LookupEnv outside tests.
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	floats := []struct {
		key    string
		target *float64
	}{
		{EnvVertexRadius, &c.VertexRadius},
		{EnvNeighborRadius, &c.NeighborRadius},
		{EnvMinCellArea, &c.MinCellArea},
		{EnvMaxCellArea, &c.MaxCellArea},
	}
	for _, f := range floats {
		val, ok := lookup(f.key)
		if !ok || val == "" {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not a number", ErrInvalidConfig, f.key, val)
		}
		*f.target = v
	}

	ints := []struct {
		key    string
		target *int
	}{
		{EnvMinCells, &c.MinCellsForRosette},
		{EnvWorkers, &c.Workers},
	}
	for _, i := range ints {
		val, ok := lookup(i.key)
		if !ok || val == "" {
			continue
		}
		v, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidConfig, i.key, val)
		}
		*i.target = v
	}

	if val, ok := lookup(EnvBackground); ok && val != "" {
		c.Background = strings.TrimSpace(val)
	}
	if val, ok := lookup(EnvLogLevel); ok && val != "" {
		c.LogLevel = strings.ToLower(strings.TrimSpace(val))
	}
	if val, ok := lookup(EnvDevelopment); ok && val != "" {
		dev, err := strconv.ParseBool(strings.TrimSpace(val))
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not a boolean", ErrInvalidConfig, EnvDevelopment, val)
		}
		c.Development = dev
	}
	return nil
}

// Validate checks every field of the configuration.
func (c *Config) Validate() error {
	if err := validation.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Detection returns the detector settings.
func (c *Config) Detection() rosette.Config {
	return rosette.Config{
		VertexRadius:       c.VertexRadius,
		MinCellsForRosette: c.MinCellsForRosette,
		NeighborRadius:     c.NeighborRadius,
		Workers:            c.Workers,
	}
}

// Extraction returns the cell extraction limits.
func (c *Config) Extraction() imaging.ExtractOptions {
	return imaging.ExtractOptions{
		MinArea: c.MinCellArea,
		MaxArea: c.MaxCellArea,
	}
}

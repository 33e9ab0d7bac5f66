package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/rosette-tools-mcp/internal/config"
	"github.com/ironsheep/rosette-tools-mcp/internal/rosette"
)

// clearEnv blanks every variable Load reads so the host environment cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		config.EnvConfigFile, config.EnvVertexRadius, config.EnvMinCells,
		config.EnvNeighborRadius, config.EnvMinCellArea, config.EnvMaxCellArea,
		config.EnvWorkers, config.EnvBackground, config.EnvLogLevel, config.EnvDevelopment,
	} {
		t.Setenv(key, "")
	}
}

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rosette.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := config.Default()

	assert.Equal(t, 15.0, cfg.VertexRadius)
	assert.Equal(t, 5, cfg.MinCellsForRosette)
	assert.Equal(t, 100.0, cfg.MinCellArea)
	assert.Equal(t, 5000.0, cfg.MaxCellArea)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.NoError(t, cfg.Validate())

	assert.Equal(t, rosette.DefaultConfig(), cfg.Detection())
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(config.EnvVertexRadius, "12.5")
	t.Setenv(config.EnvMinCells, "6")
	t.Setenv(config.EnvWorkers, "3")
	t.Setenv(config.EnvMaxCellArea, "8000")
	t.Setenv(config.EnvBackground, "#FFFFFF")
	t.Setenv(config.EnvLogLevel, "DEBUG")
	t.Setenv(config.EnvDevelopment, "true")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 12.5, cfg.VertexRadius)
	assert.Equal(t, 6, cfg.MinCellsForRosette)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, 8000.0, cfg.MaxCellArea)
	assert.Equal(t, "#FFFFFF", cfg.Background)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.Development)

	ext := cfg.Extraction()
	assert.Equal(t, 100.0, ext.MinArea)
	assert.Equal(t, 8000.0, ext.MaxArea)
}

func TestLoad_FileThenEnvironment(t *testing.T) {
	clearEnv(t)
	path := writeYAML(t, "vertex_radius: 20\nmin_cells_for_rosette: 4\nlog_level: warn\n")
	t.Setenv(config.EnvConfigFile, path)
	t.Setenv(config.EnvMinCells, "7")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 20.0, cfg.VertexRadius, "file overrides default")
	assert.Equal(t, 7, cfg.MinCellsForRosette, "environment overrides file")
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, config.DefaultMinCellArea, cfg.MinCellArea, "keys absent from the file keep defaults")
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unparseable radius", map[string]string{config.EnvVertexRadius: "wide"}},
		{"unparseable workers", map[string]string{config.EnvWorkers: "1.5"}},
		{"unparseable dev flag", map[string]string{config.EnvDevelopment: "maybe"}},
		{"zero radius", map[string]string{config.EnvVertexRadius: "0"}},
		{"threshold below two", map[string]string{config.EnvMinCells: "1"}},
		{"max area below min", map[string]string{config.EnvMinCellArea: "500", config.EnvMaxCellArea: "200"}},
		{"bad background", map[string]string{config.EnvBackground: "black"}},
		{"bad log level", map[string]string{config.EnvLogLevel: "verbose"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := config.Load()
			require.Error(t, err)
			assert.True(t, errors.Is(err, config.ErrInvalidConfig), "got %v", err)
		})
	}
}

func TestLoad_UnlimitedMaxArea(t *testing.T) {
	clearEnv(t)
	t.Setenv(config.EnvMinCellArea, "200")
	t.Setenv(config.EnvMaxCellArea, "0")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 0.0, cfg.MaxCellArea)
	assert.Equal(t, 0.0, cfg.Extraction().MaxArea, "zero passes through as no limit")
	assert.Equal(t, 200.0, cfg.Extraction().MinArea)
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)
	t.Setenv(config.EnvConfigFile, filepath.Join(t.TempDir(), "absent.yaml"))

	_, err := config.Load()
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoadFile(t *testing.T) {
	cfg, err := config.LoadFile(writeYAML(t, "neighbor_radius: 2\nworkers: 8\nbackground: \"#101010\"\n"))
	require.NoError(t, err)
	assert.Equal(t, 2.0, cfg.NeighborRadius)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, "#101010", cfg.Background)

	_, err = config.LoadFile(writeYAML(t, "vertex_radius: [1, 2]\n"))
	assert.True(t, errors.Is(err, config.ErrInvalidConfig))
}

func TestValidate_MessageNamesField(t *testing.T) {
	cfg := config.Default()
	cfg.VertexRadius = -2

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vertexradius must be greater than 0")
}

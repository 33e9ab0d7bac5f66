package rosette

import (
	"fmt"

	"github.com/ironsheep/rosette-tools-mcp/internal/validation"
)

// Defaults match the reference parameters used for confocal images of
// epithelial tissue with cells roughly 30 pixels across.
const (
	DefaultVertexRadius       = 15.0
	DefaultMinCellsForRosette = 5
	DefaultNeighborRadius     = 1.5
)

// Config holds the detection parameters for one run.
type Config struct {
	// VertexRadius is the search radius in pixels for boundaries meeting at a vertex.
	VertexRadius float64 `json:"vertex_radius" validate:"gt=0"`

	// MinCellsForRosette is the smallest junction order reported as a rosette.
	MinCellsForRosette int `json:"min_cells_for_rosette" validate:"gte=2"`

	// NeighborRadius is the boundary distance at which two cells count as
	// neighbours. 1.5 covers 8-connected pixel adjacency.
	NeighborRadius float64 `json:"neighbor_radius" validate:"gt=0"`

	// Workers bounds the contact search worker pool. Zero means GOMAXPROCS.
	Workers int `json:"workers" validate:"gte=0"`
}

// DefaultConfig returns the default detection parameters.
func DefaultConfig() Config {
	return Config{
		VertexRadius:       DefaultVertexRadius,
		MinCellsForRosette: DefaultMinCellsForRosette,
		NeighborRadius:     DefaultNeighborRadius,
	}
}

// Validate returns an error wrapping ErrInvalidConfiguration if any parameter
// is out of range.
func (c Config) Validate() error {
	if err := validation.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}
	return nil
}

package rosette

import (
	"fmt"

	"go.uber.org/zap"
)

// Result is the output of one detection run.
type Result struct {
	// Vertices holds every junction in row-major order, including two-cell contacts.
	Vertices []Vertex `json:"vertices"`

	// Rosettes holds the vertices that meet the rosette threshold.
	Rosettes []Rosette `json:"rosettes"`

	// Tallies holds one junction tally per input cell, sorted by cell ID.
	Tallies []JunctionTally `json:"tallies"`

	// Neighbors maps each input cell ID to its number of adjacent cells.
	Neighbors map[int]int `json:"neighbors"`

	// Summary aggregates the tallies per junction order.
	Summary JunctionSummary `json:"summary"`

	// CellCount is the number of input cells.
	CellCount int `json:"cell_count"`

	// ContactCount is the number of contact points clustered into vertices.
	ContactCount int `json:"contact_count"`
}

// Tally returns the junction tally for the given cell.
func (r *Result) Tally(cellID int) (JunctionTally, bool) {
	for _, t := range r.Tallies {
		if t.CellID == cellID {
			return t, true
		}
	}
	return JunctionTally{}, false
}

// Detector runs the detection pipeline with a fixed configuration.
type Detector struct {
	cfg    Config
	logger *zap.Logger
}

// NewDetector validates cfg and returns a Detector. A nil logger disables logging.
func NewDetector(cfg Config, logger *zap.Logger) (*Detector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Detector{cfg: cfg, logger: logger.Named("rosette")}, nil
}

// Config returns the detector's configuration.
func (d *Detector) Config() Config {
	return d.cfg
}

// Detect runs contact search, clustering, classification and junction
// statistics over cells. An empty cell set yields an empty Result, not an error.
func (d *Detector) Detect(cells []Cell) (*Result, error) {
	if err := checkUniqueIDs(cells); err != nil {
		return nil, err
	}

	contacts, err := FindContacts(cells, d.cfg.VertexRadius, d.cfg.Workers)
	if err != nil {
		return nil, fmt.Errorf("contact search failed: %w", err)
	}
	d.logger.Debug("contact points found",
		zap.Int("cells", len(cells)),
		zap.Int("contacts", len(contacts)),
		zap.Float64("vertex_radius", d.cfg.VertexRadius))

	vertices, err := ClusterContacts(contacts, d.cfg.VertexRadius)
	if err != nil {
		return nil, fmt.Errorf("clustering failed: %w", err)
	}
	coarsened := 0
	for _, v := range vertices {
		if v.Spread > d.cfg.VertexRadius {
			coarsened++
		}
	}
	d.logger.Debug("vertices clustered",
		zap.Int("vertices", len(vertices)),
		zap.Int("coarsened", coarsened))

	rosettes := ClassifyRosettes(vertices, d.cfg.MinCellsForRosette)

	neighbors, err := CountNeighbors(cells, d.cfg.NeighborRadius, d.cfg.Workers)
	if err != nil {
		return nil, fmt.Errorf("neighbour search failed: %w", err)
	}

	tallies := TallyJunctions(cells, vertices)
	summary := SummarizeJunctions(tallies, vertices)

	d.logger.Info("detection complete",
		zap.Int("cells", len(cells)),
		zap.Int("vertices", len(vertices)),
		zap.Int("rosettes", len(rosettes)),
		zap.Int("min_cells_for_rosette", d.cfg.MinCellsForRosette))

	return &Result{
		Vertices:     vertices,
		Rosettes:     rosettes,
		Tallies:      tallies,
		Neighbors:    neighbors,
		Summary:      summary,
		CellCount:    len(cells),
		ContactCount: len(contacts),
	}, nil
}

// Detect is a convenience wrapper that builds a Detector without logging.
func Detect(cfg Config, cells []Cell) (*Result, error) {
	d, err := NewDetector(cfg, nil)
	if err != nil {
		return nil, err
	}
	return d.Detect(cells)
}

package server

import (
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ironsheep/rosette-tools-mcp/internal/imaging"
	"github.com/ironsheep/rosette-tools-mcp/internal/rosette"
	"github.com/ironsheep/rosette-tools-mcp/internal/validation"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "mask_load", "rosette_detect").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	start := time.Now()
	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.logger.Warn("tool failed",
			zap.String("tool", params.Name),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}
	s.logger.Info("tool completed",
		zap.String("tool", params.Name),
		zap.Duration("elapsed", time.Since(start)))

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals and validates arguments
//  2. Fills unset optional parameters from the server configuration
//  3. Loads masks from cache as needed
//  4. Calls the imaging and rosette packages
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Mask Information
	case "mask_load":
		return s.handleMaskLoad(args)
	case "mask_extract_cells":
		return s.handleMaskExtractCells(args)

	// Rosette Detection
	case "rosette_detect":
		return s.handleRosetteDetect(args)
	case "rosette_detect_cells":
		return s.handleRosetteDetectCells(args)
	case "rosette_junction_stats":
		return s.handleRosetteJunctionStats(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// decodeArgs unmarshals tool arguments into v and validates them.
func decodeArgs(args json.RawMessage, v interface{}) error {
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	if err := validation.Struct(v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// === Shared argument handling ===

type maskArgs struct {
	Path        string          `json:"path" validate:"required"`
	Region      *imaging.Region `json:"region,omitempty"`
	Background  string          `json:"background,omitempty" validate:"omitempty,hexcolor"`
	MinCellArea *float64        `json:"min_cell_area,omitempty"`
	MaxCellArea *float64        `json:"max_cell_area,omitempty"`
}

type detectionArgs struct {
	VertexRadius       *float64 `json:"vertex_radius,omitempty"`
	MinCellsForRosette *int     `json:"min_cells_for_rosette,omitempty"`
	NeighborRadius     *float64 `json:"neighbor_radius,omitempty"`
}

func (s *Server) background(a maskArgs) string {
	if a.Background != "" {
		return a.Background
	}
	return s.cfg.Background
}

// loadCells loads the mask named by a and extracts its cells.
func (s *Server) loadCells(a maskArgs) (*imaging.LabelMap, *imaging.ExtractResult, error) {
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, nil, err
	}

	labels, err := imaging.DecodeLabels(img, a.Region, s.background(a))
	if err != nil {
		return nil, nil, err
	}

	opts := s.cfg.Extraction()
	if a.MinCellArea != nil {
		opts.MinArea = *a.MinCellArea
	}
	if a.MaxCellArea != nil {
		opts.MaxArea = *a.MaxCellArea
	}

	extracted, err := imaging.ExtractCells(labels, opts)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Debug("cells extracted",
		zap.String("path", a.Path),
		zap.String("encoding", labels.Encoding),
		zap.Int("labels", extracted.LabelCount),
		zap.Int("cells", len(extracted.Cells)),
		zap.Int("skipped", len(extracted.Skipped)))

	return labels, extracted, nil
}

// detector builds a detector from the server configuration with the
// per-call overrides in d applied.
func (s *Server) detector(d detectionArgs) (*rosette.Detector, error) {
	cfg := s.cfg.Detection()
	if d.VertexRadius != nil {
		cfg.VertexRadius = *d.VertexRadius
	}
	if d.MinCellsForRosette != nil {
		cfg.MinCellsForRosette = *d.MinCellsForRosette
	}
	if d.NeighborRadius != nil {
		cfg.NeighborRadius = *d.NeighborRadius
	}
	return rosette.NewDetector(cfg, s.logger)
}

// === Mask Information Handlers ===

type maskLoadArgs struct {
	Path       string `json:"path" validate:"required"`
	Background string `json:"background,omitempty" validate:"omitempty,hexcolor"`
}

func (s *Server) handleMaskLoad(args json.RawMessage) (interface{}, error) {
	var a maskLoadArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	bg := a.Background
	if bg == "" {
		bg = s.cfg.Background
	}
	return imaging.LoadMaskInfo(s.cache, a.Path, bg)
}

type maskExtractCellsArgs struct {
	maskArgs
	IncludeBoundaries bool `json:"include_boundaries"`
}

// CellSummary describes one extracted cell.
type CellSummary struct {
	ID             int               `json:"id"`
	Area           float64           `json:"area"`
	Centroid       rosette.Point     `json:"centroid"`
	BoundaryPoints int               `json:"boundary_points"`
	Color          string            `json:"color,omitempty"`
	Shape          imaging.CellShape `json:"shape"`
	Boundary       []rosette.Point   `json:"boundary,omitempty"`
}

// ExtractCellsResult is the result of mask_extract_cells.
type ExtractCellsResult struct {
	Cells      []CellSummary          `json:"cells"`
	Skipped    []imaging.SkippedLabel `json:"skipped"`
	LabelCount int                    `json:"label_count"`
}

func (s *Server) handleMaskExtractCells(args json.RawMessage) (interface{}, error) {
	var a maskExtractCellsArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}

	labels, extracted, err := s.loadCells(a.maskArgs)
	if err != nil {
		return nil, err
	}

	cells := make([]CellSummary, len(extracted.Cells))
	for i, c := range extracted.Cells {
		cells[i] = CellSummary{
			ID:             c.ID,
			Area:           c.Area,
			Centroid:       c.Centroid,
			BoundaryPoints: len(c.Boundary),
			Color:          labels.Colors[c.ID],
			Shape:          extracted.Shapes[c.ID],
		}
		if a.IncludeBoundaries {
			cells[i].Boundary = c.Boundary
		}
	}

	return &ExtractCellsResult{
		Cells:      cells,
		Skipped:    extracted.Skipped,
		LabelCount: extracted.LabelCount,
	}, nil
}

// === Rosette Detection Handlers ===

type rosetteDetectArgs struct {
	maskArgs
	detectionArgs
}

// MaskDetectResult is the result of rosette_detect: the detection result plus
// what happened to the labels of the mask.
type MaskDetectResult struct {
	*rosette.Result
	LabelCount int                       `json:"label_count"`
	Skipped    []imaging.SkippedLabel    `json:"skipped"`
	Colors     map[int]string            `json:"colors,omitempty"`
	Shapes     map[int]imaging.CellShape `json:"shapes"`
}

func (s *Server) detectMask(args json.RawMessage) (*MaskDetectResult, error) {
	var a rosetteDetectArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}

	// Build the detector first so a bad override fails before the mask is read.
	det, err := s.detector(a.detectionArgs)
	if err != nil {
		return nil, err
	}

	labels, extracted, err := s.loadCells(a.maskArgs)
	if err != nil {
		return nil, err
	}

	result, err := det.Detect(extracted.Cells)
	if err != nil {
		return nil, err
	}

	return &MaskDetectResult{
		Result:     result,
		LabelCount: extracted.LabelCount,
		Skipped:    extracted.Skipped,
		Colors:     labels.Colors,
		Shapes:     extracted.Shapes,
	}, nil
}

func (s *Server) handleRosetteDetect(args json.RawMessage) (interface{}, error) {
	return s.detectMask(args)
}

// JunctionStatsResult is the result of rosette_junction_stats.
type JunctionStatsResult struct {
	Tallies    []rosette.JunctionTally   `json:"tallies"`
	Summary    rosette.JunctionSummary   `json:"summary"`
	LabelCount int                       `json:"label_count"`
	Skipped    []imaging.SkippedLabel    `json:"skipped"`
	Shapes     map[int]imaging.CellShape `json:"shapes"`
}

func (s *Server) handleRosetteJunctionStats(args json.RawMessage) (interface{}, error) {
	res, err := s.detectMask(args)
	if err != nil {
		return nil, err
	}
	return &JunctionStatsResult{
		Tallies:    res.Tallies,
		Summary:    res.Summary,
		LabelCount: res.LabelCount,
		Skipped:    res.Skipped,
		Shapes:     res.Shapes,
	}, nil
}

type inputCell struct {
	ID       int             `json:"id"`
	Boundary []rosette.Point `json:"boundary" validate:"min=3"`
	Centroid *rosette.Point  `json:"centroid,omitempty"`
	Area     float64         `json:"area" validate:"gte=0"`
}

type rosetteDetectCellsArgs struct {
	Cells []inputCell `json:"cells" validate:"dive"`
	detectionArgs
}

func (s *Server) handleRosetteDetectCells(args json.RawMessage) (interface{}, error) {
	var a rosetteDetectCellsArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}

	det, err := s.detector(a.detectionArgs)
	if err != nil {
		return nil, err
	}

	cells := make([]rosette.Cell, len(a.Cells))
	for i, in := range a.Cells {
		c := rosette.Cell{ID: in.ID, Boundary: in.Boundary, Area: in.Area}
		if in.Centroid != nil {
			c.Centroid = *in.Centroid
		} else {
			c.Centroid = meanPoint(in.Boundary)
		}
		cells[i] = c
	}

	return det.Detect(cells)
}

func meanPoint(points []rosette.Point) rosette.Point {
	var sx, sy float64
	for _, p := range points {
		sx += p.X
		sy += p.Y
	}
	n := float64(len(points))
	return rosette.Point{X: sx / n, Y: sy / n}
}

package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the label mask image (8/16-bit grayscale or colour)",
	}
}

func backgroundProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Background colour of colour masks as #RRGGBB. Defaults to the server configuration (normally #000000). Ignored for grayscale masks",
	}
}

func regionProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "object",
		"description": "Optional analysis window. (x1,y1) inclusive, (x2,y2) exclusive. Coordinates in results stay in full-image space",
		"properties": map[string]interface{}{
			"x1": map[string]interface{}{"type": "integer"},
			"y1": map[string]interface{}{"type": "integer"},
			"x2": map[string]interface{}{"type": "integer"},
			"y2": map[string]interface{}{"type": "integer"},
		},
		"required": []string{"x1", "y1", "x2", "y2"},
	}
}

func areaProperties(props map[string]interface{}) {
	props["min_cell_area"] = map[string]interface{}{
		"type":        "number",
		"description": "Smallest accepted cell area in pixels. Default 100",
	}
	props["max_cell_area"] = map[string]interface{}{
		"type":        "number",
		"description": "Largest accepted cell area in pixels. Default 5000",
	}
}

func detectionProperties(props map[string]interface{}) {
	props["vertex_radius"] = map[string]interface{}{
		"type":        "number",
		"description": "Distance in pixels within which boundaries touch and contact points merge into one vertex. Default 15",
	}
	props["min_cells_for_rosette"] = map[string]interface{}{
		"type":        "integer",
		"description": "Smallest number of cells at a vertex for it to count as a rosette. Default 5, minimum 2",
	}
	props["neighbor_radius"] = map[string]interface{}{
		"type":        "number",
		"description": "Boundary distance at which two cells count as neighbours. Default 1.5 (8-adjacency)",
	}
}

func maskToolSchema(withDetection bool) map[string]interface{} {
	props := map[string]interface{}{
		"path":       pathProperty(),
		"region":     regionProperty(),
		"background": backgroundProperty(),
	}
	areaProperties(props)
	if withDetection {
		detectionProperties(props)
	}
	return map[string]interface{}{
		"type":       "object",
		"properties": props,
		"required":   []string{"path"},
	}
}

func cellsToolSchema() map[string]interface{} {
	point := map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"x": map[string]interface{}{"type": "number"},
			"y": map[string]interface{}{"type": "number"},
		},
		"required": []string{"x", "y"},
	}
	props := map[string]interface{}{
		"cells": map[string]interface{}{
			"type":        "array",
			"description": "Cells to analyse. Each cell needs a unique id and its ordered boundary points",
			"items": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"id": map[string]interface{}{"type": "integer"},
					"boundary": map[string]interface{}{
						"type":  "array",
						"items": point,
					},
					"centroid": point,
					"area":     map[string]interface{}{"type": "number"},
				},
				"required": []string{"id", "boundary"},
			},
		},
	}
	detectionProperties(props)
	return map[string]interface{}{
		"type":       "object",
		"properties": props,
		"required":   []string{"cells"},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Mask Information
		{
			Name:        "mask_load",
			Description: "Load a segmentation label mask and return its dimensions, bit depth, label encoding and number of labels.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":       pathProperty(),
					"background": backgroundProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "mask_extract_cells",
			Description: "Extract cells from a label mask: id, area, centroid, boundary size and shape (perimeter, axes, eccentricity, orientation, extent) per label, plus the labels skipped by the area filter or for degenerate outlines.",
			InputSchema: func() map[string]interface{} {
				schema := maskToolSchema(false)
				schema["properties"].(map[string]interface{})["include_boundaries"] = map[string]interface{}{
					"type":        "boolean",
					"description": "Include the ordered boundary points of every cell. Default false",
					"default":     false,
				}
				return schema
			}(),
		},

		// Rosette Detection
		{
			Name:        "rosette_detect",
			Description: "Detect multicellular junctions in a label mask. Returns every vertex where cells meet, the rosettes (vertices shared by at least min_cells_for_rosette cells), per-cell junction tallies, neighbour counts and a summary by junction order. Vertices with spread above vertex_radius merged several nearby junctions; on masks where cells touch along whole edges this can inflate junction order, so check spread before trusting high-order vertices.",
			InputSchema: maskToolSchema(true),
		},
		{
			Name:        "rosette_detect_cells",
			Description: "Detect junctions and rosettes among cells given directly as boundary polygons, without a mask. Returns the same result as rosette_detect. Vertices with spread above vertex_radius merged several nearby junctions; on masks where cells touch along whole edges this can inflate junction order, so check spread before trusting high-order vertices.",
			InputSchema: cellsToolSchema(),
		},
		{
			Name:        "rosette_junction_stats",
			Description: "Count, for every cell of a label mask, how many 3-, 4-, 5-, 6-, 7- and 8+-cell junctions it takes part in, with a summary per junction order, plus per-cell shape. On masks where cells touch along whole edges nearby junctions can merge and inflate junction order; use rosette_detect to inspect vertex spread.",
			InputSchema: maskToolSchema(true),
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}

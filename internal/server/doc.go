// Package server implements the MCP (Model Context Protocol) server for rosette detection.
//
// This package provides a JSON-RPC 2.0 server that exposes label mask analysis and
// multicellular junction detection through the MCP protocol.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Mask Information:
//   - mask_load: Dimensions, bit depth, label encoding and label count
//   - mask_extract_cells: Per-label area, centroid, outline and shape, plus skipped labels
//
// Rosette Detection:
//   - rosette_detect: Vertices, rosettes, tallies and neighbour counts for a mask
//   - rosette_detect_cells: The same for cells given inline as polygons
//   - rosette_junction_stats: Per-cell junction tallies and the order summary
//
// Detection and extraction parameters default to the server configuration and
// can be overridden per call.
//
// # Mask Caching
//
// Decoded masks are cached by path and reused across tool calls for the
// lifetime of the server process.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
//
// # Usage
//
//	cfg, _ := config.Load()
//	logger, _ := logging.New(cfg.LogLevel, cfg.Development)
//	srv := server.NewWithConfig(cfg, logger)
//	if err := srv.Run(); err != nil {
//	    logger.Fatal("server error", zap.Error(err))
//	}
package server

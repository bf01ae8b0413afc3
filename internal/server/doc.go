// Package server implements the MCP (Model Context Protocol) server for
// mirror-symmetry detection.
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
// Basic Image Information:
//   - image_load: Load image and get metadata
//   - image_dimensions: Get width and height
//
// Symmetry Detection:
//   - symmetry_detect: Find the dominant mirror axis of an image
//   - symmetry_axis_from_pairs: Find the axis supported by given point pairs
//   - symmetry_votes_plot: Scatter plot of the (r, θ) votes
//   - symmetry_matches: Image and reflection with feature matches joined
//
// Axes are reported as (r, theta, votes) for the line
// x·cos(theta) + y·sin(theta) = r, in pixels and radians, relative to the top
// left corner of the full image even when a region was analysed.
//
// # Configuration
//
// Defaults for bins, workers, downscaling, keypoint cap and line colour come
// from config.Config; tool arguments override them per call.
//
// # Image Caching
//
// Images are cached by path and reused across tool calls for the lifetime of
// the server process.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure), -32602 (malformed params) or -32601 (unknown method)
//   - message: Human-readable error description
//   - data: The Go error string
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	srv := server.New(cfg, version)
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server

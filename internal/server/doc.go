// Package server implements the MCP (Model Context Protocol) server for
// segmentation metrics.
//
// This package provides a JSON-RPC 2.0 server that exposes distance fields,
// the boundary loss and confusion statistics over image files, so that MCP
// clients can evaluate segmentation masks without a training framework.
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
// Masks:
//   - mask_info: Binarize a mask and report its shape and foreground coverage
//
// Distance Fields:
//   - distance_field: Signed distance field of a 2-D mask, with optional
//     crop, resize and pixel spacing
//   - volume_distance_field: Signed distance field of stacked slices,
//     optionally padded towards a cube
//
// Metrics:
//   - boundary_loss: mean(prob * dist) over one multi-channel sample, with
//     optional channel selection and gradient
//   - confusion_matrix: False positive/negative rates over a batch of
//     (mask, prediction) pairs
//
// # Thresholds
//
// Mask images are binarized at a luminance threshold. Tools accept a
// threshold argument; when it is absent the configured default applies
// (SEGMETRICS_THRESHOLD, 128 unless set).
//
// # Image Caching
//
// The server maintains an in-memory cache of decoded images keyed by path.
// The cache persists for the lifetime of the server process, so a file
// rewritten on disk keeps its first decoded contents.
//
// # Logging
//
// Every tools/call is logged with a generated call_id, the tool name and its
// duration. Logs go to stderr; stdout carries only protocol messages.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// # Usage
//
//	cfg, _ := config.Load()
//	srv := server.New(cfg, logger.NewConsoleLogger(zerolog.InfoLevel))
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server

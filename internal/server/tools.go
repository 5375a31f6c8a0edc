package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": description,
	}
}

func pathListProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "array",
		"items":       map[string]interface{}{"type": "string"},
		"description": description,
	}
}

var thresholdProperty = map[string]interface{}{
	"type":        "integer",
	"minimum":     0,
	"maximum":     255,
	"description": "Binarization level: pixels with luminance at or above it are foreground (default from SEGMETRICS_THRESHOLD, normally 128)",
}

var includeValuesProperty = map[string]interface{}{
	"type":        "boolean",
	"description": "Return every field value in row-major order (default: false)",
	"default":     false,
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "mask_info",
			Description: "Load a label mask image, binarize it and report its array shape and foreground coverage.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":      pathProperty("Absolute path to the mask image"),
					"threshold": thresholdProperty,
				},
				"required": []string{"path"},
			},
		},

		// Distance fields
		{
			Name:        "distance_field",
			Description: "Compute the signed distance field of a 2-D mask: background pixels get their Euclidean distance to the nearest foreground pixel, foreground pixels get a non-positive value. Returns the field's shape and value range.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":      pathProperty("Absolute path to the mask image"),
					"threshold": thresholdProperty,
					"spacing": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "number"},
						"description": "Pixel spacing as [row, col] or [channel, row, col] (default: 1 on every axis)",
					},
					"region": map[string]interface{}{
						"type":        "object",
						"description": "Optional crop applied before resizing, with x2/y2 exclusive",
						"properties": map[string]interface{}{
							"x1": map[string]interface{}{"type": "integer"},
							"y1": map[string]interface{}{"type": "integer"},
							"x2": map[string]interface{}{"type": "integer"},
							"y2": map[string]interface{}{"type": "integer"},
						},
						"required": []string{"x1", "y1", "x2", "y2"},
					},
					"width": map[string]interface{}{
						"type":        "integer",
						"description": "Resize the mask to this width before computing; with height omitted or 0 the aspect ratio is kept",
					},
					"height": map[string]interface{}{
						"type":        "integer",
						"description": "Resize the mask to this height before computing; with width omitted or 0 the aspect ratio is kept",
					},
					"include_values": includeValuesProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "volume_distance_field",
			Description: "Stack 2-D mask slices into a (depth, height, width) volume, optionally zero-pad it towards a cube, and compute its signed distance field.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"paths":     pathListProperty("Absolute paths to the slice images, in depth order"),
					"threshold": thresholdProperty,
					"cube_dim": map[string]interface{}{
						"type":        "integer",
						"minimum":     0,
						"description": "Pad each axis symmetrically towards this extent; 0 disables padding (default from SEGMETRICS_CUBE_DIM)",
					},
					"spacing": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "number"},
						"description": "Voxel spacing as [depth, row, col] (default: [1, 1, 1])",
					},
					"include_values": includeValuesProperty,
				},
				"required": []string{"paths"},
			},
		},

		// Metrics
		{
			Name:        "boundary_loss",
			Description: "Compute the boundary loss mean(prob * dist) for one sample. Channel c pairs the probability map prob_paths[c] with the distance field of mask_paths[c].",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"prob_paths": pathListProperty("Grayscale probability maps, one per channel (0 = 0.0, 255 = 1.0)"),
					"mask_paths": pathListProperty("Ground-truth masks, one per channel"),
					"threshold":  thresholdProperty,
					"channels": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "integer"},
						"description": "Channel indices included in the loss (default: all channels)",
					},
					"include_gradient": map[string]interface{}{
						"type":        "boolean",
						"description": "Also return the gradient with respect to the probabilities (default: false)",
						"default":     false,
					},
				},
				"required": []string{"prob_paths", "mask_paths"},
			},
		},
		{
			Name:        "confusion_matrix",
			Description: "Count true/false positives and negatives over a batch of (mask, prediction) image pairs and report the false positive and false negative rates.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"pairs": map[string]interface{}{
						"type": "array",
						"items": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"mask_path": pathProperty("Ground-truth mask image"),
								"pred_path": pathProperty("Binarized prediction image"),
							},
							"required": []string{"mask_path", "pred_path"},
						},
						"description": "Mask and prediction pairs; each pair must share a size",
					},
					"threshold": thresholdProperty,
				},
				"required": []string{"pairs"},
			},
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

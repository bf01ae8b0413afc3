package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// Schema fragments shared by several tools.
var (
	pathProperty = map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file",
	}
	verticalProperty = map[string]interface{}{
		"type":        "boolean",
		"description": "Allow a vertical mirror axis (θ = 0). Off by default, in which case bins at θ = 0 or π are never chosen",
		"default":     false,
	}
	binsProperty = map[string]interface{}{
		"type":        "integer",
		"description": "Accumulator divisions along r and θ. Defaults to the server setting (200)",
		"minimum":     1,
	}
	regionProperty = map[string]interface{}{
		"type":        "string",
		"description": "Restrict detection to part of the image: full, top-left, top-right, bottom-left, bottom-right, top-half, bottom-half, left-half, right-half, center, or \"x1,y1,x2,y2\". Results are reported in full-image coordinates",
		"default":     "full",
	}
	maxKeypointsProperty = map[string]interface{}{
		"type":        "integer",
		"description": "Maximum keypoints detected per image. Defaults to the server setting (500)",
		"minimum":     1,
	}
	lineColorProperty = map[string]interface{}{
		"type":        "string",
		"description": "Line color in hex format (e.g., '#FF0000'). Defaults to the server setting",
	}
	pointSchema = map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"x": map[string]interface{}{"type": "number"},
			"y": map[string]interface{}{"type": "number"},
		},
		"required": []string{"x", "y"},
	}
)

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions and format. The decoded image is cached for subsequent symmetry operations.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
				},
				"required": []string{"path"},
			},
		},

		// Symmetry Detection
		{
			Name:        "symmetry_detect",
			Description: "Detect the dominant mirror-symmetry axis of an image. Matches features of the image against its horizontal reflection, lets every matched pair vote for its perpendicular bisector, and returns the best-supported line x·cos(θ) + y·sin(θ) = r in pixel coordinates. Optionally returns the image with the axis drawn.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":          pathProperty,
					"vertical":      verticalProperty,
					"bins":          binsProperty,
					"region":        regionProperty,
					"max_keypoints": maxKeypointsProperty,
					"overlay": map[string]interface{}{
						"type":        "boolean",
						"description": "Include the image with the detected axis drawn, as base64 PNG",
						"default":     false,
					},
					"line_color": lineColorProperty,
					"top": map[string]interface{}{
						"type":        "integer",
						"description": "Number of strongest accumulator bins to report. Default 5",
						"default":     5,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "symmetry_axis_from_pairs",
			Description: "Compute the best-supported mirror axis from caller-supplied pairs of symmetric points, without any image processing.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"pairs": map[string]interface{}{
						"type":        "array",
						"description": "Candidate symmetric point pairs",
						"items": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"origin":   pointSchema,
								"mirrored": pointSchema,
							},
							"required": []string{"origin", "mirrored"},
						},
						"minItems": 1,
					},
					"vertical": verticalProperty,
					"bins":     binsProperty,
					"top": map[string]interface{}{
						"type":        "integer",
						"description": "Number of strongest accumulator bins to report. Default 5",
						"default":     5,
					},
				},
				"required": []string{"pairs"},
			},
		},
		{
			Name:        "symmetry_votes_plot",
			Description: "Plot every (r, θ) vote of an image as a scatter chart coloured by accumulator bin density, with the chosen axis marked. Useful to judge whether the winning axis is clear or contested.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":          pathProperty,
					"vertical":      verticalProperty,
					"bins":          binsProperty,
					"region":        regionProperty,
					"max_keypoints": maxKeypointsProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "symmetry_matches",
			Description: "Show the image and its horizontal reflection side by side with the strongest feature matches joined by lines.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":          pathProperty,
					"region":        regionProperty,
					"max_keypoints": maxKeypointsProperty,
					"line_color":    lineColorProperty,
					"top": map[string]interface{}{
						"type":        "integer",
						"description": "Number of matches to draw, strongest first. Default 10",
						"default":     10,
					},
				},
				"required": []string{"path"},
			},
		},
	}
}

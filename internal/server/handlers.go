package server

import (
	"encoding/json"
	"fmt"
	"image"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/floats"

	"github.com/ironsheep/segmetrics-mcp/internal/confusion"
	"github.com/ironsheep/segmetrics-mcp/internal/distance"
	"github.com/ironsheep/segmetrics-mcp/internal/imaging"
	"github.com/ironsheep/segmetrics-mcp/internal/loss"
	"github.com/ironsheep/segmetrics-mcp/internal/tensor"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "distance_field", "boundary_loss").
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
// Every call is logged under a fresh call_id.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	fields := map[string]interface{}{
		"call_id": uuid.NewString(),
		"tool":    params.Name,
	}
	s.log.Debug(component, "tool call started", fields)

	start := time.Now()
	result, err := s.executeTool(params.Name, params.Arguments)
	fields["duration_ms"] = time.Since(start).Milliseconds()

	if err != nil {
		s.log.Error(component, err, fields)
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}
	s.log.Info(component, "tool call completed", fields)

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
//  1. Unmarshals arguments from JSON
//  2. Applies configured defaults for optional parameters
//  3. Loads and converts images through the cache
//  4. Calls the distance, loss or confusion package
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "mask_info":
		return s.handleMaskInfo(args)

	// Distance fields
	case "distance_field":
		return s.handleDistanceField(args)
	case "volume_distance_field":
		return s.handleVolumeDistanceField(args)

	// Metrics
	case "boundary_loss":
		return s.handleBoundaryLoss(args)
	case "confusion_matrix":
		return s.handleConfusionMatrix(args)

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

// level resolves an optional threshold argument against the configured
// default.
func (s *Server) level(threshold *int) (uint8, error) {
	if threshold == nil {
		return s.cfg.Threshold, nil
	}
	if *threshold < 0 || *threshold > 255 {
		return 0, fmt.Errorf("threshold %d out of range 0-255", *threshold)
	}
	return uint8(*threshold), nil
}

// === Mask Information Handlers ===

type maskInfoArgs struct {
	Path      string `json:"path"`
	Threshold *int   `json:"threshold"`
}

func (s *Server) handleMaskInfo(args json.RawMessage) (interface{}, error) {
	var a maskInfoArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	lvl, err := s.level(a.Threshold)
	if err != nil {
		return nil, err
	}
	return imaging.DescribeMask(s.cache, a.Path, lvl)
}

// === Distance Field Handlers ===

type region struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

type distanceFieldArgs struct {
	Path          string    `json:"path"`
	Threshold     *int      `json:"threshold"`
	Spacing       []float64 `json:"spacing"`
	Region        *region   `json:"region"`
	Width         int       `json:"width"`
	Height        int       `json:"height"`
	IncludeValues bool      `json:"include_values"`
}

// FieldSummary describes a computed distance field.
type FieldSummary struct {
	Shape      []int     `json:"shape"`
	Min        float64   `json:"min"`
	Max        float64   `json:"max"`
	Mean       float64   `json:"mean"`
	Foreground int       `json:"foreground"`
	Background int       `json:"background"`
	Values     []float64 `json:"values,omitempty"`
}

func summarizeField(mask, field *tensor.Array, includeValues bool) *FieldSummary {
	data := field.Data()
	fg := mask.Count(func(v float64) bool { return v != 0 })
	summary := &FieldSummary{
		Shape:      field.Shape(),
		Min:        floats.Min(data),
		Max:        floats.Max(data),
		Mean:       floats.Sum(data) / float64(len(data)),
		Foreground: fg,
		Background: mask.Len() - fg,
	}
	if includeValues {
		summary.Values = data
	}
	return summary
}

func (s *Server) handleDistanceField(args json.RawMessage) (interface{}, error) {
	var a distanceFieldArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	lvl, err := s.level(a.Threshold)
	if err != nil {
		return nil, err
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	if img, err = prepareSlice(img, a.Region, a.Width, a.Height); err != nil {
		return nil, err
	}
	mask, err := imaging.Binarize(img, lvl)
	if err != nil {
		return nil, err
	}

	// (row, col) spacing applies to the (1, H, W) mask's spatial axes
	spacing := a.Spacing
	if len(spacing) == 2 {
		spacing = append([]float64{1}, spacing...)
	}

	field, err := distance.ComputeWithOptions(mask, distance.Options{Spacing: spacing})
	if err != nil {
		return nil, err
	}
	return summarizeField(mask, field, a.IncludeValues), nil
}

// prepareSlice applies the optional crop and then the optional resize. Masks
// are resized with nearest-neighbour sampling so they stay binary.
func prepareSlice(img image.Image, r *region, width, height int) (image.Image, error) {
	var err error
	if r != nil {
		if img, err = imaging.Crop(img, r.X1, r.Y1, r.X2, r.Y2); err != nil {
			return nil, err
		}
	}
	if width != 0 || height != 0 {
		if img, err = imaging.Resize(img, width, height, true); err != nil {
			return nil, err
		}
	}
	return img, nil
}

type volumeDistanceFieldArgs struct {
	Paths         []string  `json:"paths"`
	Threshold     *int      `json:"threshold"`
	CubeDim       *int      `json:"cube_dim"`
	Spacing       []float64 `json:"spacing"`
	IncludeValues bool      `json:"include_values"`
}

func (s *Server) handleVolumeDistanceField(args json.RawMessage) (interface{}, error) {
	var a volumeDistanceFieldArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	lvl, err := s.level(a.Threshold)
	if err != nil {
		return nil, err
	}
	cube := s.cfg.CubeDim
	if a.CubeDim != nil {
		cube = *a.CubeDim
	}
	if cube < 0 {
		return nil, fmt.Errorf("cube_dim must be non-negative, got %d", cube)
	}

	vol, err := s.cache.LoadVolume(a.Paths, lvl)
	if err != nil {
		return nil, err
	}
	if cube > 0 {
		if vol, err = imaging.Cubify(vol, cube); err != nil {
			return nil, err
		}
	}

	field, err := distance.ComputeWithOptions(vol, distance.Options{Spacing: a.Spacing})
	if err != nil {
		return nil, err
	}
	return summarizeField(vol, field, a.IncludeValues), nil
}

// === Metric Handlers ===

type boundaryLossArgs struct {
	ProbPaths       []string `json:"prob_paths"`
	MaskPaths       []string `json:"mask_paths"`
	Threshold       *int     `json:"threshold"`
	Channels        []int    `json:"channels"`
	IncludeGradient bool     `json:"include_gradient"`
}

// BoundaryLossResult is the result of the boundary_loss tool.
type BoundaryLossResult struct {
	Loss     float64   `json:"loss"`
	Shape    []int     `json:"shape"`
	Channels []int     `json:"channels,omitempty"`
	Gradient []float64 `json:"gradient,omitempty"`
}

// handleBoundaryLoss evaluates the loss of a single sample laid out as
// (1, C, H, W): channel c pairs prob_paths[c] with the distance field of
// mask_paths[c].
func (s *Server) handleBoundaryLoss(args json.RawMessage) (interface{}, error) {
	var a boundaryLossArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if len(a.ProbPaths) == 0 {
		return nil, fmt.Errorf("prob_paths must name at least one probability map")
	}
	if len(a.ProbPaths) != len(a.MaskPaths) {
		return nil, &tensor.ShapeMismatchError{
			Op:   "boundary loss channels",
			Want: []int{len(a.ProbPaths)},
			Got:  []int{len(a.MaskPaths)},
		}
	}
	lvl, err := s.level(a.Threshold)
	if err != nil {
		return nil, err
	}

	probs := make([]*tensor.Array, len(a.ProbPaths))
	fields := make([]*tensor.Array, len(a.MaskPaths))
	for c := range a.ProbPaths {
		if probs[c], err = s.cache.LoadProbability(a.ProbPaths[c]); err != nil {
			return nil, fmt.Errorf("channel %d: %w", c, err)
		}
		mask, err := s.cache.LoadMask(a.MaskPaths[c], lvl)
		if err != nil {
			return nil, fmt.Errorf("channel %d: %w", c, err)
		}
		if fields[c], err = distance.Compute(mask); err != nil {
			return nil, fmt.Errorf("channel %d: %w", c, err)
		}
	}

	prob, err := asSample(probs)
	if err != nil {
		return nil, err
	}
	dist, err := asSample(fields)
	if err != nil {
		return nil, err
	}

	opts := loss.Options{Channels: a.Channels}
	value, err := loss.SurfaceWithOptions(prob, dist, opts)
	if err != nil {
		return nil, err
	}

	result := &BoundaryLossResult{
		Loss:     value,
		Shape:    prob.Shape(),
		Channels: a.Channels,
	}
	if a.IncludeGradient {
		grad, err := loss.SurfaceGradientWithOptions(prob, dist, opts)
		if err != nil {
			return nil, err
		}
		result.Gradient = grad.Data()
	}
	return result, nil
}

// asSample stacks per-channel (1, H, W) arrays into a single (1, C, H, W)
// sample.
func asSample(channels []*tensor.Array) (*tensor.Array, error) {
	stacked, err := imaging.Stack(channels)
	if err != nil {
		return nil, err
	}
	shape := stacked.Shape()
	return tensor.FromSlice(stacked.Data(), 1, shape[0], shape[1], shape[2])
}

type maskPredPair struct {
	MaskPath string `json:"mask_path"`
	PredPath string `json:"pred_path"`
}

type confusionMatrixArgs struct {
	Pairs     []maskPredPair `json:"pairs"`
	Threshold *int           `json:"threshold"`
}

// ConfusionResult extends the confusion report with overlap scores.
type ConfusionResult struct {
	*confusion.Report
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	Dice      float64 `json:"dice"`
}

func (s *Server) handleConfusionMatrix(args json.RawMessage) (interface{}, error) {
	var a confusionMatrixArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	lvl, err := s.level(a.Threshold)
	if err != nil {
		return nil, err
	}

	masks := make([]*tensor.Array, len(a.Pairs))
	preds := make([]*tensor.Array, len(a.Pairs))
	for i, p := range a.Pairs {
		if masks[i], err = s.cache.LoadMask(p.MaskPath, lvl); err != nil {
			return nil, fmt.Errorf("pair %d: %w", i, err)
		}
		if preds[i], err = s.cache.LoadMask(p.PredPath, lvl); err != nil {
			return nil, fmt.Errorf("pair %d: %w", i, err)
		}
	}

	report, err := confusion.Aggregate(masks, preds)
	if err != nil {
		return nil, err
	}
	return &ConfusionResult{
		Report:    report,
		Precision: report.Totals.Precision(),
		Recall:    report.Totals.Recall(),
		Dice:      report.Totals.Dice(),
	}, nil
}

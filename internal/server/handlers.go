package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"

	"github.com/ironsheep/symmetry-mcp/internal/features"
	"github.com/ironsheep/symmetry-mcp/internal/imaging"
	"github.com/ironsheep/symmetry-mcp/internal/symmetry"
)

// Defaults for optional tool arguments.
const (
	defaultTopBins    = 5
	defaultTopMatches = imaging.DefaultMatchCount
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "symmetry_detect").
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

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.debugf("tool %s failed: %v", params.Name, err)
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

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
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)

	// Symmetry Detection
	case "symmetry_detect":
		return s.handleSymmetryDetect(args)
	case "symmetry_axis_from_pairs":
		return s.handleSymmetryAxisFromPairs(args)
	case "symmetry_votes_plot":
		return s.handleSymmetryVotesPlot(args)
	case "symmetry_matches":
		return s.handleSymmetryMatches(args)

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
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Basic Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

// === Symmetry Detection Handlers ===

// detectionArgs are the arguments shared by every tool that runs the
// detection pipeline on an image.
type detectionArgs struct {
	Path         string `json:"path"`
	Vertical     bool   `json:"vertical"`
	Bins         int    `json:"bins"`
	Region       string `json:"region"`
	MaxKeypoints int    `json:"max_keypoints"`
}

// detectionRun is one pipeline run over a region of a cached image.
type detectionRun struct {
	image  image.Image
	region image.Rectangle
	det    *symmetry.Detection
}

// RegionResult reports the analysed part of an image.
type RegionResult struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

func newRegionResult(r image.Rectangle) RegionResult {
	return RegionResult{X1: r.Min.X, Y1: r.Min.Y, X2: r.Max.X, Y2: r.Max.Y}
}

// runDetection loads the image named by a, crops it to the requested region
// and runs the pipeline. The detected axis is moved into full-image
// coordinates. With ErrNoQualifyingAxis the run is returned alongside the
// error, holding the votes but no axis; with ErrDegenerateInput it holds the
// features and no analysis.
func (s *Server) runDetection(a detectionArgs) (*detectionRun, error) {
	if a.Bins < 0 {
		return nil, fmt.Errorf("bins must be positive, got %d", a.Bins)
	}
	if a.MaxKeypoints < 0 {
		return nil, fmt.Errorf("max_keypoints must be positive, got %d", a.MaxKeypoints)
	}
	bins := a.Bins
	if bins == 0 {
		bins = s.cfg.Bins
	}
	maxKeypoints := a.MaxKeypoints
	if maxKeypoints == 0 {
		maxKeypoints = s.cfg.MaxKeypoints
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	region, err := imaging.ParseRegion(b.Dx(), b.Dy(), a.Region)
	if err != nil {
		return nil, err
	}
	work := img
	if region != image.Rect(0, 0, b.Dx(), b.Dy()) {
		if work, err = imaging.CropRegion(img, region); err != nil {
			return nil, err
		}
	}

	p := &symmetry.Pipeline{
		Detector:     features.NewDetector(maxKeypoints),
		Matcher:      features.NewMatcher(),
		Vertical:     a.Vertical,
		MaxDimension: s.cfg.MaxDimension,
		Options: []symmetry.Option{
			symmetry.WithDivisions(bins),
			symmetry.WithWorkers(s.cfg.Workers),
		},
		Logf: s.debugf,
	}
	s.debugf("detecting %s region=%v backend=%s bins=%d", a.Path, region, features.Backend(), bins)

	det, err := p.Run(work)
	if det == nil {
		return nil, err
	}
	run := &detectionRun{image: img, region: region, det: det}
	if err == nil {
		det.Axis = det.Axis.Translate(region.Min)
	}
	return run, err
}

// candidates converts the n strongest ranked bins into axes in full-image
// coordinates.
func (r *detectionRun) candidates(n int) []symmetry.SymmetryAxis {
	return topAxes(r.det.Analysis.Bins, n, r.det.Scale, r.region.Min)
}

func topAxes(bins []symmetry.Bin, n int, scale float64, offset image.Point) []symmetry.SymmetryAxis {
	if n > len(bins) {
		n = len(bins)
	}
	out := make([]symmetry.SymmetryAxis, 0, n)
	for _, b := range bins[:n] {
		axis := symmetry.SymmetryAxis{R: b.R * scale, Theta: b.Theta, Votes: b.Count}
		out = append(out, axis.Translate(offset))
	}
	return out
}

// SymmetryResult is returned by symmetry_detect.
type SymmetryResult struct {
	Axis    symmetry.SymmetryAxis `json:"axis"`
	Region  RegionResult          `json:"region"`
	Backend string                `json:"backend"`

	// Scale is the downscale factor applied before feature detection.
	Scale float64 `json:"scale"`

	Keypoints int `json:"keypoints"`
	Matches   int `json:"matches"`
	Bins      int `json:"bins"`

	// Candidates are the strongest bins, best first, including ones the
	// vertical-axis policy excluded.
	Candidates []symmetry.SymmetryAxis `json:"candidates"`
	Votes      symmetry.VoteSummary    `json:"votes"`

	Overlay *imaging.ImageResult `json:"overlay,omitempty"`
}

type symmetryDetectArgs struct {
	detectionArgs
	Overlay   bool   `json:"overlay"`
	LineColor string `json:"line_color"`
	Top       int    `json:"top"`
}

func (s *Server) handleSymmetryDetect(args json.RawMessage) (interface{}, error) {
	var a symmetryDetectArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Top <= 0 {
		a.Top = defaultTopBins
	}
	if a.LineColor == "" {
		a.LineColor = s.cfg.LineColor
	}
	renderer, err := imaging.NewAxisRenderer(a.LineColor)
	if err != nil {
		return nil, err
	}

	run, err := s.runDetection(a.detectionArgs)
	if err != nil {
		return nil, err
	}
	det := run.det

	res := &SymmetryResult{
		Axis:       det.Axis,
		Region:     newRegionResult(run.region),
		Backend:    features.Backend(),
		Scale:      det.Scale,
		Keypoints:  det.Original.Len(),
		Matches:    len(det.Matches),
		Bins:       len(det.Analysis.Bins),
		Candidates: run.candidates(a.Top),
		Votes:      symmetry.Summarize(det.Analysis.Votes),
	}

	if a.Overlay {
		drawn, err := renderer.DrawAxis(run.image, det.Axis)
		if err != nil {
			return nil, fmt.Errorf("failed to draw axis: %w", err)
		}
		if res.Overlay, err = imaging.EncodePNG(drawn); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// AxisFromPairsResult is returned by symmetry_axis_from_pairs.
type AxisFromPairsResult struct {
	Axis       symmetry.SymmetryAxis   `json:"axis"`
	Grid       symmetry.Grid           `json:"grid"`
	Candidates []symmetry.SymmetryAxis `json:"candidates"`
	Votes      symmetry.VoteSummary    `json:"votes"`
}

type symmetryAxisFromPairsArgs struct {
	Pairs []struct {
		Origin   symmetry.Point `json:"origin"`
		Mirrored symmetry.Point `json:"mirrored"`
	} `json:"pairs"`
	Vertical bool `json:"vertical"`
	Bins     int  `json:"bins"`
	Top      int  `json:"top"`
}

func (s *Server) handleSymmetryAxisFromPairs(args json.RawMessage) (interface{}, error) {
	var a symmetryAxisFromPairsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Bins < 0 {
		return nil, fmt.Errorf("bins must be positive, got %d", a.Bins)
	}
	if a.Bins == 0 {
		a.Bins = s.cfg.Bins
	}
	if a.Top <= 0 {
		a.Top = defaultTopBins
	}

	pairs := make([]symmetry.MatchedPair, len(a.Pairs))
	for i, p := range a.Pairs {
		pairs[i] = symmetry.MatchedPair{Origin: p.Origin, Mirrored: p.Mirrored}
	}

	analysis, err := symmetry.Analyze(pairs, a.Vertical,
		symmetry.WithDivisions(a.Bins), symmetry.WithWorkers(s.cfg.Workers))
	if err != nil {
		return nil, err
	}
	return &AxisFromPairsResult{
		Axis:       analysis.Axis,
		Grid:       analysis.Grid,
		Candidates: topAxes(analysis.Bins, a.Top, 1, image.Point{}),
		Votes:      symmetry.Summarize(analysis.Votes),
	}, nil
}

// VotesPlotResult is returned by symmetry_votes_plot. Votes are plotted in
// the coordinates of the analysed region after downscaling; Axis is in
// full-image coordinates and absent when no axis qualified.
type VotesPlotResult struct {
	*imaging.ImageResult
	Axis  *symmetry.SymmetryAxis `json:"axis,omitempty"`
	Votes symmetry.VoteSummary   `json:"votes"`
}

func (s *Server) handleSymmetryVotesPlot(args json.RawMessage) (interface{}, error) {
	var a detectionArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	run, err := s.runDetection(a)
	if err != nil && !errors.Is(err, symmetry.ErrNoQualifyingAxis) {
		return nil, err
	}
	qualified := err == nil

	plot, err := imaging.PlotVotes(run.det.Analysis)
	if err != nil {
		return nil, err
	}
	res := &VotesPlotResult{
		ImageResult: plot,
		Votes:       symmetry.Summarize(run.det.Analysis.Votes),
	}
	if qualified {
		axis := run.det.Axis
		res.Axis = &axis
	}
	return res, nil
}

// MatchesResult is returned by symmetry_matches.
type MatchesResult struct {
	*imaging.ImageResult
	Drawn   int `json:"drawn"`
	Matches int `json:"matches"`
}

type symmetryMatchesArgs struct {
	detectionArgs
	LineColor string `json:"line_color"`
	Top       int    `json:"top"`
}

func (s *Server) handleSymmetryMatches(args json.RawMessage) (interface{}, error) {
	var a symmetryMatchesArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Top <= 0 {
		a.Top = defaultTopMatches
	}
	if a.LineColor == "" {
		a.LineColor = s.cfg.LineColor
	}
	c, err := imaging.ParseColor(a.LineColor)
	if err != nil {
		return nil, err
	}

	// The axis policy does not affect matching.
	a.Vertical = true
	run, err := s.runDetection(a.detectionArgs)
	if err != nil && !errors.Is(err, symmetry.ErrDegenerateInput) {
		return nil, err
	}
	det := run.det

	canvas, err := imaging.RenderMatches(det.Working, det.Reflected, det.Original, det.Mirrored, det.Matches, a.Top, c)
	if err != nil {
		return nil, err
	}
	img, err := imaging.EncodePNG(canvas)
	if err != nil {
		return nil, err
	}

	drawn := a.Top
	if drawn > len(det.Matches) {
		drawn = len(det.Matches)
	}
	return &MatchesResult{ImageResult: img, Drawn: drawn, Matches: len(det.Matches)}, nil
}

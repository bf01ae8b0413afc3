package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/ironsheep/symmetry-mcp/internal/symmetry"
)

// Vote plot size.
const (
	plotWidth  = 8 * vg.Inch
	plotHeight = 6 * vg.Inch
)

var (
	sparseColor, _ = colorful.Hex("#2C3E91")
	denseColor, _  = colorful.Hex("#F2C12E")
)

// PlotVotes renders every vote of a as a point in the (r, θ) plane, coloured
// from blue (lone votes) to yellow (votes in the fullest bin). The selected
// axis is marked with a red ring when a.Axis holds votes.
func PlotVotes(a *symmetry.Analysis) (*ImageResult, error) {
	data, err := PlotVotesPNG(a)
	if err != nil {
		return nil, err
	}
	return pngResult(data)
}

// PlotVotesPNG is PlotVotes returning the raw PNG bytes.
func PlotVotesPNG(a *symmetry.Analysis) ([]byte, error) {
	if a == nil || len(a.Votes) == 0 {
		return nil, errors.New("no votes to plot")
	}

	counts := make(map[symmetry.Cell]int, len(a.Bins))
	peak := 1
	for _, b := range a.Bins {
		counts[b.Cell] = b.Count
		if b.Count > peak {
			peak = b.Count
		}
	}

	pts := make(plotter.XYs, len(a.Votes))
	density := make([]float64, len(a.Votes))
	for i, v := range a.Votes {
		pts[i] = plotter.XY{X: v.R, Y: v.Theta}
		if peak > 1 {
			density[i] = float64(counts[a.Grid.CellOf(v)]-1) / float64(peak-1)
		}
	}

	p := plot.New()
	s := symmetry.Summarize(a.Votes)
	p.Title.Text = fmt.Sprintf("%d votes, r = %.1f ± %.1f, θ = %.3f ± %.3f",
		s.Count, s.MeanR, s.StdDevR, s.MeanTheta, s.StdDevTheta)
	p.X.Label.Text = "r (px)"
	p.Y.Label.Text = "θ (rad)"

	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, fmt.Errorf("failed to build vote scatter: %w", err)
	}
	scatter.GlyphStyleFunc = func(i int) draw.GlyphStyle {
		r, g, b := sparseColor.BlendHcl(denseColor, density[i]).Clamped().RGB255()
		return draw.GlyphStyle{
			Color:  color.NRGBA{R: r, G: g, B: b, A: 200},
			Radius: vg.Points(2),
			Shape:  draw.CircleGlyph{},
		}
	}
	p.Add(scatter)

	if a.Axis.Votes > 0 {
		marker, err := plotter.NewScatter(plotter.XYs{{X: a.Axis.R, Y: a.Axis.Theta}})
		if err != nil {
			return nil, fmt.Errorf("failed to build axis marker: %w", err)
		}
		marker.GlyphStyle = draw.GlyphStyle{
			Color:  color.NRGBA{R: 220, A: 255},
			Radius: vg.Points(6),
			Shape:  draw.RingGlyph{},
		}
		p.Add(marker)
		p.Legend.Add(fmt.Sprintf("axis (%d votes)", a.Axis.Votes), marker)
		p.Legend.Top = true
	}

	wt, err := p.WriterTo(plotWidth, plotHeight, "png")
	if err != nil {
		return nil, fmt.Errorf("failed to render vote plot: %w", err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode vote plot: %w", err)
	}
	return buf.Bytes(), nil
}

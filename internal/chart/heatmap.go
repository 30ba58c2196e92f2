package chart

import (
	"fmt"
	"image/color"
	"io"
	"strconv"

	"github.com/user/wearable-insights-go/internal/models"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgsvg"
)

const (
	heatmapTitle       = "Wearable Impact (Likert Responses)"
	heatmapLegendWidth = 110
	heatmapShades      = 64
	heatmapLegendSteps = 5
)

// likertGrid adapts a Likert table to plotter.GridXYZ. Columns are responses;
// row 0 is the last question so the first question is drawn at the top.
type likertGrid struct {
	questions []string
	responses []string
	counts    map[[2]string]float64
}

func newLikertGrid(data []models.LikertDatum) likertGrid {
	g := likertGrid{counts: make(map[[2]string]float64, len(data))}
	seenQ := make(map[string]bool)
	seenR := make(map[string]bool)
	for _, d := range data {
		if !seenQ[d.Question] {
			seenQ[d.Question] = true
			g.questions = append(g.questions, d.Question)
		}
		if !seenR[d.Response] {
			seenR[d.Response] = true
			g.responses = append(g.responses, d.Response)
		}
		g.counts[[2]string{d.Question, d.Response}] = float64(d.Count)
	}
	return g
}

func (g likertGrid) Dims() (c, r int) { return len(g.responses), len(g.questions) }

func (g likertGrid) Z(c, r int) float64 {
	return g.counts[[2]string{g.questions[len(g.questions)-1-r], g.responses[c]}]
}

func (g likertGrid) X(c int) float64 { return float64(c) }

func (g likertGrid) Y(r int) float64 { return float64(r) }

func (g likertGrid) max() float64 {
	m := 0.0
	for _, v := range g.counts {
		if v > m {
			m = v
		}
	}
	return m
}

// rowLabels returns question labels bottom-up, matching Y.
func (g likertGrid) rowLabels() []string {
	out := make([]string, len(g.questions))
	for i, q := range g.questions {
		out[len(out)-1-i] = q
	}
	return out
}

// swatch is a legend thumbnail filled with one colour.
type swatch struct {
	color color.Color
}

func (s swatch) Thumbnail(c *draw.Canvas) {
	pts := []vg.Point{
		{X: c.Min.X, Y: c.Min.Y},
		{X: c.Min.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Min.Y},
	}
	c.FillPolygon(s.color, pts)
}

// Heatmap draws response counts per Likert question.
type Heatmap struct {
	data []models.LikertDatum
}

// NewHeatmap returns a renderer for a Likert table.
func NewHeatmap(data []models.LikertDatum) *Heatmap {
	return &Heatmap{data: data}
}

// Render draws the heatmap as SVG, with a colour legend on the right.
func (h *Heatmap) Render(w io.Writer, size Size) error {
	if len(h.data) == 0 {
		return writePlaceholder(w, size, heatmapTitle, "No data")
	}

	grid := newLikertGrid(h.data)
	maxCount := grid.max()
	pal := newSequential(puRdStops, heatmapShades)

	hm := plotter.NewHeatMap(grid, pal)
	hm.Min = 0
	hm.Max = maxCount
	if hm.Max == 0 {
		hm.Max = 1
	}

	p := plot.New()
	p.Title.Text = heatmapTitle
	p.Add(hm)
	p.NominalX(grid.responses...)
	p.NominalY(grid.rowLabels()...)

	labels, err := cellLabels(grid, maxCount)
	if err != nil {
		return err
	}
	p.Add(labels)

	legend := plot.NewLegend()
	legend.Top = true
	legend.Add("Responses")
	for i := heatmapLegendSteps - 1; i >= 0; i-- {
		t := float64(i) / float64(heatmapLegendSteps-1)
		legend.Add(strconv.Itoa(int(t*maxCount+0.5)), swatch{color: interpolate(puRdStops, t)})
	}

	img := vgsvg.New(points(size.Width), points(size.Height))
	dc := draw.New(img)
	p.Draw(draw.Crop(dc, 0, -heatmapLegendWidth, 0, 0))
	legend.Draw(draw.Crop(dc, dc.Max.X-dc.Min.X-heatmapLegendWidth, 0, 0, 0))

	if _, err := img.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write heatmap: %w", err)
	}
	return nil
}

// cellLabels prints each count in the middle of its cell, light on dark cells.
func cellLabels(g likertGrid, maxCount float64) (*plotter.Labels, error) {
	cols, rows := g.Dims()
	xys := make(plotter.XYs, 0, cols*rows)
	texts := make([]string, 0, cols*rows)
	dark := make([]bool, 0, cols*rows)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			z := g.Z(c, r)
			xys = append(xys, plotter.XY{X: g.X(c), Y: g.Y(r)})
			texts = append(texts, strconv.Itoa(int(z)))
			dark = append(dark, maxCount > 0 && z/maxCount > 0.6)
		}
	}

	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: texts})
	if err != nil {
		return nil, fmt.Errorf("failed to create heatmap labels: %w", err)
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].XAlign = text.XCenter
		labels.TextStyle[i].YAlign = text.YCenter
		if dark[i] {
			labels.TextStyle[i].Color = puRdStops[0]
		}
	}
	return labels, nil
}

package chart

import (
	"fmt"
	"io"

	"github.com/user/wearable-insights-go/internal/aggregate"
	"github.com/user/wearable-insights-go/internal/models"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

const (
	barTitle = "Exercise Frequency by Age Group"
	// Approximate horizontal space taken by the Y axis, its label and padding.
	barAxisAllowance = 90
	barGroupPadding  = 0.2
	barInnerPadding  = 0.05
	barOpacity       = 0.7
)

// BarChart is a grouped bar chart: one group per age, one bar per exercise
// frequency within it.
type BarChart struct {
	data []models.BarDatum
}

// NewBarChart returns a renderer for a bar table.
func NewBarChart(data []models.BarDatum) *BarChart {
	return &BarChart{data: data}
}

// Render draws the chart as SVG.
func (b *BarChart) Render(w io.Writer, size Size) error {
	if len(b.data) == 0 {
		return writePlaceholder(w, size, barTitle, "No data")
	}

	ages, freqs := aggregate.Categories(b.data)
	counts := make(map[[2]string]float64, len(b.data))
	for _, d := range b.data {
		counts[[2]string{d.Age, d.Freq}] = float64(d.Count)
	}

	p := plot.New()
	p.Title.Text = barTitle
	p.X.Label.Text = "Age Group"
	p.Y.Label.Text = "Number of Respondents"
	p.Legend.Top = true

	groupWidth := (size.Width - barAxisAllowance) / float64(len(ages)) * (1 - barGroupPadding)
	barWidth := points(groupWidth / float64(len(freqs)) * (1 - barInnerPadding))
	if barWidth < 1 {
		barWidth = 1
	}

	colors := newOrdinal(set2)
	for i, freq := range freqs {
		values := make(plotter.Values, len(ages))
		for j, age := range ages {
			values[j] = counts[[2]string{age, freq}]
		}

		bars, err := plotter.NewBarChart(values, barWidth)
		if err != nil {
			return fmt.Errorf("failed to create bars for %q: %w", freq, err)
		}
		bars.Color = withAlpha(colors.color(freq), barOpacity)
		bars.LineStyle.Width = 0
		bars.Offset = vg.Length(float64(i)-float64(len(freqs)-1)/2) * barWidth

		p.Add(bars)
		p.Legend.Add(freq, bars)
	}

	grid := plotter.NewGrid()
	grid.Vertical.Color = nil
	p.Add(grid)

	p.NominalX(ages...)
	p.X.Min = -0.5
	p.X.Max = float64(len(ages)) - 0.5
	p.Y.Min = 0

	return writePlot(w, p, size)
}

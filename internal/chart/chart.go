// Package chart draws the dashboard's derived tables as SVG.
//
// The bar chart and the heatmap are built with gonum/plot; the flow diagram has
// no gonum equivalent and is laid out here and drawn with svgo. Every renderer
// is a pure function of its table and the requested size, so redrawing at a new
// width never touches the raw records.
package chart

import (
	"errors"
	"fmt"
	"io"

	svg "github.com/ajstarks/svgo"
	"github.com/user/wearable-insights-go/internal/config"
	"github.com/user/wearable-insights-go/internal/models"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
)

// ErrUnknownChart is returned by New for an unrecognised chart kind.
var ErrUnknownChart = errors.New("unknown chart")

const (
	MinWidth = 320
	MaxWidth = 4000
)

// Kind names one of the dashboard charts.
type Kind string

const (
	KindBar     Kind = "bar"
	KindSankey  Kind = "sankey"
	KindHeatmap Kind = "heatmap"
)

// Kinds lists the charts in dashboard order.
var Kinds = []Kind{KindBar, KindSankey, KindHeatmap}

// ParseKind maps a name such as "sankey" to its Kind.
func ParseKind(name string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == name {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownChart, name)
}

// Title is the dashboard heading for the chart.
func (k Kind) Title() string {
	switch k {
	case KindBar:
		return barTitle
	case KindSankey:
		return sankeyTitle
	case KindHeatmap:
		return heatmapTitle
	default:
		return string(k)
	}
}

// Size is the drawing area in SVG user units.
type Size struct {
	Width  float64
	Height float64
}

// Renderer draws one chart.
type Renderer interface {
	Render(w io.Writer, size Size) error
}

// New returns the renderer for kind, reading its table from d.
func New(kind Kind, d *models.Dashboard) (Renderer, error) {
	switch kind {
	case KindBar:
		return NewBarChart(d.Bar), nil
	case KindSankey:
		return NewSankey(d.Flow), nil
	case KindHeatmap:
		return NewHeatmap(d.Likert), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownChart, kind)
	}
}

// DefaultSize returns the configured size for kind.
func DefaultSize(kind Kind, cfg config.ChartsConfig) Size {
	switch kind {
	case KindSankey:
		return Size{Width: cfg.Width, Height: cfg.SankeyHeight}
	case KindHeatmap:
		return Size{Width: cfg.HeatmapWidth, Height: cfg.HeatmapHeight}
	default:
		return Size{Width: cfg.Width, Height: cfg.BarHeight}
	}
}

// SizeForWidth keeps the configured height for kind and clamps width into
// [MinWidth, MaxWidth]. The heatmap keeps its aspect ratio instead.
func SizeForWidth(kind Kind, cfg config.ChartsConfig, width float64) Size {
	size := DefaultSize(kind, cfg)
	width = ClampWidth(width)
	if kind == KindHeatmap {
		size.Height = size.Height * width / size.Width
	}
	size.Width = width
	return size
}

// ClampWidth bounds a requested width.
func ClampWidth(width float64) float64 {
	switch {
	case width < MinWidth:
		return MinWidth
	case width > MaxWidth:
		return MaxWidth
	default:
		return width
	}
}

// points converts a CSS pixel length to the points gonum draws in, so a plot
// sized with it reports the same width as the px-sized svgo charts.
func points(px float64) vg.Length {
	return vg.Length(px) * vg.Inch / 96
}

func writePlot(w io.Writer, p *plot.Plot, size Size) error {
	writer, err := p.WriterTo(points(size.Width), points(size.Height), "svg")
	if err != nil {
		return fmt.Errorf("failed to create plot writer: %w", err)
	}
	if _, err := writer.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write plot: %w", err)
	}
	return nil
}

// writePlaceholder draws an empty chart frame with a message.
func writePlaceholder(w io.Writer, size Size, title, message string) error {
	width, height := int(size.Width), int(size.Height)
	canvas := svg.New(w)
	canvas.Startview(width, height, 0, 0, width, height)
	canvas.Title(title)
	canvas.Rect(0, 0, width, height, "fill:#fafafa;stroke:#ccc")
	canvas.Text(width/2, height/2, message, "text-anchor:middle;font-size:16px;fill:#999")
	canvas.End()
	return nil
}

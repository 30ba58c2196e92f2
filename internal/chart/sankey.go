package chart

import (
	"fmt"
	"image/color"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"
	"github.com/user/wearable-insights-go/internal/models"
)

const (
	sankeyTitle       = "Wearable Use, Engagement and Routine Impact"
	sankeyMargin      = 20
	sankeyLinkOpacity = 0.6
	sankeyLabelGap    = 6
)

// Sankey draws the flow graph.
type Sankey struct {
	graph models.FlowGraph
}

// NewSankey returns a renderer for a flow graph.
func NewSankey(g models.FlowGraph) *Sankey {
	return &Sankey{graph: g}
}

// Render lays out the graph for size and writes it as SVG.
func (s *Sankey) Render(w io.Writer, size Size) error {
	if len(s.graph.Nodes) == 0 {
		return writePlaceholder(w, size, sankeyTitle, "No data")
	}

	inner := Size{Width: size.Width - 2*sankeyMargin, Height: size.Height - 2*sankeyMargin}
	layout := LayoutSankey(s.graph, inner.Width, inner.Height)
	colors := nodeColors(s.graph.Nodes)

	width, height := int(size.Width), int(size.Height)
	canvas := svg.New(w)
	canvas.Startview(width, height, 0, 0, width, height)
	canvas.Title(sankeyTitle)
	canvas.Gtransform(fmt.Sprintf("translate(%d,%d)", sankeyMargin, sankeyMargin))

	canvas.Gstyle("fill:none")
	for _, l := range layout.Links {
		src, dst := layout.Nodes[l.Source], layout.Nodes[l.Target]
		canvas.Group()
		canvas.Title(fmt.Sprintf("%s → %s: %d", src.Name, dst.Name, l.Weight))
		canvas.Path(linkPath(src.X1, l.Y0, dst.X0, l.Y1), fmt.Sprintf("stroke:%s;stroke-opacity:%.1f;stroke-width:%.2f",
			hexString(colors[l.Source]), sankeyLinkOpacity, math.Max(1, l.Width)))
		canvas.Gend()
	}
	canvas.Gend()

	for i, n := range layout.Nodes {
		canvas.Group()
		canvas.Title(fmt.Sprintf("%s: %d", n.Name, int(n.Value)))
		canvas.Roundrect(round(n.X0), round(n.Y0), round(n.X1-n.X0), max(1, round(n.Y1-n.Y0)), 10, 10,
			"fill:"+hexString(colors[i]))
		canvas.Gend()
	}

	for _, n := range layout.Nodes {
		x, anchor := n.X0-sankeyLabelGap, "end"
		if n.X0 < inner.Width/2 {
			x, anchor = n.X1+sankeyLabelGap, "start"
		}
		canvas.Text(round(x), round((n.Y0+n.Y1)/2), n.Name, `dy="0.35em"`,
			"text-anchor:"+anchor+";font-size:12px;fill:#555")
	}

	canvas.Gend()
	canvas.End()
	return nil
}

// nodeColors colours nodes by stage: Set2 for use, Pastel1 for engagement,
// Tableau10 for impact.
func nodeColors(nodes []models.FlowNode) []color.RGBA {
	byStage := map[models.Stage]*ordinal{
		models.StageUse:        newOrdinal(set2),
		models.StageEngagement: newOrdinal(pastel1),
		models.StageImpact:     newOrdinal(tableau10),
	}
	out := make([]color.RGBA, len(nodes))
	for i, n := range nodes {
		out[i] = byStage[n.Stage].color(n.Name)
	}
	return out
}

// linkPath is a horizontal cubic Bézier from (x0,y0) to (x1,y1).
func linkPath(x0, y0, x1, y1 float64) string {
	xm := (x0 + x1) / 2
	return fmt.Sprintf("M%.2f,%.2fC%.2f,%.2f %.2f,%.2f %.2f,%.2f", x0, y0, xm, y0, xm, y1, x1, y1)
}

func round(v float64) int {
	return int(math.Round(v))
}

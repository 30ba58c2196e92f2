package chart

import (
	"math"
	"sort"

	"github.com/user/wearable-insights-go/internal/models"
)

const (
	sankeyNodeWidth   = 15
	sankeyNodePadding = 10
)

// LaidNode is a flow node with its rectangle in layout coordinates.
type LaidNode struct {
	models.FlowNode
	Value          float64
	X0, X1, Y0, Y1 float64
}

// LaidLink is a flow edge with its band geometry. Y0 and Y1 are the band
// centres at the source and target nodes.
type LaidLink struct {
	Source, Target int
	Weight         int
	Width          float64
	Y0, Y1         float64
}

// SankeyLayout is the positioned flow diagram.
type SankeyLayout struct {
	Width, Height float64
	Nodes         []LaidNode
	Links         []LaidLink
}

// LayoutSankey places nodes in one column per stage and stacks link bands at
// both ends. Node heights are proportional to max(inflow, outflow) and the
// scale is chosen so the fullest column fits the height. Only edges that move
// rightwards between columns are laid out.
func LayoutSankey(g models.FlowGraph, width, height float64) SankeyLayout {
	layout := SankeyLayout{Width: width, Height: height}
	if len(g.Nodes) == 0 || width <= 0 || height <= 0 {
		return layout
	}

	in := make([]float64, len(g.Nodes))
	out := make([]float64, len(g.Nodes))
	for _, e := range g.Edges {
		if !forward(g, e) {
			continue
		}
		layout.Links = append(layout.Links, LaidLink{Source: e.Source, Target: e.Target, Weight: e.Weight})
		out[e.Source] += float64(e.Weight)
		in[e.Target] += float64(e.Weight)
	}

	columnCount := 0
	layout.Nodes = make([]LaidNode, len(g.Nodes))
	for i, n := range g.Nodes {
		layout.Nodes[i] = LaidNode{FlowNode: n, Value: math.Max(in[i], out[i])}
		if c := n.Stage.Column() + 1; c > columnCount {
			columnCount = c
		}
	}

	columns := make([][]int, columnCount)
	for i, n := range g.Nodes {
		col := n.Stage.Column()
		columns[col] = append(columns[col], i)
	}

	ky := math.Inf(1)
	for _, col := range columns {
		if len(col) == 0 {
			continue
		}
		total := 0.0
		for _, i := range col {
			total += layout.Nodes[i].Value
		}
		if total == 0 {
			continue
		}
		avail := height - float64(len(col)-1)*sankeyNodePadding
		ky = math.Min(ky, avail/total)
	}
	if math.IsInf(ky, 1) || ky < 0 {
		ky = 0
	}

	kx := 0.0
	if columnCount > 1 {
		kx = (width - sankeyNodeWidth) / float64(columnCount-1)
	}
	for c, col := range columns {
		y := 0.0
		for _, i := range col {
			n := &layout.Nodes[i]
			n.X0 = float64(c) * kx
			n.X1 = n.X0 + sankeyNodeWidth
			n.Y0 = y
			n.Y1 = y + n.Value*ky
			y = n.Y1 + sankeyNodePadding
		}
		// spread the leftover space evenly between and around the nodes
		spare := (height - y + sankeyNodePadding) / float64(len(col)+1)
		if spare < 0 {
			spare = 0
		}
		for k, i := range col {
			layout.Nodes[i].Y0 += spare * float64(k+1)
			layout.Nodes[i].Y1 += spare * float64(k+1)
		}
	}

	for i := range layout.Links {
		layout.Links[i].Width = float64(layout.Links[i].Weight) * ky
	}
	stackLinks(&layout)
	return layout
}

func forward(g models.FlowGraph, e models.FlowEdge) bool {
	return g.Nodes[e.Target].Stage.Column() > g.Nodes[e.Source].Stage.Column()
}

// stackLinks orders each node's outgoing bands by target position and its
// incoming bands by source position, then assigns band centres top-down.
func stackLinks(layout *SankeyLayout) {
	outgoing := make([][]int, len(layout.Nodes))
	incoming := make([][]int, len(layout.Nodes))
	for i, l := range layout.Links {
		outgoing[l.Source] = append(outgoing[l.Source], i)
		incoming[l.Target] = append(incoming[l.Target], i)
	}

	for n := range layout.Nodes {
		out := outgoing[n]
		sort.SliceStable(out, func(a, b int) bool {
			return layout.Nodes[layout.Links[out[a]].Target].Y0 < layout.Nodes[layout.Links[out[b]].Target].Y0
		})
		y := layout.Nodes[n].Y0
		for _, li := range out {
			layout.Links[li].Y0 = y + layout.Links[li].Width/2
			y += layout.Links[li].Width
		}

		in := incoming[n]
		sort.SliceStable(in, func(a, b int) bool {
			return layout.Nodes[layout.Links[in[a]].Source].Y0 < layout.Nodes[layout.Links[in[b]].Source].Y0
		})
		y = layout.Nodes[n].Y0
		for _, li := range in {
			layout.Links[li].Y1 = y + layout.Links[li].Width/2
			y += layout.Links[li].Width
		}
	}
}

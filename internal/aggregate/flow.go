package aggregate

import (
	"strings"

	"github.com/user/wearable-insights-go/internal/models"
)

// FlowFields names the three columns feeding the flow diagram.
type FlowFields struct {
	Use        string
	Engagement string
	Impact     string
}

// Flow builds the use -> engagement -> impact graph. A record contributes only
// when all three fields are non-empty; the number of skipped records is the
// second return value. Values are trimmed and the impact value is passed
// through rename (unmapped values are kept as-is).
//
// A name seen in several columns gets the earliest stage it was seen in, in the
// order use, engagement, impact. Nodes and edges are listed in first-seen order.
func Flow(records []models.Record, fields FlowFields, rename map[string]string) (models.FlowGraph, int) {
	type edgeKey struct{ source, target string }

	var (
		names     []string
		index     = make(map[string]int)
		stages    = make(map[string]map[models.Stage]bool)
		edgeOrder []edgeKey
		weights   = make(map[edgeKey]int)
		skipped   int
	)

	addNode := func(name string, stage models.Stage) {
		if _, ok := index[name]; !ok {
			index[name] = len(names)
			names = append(names, name)
			stages[name] = make(map[models.Stage]bool, 1)
		}
		stages[name][stage] = true
	}
	addEdge := func(source, target string) {
		k := edgeKey{source, target}
		if weights[k] == 0 {
			edgeOrder = append(edgeOrder, k)
		}
		weights[k]++
	}

	for _, rec := range records {
		rawUse, rawEng, rawImpact := rec.Get(fields.Use), rec.Get(fields.Engagement), rec.Get(fields.Impact)
		if rawUse == "" || rawEng == "" || rawImpact == "" {
			skipped++
			continue
		}

		use := strings.TrimSpace(rawUse)
		eng := strings.TrimSpace(rawEng)
		impact := strings.TrimSpace(rawImpact)
		if short, ok := rename[impact]; ok {
			impact = short
		}

		addNode(use, models.StageUse)
		addNode(eng, models.StageEngagement)
		addNode(impact, models.StageImpact)
		addEdge(use, eng)
		addEdge(eng, impact)
	}

	graph := models.FlowGraph{
		Nodes: make([]models.FlowNode, len(names)),
		Edges: make([]models.FlowEdge, 0, len(edgeOrder)),
	}
	for i, name := range names {
		graph.Nodes[i] = models.FlowNode{Name: name, Stage: resolveStage(stages[name])}
	}
	for _, k := range edgeOrder {
		graph.Edges = append(graph.Edges, models.FlowEdge{
			Source: index[k.source],
			Target: index[k.target],
			Weight: weights[k],
		})
	}
	return graph, skipped
}

func resolveStage(seen map[models.Stage]bool) models.Stage {
	switch {
	case seen[models.StageUse]:
		return models.StageUse
	case seen[models.StageEngagement]:
		return models.StageEngagement
	default:
		return models.StageImpact
	}
}

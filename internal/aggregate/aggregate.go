package aggregate

import (
	"log/slog"

	"github.com/user/wearable-insights-go/internal/config"
	"github.com/user/wearable-insights-go/internal/models"
)

// Build runs every aggregator once over records. Dropped records are counted in
// Dashboard.Drops and reported on logger; they never fail the build.
func Build(records []models.Record, cfg *config.Config, logger *slog.Logger) models.Dashboard {
	if logger == nil {
		logger = slog.Default()
	}

	var d models.Dashboard
	d.Bar = Bar(records, cfg.Fields.Age, cfg.Fields.ExerciseFr)
	d.Likert, d.Drops.LikertUnrecognized = Likert(records, cfg.Questions, cfg.Scale)
	d.LikertSummary = SummarizeLikert(d.Likert, cfg.Scale)
	d.Flow, d.Drops.FlowIncomplete = Flow(records, FlowFields{
		Use:        cfg.Fields.UseFreq,
		Engagement: cfg.Fields.Engagement,
		Impact:     cfg.Fields.Impact,
	}, cfg.RenameMap())

	logger.Info("aggregated survey records",
		"records", len(records),
		"bar_buckets", len(d.Bar),
		"likert_cells", len(d.Likert),
		"flow_nodes", len(d.Flow.Nodes),
		"flow_edges", len(d.Flow.Edges))
	if d.Drops.FlowIncomplete > 0 {
		logger.Warn("records missing a flow field were left out of the flow diagram",
			"dropped", d.Drops.FlowIncomplete,
			"fields", []string{cfg.Fields.UseFreq, cfg.Fields.Engagement, cfg.Fields.Impact})
	}
	if d.Drops.LikertUnrecognized > 0 {
		logger.Warn("answers outside the response scale were left out of the heatmap",
			"dropped", d.Drops.LikertUnrecognized)
	}
	return d
}

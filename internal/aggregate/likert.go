package aggregate

import (
	"strings"

	"github.com/montanaflynn/stats"
	"github.com/user/wearable-insights-go/internal/config"
	"github.com/user/wearable-insights-go/internal/models"
)

// Likert counts, for every question, how many records gave each response of
// the scale. It always returns len(questions)*len(scale) rows, question-major,
// with zero counts filled in. Answers are trimmed and matched case-sensitively;
// anything else (including blanks) is dropped and counted in the second return
// value.
func Likert(records []models.Record, questions []config.Question, scale []string) ([]models.LikertDatum, int) {
	out := make([]models.LikertDatum, 0, len(questions)*len(scale))
	dropped := 0

	for _, q := range questions {
		counts := make(map[string]int, len(scale))
		for _, rec := range records {
			counts[strings.TrimSpace(rec.Get(q.Column))]++
		}

		recognized := 0
		for _, response := range scale {
			n := counts[response]
			recognized += n
			out = append(out, models.LikertDatum{Question: q.Label, Response: response, Count: n})
		}
		dropped += len(records) - recognized
	}
	return out, dropped
}

// SummarizeLikert scores each answer by its position in scale (1 = first
// entry) and reports per-question statistics. The two highest scale entries
// count as agreement.
func SummarizeLikert(data []models.LikertDatum, scale []string) []models.LikertSummary {
	score := make(map[string]float64, len(scale))
	for i, r := range scale {
		score[r] = float64(i + 1)
	}

	var order []string
	scores := make(map[string][]float64)
	agree := make(map[string]int)
	for _, d := range data {
		if _, seen := scores[d.Question]; !seen {
			order = append(order, d.Question)
			scores[d.Question] = []float64{}
		}
		s, ok := score[d.Response]
		if !ok {
			continue
		}
		for i := 0; i < d.Count; i++ {
			scores[d.Question] = append(scores[d.Question], s)
		}
		if int(s) > len(scale)-2 {
			agree[d.Question] += d.Count
		}
	}

	out := make([]models.LikertSummary, 0, len(order))
	for _, q := range order {
		summary := models.LikertSummary{Question: q, Respondents: len(scores[q])}
		if summary.Respondents > 0 {
			sample := stats.Float64Data(scores[q])
			summary.Mean, _ = sample.Mean()
			summary.Median, _ = sample.Median()
			summary.StdDev, _ = sample.StandardDeviation()
			summary.AgreeShare = float64(agree[q]) / float64(summary.Respondents)
		}
		out = append(out, summary)
	}
	return out
}

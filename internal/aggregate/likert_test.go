package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/wearable-insights-go/internal/config"
	"github.com/user/wearable-insights-go/internal/models"
)

func TestLikertShape(t *testing.T) {
	inputs := map[string][]models.Record{
		"empty":  nil,
		"sample": sampleRecords(),
		"junk":   {{"Engagement": "???"}, {"SleepImpact": "STRONGLY AGREE"}},
	}
	for name, records := range inputs {
		t.Run(name, func(t *testing.T) {
			got, _ := Likert(records, config.DefaultQuestions, config.DefaultScale)
			require.Len(t, got, 50)

			for qi, q := range config.DefaultQuestions {
				sum := 0
				for ri, response := range config.DefaultScale {
					d := got[qi*5+ri]
					assert.Equal(t, q.Label, d.Question)
					assert.Equal(t, response, d.Response)
					assert.GreaterOrEqual(t, d.Count, 0)
					sum += d.Count
				}
				assert.LessOrEqual(t, sum, len(records))
			}
		})
	}
}

func TestLikertCounts(t *testing.T) {
	got, dropped := Likert(sampleRecords(), config.DefaultQuestions, config.DefaultScale)

	count := func(question, response string) int {
		for _, d := range got {
			if d.Question == question && d.Response == response {
				return d.Count
			}
		}
		t.Fatalf("missing cell %s/%s", question, response)
		return -1
	}

	assert.Equal(t, 1, count("Motivation", "Strongly agree"))
	assert.Equal(t, 1, count("Motivation", "Agree"), "values are trimmed")
	assert.Equal(t, 1, count("Motivation", "Neutral"))
	assert.Equal(t, 1, count("Motivation", "Disagree"))
	assert.Equal(t, 0, count("Motivation", "Strongly disagree"), "missing combinations are zero-filled")

	assert.Equal(t, 1, count("Enjoyable", "Agree"), "matching is case-sensitive")
	assert.Equal(t, 2, count("Engagement", "Agree"))
	assert.Equal(t, 0, count("Diet Change", "Agree"))

	// Every question sees 5 records; recognised answers per question:
	// Motivation 4, Enjoyable 3, Engagement 4, Community 2, Sleep 1, the other five 0.
	assert.Equal(t, 50-(4+3+4+2+1), dropped)
}

func TestLikertIdempotent(t *testing.T) {
	records := sampleRecords()
	first, d1 := Likert(records, config.DefaultQuestions, config.DefaultScale)
	second, d2 := Likert(records, config.DefaultQuestions, config.DefaultScale)
	assert.Equal(t, first, second)
	assert.Equal(t, d1, d2)
}

func TestSummarizeLikert(t *testing.T) {
	data := []models.LikertDatum{
		{Question: "Sleep", Response: "Strongly disagree", Count: 0},
		{Question: "Sleep", Response: "Disagree", Count: 1},
		{Question: "Sleep", Response: "Neutral", Count: 0},
		{Question: "Sleep", Response: "Agree", Count: 2},
		{Question: "Sleep", Response: "Strongly agree", Count: 1},
		{Question: "Diet", Response: "Strongly disagree", Count: 0},
		{Question: "Diet", Response: "Disagree", Count: 0},
		{Question: "Diet", Response: "Neutral", Count: 0},
		{Question: "Diet", Response: "Agree", Count: 0},
		{Question: "Diet", Response: "Strongly agree", Count: 0},
	}

	got := SummarizeLikert(data, config.DefaultScale)
	require.Len(t, got, 2)

	sleep := got[0]
	assert.Equal(t, "Sleep", sleep.Question)
	assert.Equal(t, 4, sleep.Respondents)
	assert.InDelta(t, 3.75, sleep.Mean, 1e-9) // (2+4+4+5)/4
	assert.InDelta(t, 4.0, sleep.Median, 1e-9)
	assert.InDelta(t, 0.75, sleep.AgreeShare, 1e-9)
	assert.Greater(t, sleep.StdDev, 0.0)

	diet := got[1]
	assert.Equal(t, models.LikertSummary{Question: "Diet"}, diet)
}

package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/user/wearable-insights-go/internal/models"
)

func TestBar(t *testing.T) {
	records := []models.Record{
		{"Age": "18-24", "ExerciseFreq": "Daily"},
		{"Age": "18-24", "ExerciseFreq": "Daily"},
		{"Age": "25-34", "ExerciseFreq": "Weekly"},
	}

	got := Bar(records, "Age", "ExerciseFreq")

	want := []models.BarDatum{
		{Age: "18-24", Freq: "Daily", Count: 2},
		{Age: "25-34", Freq: "Weekly", Count: 1},
	}
	assert.Equal(t, want, got)
}

func TestBarOrderAndMissingFields(t *testing.T) {
	records := []models.Record{
		{"Age": "35-44", "ExerciseFreq": "Never"},
		{"Age": "18-24", "ExerciseFreq": "Daily"},
		{"Age": "35-44", "ExerciseFreq": "Daily"},
		{"Age": "35-44"},
		{},
		{"Age": " 35-44", "ExerciseFreq": "Never"},
	}

	got := Bar(records, "Age", "ExerciseFreq")

	want := []models.BarDatum{
		{Age: "35-44", Freq: "Never", Count: 1},
		{Age: "35-44", Freq: "Daily", Count: 1},
		{Age: "35-44", Freq: "", Count: 1},
		{Age: "18-24", Freq: "Daily", Count: 1},
		{Age: "", Freq: "", Count: 1},
		{Age: " 35-44", Freq: "Never", Count: 1},
	}
	assert.Equal(t, want, got, "keys are raw strings, grouped in first-seen order")
}

func TestBarCountsSumToRecords(t *testing.T) {
	records := sampleRecords()
	total := 0
	for _, d := range Bar(records, "Age", "ExerciseFreq") {
		assert.Positive(t, d.Count, "no zero-filled buckets")
		total += d.Count
	}
	assert.Equal(t, len(records), total)
}

func TestBarEmpty(t *testing.T) {
	assert.Empty(t, Bar(nil, "Age", "ExerciseFreq"))
}

func TestCategories(t *testing.T) {
	data := []models.BarDatum{
		{Age: "25-34", Freq: "Weekly", Count: 1},
		{Age: "18-24", Freq: "Daily", Count: 2},
		{Age: "25-34", Freq: "Daily", Count: 3},
	}
	ages, freqs := Categories(data)
	assert.Equal(t, []string{"25-34", "18-24"}, ages)
	assert.Equal(t, []string{"Weekly", "Daily"}, freqs)
}

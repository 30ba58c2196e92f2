// Package aggregate turns survey records into the chart-ready tables.
//
// Grouping keys are always raw (or trimmed, where noted) strings. Nothing here
// parses numbers or dates, so "18-24" and "18 - 24" are different buckets.
package aggregate

import "github.com/user/wearable-insights-go/internal/models"

// Bar counts records per (age, frequency) pair. Only observed pairs are
// emitted. Output order is first-seen age, then first-seen frequency within
// that age. Missing fields group under the empty string.
func Bar(records []models.Record, ageField, freqField string) []models.BarDatum {
	type key struct{ age, freq string }

	counts := make(map[key]int)
	var ages []string
	freqsByAge := make(map[string][]string)

	for _, rec := range records {
		k := key{age: rec.Get(ageField), freq: rec.Get(freqField)}
		if _, seen := freqsByAge[k.age]; !seen {
			ages = append(ages, k.age)
			freqsByAge[k.age] = nil
		}
		if counts[k] == 0 {
			freqsByAge[k.age] = append(freqsByAge[k.age], k.freq)
		}
		counts[k]++
	}

	out := make([]models.BarDatum, 0, len(counts))
	for _, age := range ages {
		for _, freq := range freqsByAge[age] {
			out = append(out, models.BarDatum{Age: age, Freq: freq, Count: counts[key{age, freq}]})
		}
	}
	return out
}

// Categories returns the distinct ages and frequencies of a bar table, each in
// first-seen order.
func Categories(data []models.BarDatum) (ages, freqs []string) {
	seenAge := make(map[string]bool)
	seenFreq := make(map[string]bool)
	for _, d := range data {
		if !seenAge[d.Age] {
			seenAge[d.Age] = true
			ages = append(ages, d.Age)
		}
		if !seenFreq[d.Freq] {
			seenFreq[d.Freq] = true
			freqs = append(freqs, d.Freq)
		}
	}
	return ages, freqs
}

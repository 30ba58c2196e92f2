// Package config describes the survey layout and chart sizes. Everything has a
// built-in default matching the fitness-wearable survey export; a YAML file
// only needs to set what differs.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration.
type Config struct {
	Fields    FieldConfig  `yaml:"fields"`
	Questions []Question   `yaml:"questions"`
	Scale     []string     `yaml:"scale"`
	Rename    []RenameRule `yaml:"impact_rename"`
	Charts    ChartsConfig `yaml:"charts"`
	Sheet     string       `yaml:"sheet"` // xlsx only; empty means first sheet
}

// FieldConfig names the columns used by the bar chart and the flow diagram.
type FieldConfig struct {
	Age        string `yaml:"age"`
	ExerciseFr string `yaml:"exercise_freq"`
	UseFreq    string `yaml:"use_freq"`
	Engagement string `yaml:"engagement"`
	Impact     string `yaml:"impact"`
}

// Question maps a Likert column to its short display label.
type Question struct {
	Column string `yaml:"column"`
	Label  string `yaml:"label"`
}

// RenameRule collapses a long impact answer into a short node label.
type RenameRule struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// ChartsConfig holds default render sizes.
type ChartsConfig struct {
	Width         float64 `yaml:"width"`
	BarHeight     float64 `yaml:"bar_height"`
	SankeyHeight  float64 `yaml:"sankey_height"`
	HeatmapWidth  float64 `yaml:"heatmap_width"`
	HeatmapHeight float64 `yaml:"heatmap_height"`
}

// DefaultScale is the five-point agreement scale, lowest first.
var DefaultScale = []string{
	"Strongly disagree",
	"Disagree",
	"Neutral",
	"Agree",
	"Strongly agree",
}

// DefaultQuestions lists the survey's Likert columns in display order.
var DefaultQuestions = []Question{
	{Column: "Has the fitness wearable helped you stay motivated to exercise?", Label: "Motivation"},
	{Column: "Do you think that the fitness wearable has made exercising more enjoyable?", Label: "Enjoyable"},
	{Column: "Engagement", Label: "Engagement"},
	{Column: "CommunityConnection", Label: "Community"},
	{Column: "SleepImpact", Label: "Sleep"},
	{Column: "WellbeingImpact", Label: "Wellbeing"},
	{Column: "InfluenceExercise", Label: "Exercise Change"},
	{Column: "InfluencePurchase", Label: "Buy Fitness Gear"},
	{Column: "InfluenceGym", Label: "Join Gym/Class"},
	{Column: "InfluenceDiet", Label: "Diet Change"},
}

// DefaultRename shortens the RoutineImpact answers.
var DefaultRename = []RenameRule{
	{From: "Positively impacted my fitness routine", To: "Positive impact"},
	{From: "No impact on my fitness routine", To: "No impact"},
	{From: "Negatively impacted my fitness routine", To: "Negative impact"},
	{From: "I don't know", To: "Don't know"},
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// LoadFile reads a YAML configuration file and fills unset fields with defaults.
// An empty path returns Default().
func LoadFile(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Fields.Age == "" {
		c.Fields.Age = "Age"
	}
	if c.Fields.ExerciseFr == "" {
		c.Fields.ExerciseFr = "ExerciseFreq"
	}
	if c.Fields.UseFreq == "" {
		c.Fields.UseFreq = "WearableUseFreq"
	}
	if c.Fields.Engagement == "" {
		c.Fields.Engagement = "Engagement"
	}
	if c.Fields.Impact == "" {
		c.Fields.Impact = "RoutineImpact"
	}
	if len(c.Questions) == 0 {
		c.Questions = append([]Question(nil), DefaultQuestions...)
	}
	if len(c.Scale) == 0 {
		c.Scale = append([]string(nil), DefaultScale...)
	}
	if c.Rename == nil {
		c.Rename = append([]RenameRule(nil), DefaultRename...)
	}
	if c.Charts.Width <= 0 {
		c.Charts.Width = 960
	}
	if c.Charts.BarHeight <= 0 {
		c.Charts.BarHeight = 500
	}
	if c.Charts.SankeyHeight <= 0 {
		c.Charts.SankeyHeight = 500
	}
	if c.Charts.HeatmapWidth <= 0 {
		c.Charts.HeatmapWidth = 600
	}
	if c.Charts.HeatmapHeight <= 0 {
		c.Charts.HeatmapHeight = 350
	}
}

// Validate checks the invariants the aggregators rely on.
func (c *Config) Validate() error {
	if len(c.Scale) != 5 {
		return fmt.Errorf("response scale must have 5 entries, got %d", len(c.Scale))
	}
	seen := make(map[string]bool, len(c.Questions))
	for _, q := range c.Questions {
		if q.Column == "" || q.Label == "" {
			return fmt.Errorf("question needs both column and label: %+v", q)
		}
		if seen[q.Label] {
			return fmt.Errorf("duplicate question label %q", q.Label)
		}
		seen[q.Label] = true
	}
	return nil
}

// RenameMap returns the impact rename rules as a lookup table.
func (c *Config) RenameMap() map[string]string {
	m := make(map[string]string, len(c.Rename))
	for _, r := range c.Rename {
		m[r.From] = r.To
	}
	return m
}

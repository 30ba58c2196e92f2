package collector

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/wearable-insights-go/internal/config"
	"github.com/user/wearable-insights-go/internal/source"
)

const surveyCSV = `Age,ExerciseFreq,WearableUseFreq,Engagement,RoutineImpact,SleepImpact
18-24,Daily,Daily,Agree,Positively impacted my fitness routine,Agree
18-24,Weekly,Daily,Neutral,No impact on my fitness routine,Disagree
25-34,Daily,Weekly,,I don't know,Agree
`

func writeDataset(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNewSurveyCollector(t *testing.T) {
	dir := t.TempDir()
	csvPath := writeDataset(t, dir, "survey.csv", surveyCSV)

	sc, err := NewSurveyCollector(csvPath, nil, nil)
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(sc.DataPath))
	assert.NotNil(t, sc.Config, "nil config falls back to defaults")
	assert.NotNil(t, sc.Logger)

	_, err = NewSurveyCollector(filepath.Join(dir, "missing.csv"), nil, nil)
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = NewSurveyCollector(dir, nil, nil)
	assert.Error(t, err, "directories are rejected")

	txtPath := writeDataset(t, dir, "survey.txt", surveyCSV)
	_, err = NewSurveyCollector(txtPath, nil, nil)
	assert.ErrorIs(t, err, source.ErrUnsupportedFormat)
}

func TestCollect(t *testing.T) {
	csvPath := writeDataset(t, t.TempDir(), "survey.csv", surveyCSV)

	sc, err := NewSurveyCollector(csvPath, config.Default(), nil)
	require.NoError(t, err)
	d, err := sc.Collect()
	require.NoError(t, err)

	assert.Len(t, d.Bar, 3)
	assert.Len(t, d.Likert, 50)
	assert.Equal(t, 1, d.Drops.FlowIncomplete, "row with an empty engagement answer")
	assert.Len(t, d.Flow.Edges, 4)

	meta := d.Metadata
	assert.Equal(t, Version, meta.Collector.Version)
	assert.False(t, meta.Collector.DateCollected.IsZero())
	assert.Equal(t, runtime.Version(), meta.Collector.GoVersion)
	assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, meta.Collector.Platform)
	assert.Equal(t, csvPath, meta.Dataset.Path)
	assert.Equal(t, "csv", meta.Dataset.Format)
	assert.Equal(t, 3, meta.Dataset.RecordCount)
}

func TestCollectEmptyFile(t *testing.T) {
	csvPath := writeDataset(t, t.TempDir(), "empty.csv", "")

	sc, err := NewSurveyCollector(csvPath, nil, nil)
	require.NoError(t, err)
	_, err = sc.Collect()
	assert.ErrorIs(t, err, source.ErrNoHeader)
}

func TestCollectRecordsGitRevision(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	dir := t.TempDir()
	for _, args := range [][]string{
		{"init"},
		{"config", "user.name", "Test User"},
		{"config", "user.email", "test@example.com"},
		{"config", "commit.gpgsign", "false"},
	} {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		require.NoError(t, cmd.Run(), "git %v", args)
	}
	csvPath := writeDataset(t, dir, "survey.csv", surveyCSV)
	for _, args := range [][]string{{"add", "survey.csv"}, {"commit", "-m", "Add survey export"}} {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		require.NoError(t, cmd.Run(), "git %v", args)
	}

	sc, err := NewSurveyCollector(csvPath, nil, nil)
	require.NoError(t, err)
	d, err := sc.Collect()
	require.NoError(t, err)

	rev := d.Metadata.Dataset.Revision
	require.NotNil(t, rev)
	assert.Equal(t, "survey.csv", rev.RelativePath)
	assert.Equal(t, rev.HeadSHA, rev.LastSHA)
	assert.Equal(t, "Test User (test@example.com)", rev.LastAuthor)
}

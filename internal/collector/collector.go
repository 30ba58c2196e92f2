package collector

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"time"

	"github.com/user/wearable-insights-go/internal/aggregate"
	"github.com/user/wearable-insights-go/internal/config"
	"github.com/user/wearable-insights-go/internal/models"
	"github.com/user/wearable-insights-go/internal/source"
	"github.com/user/wearable-insights-go/pkg/gitutil"
	"golang.org/x/sync/errgroup"
)

const Version = "0.1.0-go" // Or set during build with -ldflags

// SurveyCollector loads a survey export and turns it into a Dashboard.
type SurveyCollector struct {
	DataPath string
	Config   *config.Config
	Logger   *slog.Logger
}

// NewSurveyCollector checks that dataPath points at a readable file of a
// supported format.
func NewSurveyCollector(dataPath string, cfg *config.Config, logger *slog.Logger) (*SurveyCollector, error) {
	absPath, err := filepath.Abs(dataPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path for dataset: %w", err)
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat dataset %s: %w", absPath, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("dataset path %s is a directory", absPath)
	}
	if _, err := source.Format(absPath); err != nil {
		return nil, err
	}

	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SurveyCollector{DataPath: absPath, Config: cfg, Logger: logger}, nil
}

// Collect reads the dataset once and builds every derived table. The git
// provenance lookup runs alongside the load; its failure only costs the
// Revision field.
func (sc *SurveyCollector) Collect() (*models.Dashboard, error) {
	var (
		g        errgroup.Group
		records  []models.Record
		revision *models.DatasetRevision
	)
	g.Go(func() error {
		rev, err := gitutil.DatasetRevision(sc.DataPath)
		switch {
		case err == nil:
			revision = rev
		case errors.Is(err, gitutil.ErrNotInRepository), errors.Is(err, gitutil.ErrUntracked):
			sc.Logger.Debug("dataset has no git history", "path", sc.DataPath, "reason", err)
		default:
			sc.Logger.Warn("could not read dataset git history", "path", sc.DataPath, "error", err)
		}
		return nil
	})
	g.Go(func() error {
		sc.Logger.Info("loading dataset", "path", sc.DataPath)
		var err error
		records, err = source.LoadFile(sc.DataPath, sc.Config.Sheet)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load dataset: %w", err)
	}

	dashboard := aggregate.Build(records, sc.Config, sc.Logger)
	dashboard.Metadata = sc.metadata(len(records), revision)
	return &dashboard, nil
}

func (sc *SurveyCollector) metadata(recordCount int, revision *models.DatasetRevision) models.Metadata {
	userName := "unknown"
	if currentUser, err := user.Current(); err == nil {
		userName = currentUser.Username
	}
	hostname, _ := os.Hostname()
	format, _ := source.Format(sc.DataPath)

	return models.Metadata{
		Collector: models.CollectorMetadata{
			Version:       Version,
			DateCollected: time.Now().UTC(),
			User:          userName,
			Hostname:      hostname,
			Platform:      fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
			GoVersion:     runtime.Version(),
		},
		Dataset: models.DatasetMetadata{
			Path:        sc.DataPath,
			Format:      format,
			RecordCount: recordCount,
			Revision:    revision,
		},
	}
}

package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/user/wearable-insights-go/internal/collector"
	"github.com/user/wearable-insights-go/internal/config"
	"github.com/user/wearable-insights-go/internal/models"
	"github.com/user/wearable-insights-go/internal/report"
	"github.com/user/wearable-insights-go/internal/server"
)

var (
	// Used for flags.
	configPath     string
	outputFilePath string
	outputDir      string
	chartWidth     float64
	listenAddr     string

	logger *slog.Logger

	rootCmd = &cobra.Command{
		Use:   "wearable-insights",
		Short: "Wearable Insights charts a fitness-wearable survey export.",
		Long: `Reads a fitness-wearable survey export (CSV or XLSX) and produces three
charts: respondents by age group and exercise frequency, a flow from wearable
use through engagement to routine impact, and a heatmap of the Likert answers.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("failed to load .env: %w", err)
			}
			logger = newLogger(cmd.ErrOrStderr(), os.Getenv("LOG_LEVEL"))
			slog.SetDefault(logger)
			if configPath == "" {
				configPath = os.Getenv("WEARABLE_CONFIG")
			}
			return nil
		},
	}

	renderCmd = &cobra.Command{
		Use:   "render [DATA_PATH]",
		Short: "Writes bar.svg, sankey.svg and heatmap.svg.",
		Long: `Aggregates the survey at DATA_PATH once and draws each chart as a standalone
SVG file in the output directory. --width redraws every chart at that width.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, dashboard, err := collect(args[0])
			if err != nil {
				return err
			}

			absOutputDir, err := filepath.Abs(outputDir)
			if err != nil {
				return fmt.Errorf("invalid output directory '%s': %w", outputDir, err)
			}
			adapter := &report.SvgDirAdapter{Charts: cfg.Charts, Width: chartWidth}
			if err := adapter.PrepareData(dashboard); err != nil {
				return fmt.Errorf("failed to render charts: %w", err)
			}
			if err := adapter.Write(absOutputDir); err != nil {
				return fmt.Errorf("failed to write charts to %s: %w", absOutputDir, err)
			}
			for _, path := range adapter.Files(absOutputDir) {
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			}
			return nil
		},
	}

	reportCmd = &cobra.Command{
		Use:   "report [DATA_PATH] [html|json]",
		Short: "Generates an HTML dashboard or a JSON dump of the derived tables.",
		Long: `Writes a self-contained HTML page with every chart inlined, or the derived
tables as JSON. --width draws the HTML charts at that width.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			reportFormat := args[1]
			if reportFormat != "html" && reportFormat != "json" {
				return fmt.Errorf("invalid report format '%s'. Must be 'html' or 'json'", reportFormat)
			}

			cfg, dashboard, err := collect(args[0])
			if err != nil {
				return err
			}

			path := outputFilePath
			if path == "" {
				path = fmt.Sprintf("wearable-report.%s", reportFormat)
			}
			absOutputFilePath, err := filepath.Abs(path)
			if err != nil {
				return fmt.Errorf("invalid output file path '%s': %w", path, err)
			}

			adapter, err := report.NewAdapter(reportFormat, cfg.Charts, chartWidth)
			if err != nil {
				return err
			}
			if err := adapter.PrepareData(dashboard); err != nil {
				return fmt.Errorf("failed to prepare %s report data: %w", reportFormat, err)
			}
			if err := adapter.Write(absOutputFilePath); err != nil {
				return fmt.Errorf("failed to write %s report to %s: %w", reportFormat, absOutputFilePath, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s report generated successfully: %s\n", strings.ToUpper(reportFormat), absOutputFilePath)
			return nil
		},
	}

	summaryCmd = &cobra.Command{
		Use:   "summary [DATA_PATH]",
		Short: "Prints record counts, dropped answers and Likert statistics.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, dashboard, err := collect(args[0])
			if err != nil {
				return err
			}
			return printSummary(cmd.OutOrStdout(), dashboard)
		},
	}

	serveCmd = &cobra.Command{
		Use:   "serve [DATA_PATH]",
		Short: "Serves the dashboard and per-chart SVGs over HTTP.",
		Long: `Aggregates the survey once, then serves:
  GET /                          dashboard page
  GET /charts/{kind}.svg?width=N bar, sankey or heatmap redrawn at width N
  GET /api/dashboard             derived tables as JSON
  GET /healthz                   liveness`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, dashboard, err := collect(args[0])
			if err != nil {
				return err
			}

			addr := listenAddr
			if addr == "" {
				port := os.Getenv("PORT")
				if port == "" {
					port = "8080"
				}
				addr = ":" + port
			}

			srv, err := server.New(dashboard, cfg.Charts, logger)
			if err != nil {
				return err
			}
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			return srv.ListenAndServe(ctx, addr)
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML survey layout (default $WEARABLE_CONFIG, else built-in)")

	renderCmd.Flags().StringVarP(&outputDir, "output-dir", "o", ".", "Directory for the SVG files")
	renderCmd.Flags().Float64Var(&chartWidth, "width", 0, "Chart width; clamped to 320..4000 (default from config)")
	reportCmd.Flags().StringVarP(&outputFilePath, "output-file-path", "o", "", "Output file path for the report")
	reportCmd.Flags().Float64Var(&chartWidth, "width", 0, "HTML chart width; clamped to 320..4000 (default from config)")
	serveCmd.Flags().StringVar(&listenAddr, "addr", "", "Listen address (default :$PORT, else :8080)")

	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(serveCmd)
}

func newLogger(w io.Writer, level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

// collect loads the configuration and builds the dashboard for dataPath.
func collect(dataPath string) (*config.Config, *models.Dashboard, error) {
	cfg, err := config.LoadFile(configPath)
	if err != nil {
		return nil, nil, err
	}
	col, err := collector.NewSurveyCollector(dataPath, cfg, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize collector for %s: %w", dataPath, err)
	}
	dashboard, err := col.Collect()
	if err != nil {
		return nil, nil, fmt.Errorf("error during data collection for %s: %w", dataPath, err)
	}
	return cfg, dashboard, nil
}

func printSummary(w io.Writer, d *models.Dashboard) error {
	meta := d.Metadata.Dataset
	fmt.Fprintf(w, "Dataset:   %s (%s)\n", meta.Path, meta.Format)
	if rev := meta.Revision; rev != nil {
		fmt.Fprintf(w, "Revision:  %s @ %.8s, last changed %s by %s\n",
			rev.Branch, rev.LastSHA, humanize.Time(rev.LastDate), rev.LastAuthor)
	}
	fmt.Fprintf(w, "Records:   %s\n", humanize.Comma(int64(meta.RecordCount)))
	fmt.Fprintf(w, "Flow:      %d nodes, %d edges (%s records missing a flow answer)\n",
		len(d.Flow.Nodes), len(d.Flow.Edges), humanize.Comma(int64(d.Drops.FlowIncomplete)))
	fmt.Fprintf(w, "Likert:    %s answers outside the agreement scale\n\n",
		humanize.Comma(int64(d.Drops.LikertUnrecognized)))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Question\tRespondents\tMean\tMedian\tStd Dev\tAgree\t")
	for _, s := range d.LikertSummary {
		fmt.Fprintf(tw, "%s\t%d\t%.2f\t%.1f\t%.2f\t%.0f%%\t\n",
			s.Question, s.Respondents, s.Mean, s.Median, s.StdDev, s.AgreeShare*100)
	}
	return tw.Flush()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

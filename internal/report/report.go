package report

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/user/wearable-insights-go/internal/chart"
	"github.com/user/wearable-insights-go/internal/config"
	"github.com/user/wearable-insights-go/internal/models"
)

//go:embed templates/*.html
var templateFiles embed.FS

var funcMap = template.FuncMap{
	"FormatDateTime": func(t time.Time) string {
		return t.Format("2006-01-02 15:04:05 MST")
	},
	"ShortSha": func(sha string) string {
		if len(sha) > 8 {
			return sha[:8]
		}
		return sha
	},
	"Percent": func(share float64) string {
		return fmt.Sprintf("%.0f%%", share*100)
	},
	"Comma": func(n int) string {
		return humanize.Comma(int64(n))
	},
	"Fixed": func(v float64) string {
		return fmt.Sprintf("%.2f", v)
	},
}

var dashboardTmpl = template.Must(template.New("dashboard.html").Funcs(funcMap).ParseFS(templateFiles, "templates/dashboard.html"))

// ReportAdapter defines the interface for generating different report formats.
type ReportAdapter interface {
	PrepareData(d *models.Dashboard) error
	Write(outputPath string) error
}

// NewAdapter returns the file adapter for format: "html" or "json". width is
// passed to the HTML charts; zero keeps the configured sizes.
func NewAdapter(format string, charts config.ChartsConfig, width float64) (ReportAdapter, error) {
	switch format {
	case "html":
		return &HtmlReportAdapter{Charts: charts, Width: width}, nil
	case "json":
		return &JsonReportAdapter{}, nil
	default:
		return nil, fmt.Errorf("invalid report format %q: must be 'html' or 'json'", format)
	}
}

// --- JSON Report Adapter ---

// JsonReportAdapter writes the derived tables and metadata as JSON.
type JsonReportAdapter struct {
	reportData []byte
}

// PrepareData marshals the dashboard.
func (jra *JsonReportAdapter) PrepareData(d *models.Dashboard) error {
	jsonData, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal data to JSON: %w", err)
	}
	jra.reportData = append(jsonData, '\n')
	return nil
}

// Write saves the JSON report data to the specified output file.
func (jra *JsonReportAdapter) Write(outputPath string) error {
	return writeFile(outputPath, jra.reportData)
}

// --- HTML Report Adapter ---

// HtmlReportAdapter renders a single page with every chart inlined as SVG.
// Width overrides Charts.Width when positive.
//
// With ChartBase set (e.g. "/charts") the page is live: each chart also points
// at ChartBase/<kind>.svg and a script re-requests it at the container width on
// load and on every window resize. Without it the page is self-contained.
type HtmlReportAdapter struct {
	Charts    config.ChartsConfig
	Width     float64
	ChartBase string
	reportBuf bytes.Buffer
}

type chartSection struct {
	Kind  chart.Kind
	Title string
	Src   string
	SVG   template.HTML
}

// PrepareData renders the charts and executes the page template.
func (hra *HtmlReportAdapter) PrepareData(d *models.Dashboard) error {
	sections := make([]chartSection, 0, len(chart.Kinds))
	for _, kind := range chart.Kinds {
		svgData, err := RenderChart(kind, d, hra.size(kind))
		if err != nil {
			return err
		}
		section := chartSection{
			Kind:  kind,
			Title: kind.Title(),
			SVG:   template.HTML(svgData), // generated by our renderers, labels already escaped
		}
		if hra.ChartBase != "" {
			section.Src = strings.TrimSuffix(hra.ChartBase, "/") + "/" + string(kind) + ".svg"
		}
		sections = append(sections, section)
	}

	templateData := struct {
		Data   *models.Dashboard
		Charts []chartSection
		Live   bool
	}{
		Data:   d,
		Charts: sections,
		Live:   hra.ChartBase != "",
	}

	hra.reportBuf.Reset()
	if err := dashboardTmpl.Execute(&hra.reportBuf, templateData); err != nil {
		return fmt.Errorf("failed to execute HTML template: %w", err)
	}
	return nil
}

func (hra *HtmlReportAdapter) size(kind chart.Kind) chart.Size {
	if hra.Width > 0 {
		return chart.SizeForWidth(kind, hra.Charts, hra.Width)
	}
	return chart.DefaultSize(kind, hra.Charts)
}

// WriteTo copies the rendered page to w.
func (hra *HtmlReportAdapter) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(hra.reportBuf.Bytes())
	return int64(n), err
}

// Write saves the HTML report data to the specified output file.
func (hra *HtmlReportAdapter) Write(outputPath string) error {
	return writeFile(outputPath, hra.reportBuf.Bytes())
}

// --- SVG Directory Adapter ---

// SvgDirAdapter writes one <kind>.svg file per chart into a directory.
type SvgDirAdapter struct {
	Charts config.ChartsConfig
	Width  float64
	files  map[chart.Kind][]byte
}

// PrepareData renders every chart.
func (sda *SvgDirAdapter) PrepareData(d *models.Dashboard) error {
	sda.files = make(map[chart.Kind][]byte, len(chart.Kinds))
	for _, kind := range chart.Kinds {
		size := chart.DefaultSize(kind, sda.Charts)
		if sda.Width > 0 {
			size = chart.SizeForWidth(kind, sda.Charts, sda.Width)
		}
		svgData, err := RenderChart(kind, d, size)
		if err != nil {
			return err
		}
		sda.files[kind] = svgData
	}
	return nil
}

// Write creates outputDir if needed and writes the SVG files into it.
func (sda *SvgDirAdapter) Write(outputDir string) error {
	if sda.files == nil {
		return fmt.Errorf("no charts rendered: call PrepareData first")
	}
	for _, kind := range chart.Kinds {
		if err := writeFile(filepath.Join(outputDir, string(kind)+".svg"), sda.files[kind]); err != nil {
			return err
		}
	}
	return nil
}

// Files returns the output paths Write produces under outputDir.
func (sda *SvgDirAdapter) Files(outputDir string) []string {
	paths := make([]string, 0, len(chart.Kinds))
	for _, kind := range chart.Kinds {
		paths = append(paths, filepath.Join(outputDir, string(kind)+".svg"))
	}
	return paths
}

// RenderChart draws one chart of d into memory.
func RenderChart(kind chart.Kind, d *models.Dashboard, size chart.Size) ([]byte, error) {
	r, err := chart.New(kind, d)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := r.Render(&buf, size); err != nil {
		return nil, fmt.Errorf("failed to render %s chart: %w", kind, err)
	}
	return buf.Bytes(), nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for report file %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report file %s: %w", path, err)
	}
	return nil
}

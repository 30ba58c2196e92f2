package models

import "time"

// Record is one parsed survey row: header name to raw cell value.
type Record map[string]string

// Get returns the raw value of field, or "" when the column is absent.
func (r Record) Get(field string) string {
	return r[field]
}

// Dashboard is the immutable result of one aggregation pass. Every chart is
// rendered from it; nothing re-reads the raw records after it is built.
type Dashboard struct {
	Metadata      Metadata        `json:"metadata"`
	Bar           []BarDatum      `json:"bar"`
	Likert        []LikertDatum   `json:"likert"`
	LikertSummary []LikertSummary `json:"likert_summary"`
	Flow          FlowGraph       `json:"flow"`
	Drops         Drops           `json:"drops"`
}

// Metadata holds information about the collection run and the dataset.
type Metadata struct {
	Collector CollectorMetadata `json:"collector"`
	Dataset   DatasetMetadata   `json:"dataset"`
}

// CollectorMetadata contains details about the execution environment.
type CollectorMetadata struct {
	Version       string    `json:"version"`
	DateCollected time.Time `json:"date_collected"`
	User          string    `json:"user"`
	Hostname      string    `json:"hostname"`
	Platform      string    `json:"platform"`
	GoVersion     string    `json:"go_version"`
}

// DatasetMetadata describes the survey export the dashboard was built from.
type DatasetMetadata struct {
	Path        string           `json:"path"`
	Format      string           `json:"format"`
	RecordCount int              `json:"record_count"`
	Revision    *DatasetRevision `json:"revision,omitempty"`
}

// DatasetRevision is set when the dataset file is tracked in a git repository.
type DatasetRevision struct {
	RepoRoot     string    `json:"repo_root"`
	RelativePath string    `json:"relative_path"`
	Branch       string    `json:"branch"`
	HeadSHA      string    `json:"head_sha"`
	LastSHA      string    `json:"last_sha"`    // last commit touching the file
	LastDate     time.Time `json:"last_date"`
	LastAuthor   string    `json:"last_author"` // Format: "Name (email)"
}

// Drops counts per-record anomalies that were excluded rather than failing the run.
type Drops struct {
	FlowIncomplete     int `json:"flow_incomplete"`     // records missing a flow field
	LikertUnrecognized int `json:"likert_unrecognized"` // answers outside the response scale
}

// BarDatum is one (age group, exercise frequency) bucket.
type BarDatum struct {
	Age   string `json:"age"`
	Freq  string `json:"freq"`
	Count int    `json:"count"`
}

// LikertDatum is the number of respondents giving Response to Question.
type LikertDatum struct {
	Question string `json:"question"`
	Response string `json:"response"`
	Count    int    `json:"count"`
}

// LikertSummary holds per-question statistics over recognised answers,
// scored 1..len(scale) by position in the response scale.
type LikertSummary struct {
	Question    string  `json:"question"`
	Respondents int     `json:"respondents"`
	Mean        float64 `json:"mean"`
	Median      float64 `json:"median"`
	StdDev      float64 `json:"std_dev"`
	AgreeShare  float64 `json:"agree_share"`
}

// Stage is the column of the flow diagram a node belongs to.
type Stage string

const (
	StageUse        Stage = "use"
	StageEngagement Stage = "engagement"
	StageImpact     Stage = "impact"
)

// Column returns the left-to-right position of the stage.
func (s Stage) Column() int {
	switch s {
	case StageUse:
		return 0
	case StageEngagement:
		return 1
	default:
		return 2
	}
}

// FlowNode is a distinct answer value in the flow diagram.
type FlowNode struct {
	Name  string `json:"name"`
	Stage Stage  `json:"stage"`
}

// FlowEdge links two nodes by index into FlowGraph.Nodes.
type FlowEdge struct {
	Source int `json:"source"`
	Target int `json:"target"`
	Weight int `json:"weight"`
}

// FlowGraph is the use -> engagement -> impact multigraph with parallel edges merged.
type FlowGraph struct {
	Nodes []FlowNode `json:"nodes"`
	Edges []FlowEdge `json:"edges"`
}

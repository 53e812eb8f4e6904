package site

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/stigaview/stigaview/internal/catalog"
	"github.com/stigaview/stigaview/internal/metrics"
)

const (
	ReportFile        = "build-report.json"
	ReportSummaryFile = "build-report.txt"
	reportSchema      = 1
)

// Phase is the position of a build in its Parsed → Rendering → Complete life
// cycle.
type Phase string

const (
	PhaseParsed    Phase = "parsed"
	PhaseRendering Phase = "rendering"
	PhaseComplete  Phase = "complete"
)

// BuildOutcome is the final result of a build.
type BuildOutcome string

const (
	OutcomeSuccess  BuildOutcome = "success"
	OutcomeFailed   BuildOutcome = "failed"
	OutcomeCanceled BuildOutcome = "canceled"
)

// StageCount aggregates outcomes for a stage.
type StageCount struct {
	Success  int `json:"success"`
	Fatal    int `json:"fatal"`
	Canceled int `json:"canceled"`
}

// BuildReport captures what a site build did.
type BuildReport struct {
	SchemaVersion   int
	BuildID         string
	Start           time.Time
	End             time.Time
	Phase           Phase
	Outcome         BuildOutcome
	Products        int
	Stigs           int
	Controls        int
	SRGs            int
	RenderedPages   int
	LatestAliases   int
	LinksChecked    int
	Errors          []error
	StageDurations  map[StageName]time.Duration
	StageErrorKinds map[StageName]StageErrorKind
	StageCounts     map[StageName]StageCount
	Templates       map[string]TemplateInfo
}

func newBuildReport(cat *catalog.Catalog) *BuildReport {
	r := &BuildReport{
		SchemaVersion:   reportSchema,
		BuildID:         uuid.NewString(),
		Start:           time.Now(),
		Phase:           PhaseParsed,
		StageDurations:  make(map[StageName]time.Duration),
		StageErrorKinds: make(map[StageName]StageErrorKind),
		StageCounts:     make(map[StageName]StageCount),
		Templates:       make(map[string]TemplateInfo),
	}
	r.Products, r.Stigs, r.Controls, r.SRGs = cat.Counts()
	return r
}

func (r *BuildReport) fail(se *StageError) {
	r.Errors = append(r.Errors, se)
	r.StageErrorKinds[se.Stage] = se.Kind
}

// recordStageResult updates stage counters and emits the matching metric.
func (r *BuildReport) recordStageResult(stage StageName, res metrics.ResultLabel, recorder metrics.Recorder) {
	sc := r.StageCounts[stage]
	switch res {
	case metrics.ResultSuccess:
		sc.Success++
	case metrics.ResultFatal:
		sc.Fatal++
	case metrics.ResultCanceled:
		sc.Canceled++
	}
	r.StageCounts[stage] = sc
	recorder.IncStageResult(string(stage), res)
}

func (r *BuildReport) finish() {
	r.End = time.Now()
	r.deriveOutcome()
	if r.Outcome == OutcomeSuccess {
		r.Phase = PhaseComplete
	}
}

func (r *BuildReport) deriveOutcome() {
	for _, e := range r.Errors {
		if se, ok := e.(*StageError); ok && se.Kind == StageErrorCanceled {
			r.Outcome = OutcomeCanceled
			return
		}
	}
	if len(r.Errors) > 0 {
		r.Outcome = OutcomeFailed
		return
	}
	r.Outcome = OutcomeSuccess
}

// Summary returns a one-line human readable summary.
func (r *BuildReport) Summary() string {
	return fmt.Sprintf("build=%s products=%d stigs=%d controls=%d srgs=%d pages=%d duration=%s outcome=%s",
		r.BuildID, r.Products, r.Stigs, r.Controls, r.SRGs, r.RenderedPages,
		r.End.Sub(r.Start).Truncate(time.Millisecond), r.Outcome)
}

// Persist writes build-report.json and build-report.txt into root, each via
// a temporary file and rename.
func (r *BuildReport) Persist(root string) error {
	if r.End.IsZero() {
		r.finish()
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return fmt.Errorf("ensure root for report: %w", err)
	}
	jb, err := json.MarshalIndent(r.serializable(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report json: %w", err)
	}
	if err := writeAtomic(filepath.Join(root, ReportFile), jb); err != nil {
		return err
	}
	return writeAtomic(filepath.Join(root, ReportSummaryFile), []byte(r.Summary()+"\n"))
}

func writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("atomic rename %s: %w", filepath.Base(path), err)
	}
	return nil
}

// BuildReportSerializable is the JSON form of a BuildReport.
type BuildReportSerializable struct {
	SchemaVersion    int                     `json:"schema_version"`
	BuildID          string                  `json:"build_id"`
	Start            time.Time               `json:"start"`
	End              time.Time               `json:"end"`
	Phase            Phase                   `json:"phase"`
	Outcome          BuildOutcome            `json:"outcome"`
	Products         int                     `json:"products"`
	Stigs            int                     `json:"stigs"`
	Controls         int                     `json:"controls"`
	SRGs             int                     `json:"srgs"`
	RenderedPages    int                     `json:"rendered_pages"`
	LatestAliases    int                     `json:"latest_aliases"`
	LinksChecked     int                     `json:"links_checked"`
	Errors           []string                `json:"errors"`
	StageDurationsMS map[string]float64      `json:"stage_durations_ms"`
	StageErrorKinds  map[string]string       `json:"stage_error_kinds"`
	StageCounts      map[string]StageCount   `json:"stage_counts"`
	Templates        map[string]TemplateInfo `json:"templates"`
}

func (r *BuildReport) serializable() *BuildReportSerializable {
	s := &BuildReportSerializable{
		SchemaVersion:    r.SchemaVersion,
		BuildID:          r.BuildID,
		Start:            r.Start,
		End:              r.End,
		Phase:            r.Phase,
		Outcome:          r.Outcome,
		Products:         r.Products,
		Stigs:            r.Stigs,
		Controls:         r.Controls,
		SRGs:             r.SRGs,
		RenderedPages:    r.RenderedPages,
		LatestAliases:    r.LatestAliases,
		LinksChecked:     r.LinksChecked,
		Errors:           make([]string, len(r.Errors)),
		StageDurationsMS: make(map[string]float64, len(r.StageDurations)),
		StageErrorKinds:  make(map[string]string, len(r.StageErrorKinds)),
		StageCounts:      make(map[string]StageCount, len(r.StageCounts)),
		Templates:        r.Templates,
	}
	for i, e := range r.Errors {
		s.Errors[i] = e.Error()
	}
	for k, v := range r.StageDurations {
		s.StageDurationsMS[string(k)] = durationMS(v)
	}
	for k, v := range r.StageErrorKinds {
		s.StageErrorKinds[string(k)] = string(v)
	}
	for k, v := range r.StageCounts {
		s.StageCounts[string(k)] = v
	}
	if s.Templates == nil {
		s.Templates = map[string]TemplateInfo{}
	}
	return s
}

package metrics

import (
	"os"
	"path/filepath"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "stigaview"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	stageDuration  *prom.HistogramVec
	buildDuration  prom.Histogram
	stageResults   *prom.CounterVec
	buildOutcome   *prom.CounterVec
	importDuration *prom.HistogramVec
	importResults  *prom.CounterVec
	pagesRendered  *prom.CounterVec
	catalogSize    *prom.GaugeVec
	workers        prom.Gauge
}

// NewPrometheusRecorder constructs the metrics and registers them on reg.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		stageDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual build stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"}),
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Total build duration",
			Buckets:   prom.DefBuckets,
		}),
		stageResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "stage_results_total",
			Help:      "Stage result counts by outcome",
		}, []string{"stage", "result"}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"}),
		importDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "document_import_duration_seconds",
			Help:      "Duration of individual benchmark document imports",
			Buckets:   prom.DefBuckets,
		}, []string{"product", "result"}),
		importResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "document_imports_total",
			Help:      "Document imports by success/failure",
		}, []string{"result"}),
		pagesRendered: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "pages_rendered_total",
			Help:      "Pages written, by product (empty for global pages)",
		}, []string{"product"}),
		catalogSize: prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "catalog_entities",
			Help:      "Entities in the last built catalog",
		}, []string{"kind"}),
		workers: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "workers",
			Help:      "Worker concurrency of the last build",
		}),
	}
	reg.MustRegister(pr.stageDuration, pr.buildDuration, pr.stageResults, pr.buildOutcome,
		pr.importDuration, pr.importResults, pr.pagesRendered, pr.catalogSize, pr.workers)
	return pr
}

func resultLabel(success bool) string {
	if success {
		return "success"
	}
	return "failed"
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncStageResult(stage string, result ResultLabel) {
	if p == nil {
		return
	}
	p.stageResults.WithLabelValues(stage, string(result)).Inc()
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome BuildOutcomeLabel) {
	if p == nil {
		return
	}
	p.buildOutcome.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) ObserveImportDuration(product string, d time.Duration, success bool) {
	if p == nil {
		return
	}
	res := resultLabel(success)
	p.importDuration.WithLabelValues(product, res).Observe(d.Seconds())
	p.importResults.WithLabelValues(res).Inc()
}

func (p *PrometheusRecorder) AddPagesRendered(product string, n int) {
	if p == nil {
		return
	}
	p.pagesRendered.WithLabelValues(product).Add(float64(n))
}

func (p *PrometheusRecorder) SetCatalogSize(products, stigs, controls, srgs int) {
	if p == nil {
		return
	}
	p.catalogSize.WithLabelValues("products").Set(float64(products))
	p.catalogSize.WithLabelValues("stigs").Set(float64(stigs))
	p.catalogSize.WithLabelValues("controls").Set(float64(controls))
	p.catalogSize.WithLabelValues("srgs").Set(float64(srgs))
}

func (p *PrometheusRecorder) SetWorkers(n int) {
	if p == nil {
		return
	}
	p.workers.Set(float64(n))
}

// WriteTextfile writes every metric gathered from g to path in the text
// exposition format. The parent directory is created when missing.
func WriteTextfile(g prom.Gatherer, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	return prom.WriteToTextfile(path, g)
}

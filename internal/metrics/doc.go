// Package metrics records build observability data.
//
// Components receive a Recorder and default to NoopRecorder, so metrics cost
// nothing unless a PrometheusRecorder is injected:
//
//	reg := prometheus.NewRegistry()
//	rec := metrics.NewPrometheusRecorder(reg)
//	gen := site.NewGenerator(cfg, out).WithRecorder(rec)
//
// Builds are one-shot, so there is no scrape endpoint. WriteTextfile dumps a
// registry in the text exposition format for the node exporter textfile
// collector.
package metrics

// Package metrics provides the observability hooks for documentation runs.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so no call site needs a nil check:
//
//	driver := docgen.NewDriver(...).WithRecorder(metrics.NoopRecorder{})
//
// PrometheusRecorder registers its collectors on a caller-supplied registry.
// Batch runs have no scrape endpoint, so WriteTextfile dumps the registry in
// text exposition format for the node-exporter textfile collector.
package metrics

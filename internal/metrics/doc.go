// Package metrics collects run statistics in a Prometheus registry and
// writes them as a node_exporter textfile when the run ends.
//
// pydocscan is a one-shot command usually started by cron, so nothing is
// served over HTTP; the textfile collector picks up the written file.
package metrics

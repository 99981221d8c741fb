//-------------------------------------------------------------------------
//
// pgEdge Gold Layer Builder
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package metrics collects per-stage build metrics and pushes them to a
// Prometheus Pushgateway once the batch run ends.
package metrics

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

const namespace = "goldlayer"

// DefaultJob is the Pushgateway job name used when none is configured.
const DefaultJob = "pgedge_goldlayer"

// Recorder holds the collectors for one run. A nil *Recorder records
// nothing, so callers need not check whether metrics are enabled.
type Recorder struct {
	reg *prometheus.Registry

	stageDuration *prometheus.GaugeVec
	outputRows    *prometheus.GaugeVec
	failures      *prometheus.CounterVec
	joinDropped   *prometheus.GaugeVec
	lastSuccess   *prometheus.GaugeVec
}

// New creates a recorder with its own registry.
func New() *Recorder {
	r := &Recorder{
		reg: prometheus.NewRegistry(),
		stageDuration: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Wall time of the last run of each stage.",
		}, []string{"stage"}),
		outputRows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stage_output_rows",
			Help:      "Rows committed by the last successful run of each stage.",
		}, []string{"stage"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stage_failures_total",
			Help:      "Stage failures by error kind.",
		}, []string{"stage", "kind"}),
		joinDropped: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "join_dropped_rows",
			Help:      "Input rows without a join partner, by side.",
		}, []string{"stage", "side"}),
		lastSuccess: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stage_last_success_timestamp_seconds",
			Help:      "Unix time of the last successful run of each stage.",
		}, []string{"stage"}),
	}
	r.reg.MustRegister(r.stageDuration, r.outputRows, r.failures, r.joinDropped, r.lastSuccess)
	return r
}

// Registry exposes the recorder's registry.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.reg
}

// StageSucceeded records a committed stage.
func (r *Recorder) StageSucceeded(stage string, rows int64, took time.Duration, at time.Time) {
	if r == nil {
		return
	}
	r.stageDuration.WithLabelValues(stage).Set(took.Seconds())
	r.outputRows.WithLabelValues(stage).Set(float64(rows))
	r.lastSuccess.WithLabelValues(stage).Set(float64(at.Unix()))
}

// StageFailed records a failed or skipped stage.
func (r *Recorder) StageFailed(stage, kind string, took time.Duration) {
	if r == nil {
		return
	}
	r.stageDuration.WithLabelValues(stage).Set(took.Seconds())
	r.failures.WithLabelValues(stage, kind).Inc()
}

// JoinDropped records rows an inner join discarded.
func (r *Recorder) JoinDropped(stage string, left, right int) {
	if r == nil {
		return
	}
	r.joinDropped.WithLabelValues(stage, "left").Set(float64(left))
	r.joinDropped.WithLabelValues(stage, "right").Set(float64(right))
}

// Push sends every collector to the Pushgateway at url, replacing the
// previous push for job.
func (r *Recorder) Push(ctx context.Context, url, job string) error {
	if r == nil || url == "" {
		return nil
	}
	if job == "" {
		job = DefaultJob
	}
	if err := push.New(url, job).Gatherer(r.reg).PushContext(ctx); err != nil {
		return errors.Wrapf(err, "failed to push metrics to %s", url)
	}
	return nil
}

/*
DESCRIPTION
  metrics.go exposes the control loop's Prometheus metrics: AGC convergence
  and degenerate-algorithm counters, plus the delayed-controls queue depth,
  so an operator can watch the 3A loop's health across a long-running
  session.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package metrics exposes Prometheus metrics for the IPA control loop.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the registered collectors for one Orchestrator.
type Metrics struct {
	AgcConvergedFrames   prometheus.Counter
	AgcFrames            prometheus.Counter
	AwbDegenerateFrames  prometheus.Counter
	AfLockedTransitions  prometheus.Counter
	DelayedQueueDepth    prometheus.Gauge
	FrameProcessDuration prometheus.Histogram
}

// New registers a fresh Metrics set against reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		AgcConvergedFrames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ipa",
			Subsystem: "agc",
			Name:      "converged_frames_total",
			Help:      "Frames for which AGC's filtered exposure was within 1% of target.",
		}),
		AgcFrames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ipa",
			Subsystem: "agc",
			Name:      "frames_total",
			Help:      "Frames for which AGC ran.",
		}),
		AwbDegenerateFrames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ipa",
			Subsystem: "awb",
			Name:      "degenerate_frames_total",
			Help:      "Frames for which AWB reused the previous result due to too few valid zones.",
		}),
		AfLockedTransitions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ipa",
			Subsystem: "af",
			Name:      "locked_transitions_total",
			Help:      "Number of times the AF state machine entered Locked.",
		}),
		DelayedQueueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "ipa",
			Subsystem: "delayedctrls",
			Name:      "queue_depth",
			Help:      "Number of queue slots between write_count and queue_count.",
		}),
		FrameProcessDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "ipa",
			Name:      "frame_process_duration_seconds",
			Help:      "Wall-clock time spent in OnStatsReady per frame.",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		m.AgcConvergedFrames,
		m.AgcFrames,
		m.AwbDegenerateFrames,
		m.AfLockedTransitions,
		m.DelayedQueueDepth,
		m.FrameProcessDuration,
	)

	return m
}

// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package observability provides Prometheus metrics for the engine.
//
// # Description
//
// Metrics cover the two things operators watch in this service: how
// often the model output needs repair (and how deep into the pipeline
// each repair goes) and how the generation endpoints behave (request
// counts, LLM latency, kits stored).
//
// # Thread Safety
//
// All metric operations are thread-safe via Prometheus's internal locking.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace for all metrics
const metricsNamespace = "cpe"

// EngineMetrics holds all Prometheus metrics for the engine service.
//
// # Fields
//
//   - RecoveryAttemptsTotal: Counter of recovery runs by final stage and outcome
//   - GenerateRequestsTotal: Counter of generation requests by endpoint and status
//   - LLMLatencySeconds: Histogram of LLM round-trip latency
//   - KitsStored: Counter of kits persisted to history
type EngineMetrics struct {
	// RecoveryAttemptsTotal counts recovery pipeline runs.
	// Labels: stage (extracted..literal_fallback), outcome (success, failure)
	RecoveryAttemptsTotal *prometheus.CounterVec

	// GenerateRequestsTotal counts generation requests.
	// Labels: endpoint (generate, regenerate), status (success, degraded, error)
	GenerateRequestsTotal *prometheus.CounterVec

	// LLMLatencySeconds measures LLM call latency.
	// Labels: backend (ollama, openai)
	LLMLatencySeconds *prometheus.HistogramVec

	// KitsStored counts kits persisted to history.
	KitsStored prometheus.Counter
}

// DefaultMetrics is the singleton instance of EngineMetrics.
// Initialized by InitMetrics().
var DefaultMetrics *EngineMetrics

// InitMetrics initializes the default metrics instance.
//
// # Description
//
// Creates and registers all Prometheus metrics. Should be called once
// at application startup.
//
// # Limitations
//
//   - Panics if called twice (duplicate registration).
func InitMetrics() *EngineMetrics {
	DefaultMetrics = &EngineMetrics{
		RecoveryAttemptsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "recovery_attempts_total",
				Help:      "Total recovery pipeline runs by final stage and outcome",
			},
			[]string{"stage", "outcome"},
		),

		GenerateRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "generate_requests_total",
				Help:      "Total generation requests by endpoint and status",
			},
			[]string{"endpoint", "status"},
		),

		LLMLatencySeconds: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "llm_latency_seconds",
				Help:      "LLM round-trip latency in seconds",
				Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
			},
			[]string{"backend"},
		),

		KitsStored: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "kits_stored_total",
				Help:      "Total kits persisted to history",
			},
		),
	}

	return DefaultMetrics
}

// ObserveRecovery records one recovery pipeline run.
//
// # Inputs
//
//   - stage: The snake_case name of the final stage reached.
//   - ok: Whether the run produced a document.
func (m *EngineMetrics) ObserveRecovery(stage string, ok bool) {
	if m == nil {
		return
	}
	outcome := "failure"
	if ok {
		outcome = "success"
	}
	m.RecoveryAttemptsTotal.WithLabelValues(stage, outcome).Inc()
}

// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package observability provides Prometheus metrics for the support assistant.
//
// # Description
//
// Metrics cover the two long-running concerns of the service:
//   - Historical ingestion (conversations stored, duplicates skipped, errors)
//   - Answer serving (request counts, latency by endpoint)
//
// # Integration
//
// Metrics are exposed via the /metrics endpoint. Use with Prometheus + Grafana
// for dashboards and alerting.
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
const metricsNamespace = "aleutian"

// Subsystem for assistant metrics
const assistantSubsystem = "assistant"

// AssistantMetrics holds all Prometheus metrics for the support assistant.
//
// Initialize once at startup via InitMetrics().
type AssistantMetrics struct {
	// IngestedConversations counts conversations newly written to the store.
	IngestedConversations prometheus.Counter

	// DuplicateSkips counts conversations skipped because their source id
	// was already stored.
	DuplicateSkips prometheus.Counter

	// IngestErrors counts per-item ingestion failures (fetch, normalize, store).
	IngestErrors prometheus.Counter

	// RequestsTotal counts serving requests by endpoint and status.
	// Labels: endpoint (answer, tab_completion, import), status (success, error)
	RequestsTotal *prometheus.CounterVec

	// RequestDurationSeconds measures end-to-end request latency.
	// Labels: endpoint
	RequestDurationSeconds *prometheus.HistogramVec
}

// DefaultMetrics is the singleton instance of AssistantMetrics.
// Initialized by InitMetrics().
var DefaultMetrics *AssistantMetrics

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
func InitMetrics() *AssistantMetrics {
	DefaultMetrics = &AssistantMetrics{
		IngestedConversations: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: assistantSubsystem,
			Name:      "ingested_conversations_total",
			Help:      "Total conversations newly written to the vector store",
		}),

		DuplicateSkips: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: assistantSubsystem,
			Name:      "duplicate_skips_total",
			Help:      "Total conversations skipped because they were already stored",
		}),

		IngestErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: assistantSubsystem,
			Name:      "ingest_errors_total",
			Help:      "Total per-item ingestion failures",
		}),

		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: assistantSubsystem,
				Name:      "requests_total",
				Help:      "Total serving requests by endpoint and status",
			},
			[]string{"endpoint", "status"},
		),

		RequestDurationSeconds: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: assistantSubsystem,
				Name:      "request_duration_seconds",
				Help:      "End-to-end request latency in seconds",
				Buckets:   []float64{0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0},
			},
			[]string{"endpoint"},
		),
	}

	return DefaultMetrics
}

// Endpoint represents a serving endpoint for metrics labeling.
type Endpoint string

const (
	// EndpointAnswer is the RAG answer endpoint.
	EndpointAnswer Endpoint = "answer"

	// EndpointTabCompletion is the tab-completion endpoint.
	EndpointTabCompletion Endpoint = "tab_completion"

	// EndpointImport is the historical import endpoint.
	EndpointImport Endpoint = "import"
)

// RecordRequest records a completed serving request.
func (m *AssistantMetrics) RecordRequest(endpoint Endpoint, success bool) {
	if m == nil {
		return
	}
	status := "success"
	if !success {
		status = "error"
	}
	m.RequestsTotal.WithLabelValues(string(endpoint), status).Inc()
}

// RecordDuration records end-to-end request latency.
func (m *AssistantMetrics) RecordDuration(endpoint Endpoint, seconds float64) {
	if m == nil {
		return
	}
	m.RequestDurationSeconds.WithLabelValues(string(endpoint)).Observe(seconds)
}

// RecordIngested records one newly stored conversation.
func (m *AssistantMetrics) RecordIngested() {
	if m == nil {
		return
	}
	m.IngestedConversations.Inc()
}

// RecordDuplicateSkip records one dedup no-op.
func (m *AssistantMetrics) RecordDuplicateSkip() {
	if m == nil {
		return
	}
	m.DuplicateSkips.Inc()
}

// RecordIngestError records one per-item ingestion failure.
func (m *AssistantMetrics) RecordIngestError() {
	if m == nil {
		return
	}
	m.IngestErrors.Inc()
}

// Package metrics provides the operation metrics recorded by every service.
package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ServiceMetrics records attempts, outcomes and latency of service operations.
type ServiceMetrics interface {
	RecordOperationAttempt(ctx context.Context, operation, service string)
	RecordOperationSuccess(ctx context.Context, operation, service string)
	RecordOperationFailure(ctx context.Context, operation, service string)
	RecordOperationDuration(ctx context.Context, operation, service string, duration time.Duration)
}

type noop struct{}

// NewNoop returns metrics that discard everything.
func NewNoop() ServiceMetrics { return noop{} }

func (noop) RecordOperationAttempt(context.Context, string, string)                 {}
func (noop) RecordOperationSuccess(context.Context, string, string)                 {}
func (noop) RecordOperationFailure(context.Context, string, string)                 {}
func (noop) RecordOperationDuration(context.Context, string, string, time.Duration) {}

// Prometheus implements ServiceMetrics on Prometheus collectors.
type Prometheus struct {
	attempts  *prometheus.CounterVec
	successes *prometheus.CounterVec
	failures  *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	gatherer  prometheus.Gatherer
}

// NewPrometheus registers the operation collectors on a fresh registry.
func NewPrometheus(namespace string) (*Prometheus, error) {
	reg := prometheus.NewRegistry()
	labels := []string{"service", "operation"}

	p := &Prometheus{
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operation_attempts_total",
			Help:      "Service operations started.",
		}, labels),
		successes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operation_success_total",
			Help:      "Service operations that completed without an infrastructure error.",
		}, labels),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operation_failures_total",
			Help:      "Service operations that failed or panicked.",
		}, labels),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Service operation latency.",
			Buckets:   prometheus.DefBuckets,
		}, labels),
		gatherer: reg,
	}

	for _, c := range []prometheus.Collector{
		p.attempts, p.successes, p.failures, p.duration,
		collectors.NewGoCollector(),
	} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register collector: %w", err)
		}
	}
	return p, nil
}

func (p *Prometheus) RecordOperationAttempt(_ context.Context, operation, service string) {
	p.attempts.WithLabelValues(service, operation).Inc()
}

func (p *Prometheus) RecordOperationSuccess(_ context.Context, operation, service string) {
	p.successes.WithLabelValues(service, operation).Inc()
}

func (p *Prometheus) RecordOperationFailure(_ context.Context, operation, service string) {
	p.failures.WithLabelValues(service, operation).Inc()
}

func (p *Prometheus) RecordOperationDuration(_ context.Context, operation, service string, duration time.Duration) {
	p.duration.WithLabelValues(service, operation).Observe(duration.Seconds())
}

// Handler exposes the registry for scraping.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.gatherer, promhttp.HandlerOpts{})
}

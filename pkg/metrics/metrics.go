// Package metrics counts submissions, validation failures and catalog loads.
// The program is interactive and exposes no endpoint, so the registry is
// written to a node_exporter textfile on exit.
package metrics

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/goliatone/go-sendmoney/pkg/session"
	"github.com/goliatone/go-sendmoney/pkg/transaction"
)

const namespace = "sendmoney"

// Metrics owns a private registry so tests and embedders do not collide
// with the global one.
type Metrics struct {
	registry           *prometheus.Registry
	submissions        *prometheus.CounterVec
	validationFailures *prometheus.CounterVec
	catalogLoads       *prometheus.CounterVec
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		submissions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "submissions_total",
				Help:      "Transaction records appended to the log.",
			},
			[]string{"service", "provider", "status"},
		),
		validationFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "validation_failures_total",
				Help:      "Field validation failures by reason.",
			},
			[]string{"reason"},
		),
		catalogLoads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "catalog_loads_total",
				Help:      "Catalog load attempts by outcome.",
			},
			[]string{"status"},
		),
	}
	m.registry.MustRegister(m.submissions, m.validationFailures, m.catalogLoads)
	return m
}

// Registry exposes the registry for gathering.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Appender counts appends made through next.
func (m *Metrics) Appender(next transaction.Appender) transaction.Appender {
	return &countingAppender{next: next, metrics: m}
}

// ObserveValidation counts the failures carried by err, if any.
func (m *Metrics) ObserveValidation(err error) {
	var verr *session.ValidationError
	if !errors.As(err, &verr) {
		return
	}
	for _, failure := range verr.Failures {
		m.validationFailures.WithLabelValues(string(failure.Reason)).Inc()
	}
}

// ObserveCatalogLoad counts one catalog load.
func (m *Metrics) ObserveCatalogLoad(err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.catalogLoads.WithLabelValues(status).Inc()
}

// WriteTextfile writes the registry in the text exposition format. The file
// is replaced atomically.
func (m *Metrics) WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("metrics: write textfile: %w", err)
	}
	return nil
}

type countingAppender struct {
	next    transaction.Appender
	metrics *Metrics
}

func (a *countingAppender) Append(ctx context.Context, record transaction.Record) error {
	err := a.next.Append(ctx, record)
	status := "ok"
	if err != nil {
		status = "error"
	}
	a.metrics.submissions.WithLabelValues(record.ServiceName, record.ProviderName, status).Inc()
	return err
}

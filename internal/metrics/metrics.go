// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package metrics exposes Prometheus instrumentation for the generation
// pipeline and the checkout flow.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Pipeline holds the process-wide metrics. Construct once at startup;
// a nil *Pipeline is safe to record against so tests can omit it.
type Pipeline struct {
	generationsTotal     *prometheus.CounterVec
	stageDuration        *prometheus.HistogramVec
	productsCreatedTotal prometheus.Counter
	ordersCreatedTotal   prometheus.Counter
	ordersPaidTotal      prometheus.Counter
}

// Generation outcomes recorded on the generations_total counter.
const (
	OutcomeOK      = "ok"
	OutcomeBlocked = "blocked"
	OutcomeError   = "error"
)

// NewPipeline registers the pipeline metrics on the default registry.
func NewPipeline() *Pipeline {
	return &Pipeline{
		generationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "popshop_generations_total",
				Help: "Generation requests by outcome.",
			},
			[]string{"outcome"},
		),
		stageDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "popshop_generation_stage_duration_seconds",
				Help:    "Duration of each generation pipeline stage.",
				Buckets: []float64{.1, .5, 1, 2.5, 5, 10, 30, 60, 120, 300},
			},
			[]string{"stage"},
		),
		productsCreatedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "popshop_products_created_total",
			Help: "Products created by the generation pipeline.",
		}),
		ordersCreatedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "popshop_orders_created_total",
			Help: "Checkout sessions opened.",
		}),
		ordersPaidTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "popshop_orders_paid_total",
			Help: "Orders reconciled to paid by webhook events.",
		}),
	}
}

// RecordGeneration counts one finished generation request.
func (m *Pipeline) RecordGeneration(outcome string) {
	if m == nil {
		return
	}
	m.generationsTotal.WithLabelValues(outcome).Inc()
}

// ObserveStage records the elapsed time of one pipeline stage.
func (m *Pipeline) ObserveStage(stage string, start time.Time) {
	if m == nil {
		return
	}
	m.stageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

// RecordProducts counts products created by a successful stage 5.
func (m *Pipeline) RecordProducts(n int) {
	if m == nil {
		return
	}
	m.productsCreatedTotal.Add(float64(n))
}

// RecordOrderCreated counts one opened checkout session.
func (m *Pipeline) RecordOrderCreated() {
	if m == nil {
		return
	}
	m.ordersCreatedTotal.Inc()
}

// RecordOrderPaid counts one order flipped to paid.
func (m *Pipeline) RecordOrderPaid() {
	if m == nil {
		return
	}
	m.ordersPaidTotal.Inc()
}

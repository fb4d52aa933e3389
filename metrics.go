package main

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry          *prometheus.Registry
	httpRequestsTotal *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	daysScored        prometheus.Counter
	noRecordDays      prometheus.Counter
	slotsMatched      prometheus.Counter
	slotsSkipped      prometheus.Counter
	slotsUnavailable  prometheus.Counter
}

func newMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total count of HTTP requests processed by route and status.",
		}, []string{"route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		daysScored: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "attendance_days_scored_total",
			Help: "Total calendar days scored.",
		}),
		noRecordDays: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "attendance_no_record_days_total",
			Help: "Total scored days where no period had attendance taken.",
		}),
		slotsMatched: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "transfer_slots_matched_total",
			Help: "Total requested transfer slots found in the current schedule.",
		}),
		slotsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "transfer_slots_skipped_total",
			Help: "Total requested transfer slots missing from the current schedule.",
		}),
		slotsUnavailable: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "transfer_slots_unavailable_total",
			Help: "Total matched transfer slots without any replacement candidate.",
		}),
	}

	m.registry.MustRegister(
		m.httpRequestsTotal,
		m.httpDuration,
		m.daysScored,
		m.noRecordDays,
		m.slotsMatched,
		m.slotsSkipped,
		m.slotsUnavailable,
	)
	return m
}

func (m *Metrics) ObserveRequest(route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(route).Observe(duration.Seconds())
}

func (m *Metrics) SummaryBuilt(report SummaryReport) {
	if m == nil {
		return
	}
	m.daysScored.Add(float64(report.Summary.Days))
	m.noRecordDays.Add(float64(report.Summary.NoRecordDays))
}

func (m *Metrics) TransferPlanned(plan TransferPlan) {
	if m == nil {
		return
	}
	m.slotsMatched.Add(float64(plan.Summary.Matched))
	m.slotsSkipped.Add(float64(plan.Summary.Skipped))
	m.slotsUnavailable.Add(float64(plan.Summary.Unavailable))
}

func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

// Package telemetry holds the Prometheus collectors and the zap logger
// constructor used across the service.
//
// HTTP metrics are labelled with the gin route template (c.FullPath()), not the
// raw URL, so ids in paths do not blow up label cardinality.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests processed, by method, route template, and status code.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request latencies, by method and route template.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)
)

// Domain outcomes.
var (
	// RegistrationsTotal counts user registrations by outcome
	// (created, duplicate, invalid, seed_missing, error).
	RegistrationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "user_registrations_total",
			Help: "User registrations by outcome.",
		},
		[]string{"outcome"},
	)

	// MembershipsTotal counts add-user-to-organization calls by outcome
	// (added, already_member, not_found, invalid, error).
	MembershipsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "organization_memberships_total",
			Help: "Add-user-to-organization requests by outcome.",
		},
		[]string{"outcome"},
	)

	// OrganizationsCreatedTotal counts organization creates by outcome
	// (created, duplicate, invalid, error).
	OrganizationsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "organizations_created_total",
			Help: "Organization create requests by outcome.",
		},
		[]string{"outcome"},
	)

	AuditWriteFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "audit_write_failures_total",
			Help: "Audit entries that could not be persisted.",
		},
	)
)

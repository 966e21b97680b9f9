package project

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ProjectWrites counts committed project writes
	ProjectWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "homepage_project_writes_total",
			Help: "Total number of committed project writes",
		},
		[]string{"operation"}, // "create", "update", "delete"
	)

	// OwnershipRejections counts mutations refused because the caller is not the owner
	OwnershipRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "homepage_project_ownership_rejections_total",
			Help: "Total number of project mutations rejected by the ownership check",
		},
		[]string{"operation"}, // "update", "delete"
	)
)

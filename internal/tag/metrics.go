package tag

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TagInserts counts EnsureTags outcomes per name
	TagInserts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "homepage_tag_inserts_total",
			Help: "Tag names passed to the registry by outcome",
		},
		[]string{"result"}, // "created", "existing"
	)

	// TagDeletes counts tag deletions that removed a tag
	TagDeletes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "homepage_tag_deletes_total",
			Help: "Total number of tags deleted",
		},
	)
)

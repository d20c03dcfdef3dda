package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	documentsIngested = promauto.NewCounter(prometheus.CounterOpts{
		Name: "qaforge_documents_ingested_total",
		Help: "Documents successfully processed and indexed.",
	})
	chunksIndexed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "qaforge_chunks_indexed_total",
		Help: "Chunks upserted into the vector store.",
	})
	queriesServed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "qaforge_queries_total",
		Help: "Retrieval-grounded queries by outcome.",
	}, []string{"kind", "outcome"})
	queryDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "qaforge_query_duration_seconds",
		Help:    "End-to-end latency of retrieval-grounded queries.",
		Buckets: prometheus.DefBuckets,
	})
)

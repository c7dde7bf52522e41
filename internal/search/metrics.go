package search

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	searchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "booksearch_searches_total",
		Help: "Searches run, by outcome",
	}, []string{"outcome"})

	fetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "booksearch_fetch_duration_seconds",
		Help:    "Duration of catalog requests in seconds",
		Buckets: prometheus.DefBuckets,
	})

	skippedItems = promauto.NewCounter(prometheus.CounterOpts{
		Name: "booksearch_decode_skipped_items_total",
		Help: "Catalog items dropped because they had no readable title",
	})
)

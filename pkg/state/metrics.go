package state

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	noSearches = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slaskdiscovery_searches_total",
		Help: "The total number of completed first page searches",
	})
	noNextPages = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slaskdiscovery_next_pages_total",
		Help: "The total number of appended result pages",
	})
	noFetchErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slaskdiscovery_fetch_errors_total",
		Help: "The total number of failed search requests",
	})
	noStaleResponses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slaskdiscovery_stale_responses_total",
		Help: "The total number of responses discarded because a newer request was issued",
	})
	loadedCards = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "slaskdiscovery_loaded_cards",
		Help: "The number of course cards currently held",
	})
)

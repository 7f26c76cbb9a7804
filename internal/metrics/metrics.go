package metrics

import (
	"fmt"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"net/http"
)

var (
	ErrorsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "board_errors_total",
			Help: "Total number of logged warnings and errors.",
		},
		[]string{"type"},
	)
	BookmarkTogglesCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "board_bookmark_toggles_total",
			Help: "Total number of bookmark toggles.",
		},
	)
	BookmarkPersistFailuresCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "board_bookmark_persist_failures_total",
			Help: "Total number of failed bookmark saves.",
		},
	)
	DerivationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "board_derivation_duration_seconds",
			Help:    "Duration of the filter and sort stages in seconds.",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
		},
	)
	DerivationCacheCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "board_derivation_cache_total",
			Help: "Derivation cache lookups by result.",
		},
		[]string{"result"},
	)
	SearchCommitsCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "board_search_commits_total",
			Help: "Total number of debounced search query commits.",
		},
	)
)

func StartMetricsServer(port int) {

	prometheus.MustRegister(ErrorsCounter)
	prometheus.MustRegister(BookmarkTogglesCounter)
	prometheus.MustRegister(BookmarkPersistFailuresCounter)
	prometheus.MustRegister(DerivationDuration)
	prometheus.MustRegister(DerivationCacheCounter)
	prometheus.MustRegister(SearchCommitsCounter)

	if port == 0 {
		return
	}

	http.Handle("/metrics", promhttp.Handler())
	go func() {
		log.Fatal(http.ListenAndServe(fmt.Sprintf(":%d", port), nil))
	}()
}

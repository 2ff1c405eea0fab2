package service

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	SeedRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seed_runs_total",
			Help: "Total initialize runs by result",
		},
		[]string{"result"},
	)
	SeedInserted = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "seed_records_inserted",
			Help: "Records stored by the last successful initialize",
		},
	)
	SeedDropped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "seed_records_dropped_total",
			Help: "Dataset rows dropped during initialize",
		},
	)
	CacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_cache_lookups_total",
			Help: "Aggregation cache lookups by outcome",
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(SeedRuns, SeedInserted, SeedDropped, CacheLookups)
}

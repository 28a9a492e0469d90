package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ServiceName = "compsbackend"
)

var (
	MatchConsumeDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    prometheus.BuildFQName(ServiceName, "ingest", "consume_duration_seconds"),
		Help:    "Duration of match task consumption in seconds",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 10),
	}, []string{})
	RealismRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: prometheus.BuildFQName(ServiceName, "aggregate", "realism_rejections_total"),
		Help: "Compositions rejected by the realism filter, by verifier",
	}, []string{"verifier"})
	WorkerCalcDuration = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: prometheus.BuildFQName(ServiceName, "worker", "calc_duration_seconds"),
		Help: "Duration of last worker calculation in seconds",
	}, []string{"service", "region"})
	MergeDegradedRegions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: prometheus.BuildFQName(ServiceName, "merge", "degraded_regions_total"),
		Help: "Region fetches that failed and were skipped during a merge",
	}, []string{"region"})
)

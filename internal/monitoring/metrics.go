package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const METRICS_NAMESPACE = "ulasan"

var (
	CommentsLabeled = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: METRICS_NAMESPACE,
		Name:      "comments_labeled_total",
		Help:      "Comments labeled, by sentiment.",
	}, []string{"sentiment"})

	CommentsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: METRICS_NAMESPACE,
		Name:      "comments_dropped_total",
		Help:      "Comments with no usable words after normalization.",
	})

	CommentsDeduped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: METRICS_NAMESPACE,
		Name:      "comments_deduped_total",
		Help:      "Redelivered comments skipped because they were already labeled.",
	})

	BatchesPublished = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: METRICS_NAMESPACE,
		Name:      "batches_published_total",
		Help:      "Labeled batches written to Kafka.",
	})

	ConsumerFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: METRICS_NAMESPACE,
		Name:      "consumer_failures_total",
		Help:      "Consumer failures, by stage.",
	}, []string{"reason"})

	DependencyUp = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: METRICS_NAMESPACE,
		Name:      "dependency_up",
		Help:      "1 when the last health check of a dependency passed.",
	}, []string{"name"})
)

const (
	FAILURE_DECODE  = "decode"
	FAILURE_LABEL   = "label"
	FAILURE_PUBLISH = "publish"
	FAILURE_DEDUPE  = "dedupe"
	FAILURE_COMMIT  = "commit"
)

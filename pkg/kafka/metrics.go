package kafka

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	consumerMessagesProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_kafka_consumer_messages_processed_total",
			Help: "Kafka messages handled successfully.",
		},
		[]string{"topic", "consumer_group"},
	)

	consumerMessagesFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_kafka_consumer_messages_failed_total",
			Help: "Kafka messages skipped after exhausting handler retries or failing to decode.",
		},
		[]string{"topic", "consumer_group"},
	)

	producerMessagesPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_kafka_producer_messages_published_total",
			Help: "Kafka messages published.",
		},
		[]string{"topic"},
	)

	producerPublishErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_kafka_producer_publish_errors_total",
			Help: "Kafka publish failures.",
		},
		[]string{"topic"},
	)
)

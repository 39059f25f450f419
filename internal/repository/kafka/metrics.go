package kafka

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	produced = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kafka_messages_produced_total", Help: "Messages written.",
	}, []string{"topic"})
	producedErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kafka_produce_errors_total", Help: "Failed writes.",
	}, []string{"topic"})
	consumed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kafka_messages_consumed_total", Help: "Messages fetched.",
	}, []string{"topic"})
	handlerErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kafka_handler_errors_total", Help: "Messages whose handler failed.",
	}, []string{"topic"})
)

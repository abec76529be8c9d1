package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "farmops_messages_total",
			Help: "Messages handled, by channel and direction",
		},
		[]string{"channel", "direction"},
	)

	CommandsParsed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "farmops_commands_parsed_total",
			Help: "Successfully interpreted commands, by intent and confidence",
		},
		[]string{"intent", "confidence"},
	)

	ParseFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "farmops_parse_failures_total",
			Help: "Messages that produced no command, by failure reason",
		},
		[]string{"reason"},
	)

	CommandDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "farmops_command_duration_seconds",
			Help: "Duration of command execution in seconds",
		},
		[]string{"intent"},
	)
)

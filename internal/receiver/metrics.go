package receiver

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/simplesurance/hooksink/internal/logfields"
)

const metricNamespace = "hooksink_receiver"

const (
	receivedMetricName = "received_deliveries_total"
	outcomesMetricName = "processed_deliveries_total"
)

const outcomeLabel = "outcome"

type outcomeLabelVal string

const (
	outcomeLabelStoredVal       outcomeLabelVal = "stored"
	outcomeLabelDeduplicatedVal outcomeLabelVal = "deduplicated"
	outcomeLabelUnsupportedVal  outcomeLabelVal = "unsupported"
	outcomeLabelRejectedVal     outcomeLabelVal = "rejected"
	outcomeLabelFailedVal       outcomeLabelVal = "failed"
)

type metricCollector struct {
	logger   *zap.Logger
	received prometheus.Counter
	outcomes *prometheus.CounterVec
}

var metrics = newMetricCollector()

func newMetricCollector() *metricCollector {
	return &metricCollector{
		logger: zap.L().Named(loggerName).Named("metrics"),
		received: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricNamespace,
				Name:      receivedMetricName,
				Help:      "count of received github webhook http requests",
			},
		),
		outcomes: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricNamespace,
				Name:      outcomesMetricName,
				Help:      "count of processed github webhook deliveries per outcome",
			},
			[]string{outcomeLabel},
		),
	}
}

func (m *metricCollector) ReceivedInc() {
	m.received.Inc()
}

func (m *metricCollector) OutcomeInc(outcome outcomeLabelVal) {
	cnt, err := m.outcomes.GetMetricWith(prometheus.Labels{outcomeLabel: string(outcome)})
	if err != nil {
		m.logger.Warn(
			"could not record metric",
			zap.String("metric", outcomesMetricName),
			logfields.Event("recording_metric_failed"),
			zap.Error(err),
		)

		return
	}

	cnt.Inc()
}

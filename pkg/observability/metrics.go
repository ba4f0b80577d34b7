// Package observability provides prometheus metrics and OpenTelemetry spans
// for the conversion pipeline.
package observability

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Conversion status label values.
const (
	StatusSuccess = "success"
	StatusEmpty   = "empty"
	StatusFailed  = "failed"
)

// ConversionMetrics holds all Prometheus metrics for document conversion.
type ConversionMetrics struct {
	ConversionsTotal  *prometheus.CounterVec
	UtterancesTotal   *prometheus.CounterVec
	SpeakersTotal     *prometheus.CounterVec
	IconsTotal        *prometheus.CounterVec
	ConversionSeconds *prometheus.HistogramVec
}

// DefaultConversionMetrics creates metrics on the default registerer.
func DefaultConversionMetrics() *ConversionMetrics {
	return NewConversionMetrics(prometheus.DefaultRegisterer)
}

// NewConversionMetrics creates a new set of conversion metrics on reg.
func NewConversionMetrics(reg prometheus.Registerer) *ConversionMetrics {
	factory := promauto.With(reg)

	return &ConversionMetrics{
		ConversionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chatview_conversions_total",
				Help: "Total documents converted, by detected layout and outcome",
			},
			[]string{"layout", "status"},
		),
		UtterancesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chatview_utterances_total",
				Help: "Total utterances emitted after merging",
			},
			[]string{"layout"},
		),
		SpeakersTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chatview_speakers_total",
				Help: "Total distinct speakers assigned a role",
			},
			[]string{"layout"},
		),
		IconsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chatview_icons_resolved_total",
				Help: "Total speaker portraits resolved from documents",
			},
			[]string{"mode"},
		),
		ConversionSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "chatview_conversion_seconds",
				Help:    "Wall time to convert one document",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"layout"},
		),
	}
}

// RecordConversion records the outcome of one document.
func (m *ConversionMetrics) RecordConversion(layout, status string, seconds float64) {
	m.ConversionsTotal.WithLabelValues(layout, status).Inc()
	m.ConversionSeconds.WithLabelValues(layout).Observe(seconds)
}

// RecordUtterances records the number of utterances emitted.
func (m *ConversionMetrics) RecordUtterances(layout string, count int) {
	m.UtterancesTotal.WithLabelValues(layout).Add(float64(count))
}

// RecordSpeakers records the number of distinct speakers.
func (m *ConversionMetrics) RecordSpeakers(layout string, count int) {
	m.SpeakersTotal.WithLabelValues(layout).Add(float64(count))
}

// RecordIcons records portraits resolved in the given icon mode.
func (m *ConversionMetrics) RecordIcons(mode string, count int) {
	m.IconsTotal.WithLabelValues(mode).Add(float64(count))
}

// WriteTextfile writes every metric in g to path in the text exposition
// format, for node_exporter's textfile collector or later inspection.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("writing metrics file: %w", err)
	}
	return nil
}

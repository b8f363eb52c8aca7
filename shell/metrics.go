package shell

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

const (
	outcomeSuccess = "success"
	outcomeError   = "error"
)

// Metrics shell 的命令指标，注册在每个 Shell 独立的 registry 上
type Metrics struct {
	commandCounter  *prometheus.CounterVec
	commandDuration *prometheus.HistogramVec
}

func NewMetrics(registerer prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		commandCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "minidb_commands_total",
				Help: "Total number of commands executed by the shell",
			},
			[]string{"command", "outcome"},
		),
		commandDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "minidb_command_duration_seconds",
				Help:    "Duration of shell commands in seconds",
				Buckets: []float64{0.00001, 0.0001, 0.001, 0.01, 0.1, 1.0},
			},
			[]string{"command"},
		),
	}

	for _, c := range []prometheus.Collector{m.commandCounter, m.commandDuration} {
		if err := registerer.Register(c); err != nil {
			return nil, errors.Wrap(err, "register collector failed")
		}
	}
	return m, nil
}

func (m *Metrics) observe(command string, outcome string, seconds float64) {
	m.commandCounter.WithLabelValues(command, outcome).Inc()
	m.commandDuration.WithLabelValues(command).Observe(seconds)
}

// writeStats 输出 gatherer 中的计数器和仪表盘，直方图只输出样本数
func writeStats(w io.Writer, gatherer prometheus.Gatherer) error {
	families, err := gatherer.Gather()
	if err != nil {
		return errors.Wrap(err, "gather metrics failed")
	}

	for _, family := range families {
		for _, metric := range family.GetMetric() {
			name := family.GetName()
			var value float64
			switch family.GetType() {
			case dto.MetricType_COUNTER:
				value = metric.GetCounter().GetValue()
			case dto.MetricType_GAUGE:
				value = metric.GetGauge().GetValue()
			case dto.MetricType_HISTOGRAM:
				name += "_count"
				value = float64(metric.GetHistogram().GetSampleCount())
			default:
				continue
			}
			if _, err := fmt.Fprintf(w, "%s%s %v\n", name, formatLabels(metric.GetLabel()), value); err != nil {
				return errors.Wrap(err, "write stats failed")
			}
		}
	}
	return nil
}

func formatLabels(labels []*dto.LabelPair) string {
	if len(labels) == 0 {
		return ""
	}
	pairs := make([]string, 0, len(labels))
	for _, label := range labels {
		pairs = append(pairs, fmt.Sprintf("%s=%q", label.GetName(), label.GetValue()))
	}
	sort.Strings(pairs)
	return "{" + strings.Join(pairs, ",") + "}"
}

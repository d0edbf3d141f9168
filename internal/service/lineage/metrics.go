package lineage

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/heartmarshall/crm-lineage/internal/domain"
)

const metricsNamespace = "crm_lineage"

// Metrics holds the tracker's Prometheus collectors. A nil *Metrics records
// nothing.
type Metrics struct {
	conversions *prometheus.CounterVec
	chainHops   *prometheus.HistogramVec
	truncations *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		conversions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "conversions_recorded_total",
			Help:      "Conversion records appended, by source and target type.",
		}, []string{"source_type", "target_type"}),
		chainHops: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "chain_hops",
			Help:      "Conversion edges followed per chain walk.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21, 50},
		}, []string{"direction"}),
		truncations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "chain_truncations_total",
			Help:      "Chain walks that stopped early, by reason.",
		}, []string{"direction", "reason"}),
	}

	for _, c := range []prometheus.Collector{m.conversions, m.chainHops, m.truncations} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) conversionRecorded(source, target domain.EntityType) {
	if m == nil {
		return
	}
	m.conversions.WithLabelValues(string(source), string(target)).Inc()
}

func (m *Metrics) chainWalked(dir domain.Direction, hops int, truncated domain.TruncateReason) {
	if m == nil {
		return
	}
	m.chainHops.WithLabelValues(dir.String()).Observe(float64(hops))
	if truncated != domain.TruncateNone {
		m.truncations.WithLabelValues(dir.String(), string(truncated)).Inc()
	}
}

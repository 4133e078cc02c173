package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// InventoryLevels is the set of aggregates published as gauges.
type InventoryLevels struct {
	Gold           int
	MLByColor      map[string]int
	Potions        int
	PotionCapacity int
	MLCapacity     int
	Negatives      int
}

// InventoryMetrics exposes the latest audited inventory as gauges.
type InventoryMetrics struct {
	gold           prometheus.Gauge
	ml             *prometheus.GaugeVec
	potions        prometheus.Gauge
	potionCapacity prometheus.Gauge
	mlCapacity     prometheus.Gauge
	negatives      prometheus.Counter
}

// NewInventoryMetrics registers the inventory gauges on the provided registerer.
func NewInventoryMetrics(reg prometheus.Registerer) *InventoryMetrics {
	if reg == nil {
		return &InventoryMetrics{}
	}
	m := &InventoryMetrics{
		gold: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace, Name: "gold", Help: "Current gold balance.",
		}),
		ml: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: Namespace, Name: "ml", Help: "Current raw ml by color.",
		}, []string{"color"}),
		potions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace, Name: "potions", Help: "Bottled potions in stock.",
		}),
		potionCapacity: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace, Name: "potion_capacity", Help: "Potion slot capacity.",
		}),
		mlCapacity: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace, Name: "ml_capacity", Help: "Raw ml capacity.",
		}),
		negatives: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace, Name: "negative_aggregates_total", Help: "Audits that found an aggregate below zero.",
		}),
	}
	reg.MustRegister(m.gold, m.ml, m.potions, m.potionCapacity, m.mlCapacity, m.negatives)
	return m
}

// Set publishes one audit.
func (m *InventoryMetrics) Set(levels InventoryLevels) {
	if m == nil || m.gold == nil {
		return
	}
	m.gold.Set(float64(levels.Gold))
	for color, ml := range levels.MLByColor {
		m.ml.WithLabelValues(normalizeLabel(color)).Set(float64(ml))
	}
	m.potions.Set(float64(levels.Potions))
	m.potionCapacity.Set(float64(levels.PotionCapacity))
	m.mlCapacity.Set(float64(levels.MLCapacity))
	if levels.Negatives > 0 {
		m.negatives.Add(float64(levels.Negatives))
	}
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// ClientCollector adapts a Registry into a real prometheus.Collector so it
// can be served by github.com/prometheus/client_golang's promhttp.Handler.
// It exists because the working CLI wires a genuine client_golang registry
// at --metrics.addr rather than hand-formatting exposition text.
type ClientCollector struct {
	registry  *Registry
	namespace string
}

// NewClientCollector wraps registry for use with a prometheus.Registerer.
func NewClientCollector(registry *Registry, namespace string) *ClientCollector {
	return &ClientCollector{registry: registry, namespace: namespace}
}

// Describe implements prometheus.Collector. Metric names are dynamic
// (registered on first access), so no descriptors are sent up front; this
// makes the collector unchecked, same tradeoff client_golang itself accepts
// for its own dynamic collectors.
func (c *ClientCollector) Describe(chan<- *prometheus.Desc) {}

// Collect implements prometheus.Collector, translating the current
// Registry snapshot into prometheus.Metric values.
func (c *ClientCollector) Collect(ch chan<- prometheus.Metric) {
	for name, value := range c.registry.Snapshot() {
		fqName := prometheus.BuildFQName(c.namespace, "", sanitizeName(name))
		switch v := value.(type) {
		case int64:
			ch <- prometheus.MustNewConstMetric(
				prometheus.NewDesc(fqName, name, nil, nil),
				prometheus.GaugeValue,
				float64(v),
			)
		case map[string]interface{}:
			for stat, raw := range v {
				f, ok := raw.(float64)
				if !ok {
					continue
				}
				statFQName := prometheus.BuildFQName(c.namespace, "", sanitizeName(name)+"_"+stat)
				ch <- prometheus.MustNewConstMetric(
					prometheus.NewDesc(statFQName, name+" "+stat, nil, nil),
					prometheus.GaugeValue,
					f,
				)
			}
		}
	}
}

func sanitizeName(name string) string {
	out := make([]byte, len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c == '.' || c == '-' {
			out[i] = '_'
		} else {
			out[i] = c
		}
	}
	return string(out)
}

// Package metric provides Prometheus metrics for rifsredis.
package metric

import "github.com/prometheus/client_golang/prometheus"

// Sizer reports the number of stored keys.
type Sizer interface {
	Len() int
}

// StoreCollector samples the store size at scrape time.
type StoreCollector struct {
	store Sizer
	keys  *prometheus.Desc
}

// NewStoreCollector creates a collector for the given store.
func NewStoreCollector(store Sizer) *StoreCollector {
	return &StoreCollector{
		store: store,
		keys: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "store", "keys"),
			"Number of keys currently held in the store.",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *StoreCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.keys
}

// Collect implements prometheus.Collector.
func (c *StoreCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.keys, prometheus.GaugeValue, float64(c.store.Len()))
}

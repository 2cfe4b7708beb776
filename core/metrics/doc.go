// Package metrics defines the per-generation statistics of an evolution run
// and the sink interface they are recorded through. Concrete sinks
// (Prometheus, InfluxDB) live in infra/metrics and are instantiated from
// configuration through the factory registry.
package metrics

// Package metrics defines the Prometheus collectors exported by the
// service. All collectors are registered via promauto at package init and
// exposed on the /metrics endpoint.
package metrics

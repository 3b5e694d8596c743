// Package metrics provides Prometheus metrics for LED control-file I/O and
// LED state changes.
package metrics

// Namespace prefixes every metric exported by the daemon.
const Namespace = "bbled"

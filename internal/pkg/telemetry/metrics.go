package telemetry

// SLI metric names used for instrumentation.
const (
	// Latency
	MetricAPILatencyP50 = "api.latency.p50"
	MetricAPILatencyP95 = "api.latency.p95"
	MetricAPILatencyP99 = "api.latency.p99"

	// Throughput
	MetricRequestsPerSec = "api.requests_per_second"

	// Composition
	MetricComposeLatency = "compose.pipeline_latency"
	MetricMarkerCount    = "compose.markers_per_map"

	// Availability
	MetricUptime = "service.uptime_percentage"

	// Business
	MetricMapsSaved    = "business.maps_saved"
	MetricOrphanSweeps = "business.orphan_sweeps"
	MetricTagsAssigned = "business.tags_assigned"
)

package constants

// Static route constants
const (
	HealthRoute  = "/health"
	MetricsRoute = "/metrics"
)

package metrics

import "time"

// Recorder is what a traffic generator reports after every delivery attempt.
type Recorder interface {
	RecordAttempt(outcome string, success bool, latency time.Duration, itemCount int)
}

// Metrics is the order service side.
type Metrics interface {
	// Business
	RecordOrderIngested(transport, status string)
	RecordDuplicateDropped(transport string)
	RecordUseCaseExecution(useCaseName string, success bool, duration time.Duration)

	// Infrastructure (HTTP & gRPC)
	ObserveHTTPRequestDuration(method, path, statusCode string, duration float64)
	ObserveGRPCRequestDuration(service, method, code string, duration float64)
}

package observability

// Instrument keys shared between the telemetry provider and its consumers.
const (
	MUsecaseRequests      MetricKey = "usecase_requests_total"
	MUsecaseDuration      MetricKey = "usecase_duration_seconds"
	MHTTPRequests         MetricKey = "http_requests_total"
	MHTTPRequestDuration  MetricKey = "http_request_duration_seconds"
	MEventPublishTotal    MetricKey = "event_publish_total"
	MEventPublishDuration MetricKey = "event_publish_duration_seconds"
	MSnapshotSaves        MetricKey = "snapshot_saves_total"
)

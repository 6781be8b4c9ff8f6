package telemetry

import (
	"ibook/internal/infrastructure/observability/prometrics"
	"ibook/internal/observability"
)

// instrument describes a metric known to the application layers. The
// provider registers each one on first use.
type instrument struct {
	help   string
	labels []string
}

var counterDefs = map[observability.MetricKey]instrument{
	observability.MUsecaseRequests:   {help: "Total number of use case invocations.", labels: []string{"use_case", "outcome"}},
	observability.MHTTPRequests:      {help: "Total number of HTTP requests handled.", labels: []string{"method", "route", "status"}},
	observability.MEventPublishTotal: {help: "Count of change events handed to the bus.", labels: []string{"event", "outcome"}},
	observability.MSnapshotSaves:     {help: "Count of catalog snapshot persistence attempts.", labels: []string{"outcome"}},
}

var histogramDefs = map[observability.MetricKey]instrument{
	observability.MUsecaseDuration:      {help: "Duration of use case execution in seconds.", labels: []string{"use_case"}},
	observability.MHTTPRequestDuration:  {help: "Duration of HTTP request handling in seconds.", labels: []string{"method", "route"}},
	observability.MEventPublishDuration: {help: "Duration of event publishing in seconds.", labels: []string{"event"}},
}

type provider struct {
	tracer   observability.Tracer
	logger   observability.Logger
	registry prometrics.Registry
}

// New assembles an Observability backed by the supplied tracer, logger and
// Prometheus registry. Nil arguments degrade to no-ops so callers can wire
// partial telemetry in tests.
func New(tracer observability.Tracer, logger observability.Logger, registry prometrics.Registry) observability.Observability {
	if tracer == nil {
		tracer = observability.NopTracer()
	}
	if logger == nil {
		logger = observability.NopLogger()
	}
	return &provider{tracer: tracer, logger: logger, registry: registry}
}

func (p *provider) Tracer() observability.Tracer { return p.tracer }

func (p *provider) Logger() observability.Logger { return p.logger }

func (p *provider) Metrics() observability.Metrics {
	if p.registry == nil {
		return observability.NopMetrics()
	}
	return &metrics{registry: p.registry}
}

type metrics struct {
	registry prometrics.Registry
}

func (m *metrics) Counter(name observability.MetricKey) observability.Counter {
	def, ok := counterDefs[name]
	if !ok {
		return observability.NopCounter()
	}
	return m.registry.Counter(string(name), def.help, def.labels...)
}

func (m *metrics) Histogram(name observability.MetricKey) observability.Histogram {
	def, ok := histogramDefs[name]
	if !ok {
		return observability.NopHistogram()
	}
	return m.registry.Histogram(string(name), def.help, nil, def.labels...)
}

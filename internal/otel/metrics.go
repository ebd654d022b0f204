package otel

import (
	"context"

	otelapi "go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	MetricDiscoveryCount    = "mfek.module.discovery.count"
	MetricNotificationCount = "mfek.watcher.notification.count"
)

// Meter returns provider's meter, or the global one when provider is nil.
func Meter(provider metric.MeterProvider) metric.Meter {
	if provider == nil {
		provider = otelapi.GetMeterProvider()
	}
	return provider.Meter(InstrumentationName)
}

// RecordDiscovery counts one module lookup by its outcome.
func RecordDiscovery(ctx context.Context, provider metric.MeterProvider, module, status string) {
	counter, err := Meter(provider).Int64Counter(MetricDiscoveryCount,
		metric.WithDescription("Companion module lookups by outcome"))
	if err != nil {
		return
	}
	counter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("mfek.module", module),
		attribute.String("mfek.status", status),
	))
}

// RecordNotification counts one path delivered by a filesystem watch.
func RecordNotification(ctx context.Context, provider metric.MeterProvider) {
	counter, err := Meter(provider).Int64Counter(MetricNotificationCount,
		metric.WithDescription("Written paths delivered to watch consumers"))
	if err != nil {
		return
	}
	counter.Add(ctx, 1)
}

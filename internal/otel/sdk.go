package otel

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"

	otelapi "go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	logglobal "go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/propagation"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdkresource "go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const (
	defaultServiceName  = "mfek"
	defaultHTTPEndpoint = "127.0.0.1:4318"

	EnvSDKEnabled         = "MFEK_OTEL_SDK_ENABLED"
	EnvHTTPEndpoint       = "MFEK_OTEL_HTTP_ENDPOINT"
	EnvServiceName        = "MFEK_OTEL_SERVICE_NAME"
	EnvResourceAttributes = "MFEK_OTEL_RESOURCE_ATTRIBUTES"
)

// SDKOptions configures the OTLP/HTTP exporters. Export is off unless
// MFEK_OTEL_SDK_ENABLED says otherwise.
type SDKOptions struct {
	Enabled            bool
	HTTPEndpoint       string
	ServiceName        string
	ServiceVersion     string
	ResourceAttributes map[string]string
}

func SDKOptionsFromEnv() SDKOptions {
	enabled := false
	if rawEnabled, ok := os.LookupEnv(EnvSDKEnabled); ok {
		if parsed, err := strconv.ParseBool(strings.TrimSpace(rawEnabled)); err == nil {
			enabled = parsed
		}
	}
	serviceName := strings.TrimSpace(os.Getenv(EnvServiceName))
	if serviceName == "" {
		serviceName = defaultServiceName
	}
	return SDKOptions{
		Enabled:            enabled,
		HTTPEndpoint:       strings.TrimSpace(os.Getenv(EnvHTTPEndpoint)),
		ServiceName:        serviceName,
		ResourceAttributes: parseResourceAttributes(os.Getenv(EnvResourceAttributes)),
	}
}

type shutdownFunc func(context.Context) error

// shutdownAll runs every shutdown in reverse order and joins the failures.
func shutdownAll(ctx context.Context, funcs []shutdownFunc) error {
	var errs []error
	for i := len(funcs) - 1; i >= 0; i-- {
		errs = append(errs, funcs[i](ctx))
	}
	return errors.Join(errs...)
}

// SetupSDK installs global trace, metric and log providers exporting over
// OTLP/HTTP. The returned function flushes and shuts them down.
func SetupSDK(ctx context.Context, options SDKOptions) (func(context.Context) error, error) {
	if !options.Enabled {
		return func(context.Context) error { return nil }, nil
	}
	endpoint := cmp.Or(normalizeEndpoint(options.HTTPEndpoint), defaultHTTPEndpoint)

	res, err := sdkresource.New(ctx, sdkresource.WithAttributes(resourceAttributes(options)...))
	if err != nil {
		return nil, fmt.Errorf("otel: resource: %w", err)
	}

	var cleanup []shutdownFunc
	fail := func(stage string, err error) (func(context.Context) error, error) {
		return nil, errors.Join(fmt.Errorf("otel: %s exporter: %w", stage, err), shutdownAll(ctx, cleanup))
	}

	traceExporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpoint(endpoint), otlptracehttp.WithInsecure())
	if err != nil {
		return fail("trace", err)
	}
	cleanup = append(cleanup, traceExporter.Shutdown)

	metricExporter, err := otlpmetrichttp.New(ctx, otlpmetrichttp.WithEndpoint(endpoint), otlpmetrichttp.WithInsecure())
	if err != nil {
		return fail("metric", err)
	}
	cleanup = append(cleanup, metricExporter.Shutdown)

	logExporter, err := otlploghttp.New(ctx, otlploghttp.WithEndpoint(endpoint), otlploghttp.WithInsecure())
	if err != nil {
		return fail("log", err)
	}

	// Providers own their exporters from here on.
	tracerProvider := sdktrace.NewTracerProvider(sdktrace.WithResource(res), sdktrace.WithBatcher(traceExporter))
	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter)),
	)
	loggerProvider := sdklog.NewLoggerProvider(
		sdklog.WithResource(res),
		sdklog.WithProcessor(sdklog.NewBatchProcessor(logExporter)),
	)

	otelapi.SetTracerProvider(tracerProvider)
	otelapi.SetMeterProvider(meterProvider)
	logglobal.SetLoggerProvider(loggerProvider)
	otelapi.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	providers := []shutdownFunc{loggerProvider.Shutdown, meterProvider.Shutdown, tracerProvider.Shutdown}
	return func(shutdownCtx context.Context) error {
		return shutdownAll(shutdownCtx, providers)
	}, nil
}

func resourceAttributes(options SDKOptions) []attribute.KeyValue {
	attrs := []attribute.KeyValue{semconvServiceName.String(options.ServiceName)}
	if version := strings.TrimSpace(options.ServiceVersion); version != "" {
		attrs = append(attrs, semconvServiceVersion.String(version))
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		attrs = append(attrs, semconvHostName.String(host))
	}
	for _, key := range slices.Sorted(maps.Keys(options.ResourceAttributes)) {
		if name := strings.TrimSpace(key); name != "" {
			attrs = append(attrs, attribute.String(name, options.ResourceAttributes[key]))
		}
	}
	return attrs
}

var (
	semconvServiceName    = attribute.Key("service.name")
	semconvServiceVersion = attribute.Key("service.version")
	semconvHostName       = attribute.Key("host.name")
)

// parseResourceAttributes reads "k=v,k=v"; pairs without '=' or with an
// empty key are ignored.
func parseResourceAttributes(raw string) map[string]string {
	var attributes map[string]string
	for pair := range strings.SplitSeq(raw, ",") {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			continue
		}
		if attributes == nil {
			attributes = make(map[string]string)
		}
		attributes[key] = strings.TrimSpace(value)
	}
	return attributes
}

// normalizeEndpoint strips the scheme and trailing slashes; the exporters
// want host:port.
func normalizeEndpoint(raw string) string {
	endpoint := strings.TrimSpace(raw)
	for _, scheme := range []string{"http://", "https://"} {
		endpoint = strings.TrimPrefix(endpoint, scheme)
	}
	return strings.TrimRight(endpoint, "/")
}

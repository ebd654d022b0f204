package logging

import (
	"context"

	otellog "go.opentelemetry.io/otel/log"
	logglobal "go.opentelemetry.io/otel/log/global"
)

const instrumentationName = "mfek/internal/logging"

func emitOTel(entry LogEntry) {
	logger := logglobal.GetLoggerProvider().Logger(instrumentationName)
	severity := otelSeverity(entry.Level)
	ctx := context.Background()
	if !logger.Enabled(ctx, otellog.EnabledParameters{Severity: severity}) {
		return
	}

	var record otellog.Record
	record.SetTimestamp(entry.Timestamp)
	record.SetObservedTimestamp(entry.Timestamp)
	record.SetSeverity(severity)
	record.SetSeverityText(string(entry.Level))
	record.SetBody(otellog.StringValue(entry.Message))
	for key, value := range entry.Context {
		record.AddAttributes(otellog.String(key, value))
	}
	logger.Emit(ctx, record)
}

func otelSeverity(level Level) otellog.Severity {
	switch level {
	case LevelDebug:
		return otellog.SeverityDebug
	case LevelWarning:
		return otellog.SeverityWarn
	case LevelError:
		return otellog.SeverityError
	default:
		return otellog.SeverityInfo
	}
}

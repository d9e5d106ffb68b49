package database

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/VedantYeola/Wear-Story/pkg/database"

type slowQueryLog struct {
	threshold time.Duration
	logger    *slog.Logger
}

var slowQueries atomic.Pointer[slowQueryLog]

// SetSlowQueryLogging makes TraceQuery warn about statements that take at
// least threshold. A zero threshold or nil logger turns it off.
func SetSlowQueryLogging(threshold time.Duration, logger *slog.Logger) {
	if threshold <= 0 || logger == nil {
		slowQueries.Store(nil)
		return
	}
	slowQueries.Store(&slowQueryLog{threshold: threshold, logger: logger})
}

// TraceQuery opens a client span named db.<operation>. Call the returned
// func with the operation's error once it finishes:
//
//	ctx, end := database.TraceQuery(ctx, "ListItems", query)
//	defer func() { end(err) }()
func TraceQuery(ctx context.Context, operation, statement string) (context.Context, func(error)) {
	start := time.Now()
	ctx, span := otel.Tracer(tracerName).Start(ctx, "db."+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "postgresql"),
			attribute.String("db.operation", operation),
			attribute.String("db.statement", statement),
		),
	)

	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		logIfSlow(ctx, operation, statement, time.Since(start), err)
	}
}

func logIfSlow(ctx context.Context, operation, statement string, took time.Duration, err error) {
	cfg := slowQueries.Load()
	if cfg == nil || took < cfg.threshold {
		return
	}
	attrs := []any{
		slog.String("operation", operation),
		slog.String("statement", statement),
		slog.Duration("duration", took),
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	cfg.logger.WarnContext(ctx, "slow query", attrs...)
}

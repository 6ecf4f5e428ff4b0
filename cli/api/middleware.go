package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"sync"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-Id"

// requestLog is the [context.Context] key of the per-request [slog.Logger].
type requestLog struct{}

func loggerFrom(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if logger, ok := ctx.Value(requestLog{}).(*slog.Logger); ok {
		return logger
	}
	return fallback
}

// traceRequests gives every request an id, echoed in the response, and a
// logger tagged with that id and the operation. One access line is written
// once the request is served.
func traceRequests(parent *slog.Logger) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		op := ctx.Operation()
		requestID := ctx.Header(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		ctx.SetHeader(requestIDHeader, requestID)

		logger := parent.With(slog.String("request_id", requestID), slog.String("operation", op.OperationID))
		start := time.Now()
		next(huma.WithValue(ctx, requestLog{}, logger))

		logger.LogAttrs(ctx.Context(), slog.LevelInfo, op.Method+" "+op.Path,
			slog.String("proto", ctx.Version().Proto),
			slog.String("from", ctx.RemoteAddr()),
			slog.String("ua", ctx.Header("User-Agent")),
			slog.Int("status", ctx.Status()),
			slog.Duration("dur", time.Since(start)),
		)
	}
}

// recoverPanics answers a panicking operation with 500 and logs the
// recovered value with its stack.
func recoverPanics(fallback *slog.Logger) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		defer func() {
			if v := recover(); v != nil {
				loggerFrom(ctx.Context(), fallback).LogAttrs(ctx.Context(), slog.LevelError, "panic occurred",
					slog.Any("recovered", v),
					slog.String("stack", string(debug.Stack())),
				)
				ctx.SetStatus(http.StatusInternalServerError)
			}
		}()
		next(ctx)
	}
}

// logErrors is the ErrorHandler of the handlers: 5xx are logged as errors,
// 4xx as warnings.
func logErrors(fallback *slog.Logger) func(context.Context, error) {
	return func(ctx context.Context, err error) {
		level := slog.LevelError
		attrs := []slog.Attr{slog.Any("err", err)}

		var statusErr huma.StatusError
		if errors.As(err, &statusErr) {
			level = statusLevel(statusErr.GetStatus())
			attrs = append(attrs, slog.Int("status", statusErr.GetStatus()))
		}
		loggerFrom(ctx, fallback).LogAttrs(ctx, level, "error occurred", attrs...)
	}
}

func statusLevel(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// requestMeter counts requests and times them per operation and status.
type requestMeter struct {
	set     *metrics.Set
	buckets []float64

	mu     sync.Mutex
	series map[requestKey]requestSeries
}

type requestKey struct {
	operation string
	status    int
}

type requestSeries struct {
	count    *metrics.Counter
	duration *metrics.PrometheusHistogram
}

func newRequestMeter(set *metrics.Set) *requestMeter {
	return &requestMeter{
		set:     set,
		buckets: metrics.ExponentialBuckets(1e-3, 5, 6), //nolint: mnd // 1ms to ~3s
		series:  make(map[requestKey]requestSeries),
	}
}

func (m *requestMeter) middleware(ctx huma.Context, next func(huma.Context)) {
	start := time.Now()
	next(ctx)

	s := m.seriesOf(ctx.Operation(), ctx.Status())
	s.count.Inc()
	s.duration.UpdateDuration(start)
}

func (m *requestMeter) seriesOf(op *huma.Operation, status int) requestSeries {
	key := requestKey{operation: op.OperationID, status: status}

	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.series[key]; ok {
		return s
	}

	labels := fmt.Sprintf(`{operation=%q,method=%q,path=%q,status="%d"}`, op.OperationID, op.Method, op.Path, status)
	s := requestSeries{
		count:    m.set.NewCounter("http_requests_total" + labels),
		duration: m.set.NewPrometheusHistogramExt("http_request_duration_seconds"+labels, m.buckets),
	}
	m.series[key] = s
	return s
}

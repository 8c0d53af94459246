package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vsinha/mrpplan/pkg/infrastructure/logger"
)

// RequestObserver records HTTP request metrics
type RequestObserver interface {
	ObserveRequest(method, endpoint string, status int, duration time.Duration)
}

// TracingMiddleware opens a server span per request
func TracingMiddleware() fiber.Handler {
	tracer := otel.Tracer("mrp-api")

	return func(c *fiber.Ctx) error {
		ctx, span := tracer.Start(
			c.UserContext(),
			c.Method()+" "+c.Path(),
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.method", c.Method()),
				attribute.String("http.target", c.Path()),
				attribute.String("http.client_ip", c.IP()),
			),
		)
		defer span.End()

		c.SetUserContext(ctx)
		if span.SpanContext().HasTraceID() {
			c.Set("X-Trace-Id", span.SpanContext().TraceID().String())
		}

		err := c.Next()

		status := responseStatus(c, err)
		span.SetAttributes(attribute.Int("http.status_code", status))
		if status >= 500 {
			span.SetStatus(codes.Error, "Server Error")
		}
		if err != nil {
			span.RecordError(err)
		}
		return err
	}
}

// LoggingMiddleware logs and measures every completed request.
// A nil observer only logs.
func LoggingMiddleware(observer RequestObserver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start)
		status := responseStatus(c, err)

		event := logger.Info(c.UserContext())
		if status >= 500 {
			event = logger.Error(c.UserContext()).Err(err)
		} else if status >= 400 {
			event = logger.Warn(c.UserContext())
		}
		event.
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("duration", duration).
			Msg("Request completed")

		if observer != nil {
			observer.ObserveRequest(c.Method(), c.Route().Path, status, duration)
		}
		return err
	}
}

// responseStatus resolves the status the error handler will send for err
func responseStatus(c *fiber.Ctx, err error) int {
	if err == nil {
		return c.Response().StatusCode()
	}
	if e, ok := err.(*fiber.Error); ok {
		return e.Code
	}
	return fiber.StatusInternalServerError
}

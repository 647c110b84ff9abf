package middleware

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// TraceIDHeader carries the trace id of the request's server span.
const TraceIDHeader = "X-Trace-Id"

// Tracing starts a server span per request and stores it in the user context,
// continuing any trace propagated by the caller.
func Tracing(tp trace.TracerProvider) fiber.Handler {
	tracer := tp.Tracer("catalog/http")

	return func(c *fiber.Ctx) error {
		carrier := propagation.HeaderCarrier(http.Header(c.GetReqHeaders()))
		ctx := otel.GetTextMapPropagator().Extract(c.UserContext(), carrier)

		// Spans are exported after the request ends, so nothing may alias fasthttp buffers.
		method := utils.CopyString(c.Method())
		target := utils.CopyString(c.Path())
		ctx, span := tracer.Start(ctx, method+" "+target,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.method", method),
				attribute.String("http.target", target),
				attribute.String("http.client_ip", utils.CopyString(c.IP())),
			),
		)
		defer span.End()

		c.SetUserContext(ctx)
		if span.SpanContext().HasTraceID() {
			c.Set(TraceIDHeader, span.SpanContext().TraceID().String())
		}

		err := c.Next()

		status := statusOf(c, err)
		span.SetName(method + " " + c.Route().Path)
		span.SetAttributes(attribute.Int("http.status_code", status))
		if status >= fiber.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(status))
		}
		if err != nil {
			span.RecordError(err)
		}
		return err
	}
}

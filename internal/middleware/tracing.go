package middleware

import (
	"github.com/mandeell/Mandel-Blog-Complete/internal/observability"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// TracingMiddleware opens one server span per request. The span is renamed to
// the matched route pattern once routing has run, so /post/1 and /post/2 share
// a name.
func TracingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := otel.GetTextMapPropagator().Extract(c.UserContext(), propagation.HeaderCarrier(c.GetReqHeaders()))
		ctx, span := observability.StartSpan(ctx, c.Method()+" "+c.Path(), trace.SpanKindServer,
			attribute.String("http.method", c.Method()),
			attribute.String("http.target", c.OriginalURL()),
			attribute.String("http.client_ip", c.IP()),
			attribute.String("http.user_agent", c.Get(fiber.HeaderUserAgent)),
		)

		traceID := span.SpanContext().TraceID().String()
		c.Locals("traceID", traceID)
		c.Set("X-Trace-ID", traceID)
		c.SetUserContext(ctx)

		err := c.Next()

		span.SetName(c.Method() + " " + c.Route().Path)
		span.SetAttributes(attribute.Int("http.status_code", c.Response().StatusCode()))
		if id, ok := c.Locals("requestid").(string); ok {
			span.SetAttributes(attribute.String("request.id", id))
		}
		observability.EndSpan(span, err)
		return err
	}
}

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/shipnotes/shipnotes/internal/server"
)

const (
	tracerName    = "github.com/shipnotes/shipnotes/internal/api"
	requestSpan   = "http.request"
	eventName     = "http.request.completed"
	eventDomain   = "shipnotes.api"
	obsEventLabel = "observability.event"
)

// RequestObservability wraps every request in a span and emits one
// "observability.event" log entry per request, mirrored as a span event.
func RequestObservability(logger log.FieldLogger, metrics *server.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			ctx, span := otel.Tracer(tracerName).Start(req.Context(), requestSpan,
				trace.WithSpanKind(trace.SpanKindServer))
			defer span.End()
			c.SetRequest(req.WithContext(ctx))

			err := next(c)

			// HTTP errors (unknown route, bad gzip body) are rendered by the
			// error handler after this middleware returns.
			status := c.Response().Status
			failure := err
			var he *echo.HTTPError
			if errors.As(err, &he) {
				status = he.Code
				failure = nil
			} else if err != nil && !c.Response().Committed {
				status = http.StatusInternalServerError
			}

			stage, _ := c.Get(errorStageKey).(string)
			if stage == "" && failure != nil {
				stage = "unhandled"
			}

			attrs := []attribute.KeyValue{
				attribute.String("http.method", req.Method),
				attribute.String("http.route", c.Path()),
				attribute.Int("http.status_code", status),
				attribute.String("shipnotes.request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
				attribute.Float64("shipnotes.total_ms", durationToMillis(time.Since(start))),
			}
			if stage != "" {
				attrs = append(attrs, attribute.String("shipnotes.error_stage", stage))
			}

			severityText, severityNumber := severityForStatus(status, failure)
			eventAttrs := append([]attribute.KeyValue{
				attribute.String("event.name", eventName),
				attribute.String("event.domain", eventDomain),
				attribute.String("severity_text", severityText),
				attribute.Int("severity_number", severityNumber),
			}, attrs...)
			if failure != nil {
				eventAttrs = append(eventAttrs, attribute.String("error.message", failure.Error()))
			}

			span.SetAttributes(attrs...)
			span.AddEvent(obsEventLabel, trace.WithAttributes(eventAttrs...))
			if status >= http.StatusInternalServerError || failure != nil {
				desc := http.StatusText(status)
				if failure != nil {
					desc = failure.Error()
				}
				span.SetStatus(codes.Error, desc)
			} else {
				span.SetStatus(codes.Ok, "")
			}

			if metrics != nil {
				metrics.ObserveRequest(status)
			}

			fields := log.Fields{
				"event.name":      eventName,
				"event.domain":    eventDomain,
				"severity_text":   severityText,
				"severity_number": severityNumber,
				"attributes":      attributesToMap(attrs),
			}
			if sc := span.SpanContext(); sc.IsValid() {
				fields["trace_id"] = sc.TraceID().String()
				fields["span_id"] = sc.SpanID().String()
			}
			entry := logger.WithFields(fields)
			if failure != nil {
				entry = entry.WithError(failure)
			}
			switch severityText {
			case "ERROR":
				entry.Error(obsEventLabel)
			case "WARN":
				entry.Warn(obsEventLabel)
			default:
				entry.Info(obsEventLabel)
			}

			return err
		}
	}
}

// severityForStatus follows OpenTelemetry log severity numbers
func severityForStatus(status int, err error) (string, int) {
	switch {
	case err != nil || status >= http.StatusInternalServerError:
		return "ERROR", 17
	case status >= http.StatusBadRequest:
		return "WARN", 13
	default:
		return "INFO", 9
	}
}

func attributesToMap(attrs []attribute.KeyValue) map[string]any {
	out := make(map[string]any, len(attrs))
	for _, kv := range attrs {
		out[string(kv.Key)] = kv.Value.AsInterface()
	}
	return out
}

func durationToMillis(d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return float64(d) / float64(time.Millisecond)
}

package events

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// TraceListener records every bus event as a zero-length span.
type TraceListener struct {
	tracer oteltrace.Tracer
}

// NewTraceListener creates a listener that starts spans on tp.
func NewTraceListener(tp oteltrace.TracerProvider) *TraceListener {
	return &TraceListener{tracer: tp.Tracer("paneldeck/events")}
}

// Notify implements Listener.
func (l *TraceListener) Notify(evt Event) error {
	_, span := l.tracer.Start(
		context.Background(),
		string(evt.Name),
		oteltrace.WithTimestamp(evt.Timestamp),
		oteltrace.WithAttributes(eventAttributes(evt)...),
	)
	if evt.Name == DashboardError {
		span.SetStatus(codes.Error, evt.String("message"))
	}
	span.End(oteltrace.WithTimestamp(evt.Timestamp))
	return nil
}

// eventAttributes maps the detail record to paneldeck.* attributes in key order.
func eventAttributes(evt Event) []attribute.KeyValue {
	keys := make([]string, 0, len(evt.Detail))
	for k := range evt.Detail {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	attrs := make([]attribute.KeyValue, 0, len(keys)+1)
	attrs = append(attrs, attribute.String("paneldeck.event.id", evt.ID))
	for _, k := range keys {
		key := "paneldeck." + k
		switch v := evt.Detail[k].(type) {
		case string:
			attrs = append(attrs, attribute.String(key, v))
		case int:
			attrs = append(attrs, attribute.Int(key, v))
		case bool:
			attrs = append(attrs, attribute.Bool(key, v))
		case time.Time:
			attrs = append(attrs, attribute.String(key, v.Format(time.RFC3339Nano)))
		default:
			attrs = append(attrs, attribute.String(key, fmt.Sprint(v)))
		}
	}
	return attrs
}

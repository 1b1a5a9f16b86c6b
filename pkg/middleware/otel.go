package middleware

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/wayfare-dev/wayfare/pkg/router"
)

const defaultTracerName = "wayfare"

// TraceConfig configures the OpenTelemetry transition tracer.
type TraceConfig struct {
	// TracerName names the tracer (default: "wayfare").
	TracerName string

	// IncludeParams records the target parameters as span attributes.
	// May contain identifiers, disabled by default.
	IncludeParams bool

	// AttributeExtractor adds custom attributes per transition.
	AttributeExtractor func(to, from *router.State) []attribute.KeyValue

	tracer trace.Tracer
}

// TraceOption configures the OpenTelemetry tracer.
type TraceOption func(*TraceConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) TraceOption {
	return func(c *TraceConfig) { c.TracerName = name }
}

// WithTraceParams records target parameters on each span.
func WithTraceParams(include bool) TraceOption {
	return func(c *TraceConfig) { c.IncludeParams = include }
}

// WithAttributeExtractor sets a custom attribute extractor.
func WithAttributeExtractor(fn func(to, from *router.State) []attribute.KeyValue) TraceOption {
	return func(c *TraceConfig) { c.AttributeExtractor = fn }
}

// Trace creates one span per transition attempt, opened on the start
// event and closed on success, error or cancellation. The tracer comes
// from the global tracer provider; configure it in main() before Start.
// Returns a detach function that also ends any spans left open.
func Trace(r *router.Router, opts ...TraceOption) func() {
	cfg := TraceConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.tracer = otel.Tracer(cfg.TracerName)

	var mu sync.Mutex
	open := make(map[int64]trace.Span)

	begin := func(ev router.TransitionEvent) {
		if ev.ToState == nil || ev.ToState.Meta == nil {
			return
		}
		attrs := []attribute.KeyValue{
			attribute.String("wayfare.route", ev.ToState.Name),
			attribute.String("wayfare.path", ev.ToState.Path),
		}
		if ev.FromState != nil {
			attrs = append(attrs, attribute.String("wayfare.from", ev.FromState.Name))
		}
		if ev.Options.Source != "" {
			attrs = append(attrs, attribute.String("wayfare.source", ev.Options.Source))
		}
		if cfg.IncludeParams {
			for k, v := range ev.ToState.Params {
				if s, ok := v.(string); ok {
					attrs = append(attrs, attribute.String("wayfare.param."+k, s))
				}
			}
		}
		if cfg.AttributeExtractor != nil {
			attrs = append(attrs, cfg.AttributeExtractor(ev.ToState, ev.FromState)...)
		}
		_, span := cfg.tracer.Start(context.Background(), "transition "+ev.ToState.Name,
			trace.WithAttributes(attrs...))
		mu.Lock()
		open[ev.ToState.Meta.ID] = span
		mu.Unlock()
	}

	finish := func(ev router.TransitionEvent, status codes.Code, desc string) {
		if ev.ToState == nil || ev.ToState.Meta == nil {
			return
		}
		mu.Lock()
		span, ok := open[ev.ToState.Meta.ID]
		if ok {
			delete(open, ev.ToState.Meta.ID)
		}
		mu.Unlock()
		if !ok {
			return
		}
		if ev.Err != nil {
			span.RecordError(ev.Err)
		}
		span.SetStatus(status, desc)
		span.End()
	}

	unsubs := []func(){
		r.AddEventListener(router.EventTransitionStart, begin),
		r.AddEventListener(router.EventTransitionSuccess, func(ev router.TransitionEvent) {
			finish(ev, codes.Ok, "")
		}),
		r.AddEventListener(router.EventTransitionError, func(ev router.TransitionEvent) {
			desc := ""
			if ev.Err != nil {
				desc = ev.Err.Code
			}
			finish(ev, codes.Error, desc)
		}),
		r.AddEventListener(router.EventTransitionCancel, func(ev router.TransitionEvent) {
			finish(ev, codes.Error, router.CodeTransitionCancelled)
		}),
	}

	return func() {
		for _, u := range unsubs {
			u()
		}
		mu.Lock()
		for id, span := range open {
			span.End()
			delete(open, id)
		}
		mu.Unlock()
	}
}

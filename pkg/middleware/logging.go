package middleware

import (
	"context"
	"log/slog"

	"github.com/wayfare-dev/wayfare/pkg/router"
)

// LoggerConfig configures the slog transition logger.
type LoggerConfig struct {
	// Logger is the destination; slog.Default() when nil.
	Logger *slog.Logger

	// Level is the level transitions are logged at (default: Info).
	// Failures always log at Error.
	Level slog.Level

	// IncludeParams adds the target state's parameters to each record.
	// Disabled by default since parameters may carry identifiers.
	IncludeParams bool
}

// LoggerOption configures the transition logger.
type LoggerOption func(*LoggerConfig)

// WithSlog sets the destination logger.
func WithSlog(logger *slog.Logger) LoggerOption {
	return func(c *LoggerConfig) { c.Logger = logger }
}

// WithLevel sets the level for ordinary transition records.
func WithLevel(level slog.Level) LoggerOption {
	return func(c *LoggerConfig) { c.Level = level }
}

// WithParams includes the target parameters in each record.
func WithParams(include bool) LoggerOption {
	return func(c *LoggerConfig) { c.IncludeParams = include }
}

// Logger returns middleware logging every transition passing through the
// pipeline. It never blocks or denies a transition.
func Logger(opts ...LoggerOption) router.MiddlewareFactory {
	cfg := LoggerConfig{Level: slog.LevelInfo}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return func(r *router.Router, deps router.Dependencies) router.Middleware {
		return func(to, from *router.State, done router.CompletionFn) {
			attrs := stateAttrs(cfg, to, from)
			cfg.Logger.LogAttrs(context.Background(), cfg.Level, "transition", attrs...)
			done(nil)
		}
	}
}

// LogEvents attaches listeners logging the full lifecycle of every
// attempt, including failures and cancellations that never reach the
// middleware pipeline. Returns a detach function.
func LogEvents(r *router.Router, opts ...LoggerOption) func() {
	cfg := LoggerConfig{Level: slog.LevelInfo}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	unsubs := []func(){
		r.AddEventListener(router.EventTransitionStart, func(ev router.TransitionEvent) {
			cfg.Logger.LogAttrs(context.Background(), cfg.Level, "transition start", eventAttrs(cfg, ev)...)
		}),
		r.AddEventListener(router.EventTransitionSuccess, func(ev router.TransitionEvent) {
			cfg.Logger.LogAttrs(context.Background(), cfg.Level, "transition success", eventAttrs(cfg, ev)...)
		}),
		r.AddEventListener(router.EventTransitionCancel, func(ev router.TransitionEvent) {
			cfg.Logger.LogAttrs(context.Background(), cfg.Level, "transition cancelled", eventAttrs(cfg, ev)...)
		}),
		r.AddEventListener(router.EventTransitionError, func(ev router.TransitionEvent) {
			attrs := eventAttrs(cfg, ev)
			if ev.Err != nil {
				attrs = append(attrs,
					slog.String("code", ev.Err.Code),
					slog.String("error", ev.Err.Error()))
			}
			cfg.Logger.LogAttrs(context.Background(), slog.LevelError, "transition failed", attrs...)
		}),
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}

func stateAttrs(cfg LoggerConfig, to, from *router.State) []slog.Attr {
	attrs := make([]slog.Attr, 0, 4)
	if to != nil {
		attrs = append(attrs, slog.String("to", to.Name), slog.String("path", to.Path))
		if cfg.IncludeParams {
			attrs = append(attrs, slog.Any("params", to.Params))
		}
	}
	if from != nil {
		attrs = append(attrs, slog.String("from", from.Name))
	}
	return attrs
}

func eventAttrs(cfg LoggerConfig, ev router.TransitionEvent) []slog.Attr {
	attrs := stateAttrs(cfg, ev.ToState, ev.FromState)
	if ev.Options.Source != "" {
		attrs = append(attrs, slog.String("source", ev.Options.Source))
	}
	return attrs
}

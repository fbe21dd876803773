// Package tracing wraps OpenTelemetry spans together with the prometheus metrics and log lines that
// usually accompany them.
package tracing

import (
	"context"
	"fmt"
	"time"

	"github.com/commerceblock/mercuryclient/ulogger"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type UTracer struct {
	tracer trace.Tracer
}

type Options struct {
	tags       []attribute.KeyValue
	histogram  prometheus.Observer
	counter    prometheus.Counter
	logger     ulogger.Logger
	logMessage string
	logArgs    []interface{}
}

type Option func(*Options)

func WithTag(key, value string) Option {
	return func(o *Options) {
		o.tags = append(o.tags, attribute.String(key, value))
	}
}

// WithHistogram observes the span duration in seconds when the span ends.
func WithHistogram(histogram prometheus.Observer) Option {
	return func(o *Options) {
		o.histogram = histogram
	}
}

// WithCounter increments counter when the span ends.
func WithCounter(counter prometheus.Counter) Option {
	return func(o *Options) {
		o.counter = counter
	}
}

// WithLogMessage logs the message at INFO when the span starts and again, with the duration, when it ends.
func WithLogMessage(logger ulogger.Logger, format string, args ...interface{}) Option {
	return func(o *Options) {
		o.logger = logger
		o.logMessage = format
		o.logArgs = args
	}
}

// Tracer returns a tracer from the global provider. Without InitTracer this is a no-op tracer.
func Tracer(name string) *UTracer {
	return &UTracer{tracer: otel.Tracer(name)}
}

// Start opens a span. The returned function ends it; passing a non-nil error marks the span failed.
func (u *UTracer) Start(ctx context.Context, spanName string, opts ...Option) (context.Context, trace.Span, func(...error)) {
	options := &Options{}
	for _, o := range opts {
		o(options)
	}

	start := time.Now()

	ctx, span := u.tracer.Start(ctx, spanName, trace.WithAttributes(options.tags...))

	if options.logger != nil && options.logMessage != "" {
		options.logger.Infof(options.logMessage, options.logArgs...)
	}

	return ctx, span, func(errs ...error) {
		var err error
		if len(errs) > 0 {
			err = errs[0]
		}

		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}

		span.End()

		elapsed := time.Since(start)

		if options.histogram != nil {
			options.histogram.Observe(elapsed.Seconds())
		}

		if options.counter != nil {
			options.counter.Inc()
		}

		if options.logger != nil && options.logMessage != "" {
			done := fmt.Sprintf(" DONE in %s", elapsed)
			if err != nil {
				done += fmt.Sprintf(" with error: %v", err)
			}

			options.logger.Infof(options.logMessage+done, options.logArgs...)
		}
	}
}

package tracing

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/commerceblock/mercuryclient/errors"
	"github.com/commerceblock/mercuryclient/settings"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
)

var (
	once    sync.Once
	initErr error
	tp      *sdktrace.TracerProvider
	mu      sync.Mutex
)

// InitTracer installs the global OTLP/HTTP tracer provider. Only the first call has any effect.
func InitTracer(appSettings *settings.Settings) error {
	once.Do(func() {
		if appSettings.Tracing.CollectorURL == nil {
			initErr = errors.NewConfigurationError("tracing enabled without tracing_collectorURL")
			return
		}

		exporter, err := otlptracehttp.New(
			context.Background(),
			otlptracehttp.WithEndpointURL(appSettings.Tracing.CollectorURL.String()),
		)
		if err != nil {
			initErr = errors.NewProcessingError("failed to create OTLP exporter", err)
			return
		}

		res, err := resource.New(
			context.Background(),
			resource.WithAttributes(
				semconv.ServiceNameKey.String(appSettings.Tracing.ServiceName),
			),
		)
		if err != nil {
			initErr = errors.NewProcessingError("failed to create resource", err)
			return
		}

		mu.Lock()
		defer mu.Unlock()

		tp = sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(time.Second)),
			sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(appSettings.Tracing.SampleRate))),
			sdktrace.WithResource(res),
		)

		otel.SetTracerProvider(tp)
		otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		))
	})

	return initErr
}

// ShutdownTracer flushes and stops the provider installed by InitTracer. Safe to call repeatedly.
func ShutdownTracer(ctx context.Context) error {
	mu.Lock()
	defer mu.Unlock()

	if tp == nil {
		return nil
	}

	if err := tp.ForceFlush(ctx); err != nil {
		if strings.Contains(err.Error(), "connection refused") {
			log.Printf("ERROR: failed to flush spans: %v", err)
			return nil
		}

		return errors.NewProcessingError("failed to flush spans", err)
	}

	if err := tp.Shutdown(ctx); err != nil {
		return errors.NewProcessingError("failed to shutdown tracer", err)
	}

	tp = nil

	return nil
}

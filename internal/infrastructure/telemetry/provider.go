package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
)

const shutdownTimeout = 10 * time.Second

// ServiceVersion is reported as service.version on every exported signal.
// The server sets it from its build version before creating providers.
var ServiceVersion = "dev"

type shutdowner interface {
	Shutdown(ctx context.Context) error
}

// shutdownProvider bounds a provider flush so a dead collector cannot stall
// process exit.
func shutdownProvider(ctx context.Context, kind string, p shutdowner) error {
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	if err := p.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown %s provider: %w", kind, err)
	}
	return nil
}

func serviceResource(serviceName string) (*resource.Resource, error) {
	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(ServiceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}
	return res, nil
}

package telemetry

import (
	"context"
	"sort"
	"strings"

	"nkn-funder/pkg/common/iface"
)

// Client defines the interface for telemetry operations
type Client interface {
	// AddMetric emits a single metric
	AddMetric(ctx context.Context, metric Metric) error
	// Close cleans up any resources
	Close() error
}

// WithContext returns a new context with the telemetry client
func WithContext(ctx context.Context, client Client) context.Context {
	return context.WithValue(ctx, contextKey{}, client)
}

// ClientFromContext retrieves the telemetry client from context
func ClientFromContext(ctx context.Context) (Client, bool) {
	client, ok := ctx.Value(contextKey{}).(Client)
	return client, ok
}

type contextKey struct{}

// LogClient writes every metric as a log line
type LogClient struct {
	log iface.Logger
}

func NewLogClient(log iface.Logger) *LogClient {
	return &LogClient{log: log}
}

func (c *LogClient) AddMetric(ctx context.Context, metric Metric) error {
	c.log.InfoWithActor(iface.ActorTelemetry, "metric %s=%g%s", metric.Name, metric.Value, formatDimensions(metric.Dimensions))
	return nil
}

func (c *LogClient) Close() error { return nil }

func formatDimensions(dims map[string]string) string {
	if len(dims) == 0 {
		return ""
	}
	keys := make([]string, 0, len(dims))
	for k := range dims {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(" ")
		b.WriteString(k)
		b.WriteString("=")
		b.WriteString(dims[k])
	}
	return b.String()
}

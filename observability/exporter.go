package observability

// https://opentelemetry.io/docs/languages/go/exporters/

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/sdk/metric"

	"github.com/benz9527/xtree/lib/infra"
)

type Exporter uint8

const (
	NoopExporter Exporter = iota
	ConsoleExporter
	PrometheusExporter
)

func (e Exporter) String() string {
	switch e {
	case ConsoleExporter:
		return "stdout"
	case PrometheusExporter:
		return "prometheus"
	default:
	}
	return "none"
}

func ParseExporter(s string) (Exporter, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "noop":
		return NoopExporter, true
	case "stdout", "console":
		return ConsoleExporter, true
	case "prometheus", "prom":
		return PrometheusExporter, true
	default:
	}
	return NoopExporter, false
}

type metricsOptions struct {
	interval time.Duration
	timeout  time.Duration
	writer   io.Writer
	registry *promclient.Registry
}

type MetricsOption func(*metricsOptions)

func WithMetricsInterval(interval time.Duration) MetricsOption {
	return func(opts *metricsOptions) {
		if interval > 0 {
			opts.interval = interval
		}
	}
}

func WithMetricsTimeout(timeout time.Duration) MetricsOption {
	return func(opts *metricsOptions) {
		if timeout > 0 {
			opts.timeout = timeout
		}
	}
}

// WithMetricsWriter redirects the console exporter, os.Stderr by default.
func WithMetricsWriter(w io.Writer) MetricsOption {
	return func(opts *metricsOptions) {
		if w != nil {
			opts.writer = w
		}
	}
}

func WithPrometheusRegistry(reg *promclient.Registry) MetricsOption {
	return func(opts *metricsOptions) {
		if reg != nil {
			opts.registry = reg
		}
	}
}

// InitMeterProvider installs the global meter provider for the exporter.
// The returned callback flushes and shuts the provider down.
func InitMeterProvider(exp Exporter, opts ...MetricsOption) (*metric.MeterProvider, func(ctx context.Context) error, error) {
	o := &metricsOptions{
		interval: 10 * time.Second,
		timeout:  5 * time.Second,
		writer:   os.Stderr,
	}
	for _, fn := range opts {
		if fn != nil {
			fn(o)
		}
	}

	var (
		mp  *metric.MeterProvider
		err error
	)
	switch exp {
	case ConsoleExporter:
		mp, err = newConsoleMeterProvider(o.interval, o.timeout, stdoutmetric.WithWriter(o.writer))
	case PrometheusExporter:
		mp, err = newPrometheusMeterProvider(o.registry)
	default:
		mp = metric.NewMeterProvider()
	}
	if err != nil {
		return nil, nil, infra.WrapErrorStackWithMessage(err, "init "+exp.String()+" metrics exporter")
	}
	otel.SetMeterProvider(mp)
	return mp, mp.Shutdown, nil
}

// Serves for test/dev environment.
func newConsoleMeterProvider(interval, timeout time.Duration, opts ...stdoutmetric.Option) (*metric.MeterProvider, error) {
	exporter, err := stdoutmetric.New(opts...)
	if err != nil {
		return nil, err
	}
	return metric.NewMeterProvider(metric.WithReader(metric.NewPeriodicReader(
		exporter,
		metric.WithInterval(interval),
		metric.WithTimeout(timeout),
	))), nil
}

// Serves for the product environment and fetch stats metrics by HTTP.
func newPrometheusMeterProvider(reg *promclient.Registry) (*metric.MeterProvider, error) {
	var opts []prometheus.Option
	if reg != nil {
		opts = append(opts, prometheus.WithRegisterer(reg))
	}
	exporter, err := prometheus.New(opts...)
	if err != nil {
		return nil, err
	}
	return metric.NewMeterProvider(metric.WithReader(exporter)), nil
}

// PrometheusHandler exposes the registry, the default gatherer when reg is
// nil.
func PrometheusHandler(reg *promclient.Registry) http.Handler {
	if reg == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}

// ServePrometheus serves /metrics on addr until ctx is done. The bound
// address is sent on ready, which helps with ":0".
func ServePrometheus(ctx context.Context, addr string, reg *promclient.Registry, ready chan<- string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return infra.WrapErrorStackWithMessage(err, "listen metrics addr "+addr)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", PrometheusHandler(reg))
	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	if ready != nil {
		ready <- ln.Addr().String()
	}
	if err = srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return infra.WrapErrorStack(err)
	}
	return nil
}

package main

import (
	"context"
	"io"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/zap"

	"github.com/benz9527/xtree/internal/config"
	"github.com/benz9527/xtree/internal/experiment"
	"github.com/benz9527/xtree/lib/infra"
	"github.com/benz9527/xtree/observability"
	"github.com/benz9527/xtree/xlog"
)

// logWriter is where the console core writes, kept apart from the command
// output.
type logWriter struct {
	io.Writer
}

func newLogger(lc fx.Lifecycle, cfg *config.Config, out logWriter) (xlog.XLogger, error) {
	enc, _ := xlog.ParseLogEncoder(cfg.Log.Encoder)
	opts := []xlog.XLoggerOption{
		xlog.WithXLoggerWriter(out.Writer),
		xlog.WithXLoggerEncoder(enc),
		xlog.WithXLoggerLevel(xlog.ParseLogLevel(cfg.Log.Level)),
	}
	if cfg.Log.File != nil {
		opts = append(opts, xlog.WithXLoggerFileWriter(cfg.Log.File))
	}
	logger, err := xlog.TryNewXLogger(opts...)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.StopHook(func() {
		_ = logger.Close()
	}))
	return logger, nil
}

type metricsOut struct {
	fx.Out
	Provider *sdkmetric.MeterProvider
	Registry *promclient.Registry
}

func newMetrics(lc fx.Lifecycle, cfg *config.Config, logger xlog.XLogger) (metricsOut, error) {
	exp, _ := observability.ParseExporter(cfg.Metrics.Exporter)
	reg := promclient.NewRegistry()
	mp, shutdown, err := observability.InitMeterProvider(exp,
		observability.WithMetricsInterval(cfg.Metrics.Interval),
		observability.WithPrometheusRegistry(reg),
	)
	if err != nil {
		return metricsOut{}, err
	}
	if err = observability.InitAppStats("xtree"); err != nil {
		logger.Warn("runtime metrics unavailable", zap.Error(err))
	}

	serveCtx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			if exp != observability.PrometheusExporter {
				return nil
			}
			ready := make(chan string, 1)
			go func() {
				if err := observability.ServePrometheus(serveCtx, cfg.Metrics.Addr, reg, ready); err != nil {
					logger.ErrorStack(err, "metrics endpoint stopped")
					close(ready)
				}
			}()
			if addr, ok := <-ready; ok {
				logger.Info("serving metrics", zap.String("addr", "http://"+addr+"/metrics"))
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			cancel()
			return infra.WrapErrorStack(shutdown(ctx))
		},
	})
	return metricsOut{Provider: mp, Registry: reg}, nil
}

func newTreeStats(mp *sdkmetric.MeterProvider) (*observability.TreeStats, error) {
	return observability.NewTreeStats(mp)
}

func newRunner(lc fx.Lifecycle, cfg *config.Config, logger xlog.XLogger, stats *observability.TreeStats) (*experiment.Runner, error) {
	runner, err := experiment.NewRunner(cfg.Bench, logger, stats)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.StopHook(runner.Release))
	return runner, nil
}

// newApp builds the dependency graph for one command. Targets are filled
// through fx.Populate.
func newApp(cfg *config.Config, logW io.Writer, extra fx.Option, targets ...any) *fx.App {
	return fx.New(
		fx.Supply(cfg),
		fx.Supply(logWriter{logW}),
		fx.Provide(newLogger),
		fx.WithLogger(func(logger xlog.XLogger) fxevent.Logger {
			return xlog.NewFxXLogger(logger)
		}),
		extra,
		fx.Populate(targets...),
	)
}

// benchOptions wires metrics and the experiment pool.
var benchOptions = fx.Options(
	fx.Provide(
		newMetrics,
		newTreeStats,
		newRunner,
	),
)

// runApp starts the app, calls fn and stops the app whatever fn returns.
func runApp(ctx context.Context, app *fx.App, fn func() error) (err error) {
	if err = app.Err(); err != nil {
		return infra.WrapErrorStackWithMessage(err, "build app")
	}
	if err = app.Start(ctx); err != nil {
		return infra.WrapErrorStackWithMessage(err, "start app")
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), app.StopTimeout())
		defer cancel()
		err = infra.AppendErrorStack(err, app.Stop(stopCtx))
	}()
	return fn()
}

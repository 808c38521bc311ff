package observability

import (
	"context"
	"runtime"
	"strings"
	"sync"

	"github.com/samber/lo"
	otelruntime "go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/benz9527/xtree/lib/tree"
)

var once sync.Once

func meterName(name string) string {
	builder := &strings.Builder{}
	builder.WriteString("xtree/app/")
	if len(strings.TrimSpace(name)) > 0 {
		builder.WriteString(name)
	} else {
		builder.WriteString("default")
	}
	return builder.String()
}

// InitAppStats registers the process gauges and the go runtime metrics
// on the global meter provider once.
func InitAppStats(name string) error {
	var err error
	once.Do(func() {
		meter := otel.Meter(
			meterName(name),
			metric.WithInstrumentationVersion(otelruntime.Version()),
		)
		if _, err = meter.Int64ObservableGauge(
			"app.core.goroutines",
			metric.WithDescription(`The application goroutines' info.`),
			metric.WithInt64Callback(func(ctx context.Context, ob metric.Int64Observer) error {
				ob.Observe(int64(runtime.NumGoroutine()))
				return nil
			}),
		); err != nil {
			return
		}
		if _, err = meter.Int64ObservableGauge(
			"app.core.processes",
			metric.WithDescription(`The application processes' info.`),
			metric.WithInt64Callback(func(ctx context.Context, ob metric.Int64Observer) error {
				ob.Observe(int64(runtime.GOMAXPROCS(0)))
				return nil
			}),
		); err != nil {
			return
		}
		err = otelruntime.Start()
	})
	return err
}

var (
	attrVariant = attribute.Key("tree.variant")
	attrOrder   = attribute.Key("tree.keys")
	attrKind    = attribute.Key("avl.rotation")
)

// TreeStats records the results of height experiments. Every run builds
// one tree, so the instruments are updated once per run.
type TreeStats struct {
	runs      metric.Int64Counter
	inserts   metric.Int64Counter
	rotations metric.Int64Counter
	height    metric.Int64Histogram
}

// NewTreeStats uses the global meter provider when mp is nil.
func NewTreeStats(mp metric.MeterProvider) (*TreeStats, error) {
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	meter := mp.Meter(meterName("tree"))

	var (
		stats = &TreeStats{}
		err   error
	)
	if stats.runs, err = meter.Int64Counter(
		"xtree.experiment.runs",
		metric.WithDescription("Trees built by the experiment runner."),
	); err != nil {
		return nil, err
	}
	if stats.inserts, err = meter.Int64Counter(
		"xtree.tree.inserts",
		metric.WithDescription("Keys inserted into experiment trees."),
	); err != nil {
		return nil, err
	}
	if stats.rotations, err = meter.Int64Counter(
		"xtree.avl.rotations",
		metric.WithDescription("AVL rebalances grouped by case."),
	); err != nil {
		return nil, err
	}
	if stats.height, err = meter.Int64Histogram(
		"xtree.tree.height",
		metric.WithDescription("Final tree height per run."),
		metric.WithExplicitBucketBoundaries(lo.Map(lo.Range(16), func(i int, _ int) float64 {
			return float64(int64(1) << i)
		})...),
	); err != nil {
		return nil, err
	}
	return stats, nil
}

func (stats *TreeStats) RecordRun(
	ctx context.Context,
	variant, order string,
	inserted int64,
	height int,
	rotations tree.RotationStats,
) {
	if stats == nil {
		return
	}
	attrs := metric.WithAttributes(attrVariant.String(variant), attrOrder.String(order))
	stats.runs.Add(ctx, 1, attrs)
	stats.inserts.Add(ctx, inserted, attrs)
	stats.height.Record(ctx, int64(height), attrs)
	for kind, n := range map[tree.RotationKind]int64{
		tree.LeftLeft:   rotations.LeftLeft,
		tree.RightRight: rotations.RightRight,
		tree.LeftRight:  rotations.LeftRight,
		tree.RightLeft:  rotations.RightLeft,
	} {
		if n > 0 {
			stats.rotations.Add(ctx, n, metric.WithAttributes(attrVariant.String(variant), attrOrder.String(order), attrKind.String(kind.String())))
		}
	}
}

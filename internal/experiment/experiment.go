// Package experiment measures tree heights over growing key sets. Every
// task builds and owns its own tree, tasks run on an ants pool.
package experiment

import (
	"cmp"
	"context"
	"math"
	randv2 "math/rand/v2"
	"runtime"
	"slices"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/benz9527/xtree/internal/config"
	"github.com/benz9527/xtree/lib/infra"
	"github.com/benz9527/xtree/lib/tree"
	"github.com/benz9527/xtree/observability"
	"github.com/benz9527/xtree/xlog"
)

type Variant string

const (
	BST Variant = "bst"
	AVL Variant = "avl"
)

type KeyOrder string

const (
	Sequential KeyOrder = "sequential"
	Random     KeyOrder = "random"
)

// HeightBound is the AVL worst case ⌈1.44·log2(n+2)⌉, in levels.
func HeightBound(n int) int {
	return int(math.Ceil(1.44 * math.Log2(float64(n+2))))
}

type Task struct {
	Variant Variant
	Order   KeyOrder
	N       int
	Trial   int
}

type Result struct {
	Task
	// Height in levels for both variants, so an empty tree is 0.
	Height    int
	Bound     int
	Rotations tree.RotationStats
	Err       error
	Elapsed   time.Duration
}

func (res Result) WithinBound() bool {
	return res.Variant != AVL || res.Height <= res.Bound
}

func keys(task Task, seed uint64) []int {
	if task.Order == Sequential {
		return lo.RangeFrom(1, task.N)
	}
	rng := randv2.New(randv2.NewPCG(seed, uint64(task.N)<<16|uint64(task.Trial)))
	return lo.Map(rng.Perm(task.N), func(k int, _ int) int {
		return k + 1
	})
}

// Execute builds one tree for the task and validates it.
func Execute(task Task, seed uint64) Result {
	res := Result{
		Task:  task,
		Bound: HeightBound(task.N),
	}
	start := time.Now()
	switch task.Variant {
	case AVL:
		t := tree.NewAVLTree[int]()
		for _, k := range keys(task, seed) {
			t.Insert(k)
		}
		res.Height = t.Height()
		res.Rotations = t.Rotations()
		res.Err = tree.Validate[int](t)
	default:
		t := tree.NewBSTree[int]()
		for _, k := range keys(task, seed) {
			t.Insert(k)
		}
		res.Height = t.Height() + 1
		res.Err = tree.Validate[int](t)
	}
	res.Elapsed = time.Since(start)
	return res
}

// Plan lists sizes step, 2·step, ... up to maxN (always included). Each
// size gets one sequential run and cfg.Trials random runs per variant.
func Plan(cfg config.BenchConfig) []Task {
	sizes := lo.RangeWithSteps(cfg.Step, cfg.MaxN+1, cfg.Step)
	if len(sizes) == 0 || sizes[len(sizes)-1] != cfg.MaxN {
		sizes = append(sizes, cfg.MaxN)
	}
	tasks := make([]Task, 0, len(sizes)*2*(cfg.Trials+1))
	for _, n := range sizes {
		for _, v := range []Variant{BST, AVL} {
			tasks = append(tasks, Task{Variant: v, Order: Sequential, N: n})
			for trial := 0; trial < cfg.Trials; trial++ {
				tasks = append(tasks, Task{Variant: v, Order: Random, N: n, Trial: trial})
			}
		}
	}
	return tasks
}

type Runner struct {
	cfg    config.BenchConfig
	pool   *ants.Pool
	logger xlog.XLogger
	stats  *observability.TreeStats
}

func NewRunner(cfg config.BenchConfig, logger xlog.XLogger, stats *observability.TreeStats) (*Runner, error) {
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	pool, err := ants.NewPool(workers,
		ants.WithLogger(xlog.NewAntsXLogger(logger)),
		ants.WithPreAlloc(true),
	)
	if err != nil {
		return nil, infra.WrapErrorStackWithMessage(err, "create experiment pool")
	}
	return &Runner{
		cfg:    cfg,
		pool:   pool,
		logger: logger,
		stats:  stats,
	}, nil
}

func (r *Runner) Release() {
	r.pool.Release()
}

// Run executes every planned task. progress is called once per finished
// task, possibly from several goroutines at once. Results come back sorted
// by variant, order, size and trial. On cancellation the finished results
// are returned together with the context error.
func (r *Runner) Run(ctx context.Context, progress func(Result)) ([]Result, error) {
	tasks := Plan(r.cfg)
	r.logger.Info("experiment started",
		zap.Int("tasks", len(tasks)),
		zap.Int("maxN", r.cfg.MaxN),
		zap.Int("workers", r.pool.Cap()),
	)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results = make([]Result, 0, len(tasks))
		merr    error
	)
	for _, task := range tasks {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		if err := r.pool.Submit(func() {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}
			res := Execute(task, r.cfg.Seed)
			r.stats.RecordRun(ctx, string(res.Variant), string(res.Order), int64(res.N), res.Height, res.Rotations)
			if res.Err != nil {
				r.logger.ErrorStack(res.Err, "invalid experiment tree",
					zap.String("variant", string(res.Variant)),
					zap.Int("n", res.N),
				)
			} else if !res.WithinBound() {
				r.logger.Warn("avl height above bound",
					zap.Int("n", res.N),
					zap.Int("height", res.Height),
					zap.Int("bound", res.Bound),
				)
			}

			mu.Lock()
			results = append(results, res)
			mu.Unlock()
			if progress != nil {
				progress(res)
			}
		}); err != nil {
			wg.Done()
			merr = infra.AppendErrorStack(merr, infra.WrapErrorStackWithMessage(err, "submit experiment task"))
			break
		}
	}
	wg.Wait()

	slices.SortFunc(results, func(a, b Result) int {
		return cmp.Or(
			cmp.Compare(a.Variant, b.Variant),
			cmp.Compare(a.Order, b.Order),
			cmp.Compare(a.N, b.N),
			cmp.Compare(a.Trial, b.Trial),
		)
	})
	if err := ctx.Err(); err != nil {
		merr = infra.AppendErrorStack(merr, infra.WrapErrorStackWithMessage(err, "experiment interrupted"))
	}
	r.logger.Info("experiment finished", zap.Int("results", len(results)))
	return results, merr
}

type Summary struct {
	Variant   Variant
	Order     KeyOrder
	N         int
	MaxHeight int
	AvgHeight float64
	Bound     int
	Rotations int64
	Invalid   int
}

// Summarize folds the trials of each (variant, order, size) group.
func Summarize(results []Result) []Summary {
	groups := lo.GroupBy(results, func(res Result) Task {
		return Task{Variant: res.Variant, Order: res.Order, N: res.N}
	})
	summaries := lo.MapToSlice(groups, func(key Task, group []Result) Summary {
		return Summary{
			Variant: key.Variant,
			Order:   key.Order,
			N:       key.N,
			MaxHeight: lo.MaxBy(group, func(a, b Result) bool {
				return a.Height > b.Height
			}).Height,
			AvgHeight: float64(lo.SumBy(group, func(res Result) int {
				return res.Height
			})) / float64(len(group)),
			Bound: group[0].Bound,
			Rotations: lo.SumBy(group, func(res Result) int64 {
				return res.Rotations.Total()
			}),
			Invalid: lo.CountBy(group, func(res Result) bool {
				return res.Err != nil
			}),
		}
	})
	slices.SortFunc(summaries, func(a, b Summary) int {
		return cmp.Or(
			cmp.Compare(a.N, b.N),
			cmp.Compare(a.Order, b.Order),
			cmp.Compare(a.Variant, b.Variant),
		)
	})
	return summaries
}

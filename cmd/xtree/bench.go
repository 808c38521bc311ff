package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/samber/lo"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/benz9527/xtree/internal/experiment"
	"github.com/benz9527/xtree/lib/infra"
	"github.com/benz9527/xtree/observability"
	"github.com/benz9527/xtree/xlog"
)

type benchOpts struct {
	maxN     int
	step     int
	workers  int
	trials   int
	exporter string
	linger   time.Duration
}

func (c *cli) newBenchCmd() *cobra.Command {
	o := &benchOpts{}
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Measure BST and AVL heights for sequential and shuffled keys",
		Long: `Builds trees of growing size on a worker pool and checks the AVL
height bound ceil(1.44*log2(n+2)). Heights are reported in levels.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if flags.Changed("max-n") {
				c.cfg.Bench.MaxN = o.maxN
			}
			if flags.Changed("step") {
				c.cfg.Bench.Step = o.step
			}
			if flags.Changed("workers") {
				c.cfg.Bench.Workers = o.workers
			}
			if flags.Changed("trials") {
				c.cfg.Bench.Trials = o.trials
			}
			if flags.Changed("metrics") {
				c.cfg.Metrics.Exporter = o.exporter
			}
			if err := c.cfg.Validate(); err != nil {
				return infra.WrapErrorStackWithMessage(err, "bench flags")
			}
			return c.runBench(cmd, o)
		},
	}
	cmd.Flags().IntVar(&o.maxN, "max-n", 0, "largest tree size (default from config)")
	cmd.Flags().IntVar(&o.step, "step", 0, "size increment (default from config)")
	cmd.Flags().IntVar(&o.workers, "workers", 0, "worker pool size, 0 means GOMAXPROCS")
	cmd.Flags().IntVar(&o.trials, "trials", 0, "shuffled runs per size (default from config)")
	cmd.Flags().StringVar(&o.exporter, "metrics", "", "metrics exporter: none, stdout or prometheus")
	cmd.Flags().DurationVar(&o.linger, "linger", 0, "keep the prometheus endpoint up this long after the run")
	return cmd
}

func (c *cli) runBench(cmd *cobra.Command, o *benchOpts) error {
	var (
		runner *experiment.Runner
		logger xlog.XLogger
	)
	app := c.newApp(cmd, benchOptions, &runner, &logger)
	return runApp(cmd.Context(), app, func() error {
		ctx := cmd.Context()
		bar := progressbar.NewOptions(len(experiment.Plan(c.cfg.Bench)),
			progressbar.OptionSetWriter(cmd.ErrOrStderr()),
			progressbar.OptionSetDescription("building trees"),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "█",
				SaucerHead:    "█",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			}),
		)
		results, err := runner.Run(ctx, func(experiment.Result) {
			_ = bar.Add(1)
		})
		_ = bar.Finish()

		summaries := experiment.Summarize(results)
		fmt.Fprintln(cmd.OutOrStdout(), c.renderSummaries(summaries))
		if err != nil {
			return err
		}

		failed := lo.CountBy(summaries, func(sum experiment.Summary) bool {
			return !summaryOK(sum)
		})
		if failed > 0 {
			return infra.NewErrorStack(fmt.Sprintf("%d experiment groups failed", failed))
		}

		if exp, _ := observability.ParseExporter(c.cfg.Metrics.Exporter); exp == observability.PrometheusExporter && o.linger > 0 {
			logger.Info("keeping metrics endpoint up", zap.Duration("linger", o.linger))
			select {
			case <-time.After(o.linger):
			case <-ctx.Done():
			}
		}
		return nil
	})
}

func summaryOK(sum experiment.Summary) bool {
	return sum.Invalid == 0 && (sum.Variant != experiment.AVL || sum.MaxHeight <= sum.Bound)
}

func (c *cli) renderSummaries(summaries []experiment.Summary) string {
	rows := lo.Map(summaries, func(sum experiment.Summary, _ int) []string {
		return []string{
			strconv.Itoa(sum.N),
			string(sum.Order),
			string(sum.Variant),
			strconv.Itoa(sum.MaxHeight),
			strconv.FormatFloat(sum.AvgHeight, 'f', 1, 64),
			strconv.Itoa(sum.Bound),
			strconv.FormatInt(sum.Rotations, 10),
			c.styles.status(summaryOK(sum)),
		}
	})
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(c.styles.dim).
		Headers("n", "keys", "variant", "max height", "avg height", "avl bound", "rotations", "status").
		Rows(rows...).
		String()
}

package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/benz9527/xtree/internal/config"
	"github.com/benz9527/xtree/lib/infra"
	"github.com/benz9527/xtree/xlog"
)

const banner = `
 __  _______ ____  ____ ____
 \ \/ /_   _|  _ \| ___| ___|
  \  /  | | | |_) |  _| |  _|
  /  \  | | |  _ <| |___| |___
 /_/\_\ |_| |_| \_\_____|_____|
`

type cli struct {
	cfgPath  string
	logLevel string
	cfg      *config.Config
	styles   *styles
}

func newRootCmd() *cobra.Command {
	c := &cli{styles: newStyles()}
	root := &cobra.Command{
		Use:   "xtree",
		Short: "Ordered search trees: an unbalanced BST and its AVL variant",
		Long: banner + `
Build, inspect and measure binary search trees. The baseline tree never
rebalances, the AVL tree keeps every balance factor within [-1, 1].`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}
	root.PersistentFlags().StringVar(&c.cfgPath, "config", config.DefaultPath(), "config file (YAML), missing file means defaults")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "override log.level (DEBUG, INFO, WARN, ERROR)")
	root.AddCommand(
		c.newDemoCmd(),
		c.newBuildCmd(),
		c.newBenchCmd(),
		c.newConfigCmd(),
	)
	return root
}

func (c *cli) loadConfig() error {
	cfg, err := config.Load(c.cfgPath)
	if err != nil {
		return err
	}
	if c.logLevel != "" {
		cfg.Log.Level = xlog.ParseLogLevel(c.logLevel).String()
	}
	c.cfg = cfg
	return nil
}

func (c *cli) newApp(cmd *cobra.Command, extra fx.Option, targets ...any) *fx.App {
	if extra == nil {
		extra = fx.Options()
	}
	return newApp(c.cfg, cmd.ErrOrStderr(), extra, targets...)
}

// withLogger runs fn inside a minimal app that only provides the logger.
func (c *cli) withLogger(cmd *cobra.Command, fn func(logger xlog.XLogger) error) error {
	var logger xlog.XLogger
	app := c.newApp(cmd, nil, &logger)
	return runApp(cmd.Context(), app, func() error {
		if err := fn(logger); err != nil {
			return infra.WrapErrorStackWithMessage(err, cmd.Name())
		}
		return nil
	})
}

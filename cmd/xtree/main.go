package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	_ "go.uber.org/automaxprocs"

	"github.com/benz9527/xtree/xlog"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		logger := xlog.NewXLogger(
			xlog.WithXLoggerStdErrWriter(),
			xlog.WithXLoggerEncoder(xlog.PlainText),
			xlog.WithXLoggerLevel(xlog.LogLevelError),
		)
		logger.ErrorStack(err, "xtree failed")
		_ = logger.Sync()
		stop()
		os.Exit(1)
	}
}

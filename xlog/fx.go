package xlog

import (
	"fmt"
	"strings"

	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

var _ fxevent.Logger = (*FxXLogger)(nil)

// FxXLogger routes the fx lifecycle events. Successful wiring events go to
// DEBUG, failures go to ERROR with their stack traces.
type FxXLogger struct {
	logger XLogger
}

func (l *FxXLogger) LogEvent(event fxevent.Event) {
	if l == nil || l.logger == nil {
		return
	}

	switch e := event.(type) {
	case *fxevent.OnStartExecuting:
		l.logger.Debug("HOOK OnStart",
			zap.String("function", e.FunctionName),
			zap.String("caller", e.CallerName),
		)
	case *fxevent.OnStartExecuted:
		l.hookExecuted("OnStart", e.FunctionName, e.CallerName, e.Runtime.String(), e.Err)
	case *fxevent.OnStopExecuting:
		l.logger.Debug("HOOK OnStop",
			zap.String("function", e.FunctionName),
			zap.String("caller", e.CallerName),
		)
	case *fxevent.OnStopExecuted:
		l.hookExecuted("OnStop", e.FunctionName, e.CallerName, e.Runtime.String(), e.Err)
	case *fxevent.Supplied:
		l.wired("SUPPLY", []string{e.TypeName}, e.ModuleName, e.StackTrace, e.Err)
	case *fxevent.Provided:
		l.wired("PROVIDE", e.OutputTypeNames, e.ModuleName, e.StackTrace, e.Err,
			zap.String("constructor", e.ConstructorName),
			zap.Bool("private", e.Private),
		)
	case *fxevent.Replaced:
		l.wired("REPLACE", e.OutputTypeNames, e.ModuleName, e.StackTrace, e.Err)
	case *fxevent.Decorated:
		l.wired("DECORATE", e.OutputTypeNames, e.ModuleName, e.StackTrace, e.Err,
			zap.String("decorator", e.DecoratorName),
		)
	case *fxevent.Invoking:
		l.logger.Debug("INVOKING",
			zap.String("function", e.FunctionName),
			zap.String("module", e.ModuleName),
		)
	case *fxevent.Invoked:
		if e.Err != nil {
			l.logger.Error(e.Err, "INVOKE failed",
				zap.String("function", e.FunctionName),
				zap.String("trace", e.Trace),
			)
		}
	case *fxevent.Stopping:
		l.logger.Info("STOPPING", zap.String("signal", strings.ToUpper(e.Signal.String())))
	case *fxevent.Stopped:
		if e.Err != nil {
			l.logger.Error(e.Err, "STOP failed")
		}
	case *fxevent.RollingBack:
		l.logger.Warn("START failed, rolling back", zap.Error(e.StartErr))
	case *fxevent.RolledBack:
		if e.Err != nil {
			l.logger.Error(e.Err, "ROLLBACK failed")
		}
	case *fxevent.Started:
		if e.Err != nil {
			l.logger.Error(e.Err, "START failed")
		} else {
			l.logger.Debug("RUNNING")
		}
	case *fxevent.LoggerInitialized:
		if e.Err != nil {
			l.logger.Error(e.Err, "LOGGER initialization failed")
		} else {
			l.logger.Debug("LOGGER initialized", zap.String("constructor", e.ConstructorName))
		}
	default:
		l.logger.Debug("EVENT", zap.String("type", fmt.Sprintf("%T", event)))
	}
}

func (l *FxXLogger) hookExecuted(hook, function, caller, runtime string, err error) {
	fields := []zap.Field{
		zap.String("function", function),
		zap.String("caller", caller),
		zap.String("in", runtime),
	}
	if err != nil {
		l.logger.Error(err, "HOOK "+hook+" failed", fields...)
		return
	}
	l.logger.Debug("HOOK "+hook+" executed", fields...)
}

func (l *FxXLogger) wired(kind string, types []string, module string, stack []string, err error, extra ...zap.Field) {
	if err != nil {
		l.logger.Error(err, kind+" failed",
			zap.Strings("types", types),
			zap.Strings("stacktrace", stack),
		)
		return
	}
	fields := make([]zap.Field, 0, len(extra)+2)
	fields = append(fields, zap.Strings("types", types))
	if module != "" {
		fields = append(fields, zap.String("module", module))
	}
	fields = append(fields, extra...)
	l.logger.Debug(kind, fields...)
}

func NewFxXLogger(logger XLogger) *FxXLogger {
	return &FxXLogger{logger: newComponentXLogger(logger, "Fx")}
}

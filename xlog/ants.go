package xlog

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// newComponentXLogger derives a named logger sharing the parent's writers
// and level, but without caller fields.
func newComponentXLogger(logger XLogger, name string) *xLogger {
	l := &xLogger{}
	if parent, ok := logger.(*xLogger); ok {
		l.dynamicLevelEnabler = parent.dynamicLevelEnabler
		l.encoder = parent.encoder
	}
	l.logger.Store(logger.
		zap().
		Named(name).
		WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
			if core == nil {
				panic("[XLogger] core is nil")
			}
			cc, ok := core.(xLogCore)
			if !ok {
				panic("[XLogger] core is not XLogCore")
			}
			var err error
			if mc, ok := cc.(xLogMultiCore); ok && mc != nil {
				if cc, err = WrapCores(mc, componentCoreEncoderCfg); err != nil {
					panic(err)
				}
			} else {
				if cc, err = WrapCore(cc, componentCoreEncoderCfg); err != nil {
					panic(err)
				}
			}
			return cc
		})),
	)
	return l
}

// AntsXLogger reports pool panics and internal errors.
type AntsXLogger struct {
	logger XLogger
}

func (l *AntsXLogger) Printf(format string, args ...any) {
	if l == nil || l.logger == nil {
		return
	}
	l.logger.Logf(zapcore.ErrorLevel, format, args...)
}

func NewAntsXLogger(logger XLogger) *AntsXLogger {
	return &AntsXLogger{
		logger: newComponentXLogger(logger, "Ants"),
	}
}

package xlog

import (
	"io"
	"os"

	"go.uber.org/zap/zapcore"
)

var _ xLogCore = (*consoleCore)(nil)

type consoleCore struct {
	*commonCore
}

var consoleEncoderCfg = zapcore.EncoderConfig{
	MessageKey:    "msg",
	LevelKey:      "lvl",
	TimeKey:       "ts",
	CallerKey:     "callAt",
	EncodeCaller:  zapcore.ShortCallerEncoder,
	FunctionKey:   "fn",
	NameKey:       "component",
	EncodeName:    zapcore.FullNameEncoder,
	StacktraceKey: coreKeyIgnored,
}

// newConsoleCore writes to w, os.Stdout when w is nil. The writer is
// locked since entries may arrive from pool goroutines.
func newConsoleCore(w io.Writer) xLogCoreConstructor {
	return func(
		lvlEnabler zapcore.LevelEnabler,
		encoder logEncoderType,
		lvlEnc zapcore.LevelEncoder,
		tsEnc zapcore.TimeEncoder,
	) (xLogCore, error) {
		if w == nil {
			w = os.Stdout
		}
		ws := zapcore.Lock(zapcore.AddSync(w))
		return &consoleCore{
			commonCore: newCommonCore(lvlEnabler, encoder, lvlEnc, tsEnc, ws, consoleEncoderCfg),
		}, nil
	}
}

package xlog

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/safeopen"
	"go.uber.org/multierr"
	"go.uber.org/zap/zapcore"

	"github.com/benz9527/xtree/lib/infra"
)

var (
	_ xLogCore  = (*fileCore)(nil)
	_ io.Closer = (*fileCore)(nil)
)

type FileCoreConfig struct {
	FilePath string `json:"filePath" yaml:"filePath"`
	Filename string `json:"filename" yaml:"filename"`
}

type fileCore struct {
	*commonCore
	log *singleLog
}

func (fc *fileCore) Close() error {
	return multierr.Append(fc.Sync(), fc.log.Close())
}

var fileEncoderCfg = zapcore.EncoderConfig{
	MessageKey:    "msg",
	LevelKey:      "lvl",
	TimeKey:       "ts",
	CallerKey:     "callAt",
	EncodeCaller:  zapcore.ShortCallerEncoder,
	FunctionKey:   "fn",
	NameKey:       coreKeyIgnored,
	EncodeName:    zapcore.FullNameEncoder,
	StacktraceKey: coreKeyIgnored,
}

func newFileCore(cfg *FileCoreConfig) xLogCoreConstructor {
	return func(
		lvlEnabler zapcore.LevelEnabler,
		encoder logEncoderType,
		lvlEnc zapcore.LevelEncoder,
		tsEnc zapcore.TimeEncoder,
	) (xLogCore, error) {
		if cfg == nil {
			cfg = &FileCoreConfig{
				Filename: filepath.Base(os.Args[0]) + "_xlog.log",
				FilePath: os.TempDir(),
			}
		}
		log := &singleLog{
			filePath: cfg.FilePath,
			filename: cfg.Filename,
		}
		// Fail fast on a bad path instead of on the first entry.
		if err := log.openOrCreate(); err != nil {
			return nil, err
		}
		ws := zapcore.Lock(zapcore.AddSync(log))
		return &fileCore{
			commonCore: newCommonCore(lvlEnabler, encoder, lvlEnc, tsEnc, ws, fileEncoderCfg),
			log:        log,
		}, nil
	}
}

var _ io.WriteCloser = (*singleLog)(nil)

// singleLog is not thread-safe, the core locks it.
type singleLog struct {
	filePath    string
	filename    string
	wroteSize   uint64
	mkdirOnce   sync.Once
	currentFile *os.File
}

func (log *singleLog) Write(p []byte) (n int, err error) {
	if log.currentFile == nil {
		if err := log.openOrCreate(); err != nil {
			return 0, err
		}
	}
	n, err = log.currentFile.Write(p)
	log.wroteSize += uint64(n)
	return
}

func (log *singleLog) Close() error {
	if log.currentFile == nil {
		return nil
	}
	if err := log.currentFile.Close(); err != nil {
		return infra.WrapErrorStack(err)
	}
	log.currentFile = nil
	return nil
}

// openOrCreate opens the file beneath filePath only, so a filename like
// "../x.log" cannot escape the log dir.
func (log *singleLog) openOrCreate() error {
	if err := log.mkdir(); err != nil {
		return err
	}

	pathToLog := filepath.Join(log.filePath, log.filename)
	info, err := os.Stat(pathToLog)
	if err == nil && info.IsDir() {
		return infra.NewErrorStack("log file <" + pathToLog + "> is a dir")
	} else if err != nil && !os.IsNotExist(err) {
		return infra.WrapErrorStack(err)
	}

	f, err := safeopen.OpenFileBeneath(log.filePath, log.filename, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return infra.WrapErrorStackWithMessage(err, "unable to open log file: "+pathToLog)
	}
	log.currentFile = f
	if info != nil {
		log.wroteSize = uint64(info.Size())
	} else {
		log.wroteSize = 0
	}
	return nil
}

func (log *singleLog) mkdir() error {
	var err error
	log.mkdirOnce.Do(func() {
		if log.filePath == "" {
			log.filePath = os.TempDir()
		}
		if log.filePath == os.TempDir() {
			return
		}
		err = os.MkdirAll(log.filePath, 0o755)
	})
	return infra.WrapErrorStack(err)
}

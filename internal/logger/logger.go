package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color" // Colorized console output for the default format
	"go.uber.org/zap"        // Structured JSON output for CI log collectors
	"go.uber.org/zap/zapcore"
)

const (
	// FormatConsole prints colorized printf-style lines, one per message.
	FormatConsole = "console"
	// FormatJSON emits one JSON object per message through zap.
	FormatJSON = "json"
)

// Printf is the signature shared by every level function in this package.
type Printf func(format string, a ...any)

// Level functions. They default to console output so that packages using the
// logger before Init (tests, mostly) still print something sensible.
var (
	// Info logs progress messages in green.
	Info Printf = color.New(color.FgGreen).PrintfFunc()
	// Warn logs recoverable problems in bright magenta, e.g. a failed reclamation step.
	Warn Printf = color.New(color.FgHiMagenta).PrintfFunc()
	// Error logs fatal problems in red.
	Error Printf = color.New(color.FgRed).PrintfFunc()
	// Debug is a no-op until Init enables it.
	Debug Printf = func(string, ...any) {}
)

var sugar *zap.SugaredLogger

// NormalizeFormat validates a log format name. Empty means console.
func NormalizeFormat(raw string) (string, error) {
	format := strings.ToLower(strings.TrimSpace(raw))
	switch format {
	case "":
		return FormatConsole, nil
	case FormatConsole, FormatJSON:
		return format, nil
	default:
		return "", fmt.Errorf("unsupported log format %q (want %s or %s)", raw, FormatConsole, FormatJSON)
	}
}

// Init configures the level functions for the given format and debug flag.
// Console output goes to stdout; JSON output goes to stderr so that it never
// mixes with shell exports printed by the env command.
func Init(enableDebug bool, format string) error {
	normalized, err := NormalizeFormat(format)
	if err != nil {
		return err
	}
	if normalized == FormatJSON {
		initJSON(enableDebug, os.Stderr)
		return nil
	}
	initConsole(enableDebug)
	return nil
}

func initConsole(enableDebug bool) {
	Info = color.New(color.FgGreen).PrintfFunc()
	Warn = color.New(color.FgHiMagenta).PrintfFunc()
	Error = color.New(color.FgRed).PrintfFunc()
	if enableDebug {
		Debug = color.New(color.FgCyan).PrintfFunc()
	} else {
		Debug = func(string, ...any) {}
	}
}

func initJSON(enableDebug bool, out io.Writer) {
	level := zapcore.InfoLevel
	if enableDebug {
		level = zapcore.DebugLevel
	}
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), zapcore.AddSync(out), level)
	sugar = zap.New(core).Sugar()

	Info = jsonPrintf(sugar.Infof)
	Warn = jsonPrintf(sugar.Warnf)
	Error = jsonPrintf(sugar.Errorf)
	Debug = jsonPrintf(sugar.Debugf)
}

// jsonPrintf drops the trailing newline and "[LEVEL]" tag that console-style
// call sites carry, since zap records the level itself.
func jsonPrintf(logf func(template string, args ...any)) Printf {
	return func(format string, a ...any) {
		logf(stripTag(strings.TrimRight(format, "\n")), a...)
	}
}

func stripTag(format string) string {
	if strings.HasPrefix(format, "[") {
		if end := strings.Index(format, "] "); end > 0 {
			return format[end+2:]
		}
	}
	return format
}

// Sync flushes buffered JSON entries. It is a no-op in console mode.
func Sync() {
	if sugar != nil {
		_ = sugar.Sync()
	}
}

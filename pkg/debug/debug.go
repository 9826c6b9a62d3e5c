// Package debug provides conditional debug logging for sv.
//
// Logging is enabled by the SV_DEBUG environment variable or the --debug
// flag:
//
//	SV_DEBUG=1 sv query --log-file /tmp/sv.log
//
// Messages carry a [SV_DEBUG] prefix and microsecond timestamps. The TUI
// owns stderr while it runs, so SetOutput is used to send the log to a file.
// When disabled every function returns immediately.
package debug

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/k0kubun/pp"
)

const (
	// EnvVar enables debug logging when set to any non-empty value.
	EnvVar = "SV_DEBUG"
	prefix = "[SV_DEBUG] "
	flags  = log.Ltime | log.Lmicroseconds
)

var (
	enabled atomic.Bool
	logger  = log.New(os.Stderr, prefix, flags)
	colorDump atomic.Bool

	checkpoints atomic.Int64

	// ppMu guards pp.ColoringEnabled, which pp keeps as package state.
	ppMu sync.Mutex
)

func init() {
	if os.Getenv(EnvVar) != "" {
		enabled.Store(true)
	}
}

// Pretty renders v with pp, with or without ANSI colour.
func Pretty(v any, color bool) string {
	ppMu.Lock()
	defer ppMu.Unlock()
	was := pp.ColoringEnabled
	pp.ColoringEnabled = color
	defer func() { pp.ColoringEnabled = was }()
	return pp.Sprint(v)
}

// Enabled returns whether debug logging is enabled.
func Enabled() bool {
	return enabled.Load()
}

// SetEnabled switches debug logging on or off.
func SetEnabled(e bool) {
	enabled.Store(e)
}

// SetOutput redirects debug output. Dumps are colourised only when w is a
// terminal-backed stderr.
func SetOutput(w io.Writer) {
	logger.SetOutput(w)
	colorDump.Store(w == os.Stderr)
}

// Log writes a debug message if debug logging is enabled.
func Log(format string, args ...any) {
	if !Enabled() {
		return
	}
	logger.Printf(format, args...)
}

// LogTiming writes a timing message if debug logging is enabled.
func LogTiming(name string, d time.Duration) {
	if !Enabled() {
		return
	}
	logger.Printf("%s took %v", name, d)
}

// LogIf writes a debug message only if the condition is true.
func LogIf(cond bool, format string, args ...any) {
	if !cond || !Enabled() {
		return
	}
	logger.Printf(format, args...)
}

// LogEnterExit logs function entry and exit with timing:
//
//	defer debug.LogEnterExit("loadCatalog")()
func LogEnterExit(name string) func() {
	if !Enabled() {
		return func() {}
	}
	logger.Printf("-> %s", name)
	start := time.Now()
	return func() {
		logger.Printf("<- %s (%v)", name, time.Since(start))
	}
}

// Dump pretty-prints a value with its type.
func Dump(name string, v any) {
	if !Enabled() {
		return
	}
	logger.Printf("%s: %T =\n%s", name, v, Pretty(v, colorDump.Load()))
}

// Section logs a section header.
func Section(name string) {
	if !Enabled() {
		return
	}
	logger.Printf("=== %s ===", name)
}

// Checkpoint logs a numbered checkpoint.
func Checkpoint(msg string) {
	if !Enabled() {
		return
	}
	logger.Printf("[%d] %s", checkpoints.Add(1), msg)
}

// ResetCheckpoints resets the checkpoint counter.
func ResetCheckpoints() {
	checkpoints.Store(0)
}

// AssertNoError logs and panics if err is not nil. Only active when debug
// is enabled.
func AssertNoError(err error, context string) {
	if err == nil || !Enabled() {
		return
	}
	logger.Printf("ASSERTION FAILED: %s: %v", context, err)
	panic(fmt.Sprintf("debug assertion failed: %s: %v", context, err))
}

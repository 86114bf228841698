// Package dx9mt implements a Direct3D9-to-Metal translation layer: a device
// state mirror, draw recorder, binary packet protocol and SM3.0 shader
// translator that let a frontend (the D3D9 application side) hand off frames
// to a backend renderer without either side sharing pointers.
package dx9mt

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

// nopHandler discards all log records. Enabled returns false so callers skip
// message formatting entirely when no logger has been configured.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
	if path := os.Getenv("DX9MT_LOG_PATH"); path != "" {
		if l, err := newFileLogger(path); err == nil {
			loggerPtr.Store(l)
		}
	}
}

// SetLogger configures the logger used by dx9mt and its sub-packages. By
// default dx9mt produces no output; pass nil to restore that behavior.
//
// SetLogger is safe for concurrent use.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the logger currently in effect.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// tagHandler renders records in the original bridge's line format:
//
//	[HH:MM:SS] [tid=NNNN] dx9mt/<tag>: <message>
//
// The "tag" is the record's logger name, conveyed as the first attribute
// named "tag" (set via Logf below); records without one render as
// "dx9mt: <message>".
type tagHandler struct {
	mu  *sync.Mutex
	out *os.File
}

func (h *tagHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *tagHandler) Handle(_ context.Context, r slog.Record) error {
	tag := ""
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == "tag" {
			tag = a.Value.String()
			return false
		}
		return true
	})

	h.mu.Lock()
	defer h.mu.Unlock()
	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	if tag != "" {
		_, err := fmt.Fprintf(h.out, "[%s] [tid=%d] dx9mt/%s: %s\n",
			ts.Format("15:04:05"), osThreadID(), tag, r.Message)
		return err
	}
	_, err := fmt.Fprintf(h.out, "[%s] [tid=%d] dx9mt: %s\n",
		ts.Format("15:04:05"), osThreadID(), r.Message)
	return err
}

func (h *tagHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *tagHandler) WithGroup(string) slog.Handler      { return h }

// osThreadID stands in for the native thread id the original C logger
// prints; Go has no stable, cheap equivalent, so the process id is used
// instead (still useful to distinguish concurrent processes in shared logs).
func osThreadID() int { return os.Getpid() }

func newFileLogger(path string) (*slog.Logger, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("dx9mt: open log path %q: %w", path, err)
	}
	return slog.New(&tagHandler{mu: &sync.Mutex{}, out: f}), nil
}

// Logf logs a formatted message tagged with a subsystem name, matching the
// original dx9mt_logf(tag, fmt, ...) call sites ("backend", "frontend",
// "shader", ...).
func Logf(tag, format string, args ...any) {
	Logger().Info(fmt.Sprintf(format, args...), slog.String("tag", tag))
}

// envFlag parses a boolean environment variable the way the original
// dx9mt_backend_trace_packets_enabled does: unset, empty, "0", "false",
// "FALSE" or "False" is false; anything else (including other casings of
// "false") is true. Memoized by the caller.
func envFlag(name string) bool {
	v, ok := os.LookupEnv(name)
	if !ok || v == "" {
		return false
	}
	switch v {
	case "0", "false", "FALSE", "False":
		return false
	default:
		return true
	}
}

// envFlagCached mirrors the stub's g_trace_packets = -1 sentinel-then-memoize
// pattern for a single environment variable, without requiring a package
// init() to have run before the variable is read.
type envFlagCached struct {
	name    string
	once    sync.Once
	value   bool
}

func (e *envFlagCached) Get() bool {
	e.once.Do(func() { e.value = envFlag(e.name) })
	return e.value
}

var tracePacketsFlag = &envFlagCached{name: "DX9MT_BACKEND_TRACE_PACKETS"}
var softPresentFlag = &envFlagCached{name: "DX9MT_FRONTEND_SOFT_PRESENT"}

// TracePacketsEnabled reports whether DX9MT_BACKEND_TRACE_PACKETS requests
// per-packet trace logging from the backend bridge.
func TracePacketsEnabled() bool { return tracePacketsFlag.Get() }

// SoftPresentEnabled reports whether DX9MT_FRONTEND_SOFT_PRESENT requests
// that Present skip the swapchain present call.
func SoftPresentEnabled() bool { return softPresentFlag.Get() }

// mustAtoi parses s as a decimal integer, returning def if s does not
// parse. Nothing in the module calls it.
func mustAtoi(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/davecgh/go-spew/spew"
	"github.com/fatih/color"
)

type contextKey string

const contextKeyRequestID contextKey = "request_id"

var (
	outMu   sync.Mutex
	out     io.Writer = os.Stdout
	debugOn atomic.Bool
)

// SetOutput redirects all log lines to w
func SetOutput(w io.Writer) {
	outMu.Lock()
	defer outMu.Unlock()
	out = w
}

// SetDebug toggles Debug and DebugStruct output
func SetDebug(enabled bool) {
	debugOn.Store(enabled)
}

// WithRequestID adds request ID to context for logging
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, contextKeyRequestID, requestID)
}

// RequestID retrieves request ID from context
func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(contextKeyRequestID).(string); ok {
		return id
	}
	return ""
}

// formatLog formats log message with optional request ID
func formatLog(level string, requestID string, format string, a ...interface{}) string {
	msg := fmt.Sprintf(format, a...)
	if requestID != "" {
		return fmt.Sprintf("[%s] [req_id=%s] %s", level, requestID, msg)
	}
	return fmt.Sprintf("[%s] %s", level, msg)
}

func write(tag string, line string) {
	outMu.Lock()
	defer outMu.Unlock()
	fmt.Fprintf(out, "%s %s\n", tag, line)
}

// Info log information
func Info(format string, a ...interface{}) {
	info := color.New(color.FgWhite, color.BgGreen).SprintFunc()
	write(info("[INFO] "), fmt.Sprintf(format, a...))
}

// InfoWithContext logs information with context (includes request ID if available)
func InfoWithContext(ctx context.Context, format string, a ...interface{}) {
	info := color.New(color.FgWhite, color.BgGreen).SprintFunc()
	write(info("[INFO] "), formatLog("INFO", RequestID(ctx), format, a...))
}

// Warn log warning
func Warn(format string, a ...interface{}) {
	warn := color.New(color.FgWhite, color.BgYellow).SprintFunc()
	write(warn("[WARN] "), fmt.Sprintf(format, a...))
}

// WarnWithContext logs warning with context (includes request ID if available)
func WarnWithContext(ctx context.Context, format string, a ...interface{}) {
	warn := color.New(color.FgWhite, color.BgYellow).SprintFunc()
	write(warn("[WARN] "), formatLog("WARN", RequestID(ctx), format, a...))
}

// Error log error
func Error(format string, a ...interface{}) {
	red := color.New(color.FgRed).SprintFunc()
	write(red("[Error]"), fmt.Sprintf(format, a...))
}

// ErrorWithContext logs error with context (includes request ID if available)
func ErrorWithContext(ctx context.Context, format string, a ...interface{}) {
	red := color.New(color.FgRed).SprintFunc()
	write(red("[Error]"), formatLog("ERROR", RequestID(ctx), format, a...))
}

// Debug logs only when debug output is enabled
func Debug(format string, a ...interface{}) {
	if !debugOn.Load() {
		return
	}
	cyan := color.New(color.FgCyan).SprintFunc()
	write(cyan("[DEBUG]"), fmt.Sprintf(format, a...))
}

// DebugStruct dumps v with spew when debug output is enabled
func DebugStruct(label string, v interface{}) {
	if !debugOn.Load() {
		return
	}
	cyan := color.New(color.FgCyan).SprintFunc()
	write(cyan("[DEBUG]"), label+"\n"+spew.Sdump(v))
}

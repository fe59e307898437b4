// shared/logger/logger.go
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/rollbar/rollbar-go"
)

// Level is the minimum severity a Logger writes.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Options configures a Logger.
type Options struct {
	Service      string    // Prefix printed on every line (e.g., "hunt-api")
	Debug        bool      // Enables Debug output
	Out          io.Writer // Defaults to os.Stdout
	RollbarToken string    // When set, Error and Fatal are also reported to Rollbar
	Environment  string
	CodeVersion  string
}

// Logger writes levelled, coloured log lines and optionally forwards errors to Rollbar.
type Logger struct {
	mu      sync.Mutex
	out     io.Writer
	service string
	min     Level
	rollbar bool
	exit    func(int) // mockable
}

var (
	debugColor = color.New(color.FgCyan)
	infoColor  = color.New(color.FgGreen)
	warnColor  = color.New(color.FgYellow)
	errorColor = color.New(color.FgRed)
)

// New creates a Logger from Options.
func New(opts Options) *Logger {
	l := &Logger{
		out:     opts.Out,
		service: opts.Service,
		min:     LevelInfo,
		exit:    os.Exit,
	}
	if l.out == nil {
		l.out = os.Stdout
	}
	if opts.Debug {
		l.min = LevelDebug
	}
	if opts.RollbarToken != "" {
		rollbar.SetToken(opts.RollbarToken)
		rollbar.SetEnvironment(opts.Environment)
		rollbar.SetCodeVersion(opts.CodeVersion)
		if host, err := os.Hostname(); err == nil {
			rollbar.SetServerHost(host)
		}
		rollbar.SetEnabled(true)
		l.rollbar = true
	}
	return l
}

// Default returns a Logger writing to stdout at info level.
func Default() *Logger {
	return New(Options{})
}

// Discard returns a Logger that drops everything. Useful in tests.
func Discard() *Logger {
	return New(Options{Out: io.Discard})
}

func (l *Logger) write(c *color.Color, level Level, tag, format string, args []interface{}) {
	if level < l.min {
		return
	}
	msg := fmt.Sprintf(format, args...)
	prefix := time.Now().Format("2006/01/02 15:04:05")
	if l.service != "" {
		prefix += " [" + l.service + "]"
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	c.Fprintf(l.out, "%s %s %s\n", prefix, tag, msg)
}

func (l *Logger) Debug(format string, args ...interface{}) {
	l.write(debugColor, LevelDebug, "DEBUG:", format, args)
}

func (l *Logger) Info(format string, args ...interface{}) {
	l.write(infoColor, LevelInfo, "INFO:", format, args)
}

func (l *Logger) Warn(format string, args ...interface{}) {
	l.write(warnColor, LevelWarn, "WARN:", format, args)
}

// Error logs at error level and reports the message to Rollbar when configured.
func (l *Logger) Error(format string, args ...interface{}) {
	l.write(errorColor, LevelError, "ERROR:", format, args)
	if l.rollbar {
		rollbar.Error(fmt.Errorf(format, args...))
	}
}

// Fatal logs, flushes Rollbar and exits the process.
func (l *Logger) Fatal(format string, args ...interface{}) {
	l.write(errorColor, LevelError, "FATAL:", format, args)
	if l.rollbar {
		rollbar.Critical(fmt.Errorf(format, args...))
		rollbar.Wait()
	}
	l.exit(1)
}

// Printf satisfies simple printf-style logger interfaces at info level.
func (l *Logger) Printf(format string, args ...interface{}) {
	l.Info(format, args...)
}

// Close flushes any pending Rollbar reports.
func (l *Logger) Close() {
	if l.rollbar {
		rollbar.Close()
	}
}

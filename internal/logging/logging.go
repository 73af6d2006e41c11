package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"time"

	"github.com/fatih/color"
)

// Level represents a logging level.
type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
	// EXCEPTION is reserved for a failure currently being handled - a
	// recovered panic at a task-execution boundary - and always carries a
	// stack trace captured at the point Exception was called.
	EXCEPTION
)

func (l Level) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	case EXCEPTION:
		return "EXCEPTION"
	default:
		return "UNKNOWN"
	}
}

// Format represents the log output format.
type Format int

const (
	Text Format = iota
	JSON
)

// Logger handles structured logging. Its value satisfies
// threadpool.Logger, so a *Logger can be passed directly as a pool's
// collaborator.
type Logger struct {
	out    io.Writer
	level  Level
	format Format
}

// LogConfig contains logger configuration.
type LogConfig struct {
	Level  Level
	Format Format
}

var (
	defaultLogger = &Logger{
		out:    os.Stdout,
		level:  INFO,
		format: Text,
	}

	debugColor     = color.New(color.FgCyan)
	infoColor      = color.New(color.FgGreen)
	warnColor      = color.New(color.FgYellow)
	errorColor     = color.New(color.FgRed)
	exceptionColor = color.New(color.FgMagenta, color.Bold)
)

// Default returns the package's default Logger instance.
func Default() *Logger { return defaultLogger }

// Configure sets up the default logger.
func Configure(config LogConfig) {
	defaultLogger.level = config.Level
	defaultLogger.format = config.Format
}

type logEntry struct {
	Timestamp string      `json:"timestamp"`
	Level     string      `json:"level"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Stack     string      `json:"stack,omitempty"`
}

func (l *Logger) log(level Level, msg string, data interface{}, stack string) {
	if level < l.level {
		return
	}

	timestamp := time.Now().Format("2006/01/02 15:04:05")

	if l.format == JSON {
		entry := logEntry{
			Timestamp: timestamp,
			Level:     level.String(),
			Message:   msg,
			Data:      data,
			Stack:     stack,
		}
		json.NewEncoder(l.out).Encode(entry)
		return
	}

	var levelColor *color.Color
	switch level {
	case DEBUG:
		levelColor = debugColor
	case INFO:
		levelColor = infoColor
	case WARN:
		levelColor = warnColor
	case ERROR:
		levelColor = errorColor
	case EXCEPTION:
		levelColor = exceptionColor
	}

	levelStr := levelColor.Sprintf("%-9s", level.String())
	fmt.Fprintf(l.out, "%s %s: %s", timestamp, levelStr, msg)
	if data != nil {
		fmt.Fprintf(l.out, " %+v", data)
	}
	fmt.Fprintln(l.out)
	if stack != "" {
		fmt.Fprintln(l.out, stack)
	}
}

func (l *Logger) Debug(msg string, data ...interface{}) {
	l.log(DEBUG, msg, firstOrNil(data), "")
}

func (l *Logger) Info(msg string, data ...interface{}) {
	l.log(INFO, msg, firstOrNil(data), "")
}

func (l *Logger) Warn(msg string, data ...interface{}) {
	l.log(WARN, msg, firstOrNil(data), "")
}

func (l *Logger) Error(msg string, err error, data ...interface{}) {
	if err != nil {
		msg = fmt.Sprintf("%s: %v", msg, err)
	}
	l.log(ERROR, msg, firstOrNil(data), "")
}

// Exception logs a failure currently being handled (e.g. a panic recovered
// at a worker's task-execution boundary), attaching a stack trace captured
// at the call site.
func (l *Logger) Exception(msg string, err error, data ...interface{}) {
	if err != nil {
		msg = fmt.Sprintf("%s: %v", msg, err)
	}
	l.log(EXCEPTION, msg, firstOrNil(data), string(debug.Stack()))
}

// firstOrNil returns the first element of data if present, nil otherwise.
func firstOrNil(data []interface{}) interface{} {
	if len(data) > 0 {
		return data[0]
	}
	return nil
}

func Debug(msg string, data ...interface{})              { defaultLogger.Debug(msg, data...) }
func Info(msg string, data ...interface{})                { defaultLogger.Info(msg, data...) }
func Warn(msg string, data ...interface{})                { defaultLogger.Warn(msg, data...) }
func Error(msg string, err error, data ...interface{})    { defaultLogger.Error(msg, err, data...) }
func Exception(msg string, err error, data ...interface{}) { defaultLogger.Exception(msg, err, data...) }

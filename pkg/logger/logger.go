package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
)

const (
	INFO = iota
	DEBUG
)

const flags = log.Ldate | log.Ltime | log.Lshortfile

// Logger is a small leveled logger handed to every component that reports
// progress. A nil *Logger discards everything.
type Logger struct {
	mu       sync.Mutex
	infoLog  *log.Logger
	warnLog  *log.Logger
	errorLog *log.Logger
	debugLog *log.Logger
	level    int
	file     *os.File
}

// New writes every level to out.
func New(out io.Writer, level int) *Logger {
	return &Logger{
		infoLog:  log.New(out, "INFO: ", flags),
		warnLog:  log.New(out, "WARN: ", flags),
		errorLog: log.New(out, "ERROR: ", flags),
		debugLog: log.New(out, "DEBUG: ", flags),
		level:    level,
	}
}

// NewConsole logs INFO/WARN/DEBUG to stdout and ERROR to stderr.
func NewConsole(level int) *Logger {
	l := New(os.Stdout, level)
	l.errorLog.SetOutput(os.Stderr)
	return l
}

// NewFile initializes the logger with a file output and console output.
// ERROR lines go to stderr instead of stdout. An empty filename behaves
// like NewConsole.
func NewFile(filename string, level int) (*Logger, error) {
	if strings.TrimSpace(filename) == "" {
		return NewConsole(level), nil
	}
	l, err := Open(os.Stdout, filename, level)
	if err != nil {
		return nil, err
	}
	l.errorLog.SetOutput(io.MultiWriter(os.Stderr, l.file))
	return l, nil
}

// Open writes every level to out and, when filename is set, appends to that
// file as well.
func Open(out io.Writer, filename string, level int) (*Logger, error) {
	if strings.TrimSpace(filename) == "" {
		return New(out, level), nil
	}
	f, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return nil, fmt.Errorf("open log file '%s': %w", filename, err)
	}
	l := New(io.MultiWriter(out, f), level)
	l.file = f
	return l, nil
}

// ParseLevel maps "debug" to DEBUG and anything else to INFO.
func ParseLevel(s string) int {
	if strings.EqualFold(strings.TrimSpace(s), "debug") {
		return DEBUG
	}
	return INFO
}

func (l *Logger) Close() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// Verbose reports whether DEBUG messages are emitted.
func (l *Logger) Verbose() bool {
	return l != nil && l.level >= DEBUG
}

func (l *Logger) Infof(format string, v ...interface{}) {
	if l == nil {
		return
	}
	_ = l.infoLog.Output(2, fmt.Sprintf(format, v...))
}

func (l *Logger) Warnf(format string, v ...interface{}) {
	if l == nil {
		return
	}
	_ = l.warnLog.Output(2, fmt.Sprintf(format, v...))
}

func (l *Logger) Errorf(format string, v ...interface{}) {
	if l == nil {
		return
	}
	_ = l.errorLog.Output(2, fmt.Sprintf(format, v...))
}

// Debugf is a no-op unless the logger was created at DEBUG level.
func (l *Logger) Debugf(format string, v ...interface{}) {
	if !l.Verbose() {
		return
	}
	_ = l.debugLog.Output(2, fmt.Sprintf(format, v...))
}

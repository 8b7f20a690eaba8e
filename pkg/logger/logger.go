package logger

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Category represents a log category; each category writes to its own
// per-day file.
type Category string

const (
	CategoryStartup Category = "startup"
	CategoryAPI     Category = "api"
	CategoryAuth    Category = "auth"
	CategoryDB      Category = "db"
	CategoryMatch   Category = "match"
	CategoryUpload  Category = "upload"
	CategoryWorker  Category = "worker"
	CategoryStorage Category = "storage"
)

// Level represents log level
type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

// LogEntry represents a structured log entry
type LogEntry struct {
	Timestamp time.Time              `json:"timestamp"`
	Level     Level                  `json:"level"`
	Category  Category               `json:"category"`
	Action    string                 `json:"action"`
	Message   string                 `json:"message"`
	Data      map[string]interface{} `json:"data,omitempty"`
	Error     string                 `json:"error,omitempty"`
}

// Logger writes structured entries to per-category daily files and,
// optionally, the console.
type Logger struct {
	mu      sync.Mutex
	logDir  string
	writers map[string]*os.File
	console bool
}

var (
	defaultLogger *Logger
	once          sync.Once
)

// Init initializes the default logger.
func Init(logDir string, console bool) error {
	var err error
	once.Do(func() {
		defaultLogger, err = NewLogger(logDir, console)
	})
	return err
}

// NewLogger creates a new logger.
func NewLogger(logDir string, console bool) (*Logger, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	return &Logger{
		logDir:  logDir,
		writers: make(map[string]*os.File),
		console: console,
	}, nil
}

// getWriter returns or creates the file writer for a category/day pair.
// Callers hold l.mu.
func (l *Logger) getWriter(category Category) (*os.File, error) {
	filename := fmt.Sprintf("%s_%s.log", category, time.Now().Format("2006-01-02"))
	if writer, exists := l.writers[filename]; exists {
		return writer, nil
	}

	// New day or new category: close the stale handle for this category.
	for name, writer := range l.writers {
		if len(name) > len(category) && name[:len(category)] == string(category) {
			writer.Close()
			delete(l.writers, name)
		}
	}

	file, err := os.OpenFile(filepath.Join(l.logDir, filename), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	l.writers[filename] = file
	return file, nil
}

// Log writes a log entry.
func (l *Logger) Log(entry LogEntry) {
	entry.Timestamp = time.Now()

	line, err := json.Marshal(entry)
	if err != nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if writer, err := l.getWriter(entry.Category); err == nil {
		fmt.Fprintln(writer, string(line))
	}

	if l.console {
		fmt.Printf("[%s] %s %s/%s: %s", entry.Timestamp.Format("15:04:05"), entry.Level, entry.Category, entry.Action, entry.Message)
		if entry.Error != "" {
			fmt.Printf(" error=%s", entry.Error)
		}
		fmt.Println()
	}
}

// Close closes all open log files.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, writer := range l.writers {
		writer.Close()
	}
	l.writers = make(map[string]*os.File)
	return nil
}

func log(level Level, category Category, action, message string, err error, data map[string]interface{}) {
	if defaultLogger == nil {
		return
	}
	entry := LogEntry{
		Level:    level,
		Category: category,
		Action:   action,
		Message:  message,
		Data:     data,
	}
	if err != nil {
		entry.Error = err.Error()
	}
	defaultLogger.Log(entry)
}

func Debug(category Category, action, message string, data map[string]interface{}) {
	log(LevelDebug, category, action, message, nil, data)
}

func Info(category Category, action, message string, data map[string]interface{}) {
	log(LevelInfo, category, action, message, nil, data)
}

func Warn(category Category, action, message string, data map[string]interface{}) {
	log(LevelWarn, category, action, message, nil, data)
}

func Error(category Category, action, message string, err error, data map[string]interface{}) {
	log(LevelError, category, action, message, err, data)
}

// Convenience helpers for the most common categories.

func Startup(action, message string, data map[string]interface{}) {
	Info(CategoryStartup, action, message, data)
}

func StartupWarn(action, message string, data map[string]interface{}) {
	Warn(CategoryStartup, action, message, data)
}

func StartupError(action, message string, err error, data map[string]interface{}) {
	Error(CategoryStartup, action, message, err, data)
}

func Match(action, message string, data map[string]interface{}) {
	Info(CategoryMatch, action, message, data)
}

func Upload(action, message string, data map[string]interface{}) {
	Info(CategoryUpload, action, message, data)
}

func Worker(action, message string, data map[string]interface{}) {
	Info(CategoryWorker, action, message, data)
}

package logger

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
)

// Logger emits structured JSON log entries for a single service
type Logger struct {
	service  string
	hostname string
	handler  *slog.Logger
}

// New creates a logger for the named service
func New(service string) *Logger {
	hostname, _ := os.Hostname()

	handler := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	return &Logger{
		service:  service,
		hostname: hostname,
		handler:  handler,
	}
}

// GenerateRequestID returns a new request identifier for log correlation
func GenerateRequestID() string {
	return uuid.NewString()
}

// Info logs an informational message
func (l *Logger) Info(action, message, requestID string, fields map[string]interface{}) {
	l.log(slog.LevelInfo, action, message, requestID, nil, fields)
}

// Debug logs a debug message
func (l *Logger) Debug(action, message, requestID string, fields map[string]interface{}) {
	l.log(slog.LevelDebug, action, message, requestID, nil, fields)
}

// Error logs an error message
func (l *Logger) Error(action, message, requestID string, err error, fields map[string]interface{}) {
	l.log(slog.LevelError, action, message, requestID, err, fields)
}

func (l *Logger) log(level slog.Level, action, message, requestID string, err error, fields map[string]interface{}) {
	attrs := []slog.Attr{
		slog.String("timestamp", time.Now().UTC().Format(time.RFC3339)),
		slog.String("service", l.service),
		slog.String("hostname", l.hostname),
		slog.String("action", action),
		slog.String("request_id", requestID),
	}

	if err != nil {
		attrs = append(attrs, slog.Group("error",
			slog.String("msg", err.Error()),
		))
	}

	for k, v := range fields {
		attrs = append(attrs, slog.Any(k, v))
	}

	l.handler.LogAttrs(context.TODO(), level, message, attrs...)
}

package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger wraps slog.Logger with additional functionality
type Logger struct {
	*slog.Logger
}

// New creates a new logger instance
func New() *Logger {
	// Get log level from environment
	level := getLogLevel(os.Getenv("LOG_LEVEL"))

	// Create handler options
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	// Create handler based on environment
	var handler slog.Handler
	if gin.Mode() == gin.DebugMode {
		// Use text handler for development (more readable)
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		// Use JSON handler for production (structured)
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return &Logger{
		Logger: slog.New(handler),
	}
}

// getLogLevel converts string to slog.Level
func getLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithRequestID adds request ID to logger context
func (l *Logger) WithRequestID(requestID string) *Logger {
	return &Logger{
		Logger: l.Logger.With(slog.String("request_id", requestID)),
	}
}

// LogHTTPRequest logs an HTTP request
func (l *Logger) LogHTTPRequest(c *gin.Context, duration time.Duration) {
	l.Logger.InfoContext(c.Request.Context(),
		"HTTP Request",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.String("query", c.Request.URL.RawQuery),
		slog.Int("status", c.Writer.Status()),
		slog.Duration("duration", duration),
		slog.String("ip", c.ClientIP()),
		slog.String("user_agent", c.Request.UserAgent()),
		slog.Int("size", c.Writer.Size()),
	)
}

// Business logic logging methods

// LogReservationCreated logs when a seat reservation batch is created
func (l *Logger) LogReservationCreated(ctx context.Context, sessionID, eventID string, seatCount int) {
	l.Logger.InfoContext(ctx,
		"Reservation Created",
		slog.String("session_id", sessionID),
		slog.String("event_id", eventID),
		slog.Int("seat_count", seatCount),
	)
}

// LogReservationReleased logs when a reservation session is released
func (l *Logger) LogReservationReleased(ctx context.Context, sessionID string, rows int64) {
	l.Logger.InfoContext(ctx,
		"Reservation Released",
		slog.String("session_id", sessionID),
		slog.Int64("rows_deleted", rows),
	)
}

// LogExpirySweep logs the outcome of an expired-reservation sweep
func (l *Logger) LogExpirySweep(ctx context.Context, removed int64, duration time.Duration) {
	l.Logger.InfoContext(ctx,
		"Expired Reservations Swept",
		slog.Int64("removed", removed),
		slog.Duration("duration", duration),
	)
}

// LogOrderConfirmed logs when a hold is consumed into a paid order
func (l *Logger) LogOrderConfirmed(ctx context.Context, orderID, orderRef, eventID string, seats int) {
	l.Logger.InfoContext(ctx,
		"Order Confirmed",
		slog.String("order_id", orderID),
		slog.String("order_ref", orderRef),
		slog.String("event_id", eventID),
		slog.Int("seats", seats),
	)
}

// Global logger instance (can be replaced with dependency injection)
var defaultLogger = New()

// GetDefault returns the default logger instance
func GetDefault() *Logger {
	return defaultLogger
}

// SetDefault sets the default logger instance
func SetDefault(logger *Logger) {
	defaultLogger = logger
}

package logging

import (
	"context"
	"fmt"
	"runtime"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a context-aware zap wrapper. Every line carries the service
// name and the request id of the order flow it belongs to, so one client
// order can be traced from FIX ingress through the book and back out.
type Logger struct {
	logger *zap.Logger
}

type LogLevel zapcore.Level

const (
	DEBUG LogLevel = LogLevel(zapcore.DebugLevel)
	INFO  LogLevel = LogLevel(zapcore.InfoLevel)
	WARN  LogLevel = LogLevel(zapcore.WarnLevel)
	ERROR LogLevel = LogLevel(zapcore.ErrorLevel)
	FATAL LogLevel = LogLevel(zapcore.FatalLevel)
)

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	loggerKey    contextKey = "logger"
)

// base serves GetLogger until Init runs; gateways use the ClOrdID as the
// request id, so an unnamed service still yields traceable lines.
var base = NewLogger("matchbook", INFO)

// Init sets the process-wide base logger. Call once from main before
// serving traffic.
func Init(serviceName string, level LogLevel) {
	base = NewLogger(serviceName, level)
}

// NewLogger builds a production logger tagged with the service name.
func NewLogger(serviceName string, level LogLevel) *Logger {
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapcore.Level(level))
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return &Logger{logger: logger.With(zap.String("service", serviceName))}
}

// WithRequestID stamps the id every later log line in this flow carries.
// Gateways call it at ingress with their client order id.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func getRequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(requestIDKey).(string); ok {
		return reqID
	}
	return "no-request-id"
}

// GetLogger returns the logger bound to ctx, deriving one from the base
// logger and the context request id on first use.
func GetLogger(ctx context.Context) (*Logger, context.Context) {
	if logger, ok := ctx.Value(loggerKey).(*Logger); ok {
		return logger, ctx
	}

	logger := &Logger{
		logger: base.logger.With(zap.String("request_id", getRequestID(ctx))),
	}
	ctx = context.WithValue(ctx, loggerKey, logger)
	return logger, ctx
}

func (l *Logger) logMessage(level LogLevel, msg string, fields ...zap.Field) {
	fields = append(fields, callerField())
	switch level {
	case DEBUG:
		l.logger.Debug(msg, fields...)
	case INFO:
		l.logger.Info(msg, fields...)
	case WARN:
		l.logger.Warn(msg, fields...)
	case ERROR:
		l.logger.Error(msg, fields...)
	case FATAL:
		l.logger.Fatal(msg, fields...)
	}
}

func (l *Logger) Debug(ctx context.Context, msg string, fields ...zap.Field) {
	l.logMessage(DEBUG, msg, fields...)
}

func (l *Logger) Info(ctx context.Context, msg string, fields ...zap.Field) {
	l.logMessage(INFO, msg, fields...)
}

func (l *Logger) Warn(ctx context.Context, msg string, fields ...zap.Field) {
	l.logMessage(WARN, msg, fields...)
}

func (l *Logger) Error(ctx context.Context, msg string, fields ...zap.Field) {
	l.logMessage(ERROR, msg, fields...)
}

func (l *Logger) Fatal(ctx context.Context, msg string, fields ...zap.Field) {
	l.logMessage(FATAL, msg, fields...)
}

// Sync flushes buffered entries.
func (l *Logger) Sync() error {
	return l.logger.Sync()
}

// callerField names the call site of the Debug/Info/... method, past
// logMessage and the level wrapper itself.
func callerField() zapcore.Field {
	pc := make([]uintptr, 4)
	n := runtime.Callers(4, pc)
	frames := runtime.CallersFrames(pc[:n])
	frame, _ := frames.Next()
	return zap.String("log_line", fmt.Sprintf("%s:%d", frame.File, frame.Line))
}

package ginlog

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sgl-project/dataset-viz/pkg/logging"
)

const (
	RequestIDKey     = logging.RequestIDKey
	RequestIDHeader  = logging.RequestIDHeader
	RequestLoggerKey = logging.RequestLoggerKey
)

// RequestLoggerConfig configures RequestLogger.
type RequestLoggerConfig struct {
	// ExcludeQueryParameters strips the raw query from access logs.
	ExcludeQueryParameters bool `mapstructure:"exclude_query_parameters"`

	// LevelByPath overrides the access log level per path,
	// e.g. "/health" -> "debug". Other paths log at info.
	LevelByPath map[string]string `mapstructure:"level_by_path"`
}

// Opts converts the config into RequestLogger options.
func (rec RequestLoggerConfig) Opts() []RequestLoggerOption {
	opts := []RequestLoggerOption{WithRequestLoggerExcludeQueryParameters(rec.ExcludeQueryParameters)}
	if len(rec.LevelByPath) != 0 {
		opts = append(opts, WithRequestLoggerLevelByPath(parseLevelByPath(rec.LevelByPath)))
	}
	return opts
}

// parseLevelByPath falls back to info for any level it cannot parse.
func parseLevelByPath(in map[string]string) map[string]zapcore.Level {
	out := make(map[string]zapcore.Level, len(in))
	for path, lvlString := range in {
		lvl := zapcore.InfoLevel
		if err := lvl.UnmarshalText([]byte(lvlString)); err != nil {
			lvl = zapcore.InfoLevel
		}
		out[path] = lvl
	}
	return out
}

type requestLogger struct {
	logger                 *zap.Logger
	levelByPath            map[string]zapcore.Level
	excludeQueryParameters bool
}

func (rl *requestLogger) HandlerFunc(ctx *gin.Context) {
	start := logging.TimeNowFunc()

	// captured before handlers run in case they rewrite the URL
	path := ctx.Request.URL.Path
	query := ctx.Request.URL.RawQuery

	requestID := GetOrCreateRequestID(ctx)
	ctx.Header(RequestIDHeader, requestID)

	reqLogger := rl.logger.With(zap.String(RequestIDKey, requestID))
	ctx.Set(RequestLoggerKey, reqLogger)

	ctx.Next()

	end := logging.TimeNowFunc()

	fields := []zap.Field{
		zap.String("method", ctx.Request.Method),
		zap.String("path", path),
		zap.String("route", ctx.FullPath()),
		zap.String("ip", ctx.ClientIP()),
		zap.String("user-agent", ctx.Request.UserAgent()),
		zap.Int("status", ctx.Writer.Status()),
		zap.Int("size", ctx.Writer.Size()),
		zap.String("time", end.Format(logging.TimeFormat)),
		zap.Duration("latency", end.Sub(start)),
	}
	if !rl.excludeQueryParameters {
		fields = append(fields, zap.String("query", query))
	}

	if len(ctx.Errors) > 0 {
		for _, err := range ctx.Errors {
			reqLogger.Error(path, append(fields, zap.Error(err.Err))...)
		}
		return
	}

	if ce := reqLogger.Check(rl.getLogLevel(path), path); ce != nil {
		ce.Write(fields...)
	}
}

func (rl *requestLogger) getLogLevel(path string) zapcore.Level {
	if lvl, ok := rl.levelByPath[path]; ok {
		return lvl
	}
	return zapcore.InfoLevel
}

// RequestLoggerOption configures RequestLogger.
type RequestLoggerOption func(*requestLogger)

// WithRequestLoggerLevelByPath sets per-path access log levels.
func WithRequestLoggerLevelByPath(levelByPath map[string]zapcore.Level) RequestLoggerOption {
	return func(rl *requestLogger) {
		rl.levelByPath = levelByPath
	}
}

// WithRequestLoggerExcludeQueryParameters controls whether query strings are
// logged. They are logged by default.
func WithRequestLoggerExcludeQueryParameters(value bool) RequestLoggerOption {
	return func(rl *requestLogger) {
		rl.excludeQueryParameters = value
	}
}

// RequestLogger returns gin middleware that tags every request with an ID,
// installs a request-scoped zap logger and writes one access log line.
func RequestLogger(logger *zap.Logger, opts ...RequestLoggerOption) gin.HandlerFunc {
	rl := &requestLogger{logger: logger}
	for _, opt := range opts {
		opt(rl)
	}
	return rl.HandlerFunc
}

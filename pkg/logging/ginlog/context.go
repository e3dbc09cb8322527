package ginlog

import (
	"github.com/gin-gonic/gin"
	uuid "github.com/satori/go.uuid"
	"go.uber.org/zap"
)

// GetOrCreateRequestID returns the request ID stored on ctx, taking it from
// the inbound header or generating one on first use.
func GetOrCreateRequestID(ctx *gin.Context) string {
	if id, ok := ctx.Get(RequestIDKey); ok {
		if s, ok := id.(string); ok {
			return s
		}
	}

	var requestID string
	if ctx.Request != nil {
		requestID = ctx.GetHeader(RequestIDHeader)
	}
	if requestID == "" {
		requestID = uuid.NewV4().String()
	}
	ctx.Set(RequestIDKey, requestID)
	return requestID
}

// GetRequestLogger returns the per-request logger installed by RequestLogger,
// or fallback when the middleware did not run.
func GetRequestLogger(ctx *gin.Context, fallback *zap.Logger) *zap.Logger {
	if l, ok := ctx.Get(RequestLoggerKey); ok {
		if zl, ok := l.(*zap.Logger); ok {
			return zl
		}
	}
	return fallback
}

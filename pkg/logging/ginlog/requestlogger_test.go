package ginlog

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestGetOrCreateRequestID(t *testing.T) {
	t.Run("if no request ID is present, then one should be created", func(t *testing.T) {
		r, err := http.NewRequest(http.MethodGet, "/", nil)
		require.NoError(t, err)
		c := &gin.Context{Request: r}

		id := GetOrCreateRequestID(c)
		assert.NotEmpty(t, id)
		assert.Equal(t, id, GetOrCreateRequestID(c), "second call should reuse the ID")
	})

	t.Run("if request ID is present in header, then it should be used", func(t *testing.T) {
		r, err := http.NewRequest(http.MethodGet, "/", nil)
		require.NoError(t, err)
		r.Header.Add(RequestIDHeader, "test")
		c := &gin.Context{Request: r}

		assert.Equal(t, "test", GetOrCreateRequestID(c))
	})

	t.Run("if request ID is on context, then it should be used", func(t *testing.T) {
		c := &gin.Context{}
		c.Set(RequestIDKey, "test")

		assert.Equal(t, "test", GetOrCreateRequestID(c))
	})
}

func TestRequestLogger(t *testing.T) {
	newRouter := func(opts ...RequestLoggerOption) (*gin.Engine, *observer.ObservedLogs) {
		core, logs := observer.New(zapcore.DebugLevel)
		r := gin.New()
		r.Use(RequestLogger(zap.New(core), opts...))
		r.GET("/api/list-datasets", func(c *gin.Context) {
			GetRequestLogger(c, zap.NewNop()).Info("inside handler")
			c.JSON(http.StatusOK, gin.H{"datasets": []string{}})
		})
		r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
		r.GET("/boom", func(c *gin.Context) {
			_ = c.Error(errors.New("upstream failed"))
			c.Status(http.StatusInternalServerError)
		})
		return r, logs
	}

	t.Run("writes an access log with request id", func(t *testing.T) {
		r, logs := newRouter()
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/list-datasets?x=1", nil)
		req.Header.Set(RequestIDHeader, "req-1")
		r.ServeHTTP(w, req)

		assert.Equal(t, "req-1", w.Header().Get(RequestIDHeader))
		require.Equal(t, 2, logs.Len())
		handlerLog := logs.All()[0]
		assert.Equal(t, "inside handler", handlerLog.Message)
		assert.Equal(t, "req-1", handlerLog.ContextMap()[RequestIDKey])

		access := logs.All()[1].ContextMap()
		assert.Equal(t, "/api/list-datasets", access["path"])
		assert.Equal(t, "x=1", access["query"])
		assert.EqualValues(t, http.StatusOK, access["status"])
	})

	t.Run("query parameters can be excluded", func(t *testing.T) {
		r, logs := newRouter(WithRequestLoggerExcludeQueryParameters(true))
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health?secret=1", nil))

		require.Equal(t, 1, logs.Len())
		_, ok := logs.All()[0].ContextMap()["query"]
		assert.False(t, ok)
	})

	t.Run("level by path", func(t *testing.T) {
		cfg := RequestLoggerConfig{LevelByPath: map[string]string{"/health": "debug"}}
		r, logs := newRouter(cfg.Opts()...)
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

		require.Equal(t, 1, logs.Len())
		assert.Equal(t, zapcore.DebugLevel, logs.All()[0].Level)
	})

	t.Run("handler errors are logged at error level", func(t *testing.T) {
		r, logs := newRouter()
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))

		require.Equal(t, 1, logs.Len())
		assert.Equal(t, zapcore.ErrorLevel, logs.All()[0].Level)
		assert.Equal(t, "upstream failed", logs.All()[0].ContextMap()["error"])
	})
}

func TestParseLevelByPath(t *testing.T) {
	got := parseLevelByPath(map[string]string{
		"/health":  "debug",
		"/metrics": "lala",
	})
	assert.Equal(t, zapcore.DebugLevel, got["/health"])
	assert.Equal(t, zapcore.InfoLevel, got["/metrics"])
}

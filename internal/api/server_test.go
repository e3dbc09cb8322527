package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sgl-project/dataset-viz/pkg/config"
	"github.com/sgl-project/dataset-viz/pkg/datasetinfo"
	"github.com/sgl-project/dataset-viz/pkg/metrics"
	"github.com/sgl-project/dataset-viz/pkg/objectproxy"
	"github.com/sgl-project/dataset-viz/pkg/storage"
)

type fakeLister []string

func (f fakeLister) ListRecentDatasets(context.Context) []string { return f }

type fakeProxy struct {
	obj *objectproxy.Object
	err error
}

func (f fakeProxy) FetchObject(_ context.Context, path string) (*objectproxy.Object, error) {
	if path == "" {
		return nil, objectproxy.ErrMissingPath
	}
	return f.obj, f.err
}

type fakeResolver struct {
	info    *datasetinfo.Info
	version string
	err     error
}

func (f fakeResolver) Resolve(context.Context, string) (*datasetinfo.Info, string, error) {
	return f.info, f.version, f.err
}

type testDeps struct {
	lister   fakeLister
	proxy    fakeProxy
	resolver fakeResolver
	builder  versionedURLBuilder
	resolve  datasetinfo.ProxyURLResolver
	reg      *prometheus.Registry
}

func newTestServer(t *testing.T, d testDeps) http.Handler {
	t.Helper()
	if d.lister == nil {
		d.lister = fakeLister{}
	}
	if d.builder == nil {
		d.builder = datasetinfo.NewStorageURLBuilder()
	}
	if d.resolve == nil {
		d.resolve = datasetinfo.ServerURLResolver{}
	}
	if d.reg == nil {
		d.reg = prometheus.NewRegistry()
	}
	s := NewServer(ServerParams{
		Config:      config.Defaults(),
		Lister:      d.lister,
		Proxy:       d.proxy,
		Resolver:    d.resolver,
		URLBuilder:  d.builder,
		URLResolver: d.resolve,
		Metrics:     metrics.NewMetrics(d.reg),
		Gatherer:    d.reg,
		Logger:      zap.NewNop(),
	})
	return s.SetupRoutes()
}

func do(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestListDatasets(t *testing.T) {
	h := newTestServer(t, testDeps{lister: fakeLister{"orgB/new", "orgA/old"}})

	rec := do(t, h, "/api/list-datasets")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"datasets":["orgB/new","orgA/old"]}`, rec.Body.String())
}

func TestListDatasets_Empty(t *testing.T) {
	h := newTestServer(t, testDeps{})

	rec := do(t, h, "/api/list-datasets")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"datasets":[]}`, rec.Body.String())
}

func TestS3Proxy(t *testing.T) {
	h := newTestServer(t, testDeps{proxy: fakeProxy{obj: &objectproxy.Object{
		Data:        []byte("PAR1"),
		ContentType: "application/vnd.apache.parquet",
	}}})

	rec := do(t, h, "/api/s3-proxy?path=org%2Fds%2Fdata%2Ffile.parquet")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "PAR1", rec.Body.String())
	assert.Equal(t, "application/vnd.apache.parquet", rec.Header().Get("Content-Type"))
	assert.Equal(t, "public, max-age=3600", rec.Header().Get("Cache-Control"))
	assert.NotEmpty(t, rec.Header().Get("opc-request-id"))
}

func TestS3Proxy_Errors(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		err     error
		status  int
		message string
	}{
		{name: "missing path", target: "/api/s3-proxy", status: http.StatusBadRequest, message: "Missing path parameter"},
		{name: "empty path", target: "/api/s3-proxy?path=", status: http.StatusBadRequest, message: "Missing path parameter"},
		{name: "empty body", target: "/api/s3-proxy?path=a", err: objectproxy.ErrEmptyResponse, status: http.StatusNotFound, message: "Empty response from S3"},
		{
			name:    "not found",
			target:  "/api/s3-proxy?path=a",
			err:     storage.NewError("get", "bucket/a", storage.ProviderS3, storage.ErrNotFound),
			status:  http.StatusNotFound,
			message: "storage s3: get failed for bucket/a: storage: object not found",
		},
		{name: "too large", target: "/api/s3-proxy?path=a", err: storage.ErrTooLarge, status: http.StatusRequestEntityTooLarge, message: "storage: object exceeds size limit"},
		{name: "backend failure", target: "/api/s3-proxy?path=a", err: errors.New("The specified bucket does not exist"), status: http.StatusInternalServerError, message: "The specified bucket does not exist"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestServer(t, testDeps{proxy: fakeProxy{err: tt.err}})
			rec := do(t, h, tt.target)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.message, decode(t, rec)["error"])
			assert.Empty(t, rec.Header().Get("Cache-Control"))
		})
	}
}

func TestDatasetInfo(t *testing.T) {
	raw := `{"codebase_version":"v2.1","features":{"action":{}}}`
	h := newTestServer(t, testDeps{resolver: fakeResolver{
		info:    &datasetinfo.Info{CodebaseVersion: "v2.1", Raw: json.RawMessage(raw)},
		version: "v2.1",
	}})

	rec := do(t, h, "/api/dataset-info?dataset=org/ds")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"dataset":"org/ds","version":"v2.1","info":`+raw+`}`, rec.Body.String())
}

func TestDatasetInfo_Errors(t *testing.T) {
	rec := do(t, newTestServer(t, testDeps{}), "/api/dataset-info")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	unsupported := &datasetinfo.UnsupportedVersionError{DatasetID: "org/ds", Version: "v1.0"}
	rec = do(t, newTestServer(t, testDeps{resolver: fakeResolver{err: unsupported}}), "/api/dataset-info?dataset=org/ds")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, decode(t, rec)["error"], "v3.0, v2.1, v2.0")

	incompatible := &datasetinfo.IncompatibleError{DatasetID: "org/ds", Err: datasetinfo.ErrMissingFeatures}
	rec = do(t, newTestServer(t, testDeps{resolver: fakeResolver{err: incompatible}}), "/api/dataset-info?dataset=org/ds")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(t, newTestServer(t, testDeps{resolver: fakeResolver{err: context.Canceled}}), "/api/dataset-info?dataset=org/ds")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestVersionedURL(t *testing.T) {
	h := newTestServer(t, testDeps{resolve: datasetinfo.BrowserURLResolver{Origin: "https://viz.example.com"}})

	rec := do(t, h, "/api/versioned-url?dataset=org/ds&version=v3.0&path=meta/info.json")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "s3-proxy:org/ds/meta/info.json", body["url"])
	assert.Equal(t, "https://viz.example.com/api/s3-proxy?path=org%2Fds%2Fmeta%2Finfo.json", body["resolved_url"])

	rec = do(t, h, "/api/versioned-url?dataset=org/ds")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	h := newTestServer(t, testDeps{reg: reg})

	rec := do(t, h, "/health")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = do(t, h, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `dataset_viz_http_request_duration_seconds_count{method="GET",route="/health",status="200"} 1`)
}

func TestCORS(t *testing.T) {
	h := newTestServer(t, testDeps{})

	req := httptest.NewRequest(http.MethodGet, "/api/list-datasets", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sgl-project/dataset-viz/pkg/datasetinfo"
	"github.com/sgl-project/dataset-viz/pkg/logging/ginlog"
	"github.com/sgl-project/dataset-viz/pkg/objectproxy"
	"github.com/sgl-project/dataset-viz/pkg/storage"
)

// listDatasets handles GET /api/list-datasets. It always answers 200.
func (s *Server) listDatasets(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"datasets": s.lister.ListRecentDatasets(c.Request.Context()),
	})
}

// s3Proxy handles GET /api/s3-proxy?path=
func (s *Server) s3Proxy(c *gin.Context) {
	path := c.Query("path")
	if path == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing path parameter"})
		return
	}

	obj, err := s.proxy.FetchObject(c.Request.Context(), path)
	if err != nil {
		status, message := proxyErrorStatus(err)
		if status >= http.StatusInternalServerError {
			ginlog.GetRequestLogger(c, s.logger).Error("Error fetching from storage",
				zap.String("object", path), zap.Error(err))
		}
		c.JSON(status, gin.H{"error": message})
		return
	}

	c.Header("Cache-Control", fmt.Sprintf("public, max-age=%d", s.config.CacheMaxAge))
	c.Data(http.StatusOK, obj.ContentType, obj.Data)
}

func proxyErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, objectproxy.ErrMissingPath):
		return http.StatusBadRequest, "Missing path parameter"
	case errors.Is(err, objectproxy.ErrEmptyResponse):
		return http.StatusNotFound, "Empty response from S3"
	case storage.IsNotFound(err):
		return http.StatusNotFound, err.Error()
	case storage.IsTooLarge(err):
		return http.StatusRequestEntityTooLarge, err.Error()
	default:
		return http.StatusInternalServerError, err.Error()
	}
}

// datasetInfo handles GET /api/dataset-info?dataset=
func (s *Server) datasetInfo(c *gin.Context) {
	dataset := c.Query("dataset")
	if dataset == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing dataset parameter"})
		return
	}

	info, version, err := s.resolver.Resolve(c.Request.Context(), dataset)
	if err != nil {
		status := http.StatusUnprocessableEntity
		if !datasetinfo.IsIncompatible(err) {
			status = http.StatusInternalServerError
			_ = c.Error(err)
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"dataset": dataset,
		"version": version,
		"info":    info.Raw,
	})
}

// versionedURL handles GET /api/versioned-url?dataset=&version=&path=
func (s *Server) versionedURL(c *gin.Context) {
	dataset, path := c.Query("dataset"), c.Query("path")
	if dataset == "" || path == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing dataset or path parameter"})
		return
	}

	url := s.urlBuilder.BuildVersionedURL(dataset, c.Query("version"), path)
	c.JSON(http.StatusOK, gin.H{
		"url":          url,
		"resolved_url": s.urlResolver.ResolveS3ProxyURL(url),
	})
}

package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"artlink/internal/api/middleware"
	"artlink/internal/storage"
)

type objectOpener interface {
	OpenObject(ctx context.Context, objectKey string) (*storage.Object, error)
}

// MediaHandler 以 /uploads/<key> 的形式公开已上传的图片。
type MediaHandler struct {
	storage objectOpener
}

func NewMediaHandler(storageClient objectOpener) *MediaHandler {
	return &MediaHandler{storage: storageClient}
}

// Serve streams the object behind GET /uploads/*path.
func (h *MediaHandler) Serve(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("path"), "/")
	if !storage.IsValidImageKey(key) {
		NotFound(c, "not found")
		return
	}

	obj, err := h.storage.OpenObject(c.Request.Context(), key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			NotFound(c, "not found")
			return
		}
		middleware.LoggerFromContext(c).Error("open object", slog.String("object_key", key), slog.Any("error", err))
		Internal(c)
		return
	}
	defer obj.Close()

	if obj.ETag != "" {
		etag := strconv.Quote(obj.ETag)
		c.Header("ETag", etag)
		if c.GetHeader("If-None-Match") == etag {
			c.Status(http.StatusNotModified)
			return
		}
	}
	c.Header("Cache-Control", "public, max-age=86400")
	if !obj.LastModified.IsZero() {
		c.Header("Last-Modified", obj.LastModified.UTC().Format(http.TimeFormat))
	}

	contentType := obj.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.DataFromReader(http.StatusOK, obj.Size, contentType, obj.ReadCloser, nil)
}

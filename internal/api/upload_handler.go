package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"artlink/internal/api/middleware"
	"artlink/internal/metrics"
	"artlink/internal/storage"
)

const sniffLen = 512

// imageUploader 是 *storage.Client 上传所需的子集。
type imageUploader interface {
	UploadFile(ctx context.Context, objectKey string, reader io.Reader, size int64, contentType string) error
}

// UploadHandler 负责图片上传：校验类型与大小、病毒扫描，然后写入对象存储。
type UploadHandler struct {
	storage  imageUploader
	scanner  VirusScanner
	maxBytes int64
}

// NewUploadHandler 返回 UploadHandler。scanner 为 nil 时跳过病毒扫描。
func NewUploadHandler(storageClient imageUploader, scanner VirusScanner, maxBytes int64) *UploadHandler {
	return &UploadHandler{storage: storageClient, scanner: scanner, maxBytes: maxBytes}
}

type uploadResponse struct {
	Path string `json:"path"`
}

// UploadImage 接收 multipart 字段 file 与 folder，返回可写入 profile_picture_path 或 image_path 的路径。
func (h *UploadHandler) UploadImage(c *gin.Context) {
	if _, ok := requireCaller(c); !ok {
		return
	}
	logger := middleware.LoggerFromContext(c)

	folder := c.PostForm("folder")
	if !storage.IsAllowedFolder(folder) {
		BadRequest(c, "folder must be profiles or artworks")
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		BadRequest(c, "missing file")
		return
	}
	if file.Size <= 0 {
		BadRequest(c, "empty file")
		return
	}
	if file.Size > h.maxBytes {
		Error(c, http.StatusRequestEntityTooLarge, "file too large")
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	contentType, ok := storage.ImageContentType(ext)
	if !ok {
		BadRequest(c, "unsupported image type")
		return
	}
	if !h.looksLikeImage(file) {
		BadRequest(c, "file content is not an image")
		return
	}

	if h.scanner != nil {
		if err := h.scan(file); err != nil {
			if errors.Is(err, ErrInfected) {
				logger.Warn("upload rejected by virus scan", slog.Any("error", err))
				metrics.ObserveImageUpload(folder, metrics.OutcomeRejected)
				BadRequest(c, "malicious file detected")
				return
			}
			logger.Error("scan file", slog.Any("error", err))
			Internal(c)
			return
		}
	}

	objectKey, err := storage.NewImageKey(folder, ext)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}

	reader, err := file.Open()
	if err != nil {
		logger.Error("reopen uploaded file", slog.Any("error", err))
		Internal(c)
		return
	}
	defer reader.Close()

	if err := h.storage.UploadFile(c.Request.Context(), objectKey, reader, file.Size, contentType); err != nil {
		logger.Error("upload file", slog.String("object_key", objectKey), slog.Any("error", err))
		metrics.ObserveImageUpload(folder, metrics.OutcomeError)
		Internal(c)
		return
	}

	metrics.ObserveImageUpload(folder, metrics.OutcomeSuccess)
	logger.Info("image uploaded", slog.String("object_key", objectKey), slog.Int64("size", file.Size))
	c.JSON(http.StatusCreated, uploadResponse{Path: storage.PublicPath(objectKey)})
}

func (h *UploadHandler) scan(file *multipart.FileHeader) error {
	reader, err := file.Open()
	if err != nil {
		return err
	}
	defer reader.Close()
	return h.scanner.Scan(reader)
}

// looksLikeImage 用内容嗅探确认文件确实是图片，而不只是扩展名正确。
func (h *UploadHandler) looksLikeImage(file *multipart.FileHeader) bool {
	reader, err := file.Open()
	if err != nil {
		return false
	}
	defer reader.Close()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(reader, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return false
	}
	return strings.HasPrefix(http.DetectContentType(head[:n]), "image/")
}

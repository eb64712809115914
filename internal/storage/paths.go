package storage

import (
	"fmt"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	// PublicPrefix 是对外暴露的图片路径前缀，由 API 的 /uploads 路由提供。
	PublicPrefix = "/uploads/"
	imageRoot    = "images/"
	maxKeyLength = 200
)

// 图片目录。
const (
	FolderProfiles = "profiles"
	FolderArtworks = "artworks"
)

var imageContentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// IsAllowedFolder reports whether folder is one of the image folders.
func IsAllowedFolder(folder string) bool {
	return folder == FolderProfiles || folder == FolderArtworks
}

// ImageContentType returns the MIME type for an allowed extension.
func ImageContentType(ext string) (string, bool) {
	ct, ok := imageContentTypes[strings.ToLower(ext)]
	return ct, ok
}

// NewImageKey 生成 images/<folder>/<uuid><ext> 形式的对象 key。
func NewImageKey(folder, ext string) (string, error) {
	if !IsAllowedFolder(folder) {
		return "", fmt.Errorf("unsupported image folder %q", folder)
	}
	ext = strings.ToLower(ext)
	if _, ok := imageContentTypes[ext]; !ok {
		return "", fmt.Errorf("unsupported image extension %q", ext)
	}
	return imageRoot + folder + "/" + uuid.NewString() + ext, nil
}

// PublicPath is the path clients store in profile_picture_path or image_path.
func PublicPath(objectKey string) string {
	return PublicPrefix + objectKey
}

// KeyFromPublicPath maps a stored path back to its object key. Paths outside
// the image folders, traversal attempts and non-image extensions are rejected.
func KeyFromPublicPath(p string) (string, bool) {
	if !strings.HasPrefix(p, PublicPrefix) {
		return "", false
	}
	key := strings.TrimPrefix(p, PublicPrefix)
	if !IsValidImageKey(key) {
		return "", false
	}
	return key, true
}

// IsValidImageKey 校验对象 key 是否落在图片目录且扩展名合法。
func IsValidImageKey(key string) bool {
	if key == "" || len(key) > maxKeyLength || !utf8.ValidString(key) {
		return false
	}
	if strings.Contains(key, "..") || strings.Contains(key, "\\") || strings.Contains(key, "//") {
		return false
	}
	if !strings.HasPrefix(key, imageRoot) {
		return false
	}
	folder := strings.SplitN(strings.TrimPrefix(key, imageRoot), "/", 2)[0]
	if !IsAllowedFolder(folder) {
		return false
	}
	_, ok := imageContentTypes[strings.ToLower(path.Ext(key))]
	return ok
}

// Package repository maps domain entities onto gorm models and back.
//
// Lookups return (nil, nil) for a missing row; Update and Delete report
// whether the row existed instead of failing.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"artlink/internal/database"
)

// ErrDuplicate 表示唯一约束冲突（目前只有邮箱）。
var ErrDuplicate = errors.New("duplicate record")

// translate wraps a gorm error with op, mapping unique violations onto ErrDuplicate.
func translate(op string, err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%s: %w", op, ErrDuplicate)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// escapeLike 转义 LIKE 通配符，使 prompt 按字面子串匹配。
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func likePattern(prompt string) string {
	return "%" + escapeLike(prompt) + "%"
}

// likeClause builds "(a LIKE ? ESCAPE '\' OR b LIKE ? ESCAPE '\' …)" over columns.
func likeClause(columns ...string) string {
	parts := make([]string, len(columns))
	for i, col := range columns {
		parts[i] = col + ` LIKE ? ESCAPE '\'`
	}
	return "(" + strings.Join(parts, " OR ") + ")"
}

func repeatArg(v any, n int) []any {
	args := make([]any, n)
	for i := range args {
		args[i] = v
	}
	return args
}

// exists reports whether a row of model with the given id is present.
func exists(tx *gorm.DB, model any, id uuid.UUID) (bool, error) {
	var count int64
	if err := tx.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func nonEmpty(paths []string) []string {
	out := paths[:0]
	for _, p := range paths {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// unreferencedPaths 过滤掉仍被艺术家头像或作品图片引用的路径，结果去重。
// 删除或替换提交之后调用，避免清理掉别的记录还在使用的对象。
func unreferencedPaths(ctx context.Context, db *gorm.DB, paths []string) ([]string, error) {
	paths = nonEmpty(append([]string(nil), paths...))
	if len(paths) == 0 {
		return nil, nil
	}
	db = db.WithContext(ctx)

	var inUse []string
	if err := db.Model(&database.Artwork{}).Where("image_path IN ?", paths).Pluck("image_path", &inUse).Error; err != nil {
		return nil, translate("referenced artwork images", err)
	}
	var pictures []string
	if err := db.Model(&database.Artist{}).Where("profile_picture_path IN ?", paths).Pluck("profile_picture_path", &pictures).Error; err != nil {
		return nil, translate("referenced profile pictures", err)
	}

	skip := make(map[string]struct{}, len(inUse)+len(pictures)+len(paths))
	for _, p := range append(inUse, pictures...) {
		skip[p] = struct{}{}
	}
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if _, ok := skip[p]; ok {
			continue
		}
		skip[p] = struct{}{}
		out = append(out, p)
	}
	return out, nil
}

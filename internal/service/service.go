// Package service sits between the HTTP handlers and the repositories. It
// logs every operation, hashes passwords, enforces the contract state graph
// and triggers side effects such as media cleanup and notifications.
package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"artlink/internal/notify"
	"artlink/internal/repository"
)

var (
	// ErrNotFound 表示 Update/Delete 的目标不存在。
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials 邮箱不存在与密码错误统一返回此错误。
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	// ErrInvalidReference 表示请求引用了不存在的艺术家、技法、作品集或雇主。
	ErrInvalidReference = errors.New("referenced entity does not exist")
	// ErrPartyChangeNotPermitted 表示非管理员试图改动合同的艺术家或雇主。
	ErrPartyChangeNotPermitted = errors.New("only an admin can change contract parties")
)

// MediaPurger removes stored images that no row references any more.
type MediaPurger interface {
	PurgeMedia(ctx context.Context, reason string, paths ...string) error
}

// ContractNotifier delivers contract events to one account.
type ContractNotifier interface {
	NotifyContract(ctx context.Context, recipient uuid.UUID, event notify.ContractEvent) error
}

type noopPurger struct{}

func (noopPurger) PurgeMedia(context.Context, string, ...string) error { return nil }

type noopNotifier struct{}

func (noopNotifier) NotifyContract(context.Context, uuid.UUID, notify.ContractEvent) error { return nil }

func orNoopPurger(p MediaPurger) MediaPurger {
	if p == nil {
		return noopPurger{}
	}
	return p
}

func orDefaultLogger(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}

// pathReferences 查询哪些图片路径已经没有记录在用。
type pathReferences interface {
	UnreferencedPaths(ctx context.Context, paths []string) ([]string, error)
}

// purgeQuietly 只清理已无引用的图片，返回投递的路径数；失败只记录日志，不影响主流程。
func purgeQuietly(ctx context.Context, logger *slog.Logger, purger MediaPurger, refs pathReferences, reason string, paths ...string) int {
	if len(paths) == 0 {
		return 0
	}
	orphaned, err := refs.UnreferencedPaths(ctx, paths)
	if err != nil {
		logger.WarnContext(ctx, "check image references failed, skipping purge", slog.String("reason", reason), slog.Any("error", err))
		return 0
	}
	if len(orphaned) < len(paths) {
		logger.InfoContext(ctx, "images still referenced, kept in storage",
			slog.String("reason", reason),
			slog.Int("kept", len(paths)-len(orphaned)),
		)
	}
	if len(orphaned) == 0 {
		return 0
	}
	if err := purger.PurgeMedia(ctx, reason, orphaned...); err != nil {
		logger.WarnContext(ctx, "enqueue media purge failed", slog.String("reason", reason), slog.Any("error", err))
		return 0
	}
	return len(orphaned)
}

// mapDuplicate turns a unique violation on email into ErrEmailTaken.
func mapDuplicate(err error) error {
	if errors.Is(err, repository.ErrDuplicate) {
		return ErrEmailTaken
	}
	return err
}

// replaced reports whether a stored image path is being dropped or swapped.
func replaced(old, updated *string) bool {
	if old == nil || *old == "" {
		return false
	}
	return updated == nil || *updated != *old
}

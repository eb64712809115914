package repository

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"artlink/internal/database"
	"artlink/internal/domain"
)

// AdminRepository 管理员账号只由 admin 命令行创建。
type AdminRepository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewAdminRepository(db *gorm.DB, logger *slog.Logger) *AdminRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &AdminRepository{db: db, logger: logger.With(slog.String("repository", "admin"))}
}

func (r *AdminRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Admin, error) {
	var m database.Admin
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translate("get admin", err)
	}
	a := adminToDomain(m)
	return &a, nil
}

func (r *AdminRepository) GetByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	var m database.Admin
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translate("get admin by email", err)
	}
	a := adminToDomain(m)
	return &a, nil
}

func (r *AdminRepository) Add(ctx context.Context, a domain.Admin) (uuid.UUID, error) {
	m := database.Admin{
		ID:                 uuid.New(),
		Email:              a.Email,
		PasswordHash:       a.PasswordHash,
		MustChangePassword: a.MustChangePassword,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return uuid.Nil, translate("add admin", err)
	}
	return m.ID, nil
}

// SetPassword replaces the hash and clears or sets the must-change flag.
func (r *AdminRepository) SetPassword(ctx context.Context, id uuid.UUID, hash string, mustChange bool) (bool, error) {
	res := r.db.WithContext(ctx).Model(&database.Admin{}).Where("id = ?", id).Updates(map[string]any{
		"password_hash":        hash,
		"must_change_password": mustChange,
	})
	if res.Error != nil {
		return false, translate("set admin password", res.Error)
	}
	if res.RowsAffected == 0 {
		r.logger.WarnContext(ctx, "password update skipped, admin not found", slog.String("admin_id", id.String()))
		return false, nil
	}
	return true, nil
}

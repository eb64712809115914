package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"artlink/internal/auth"
	"artlink/internal/domain"
	"artlink/internal/repository"
)

// AdminService 管理员登录、改密与（命令行）创建。
type AdminService struct {
	repo   *repository.AdminRepository
	logger *slog.Logger
}

func NewAdminService(repo *repository.AdminRepository, logger *slog.Logger) *AdminService {
	return &AdminService{repo: repo, logger: orDefaultLogger(logger).With(slog.String("service", "admin"))}
}

// Create stores a new admin with a random one-time password that must be changed on first login.
func (s *AdminService) Create(ctx context.Context, email string) (uuid.UUID, string, error) {
	email = strings.TrimSpace(email)
	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return uuid.Nil, "", err
	}
	if existing != nil {
		return uuid.Nil, "", ErrEmailTaken
	}

	password, err := auth.GenerateRandomPassword(24)
	if err != nil {
		return uuid.Nil, "", err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return uuid.Nil, "", err
	}
	id, err := s.repo.Add(ctx, domain.Admin{Email: email, PasswordHash: hash, MustChangePassword: true})
	if err != nil {
		return uuid.Nil, "", mapDuplicate(err)
	}
	s.logger.InfoContext(ctx, "admin created", slog.String("admin_id", id.String()))
	return id, password, nil
}

func (s *AdminService) Login(ctx context.Context, email, password string) (*domain.Admin, error) {
	a, err := s.repo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		s.logger.ErrorContext(ctx, "admin login lookup failed", slog.Any("error", err))
		return nil, err
	}
	if a == nil || !auth.CheckPasswordHash(password, a.PasswordHash) {
		s.logger.WarnContext(ctx, "admin login rejected", slog.String("email", email))
		return nil, ErrInvalidCredentials
	}
	s.logger.InfoContext(ctx, "admin logged in", slog.String("admin_id", a.ID.String()))
	return a, nil
}

// ChangePassword verifies the current password, stores the new one and clears the must-change flag.
func (s *AdminService) ChangePassword(ctx context.Context, id uuid.UUID, current, next string) (*domain.Admin, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrNotFound
	}
	if !auth.CheckPasswordHash(current, a.PasswordHash) {
		s.logger.WarnContext(ctx, "admin password change rejected", slog.String("admin_id", id.String()))
		return nil, ErrInvalidCredentials
	}
	hash, err := auth.HashPassword(next)
	if err != nil {
		return nil, err
	}
	found, err := s.repo.SetPassword(ctx, id, hash, false)
	if err != nil {
		s.logger.ErrorContext(ctx, "admin password change failed", slog.Any("error", err))
		return nil, err
	}
	if !found {
		return nil, ErrNotFound
	}
	a.PasswordHash = hash
	a.MustChangePassword = false
	s.logger.InfoContext(ctx, "admin password changed", slog.String("admin_id", id.String()))
	return a, nil
}

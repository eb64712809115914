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

type RegisterEmployerInput struct {
	CompanyName string
	Email       string
	Password    string
	CpFirstName string
	CpLastName  string
}

type EmployerService struct {
	repo   *repository.EmployerRepository
	logger *slog.Logger
}

func NewEmployerService(repo *repository.EmployerRepository, logger *slog.Logger) *EmployerService {
	return &EmployerService{repo: repo, logger: orDefaultLogger(logger).With(slog.String("service", "employer"))}
}

func (s *EmployerService) Register(ctx context.Context, in RegisterEmployerInput) (uuid.UUID, error) {
	email := strings.TrimSpace(in.Email)
	s.logger.InfoContext(ctx, "registering employer", slog.String("email", email))

	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		s.logger.ErrorContext(ctx, "register employer failed", slog.Any("error", err))
		return uuid.Nil, err
	}
	if existing != nil {
		return uuid.Nil, ErrEmailTaken
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return uuid.Nil, err
	}
	id, err := s.repo.Add(ctx, domain.Employer{
		CompanyName:  in.CompanyName,
		Email:        email,
		PasswordHash: hash,
		CpFirstName:  in.CpFirstName,
		CpLastName:   in.CpLastName,
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "register employer failed", slog.Any("error", err))
		return uuid.Nil, mapDuplicate(err)
	}
	s.logger.InfoContext(ctx, "employer registered", slog.String("employer_id", id.String()))
	return id, nil
}

func (s *EmployerService) Login(ctx context.Context, email, password string) (*domain.Employer, error) {
	e, err := s.repo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		s.logger.ErrorContext(ctx, "employer login lookup failed", slog.Any("error", err))
		return nil, err
	}
	if e == nil || !auth.CheckPasswordHash(password, e.PasswordHash) {
		s.logger.WarnContext(ctx, "employer login rejected", slog.String("email", email))
		return nil, ErrInvalidCredentials
	}
	s.logger.InfoContext(ctx, "employer logged in", slog.String("employer_id", e.ID.String()))
	return e, nil
}

func (s *EmployerService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Employer, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.ErrorContext(ctx, "get employer failed", slog.String("employer_id", id.String()), slog.Any("error", err))
		return nil, err
	}
	if e == nil {
		s.logger.WarnContext(ctx, "employer not found", slog.String("employer_id", id.String()))
	}
	return e, nil
}

func (s *EmployerService) GetAll(ctx context.Context) ([]domain.Employer, error) {
	list, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "list employers failed", slog.Any("error", err))
		return nil, err
	}
	return list, nil
}

func (s *EmployerService) Update(ctx context.Context, e domain.Employer) error {
	s.logger.InfoContext(ctx, "updating employer", slog.String("employer_id", e.ID.String()))
	found, err := s.repo.Update(ctx, e)
	if err != nil {
		s.logger.ErrorContext(ctx, "update employer failed", slog.String("employer_id", e.ID.String()), slog.Any("error", err))
		return mapDuplicate(err)
	}
	if !found {
		s.logger.WarnContext(ctx, "employer not found", slog.String("employer_id", e.ID.String()))
		return ErrNotFound
	}
	s.logger.InfoContext(ctx, "employer updated", slog.String("employer_id", e.ID.String()))
	return nil
}

// Delete removes the employer and its contracts.
func (s *EmployerService) Delete(ctx context.Context, id uuid.UUID) error {
	s.logger.InfoContext(ctx, "deleting employer", slog.String("employer_id", id.String()))
	found, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.logger.ErrorContext(ctx, "delete employer failed", slog.String("employer_id", id.String()), slog.Any("error", err))
		return err
	}
	if !found {
		s.logger.WarnContext(ctx, "employer not found", slog.String("employer_id", id.String()))
		return ErrNotFound
	}
	s.logger.InfoContext(ctx, "employer deleted", slog.String("employer_id", id.String()))
	return nil
}

func (s *EmployerService) Search(ctx context.Context, prompt string) ([]domain.Employer, error) {
	list, err := s.repo.SearchByPrompt(ctx, prompt)
	if err != nil {
		s.logger.ErrorContext(ctx, "search employers failed", slog.Any("error", err))
		return nil, err
	}
	s.logger.DebugContext(ctx, "employers searched", slog.String("prompt", prompt), slog.Int("results", len(list)))
	return list, nil
}

package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"artlink/internal/domain"
	"artlink/internal/repository"
)

type TechniqueService struct {
	repo   *repository.TechniqueRepository
	purger MediaPurger
	logger *slog.Logger
}

func NewTechniqueService(repo *repository.TechniqueRepository, purger MediaPurger, logger *slog.Logger) *TechniqueService {
	return &TechniqueService{
		repo:   repo,
		purger: orNoopPurger(purger),
		logger: orDefaultLogger(logger).With(slog.String("service", "technique")),
	}
}

func (s *TechniqueService) Add(ctx context.Context, t domain.Technique) (uuid.UUID, error) {
	s.logger.InfoContext(ctx, "adding technique", slog.String("name", t.Name))
	id, err := s.repo.Add(ctx, t)
	if err != nil {
		s.logger.ErrorContext(ctx, "add technique failed", slog.Any("error", err))
		return uuid.Nil, err
	}
	s.logger.InfoContext(ctx, "technique added", slog.String("technique_id", id.String()))
	return id, nil
}

func (s *TechniqueService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Technique, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.ErrorContext(ctx, "get technique failed", slog.String("technique_id", id.String()), slog.Any("error", err))
		return nil, err
	}
	if t == nil {
		s.logger.WarnContext(ctx, "technique not found", slog.String("technique_id", id.String()))
	}
	return t, nil
}

func (s *TechniqueService) GetAll(ctx context.Context) ([]domain.Technique, error) {
	list, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "list techniques failed", slog.Any("error", err))
		return nil, err
	}
	return list, nil
}

func (s *TechniqueService) Update(ctx context.Context, t domain.Technique) error {
	found, err := s.repo.Update(ctx, t)
	if err != nil {
		s.logger.ErrorContext(ctx, "update technique failed", slog.String("technique_id", t.ID.String()), slog.Any("error", err))
		return err
	}
	if !found {
		return ErrNotFound
	}
	s.logger.InfoContext(ctx, "technique updated", slog.String("technique_id", t.ID.String()))
	return nil
}

// Delete cascades to every portfolio using the technique and purges their artwork images.
func (s *TechniqueService) Delete(ctx context.Context, id uuid.UUID) error {
	s.logger.InfoContext(ctx, "deleting technique", slog.String("technique_id", id.String()))
	media, err := s.repo.MediaPaths(ctx, id)
	if err != nil {
		return err
	}
	found, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.logger.ErrorContext(ctx, "delete technique failed", slog.String("technique_id", id.String()), slog.Any("error", err))
		return err
	}
	if !found {
		return ErrNotFound
	}
	purged := purgeQuietly(ctx, s.logger, s.purger, s.repo, "technique deleted", media...)
	s.logger.InfoContext(ctx, "technique deleted", slog.String("technique_id", id.String()), slog.Int("purged_images", purged))
	return nil
}

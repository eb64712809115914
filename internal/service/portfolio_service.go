package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"artlink/internal/domain"
	"artlink/internal/repository"
)

type PortfolioService struct {
	repo       *repository.PortfolioRepository
	artists    *repository.ArtistRepository
	techniques *repository.TechniqueRepository
	purger     MediaPurger
	logger     *slog.Logger
}

func NewPortfolioService(
	repo *repository.PortfolioRepository,
	artists *repository.ArtistRepository,
	techniques *repository.TechniqueRepository,
	purger MediaPurger,
	logger *slog.Logger,
) *PortfolioService {
	return &PortfolioService{
		repo:       repo,
		artists:    artists,
		techniques: techniques,
		purger:     orNoopPurger(purger),
		logger:     orDefaultLogger(logger).With(slog.String("service", "portfolio")),
	}
}

// checkReferences 确认艺术家与技法都存在。
func (s *PortfolioService) checkReferences(ctx context.Context, p domain.Portfolio) error {
	artist, err := s.artists.GetByID(ctx, p.ArtistID)
	if err != nil {
		return err
	}
	if artist == nil {
		return fmt.Errorf("artist %s: %w", p.ArtistID, ErrInvalidReference)
	}
	technique, err := s.techniques.GetByID(ctx, p.TechniqueID)
	if err != nil {
		return err
	}
	if technique == nil {
		return fmt.Errorf("technique %s: %w", p.TechniqueID, ErrInvalidReference)
	}
	return nil
}

func (s *PortfolioService) Add(ctx context.Context, p domain.Portfolio) (uuid.UUID, error) {
	s.logger.InfoContext(ctx, "adding portfolio", slog.String("artist_id", p.ArtistID.String()), slog.String("title", p.Title))
	if err := s.checkReferences(ctx, p); err != nil {
		s.logger.WarnContext(ctx, "add portfolio rejected", slog.Any("error", err))
		return uuid.Nil, err
	}
	id, err := s.repo.Add(ctx, p)
	if err != nil {
		s.logger.ErrorContext(ctx, "add portfolio failed", slog.Any("error", err))
		return uuid.Nil, err
	}
	s.logger.InfoContext(ctx, "portfolio added", slog.String("portfolio_id", id.String()))
	return id, nil
}

func (s *PortfolioService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Portfolio, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.ErrorContext(ctx, "get portfolio failed", slog.String("portfolio_id", id.String()), slog.Any("error", err))
		return nil, err
	}
	if p == nil {
		s.logger.WarnContext(ctx, "portfolio not found", slog.String("portfolio_id", id.String()))
	}
	return p, nil
}

func (s *PortfolioService) GetAllByArtistID(ctx context.Context, artistID uuid.UUID) ([]domain.Portfolio, error) {
	list, err := s.repo.GetAllByArtistID(ctx, artistID)
	if err != nil {
		s.logger.ErrorContext(ctx, "list portfolios failed", slog.String("artist_id", artistID.String()), slog.Any("error", err))
		return nil, err
	}
	return list, nil
}

func (s *PortfolioService) GetAllByTechniqueID(ctx context.Context, techniqueID uuid.UUID) ([]domain.Portfolio, error) {
	list, err := s.repo.GetAllByTechniqueID(ctx, techniqueID)
	if err != nil {
		s.logger.ErrorContext(ctx, "list portfolios failed", slog.String("technique_id", techniqueID.String()), slog.Any("error", err))
		return nil, err
	}
	return list, nil
}

func (s *PortfolioService) Update(ctx context.Context, p domain.Portfolio) error {
	s.logger.InfoContext(ctx, "updating portfolio", slog.String("portfolio_id", p.ID.String()))
	current, err := s.repo.GetByID(ctx, p.ID)
	if err != nil {
		return err
	}
	if current == nil {
		s.logger.WarnContext(ctx, "portfolio not found", slog.String("portfolio_id", p.ID.String()))
		return ErrNotFound
	}
	if err := s.checkReferences(ctx, p); err != nil {
		return err
	}
	found, err := s.repo.Update(ctx, p)
	if err != nil {
		s.logger.ErrorContext(ctx, "update portfolio failed", slog.String("portfolio_id", p.ID.String()), slog.Any("error", err))
		return err
	}
	if !found {
		return ErrNotFound
	}
	s.logger.InfoContext(ctx, "portfolio updated", slog.String("portfolio_id", p.ID.String()))
	return nil
}

func (s *PortfolioService) Delete(ctx context.Context, id uuid.UUID) error {
	s.logger.InfoContext(ctx, "deleting portfolio", slog.String("portfolio_id", id.String()))
	media, err := s.repo.MediaPaths(ctx, id)
	if err != nil {
		return err
	}
	found, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.logger.ErrorContext(ctx, "delete portfolio failed", slog.String("portfolio_id", id.String()), slog.Any("error", err))
		return err
	}
	if !found {
		s.logger.WarnContext(ctx, "portfolio not found", slog.String("portfolio_id", id.String()))
		return ErrNotFound
	}
	purgeQuietly(ctx, s.logger, s.purger, s.repo, "portfolio deleted", media...)
	s.logger.InfoContext(ctx, "portfolio deleted", slog.String("portfolio_id", id.String()))
	return nil
}

package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"artlink/internal/domain"
	"artlink/internal/repository"
)

type ArtworkService struct {
	repo       *repository.ArtworkRepository
	portfolios *repository.PortfolioRepository
	purger     MediaPurger
	logger     *slog.Logger
}

func NewArtworkService(
	repo *repository.ArtworkRepository,
	portfolios *repository.PortfolioRepository,
	purger MediaPurger,
	logger *slog.Logger,
) *ArtworkService {
	return &ArtworkService{
		repo:       repo,
		portfolios: portfolios,
		purger:     orNoopPurger(purger),
		logger:     orDefaultLogger(logger).With(slog.String("service", "artwork")),
	}
}

func (s *ArtworkService) checkPortfolio(ctx context.Context, id uuid.UUID) error {
	p, err := s.portfolios.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("portfolio %s: %w", id, ErrInvalidReference)
	}
	return nil
}

func (s *ArtworkService) Add(ctx context.Context, a domain.Artwork) (uuid.UUID, error) {
	s.logger.InfoContext(ctx, "adding artwork", slog.String("portfolio_id", a.PortfolioID.String()), slog.String("title", a.Title))
	if err := s.checkPortfolio(ctx, a.PortfolioID); err != nil {
		s.logger.WarnContext(ctx, "add artwork rejected", slog.Any("error", err))
		return uuid.Nil, err
	}
	id, err := s.repo.Add(ctx, a)
	if err != nil {
		s.logger.ErrorContext(ctx, "add artwork failed", slog.Any("error", err))
		return uuid.Nil, err
	}
	s.logger.InfoContext(ctx, "artwork added", slog.String("artwork_id", id.String()))
	return id, nil
}

func (s *ArtworkService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Artwork, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.ErrorContext(ctx, "get artwork failed", slog.String("artwork_id", id.String()), slog.Any("error", err))
		return nil, err
	}
	if a == nil {
		s.logger.WarnContext(ctx, "artwork not found", slog.String("artwork_id", id.String()))
	}
	return a, nil
}

func (s *ArtworkService) GetAllByPortfolioID(ctx context.Context, portfolioID uuid.UUID) ([]domain.Artwork, error) {
	list, err := s.repo.GetAllByPortfolioID(ctx, portfolioID)
	if err != nil {
		s.logger.ErrorContext(ctx, "list artworks failed", slog.String("portfolio_id", portfolioID.String()), slog.Any("error", err))
		return nil, err
	}
	return list, nil
}

// Update overwrites the artwork. When the image changes the old object is purged.
func (s *ArtworkService) Update(ctx context.Context, a domain.Artwork) error {
	s.logger.InfoContext(ctx, "updating artwork", slog.String("artwork_id", a.ID.String()))
	current, err := s.repo.GetByID(ctx, a.ID)
	if err != nil {
		return err
	}
	if current == nil {
		s.logger.WarnContext(ctx, "artwork not found", slog.String("artwork_id", a.ID.String()))
		return ErrNotFound
	}
	if err := s.checkPortfolio(ctx, a.PortfolioID); err != nil {
		return err
	}
	found, err := s.repo.Update(ctx, a)
	if err != nil {
		s.logger.ErrorContext(ctx, "update artwork failed", slog.String("artwork_id", a.ID.String()), slog.Any("error", err))
		return err
	}
	if !found {
		return ErrNotFound
	}
	if replaced(&current.ImagePath, &a.ImagePath) {
		purgeQuietly(ctx, s.logger, s.purger, s.repo, "artwork image replaced", current.ImagePath)
	}
	s.logger.InfoContext(ctx, "artwork updated", slog.String("artwork_id", a.ID.String()))
	return nil
}

func (s *ArtworkService) Delete(ctx context.Context, id uuid.UUID) error {
	s.logger.InfoContext(ctx, "deleting artwork", slog.String("artwork_id", id.String()))
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if current == nil {
		s.logger.WarnContext(ctx, "artwork not found", slog.String("artwork_id", id.String()))
		return ErrNotFound
	}
	found, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.logger.ErrorContext(ctx, "delete artwork failed", slog.String("artwork_id", id.String()), slog.Any("error", err))
		return err
	}
	if !found {
		return ErrNotFound
	}
	purgeQuietly(ctx, s.logger, s.purger, s.repo, "artwork deleted", current.ImagePath)
	s.logger.InfoContext(ctx, "artwork deleted", slog.String("artwork_id", id.String()))
	return nil
}

func (s *ArtworkService) Search(ctx context.Context, prompt string) ([]domain.Artwork, error) {
	list, err := s.repo.SearchByPrompt(ctx, prompt)
	if err != nil {
		s.logger.ErrorContext(ctx, "search artworks failed", slog.Any("error", err))
		return nil, err
	}
	s.logger.DebugContext(ctx, "artworks searched", slog.String("prompt", prompt), slog.Int("results", len(list)))
	return list, nil
}

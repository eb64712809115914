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

type PortfolioRepository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewPortfolioRepository(db *gorm.DB, logger *slog.Logger) *PortfolioRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PortfolioRepository{db: db, logger: logger.With(slog.String("repository", "portfolio"))}
}

func (r *PortfolioRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Portfolio, error) {
	var m database.Portfolio
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translate("get portfolio", err)
	}
	p := portfolioToDomain(m)
	return &p, nil
}

func (r *PortfolioRepository) GetAllByArtistID(ctx context.Context, artistID uuid.UUID) ([]domain.Portfolio, error) {
	var models []database.Portfolio
	err := r.db.WithContext(ctx).Where("artist_id = ?", artistID).Order("created_at, id").Find(&models).Error
	if err != nil {
		return nil, translate("list portfolios by artist", err)
	}
	return mapSlice(models, portfolioToDomain), nil
}

func (r *PortfolioRepository) GetAllByTechniqueID(ctx context.Context, techniqueID uuid.UUID) ([]domain.Portfolio, error) {
	var models []database.Portfolio
	err := r.db.WithContext(ctx).Where("technique_id = ?", techniqueID).Order("created_at, id").Find(&models).Error
	if err != nil {
		return nil, translate("list portfolios by technique", err)
	}
	return mapSlice(models, portfolioToDomain), nil
}

func (r *PortfolioRepository) Add(ctx context.Context, p domain.Portfolio) (uuid.UUID, error) {
	m := database.Portfolio{
		ID:          uuid.New(),
		ArtistID:    p.ArtistID,
		TechniqueID: p.TechniqueID,
		Title:       p.Title,
		Description: p.Description,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return uuid.Nil, translate("add portfolio", err)
	}
	return m.ID, nil
}

// Update overwrites all fields, including the owning artist and the technique.
func (r *PortfolioRepository) Update(ctx context.Context, p domain.Portfolio) (bool, error) {
	found := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := exists(tx, &database.Portfolio{}, p.ID)
		if err != nil || !ok {
			return err
		}
		found = true
		return tx.Model(&database.Portfolio{}).Where("id = ?", p.ID).Updates(map[string]any{
			"artist_id":    p.ArtistID,
			"technique_id": p.TechniqueID,
			"title":        p.Title,
			"description":  p.Description,
		}).Error
	})
	if err != nil {
		return false, translate("update portfolio", err)
	}
	if !found {
		r.logger.WarnContext(ctx, "update skipped, portfolio not found", slog.String("portfolio_id", p.ID.String()))
	}
	return found, nil
}

func (r *PortfolioRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	found := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := exists(tx, &database.Portfolio{}, id)
		if err != nil || !ok {
			return err
		}
		found = true
		if err := tx.Where("portfolio_id = ?", id).Delete(&database.Artwork{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&database.Portfolio{}).Error
	})
	if err != nil {
		return false, translate("delete portfolio", err)
	}
	if !found {
		r.logger.WarnContext(ctx, "delete skipped, portfolio not found", slog.String("portfolio_id", id.String()))
	}
	return found, nil
}

// MediaPaths returns the images of every artwork in the portfolio.
func (r *PortfolioRepository) MediaPaths(ctx context.Context, id uuid.UUID) ([]string, error) {
	var images []string
	err := r.db.WithContext(ctx).Model(&database.Artwork{}).Where("portfolio_id = ?", id).Pluck("image_path", &images).Error
	if err != nil {
		return nil, translate("portfolio media", err)
	}
	return nonEmpty(images), nil
}

// UnreferencedPaths drops the paths some artist or artwork row still points at.
func (r *PortfolioRepository) UnreferencedPaths(ctx context.Context, paths []string) ([]string, error) {
	return unreferencedPaths(ctx, r.db, paths)
}

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

type ArtworkRepository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewArtworkRepository(db *gorm.DB, logger *slog.Logger) *ArtworkRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &ArtworkRepository{db: db, logger: logger.With(slog.String("repository", "artwork"))}
}

func (r *ArtworkRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Artwork, error) {
	var m database.Artwork
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translate("get artwork", err)
	}
	a := artworkToDomain(m)
	return &a, nil
}

func (r *ArtworkRepository) GetAllByPortfolioID(ctx context.Context, portfolioID uuid.UUID) ([]domain.Artwork, error) {
	var models []database.Artwork
	err := r.db.WithContext(ctx).Where("portfolio_id = ?", portfolioID).Order("created_at, id").Find(&models).Error
	if err != nil {
		return nil, translate("list artworks by portfolio", err)
	}
	return mapSlice(models, artworkToDomain), nil
}

func (r *ArtworkRepository) Add(ctx context.Context, a domain.Artwork) (uuid.UUID, error) {
	m := database.Artwork{
		ID:          uuid.New(),
		PortfolioID: a.PortfolioID,
		Title:       a.Title,
		Description: a.Description,
		ImagePath:   a.ImagePath,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return uuid.Nil, translate("add artwork", err)
	}
	return m.ID, nil
}

// Update overwrites all fields; moving an artwork to another portfolio is allowed.
func (r *ArtworkRepository) Update(ctx context.Context, a domain.Artwork) (bool, error) {
	found := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := exists(tx, &database.Artwork{}, a.ID)
		if err != nil || !ok {
			return err
		}
		found = true
		return tx.Model(&database.Artwork{}).Where("id = ?", a.ID).Updates(map[string]any{
			"portfolio_id": a.PortfolioID,
			"title":        a.Title,
			"description":  a.Description,
			"image_path":   a.ImagePath,
		}).Error
	})
	if err != nil {
		return false, translate("update artwork", err)
	}
	if !found {
		r.logger.WarnContext(ctx, "update skipped, artwork not found", slog.String("artwork_id", a.ID.String()))
	}
	return found, nil
}

func (r *ArtworkRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&database.Artwork{})
	if res.Error != nil {
		return false, translate("delete artwork", res.Error)
	}
	if res.RowsAffected == 0 {
		r.logger.WarnContext(ctx, "delete skipped, artwork not found", slog.String("artwork_id", id.String()))
		return false, nil
	}
	return true, nil
}

// SearchByPrompt matches title or description. Artworks without a description match on title only.
func (r *ArtworkRepository) SearchByPrompt(ctx context.Context, prompt string) ([]domain.Artwork, error) {
	var models []database.Artwork
	pattern := likePattern(prompt)
	err := r.db.WithContext(ctx).
		Where(`(title LIKE ? ESCAPE '\' OR (description IS NOT NULL AND description LIKE ? ESCAPE '\'))`, pattern, pattern).
		Order("created_at, id").
		Find(&models).Error
	if err != nil {
		return nil, translate("search artworks", err)
	}
	return mapSlice(models, artworkToDomain), nil
}

// UnreferencedPaths drops the paths some artist or artwork row still points at.
func (r *ArtworkRepository) UnreferencedPaths(ctx context.Context, paths []string) ([]string, error) {
	return unreferencedPaths(ctx, r.db, paths)
}

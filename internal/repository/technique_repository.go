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

type TechniqueRepository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewTechniqueRepository(db *gorm.DB, logger *slog.Logger) *TechniqueRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &TechniqueRepository{db: db, logger: logger.With(slog.String("repository", "technique"))}
}

func (r *TechniqueRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Technique, error) {
	var m database.Technique
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translate("get technique", err)
	}
	t := techniqueToDomain(m)
	return &t, nil
}

func (r *TechniqueRepository) GetAll(ctx context.Context) ([]domain.Technique, error) {
	var models []database.Technique
	if err := r.db.WithContext(ctx).Order("created_at, id").Find(&models).Error; err != nil {
		return nil, translate("list techniques", err)
	}
	return mapSlice(models, techniqueToDomain), nil
}

func (r *TechniqueRepository) Add(ctx context.Context, t domain.Technique) (uuid.UUID, error) {
	m := database.Technique{ID: uuid.New(), Name: t.Name, Description: t.Description}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return uuid.Nil, translate("add technique", err)
	}
	return m.ID, nil
}

func (r *TechniqueRepository) Update(ctx context.Context, t domain.Technique) (bool, error) {
	found := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := exists(tx, &database.Technique{}, t.ID)
		if err != nil || !ok {
			return err
		}
		found = true
		return tx.Model(&database.Technique{}).Where("id = ?", t.ID).Updates(map[string]any{
			"name":        t.Name,
			"description": t.Description,
		}).Error
	})
	if err != nil {
		return false, translate("update technique", err)
	}
	if !found {
		r.logger.WarnContext(ctx, "update skipped, technique not found", slog.String("technique_id", t.ID.String()))
	}
	return found, nil
}

// Delete removes the technique, every portfolio that uses it and their artworks.
func (r *TechniqueRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	found := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := exists(tx, &database.Technique{}, id)
		if err != nil || !ok {
			return err
		}
		found = true
		portfolios := tx.Model(&database.Portfolio{}).Select("id").Where("technique_id = ?", id)
		if err := tx.Where("portfolio_id IN (?)", portfolios).Delete(&database.Artwork{}).Error; err != nil {
			return err
		}
		if err := tx.Where("technique_id = ?", id).Delete(&database.Portfolio{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&database.Technique{}).Error
	})
	if err != nil {
		return false, translate("delete technique", err)
	}
	if !found {
		r.logger.WarnContext(ctx, "delete skipped, technique not found", slog.String("technique_id", id.String()))
	}
	return found, nil
}

// MediaPaths returns the artwork images under portfolios that use the technique.
func (r *TechniqueRepository) MediaPaths(ctx context.Context, id uuid.UUID) ([]string, error) {
	db := r.db.WithContext(ctx)
	var images []string
	portfolios := db.Model(&database.Portfolio{}).Select("id").Where("technique_id = ?", id)
	if err := db.Model(&database.Artwork{}).Where("portfolio_id IN (?)", portfolios).Pluck("image_path", &images).Error; err != nil {
		return nil, translate("technique media", err)
	}
	return nonEmpty(images), nil
}

// UnreferencedPaths drops the paths some artist or artwork row still points at.
func (r *TechniqueRepository) UnreferencedPaths(ctx context.Context, paths []string) ([]string, error) {
	return unreferencedPaths(ctx, r.db, paths)
}

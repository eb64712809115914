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

// ArtistRepository 负责艺术家表的读写。
type ArtistRepository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewArtistRepository(db *gorm.DB, logger *slog.Logger) *ArtistRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &ArtistRepository{db: db, logger: logger.With(slog.String("repository", "artist"))}
}

func (r *ArtistRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Artist, error) {
	var m database.Artist
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translate("get artist", err)
	}
	a := artistToDomain(m)
	return &a, nil
}

// GetByEmail is an exact match used by login and the duplicate check on register.
func (r *ArtistRepository) GetByEmail(ctx context.Context, email string) (*domain.Artist, error) {
	var m database.Artist
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translate("get artist by email", err)
	}
	a := artistToDomain(m)
	return &a, nil
}

func (r *ArtistRepository) GetAll(ctx context.Context) ([]domain.Artist, error) {
	var models []database.Artist
	if err := r.db.WithContext(ctx).Order("created_at, id").Find(&models).Error; err != nil {
		return nil, translate("list artists", err)
	}
	return mapSlice(models, artistToDomain), nil
}

// Add 忽略 a.ID，生成新的主键并返回。
func (r *ArtistRepository) Add(ctx context.Context, a domain.Artist) (uuid.UUID, error) {
	m := artistToModel(a)
	m.ID = uuid.New()
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return uuid.Nil, translate("add artist", err)
	}
	return m.ID, nil
}

// Update overwrites every profile field. The password hash is never touched.
func (r *ArtistRepository) Update(ctx context.Context, a domain.Artist) (bool, error) {
	found := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := exists(tx, &database.Artist{}, a.ID)
		if err != nil || !ok {
			return err
		}
		found = true
		return tx.Model(&database.Artist{}).Where("id = ?", a.ID).Updates(map[string]any{
			"email":                a.Email,
			"first_name":           a.FirstName,
			"last_name":            a.LastName,
			"bio":                  a.Bio,
			"experience":           a.Experience,
			"profile_picture_path": a.ProfilePicturePath,
		}).Error
	})
	if err != nil {
		return false, translate("update artist", err)
	}
	if !found {
		r.logger.WarnContext(ctx, "update skipped, artist not found", slog.String("artist_id", a.ID.String()))
	}
	return found, nil
}

// Delete removes the artist with its portfolios, their artworks and its contracts.
func (r *ArtistRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	found := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := exists(tx, &database.Artist{}, id)
		if err != nil || !ok {
			return err
		}
		found = true
		portfolios := tx.Model(&database.Portfolio{}).Select("id").Where("artist_id = ?", id)
		if err := tx.Where("portfolio_id IN (?)", portfolios).Delete(&database.Artwork{}).Error; err != nil {
			return err
		}
		if err := tx.Where("artist_id = ?", id).Delete(&database.Portfolio{}).Error; err != nil {
			return err
		}
		if err := tx.Where("artist_id = ?", id).Delete(&database.Contract{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&database.Artist{}).Error
	})
	if err != nil {
		return false, translate("delete artist", err)
	}
	if !found {
		r.logger.WarnContext(ctx, "delete skipped, artist not found", slog.String("artist_id", id.String()))
	}
	return found, nil
}

// SearchByPrompt matches the prompt as a substring of first name, last name or email.
// An empty prompt matches every artist.
func (r *ArtistRepository) SearchByPrompt(ctx context.Context, prompt string) ([]domain.Artist, error) {
	var models []database.Artist
	err := r.db.WithContext(ctx).
		Where(likeClause("first_name", "last_name", "email"), repeatArg(likePattern(prompt), 3)...).
		Order("created_at, id").
		Find(&models).Error
	if err != nil {
		return nil, translate("search artists", err)
	}
	return mapSlice(models, artistToDomain), nil
}

// MediaPaths returns the stored images that deleting the artist would orphan.
func (r *ArtistRepository) MediaPaths(ctx context.Context, id uuid.UUID) ([]string, error) {
	db := r.db.WithContext(ctx)

	var paths []string
	var artist database.Artist
	err := db.Select("profile_picture_path").Where("id = ?", id).First(&artist).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, translate("artist media", err)
	}
	if artist.ProfilePicturePath != nil {
		paths = append(paths, *artist.ProfilePicturePath)
	}

	var images []string
	portfolios := db.Model(&database.Portfolio{}).Select("id").Where("artist_id = ?", id)
	if err := db.Model(&database.Artwork{}).Where("portfolio_id IN (?)", portfolios).Pluck("image_path", &images).Error; err != nil {
		return nil, translate("artist media", err)
	}
	return nonEmpty(append(paths, images...)), nil
}

// UnreferencedPaths drops the paths some artist or artwork row still points at.
func (r *ArtistRepository) UnreferencedPaths(ctx context.Context, paths []string) ([]string, error) {
	return unreferencedPaths(ctx, r.db, paths)
}

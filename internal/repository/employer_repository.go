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

type EmployerRepository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewEmployerRepository(db *gorm.DB, logger *slog.Logger) *EmployerRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &EmployerRepository{db: db, logger: logger.With(slog.String("repository", "employer"))}
}

func (r *EmployerRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Employer, error) {
	var m database.Employer
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translate("get employer", err)
	}
	e := employerToDomain(m)
	return &e, nil
}

func (r *EmployerRepository) GetByEmail(ctx context.Context, email string) (*domain.Employer, error) {
	var m database.Employer
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translate("get employer by email", err)
	}
	e := employerToDomain(m)
	return &e, nil
}

func (r *EmployerRepository) GetAll(ctx context.Context) ([]domain.Employer, error) {
	var models []database.Employer
	if err := r.db.WithContext(ctx).Order("created_at, id").Find(&models).Error; err != nil {
		return nil, translate("list employers", err)
	}
	return mapSlice(models, employerToDomain), nil
}

func (r *EmployerRepository) Add(ctx context.Context, e domain.Employer) (uuid.UUID, error) {
	m := employerToModel(e)
	m.ID = uuid.New()
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return uuid.Nil, translate("add employer", err)
	}
	return m.ID, nil
}

// Update overwrites company and contact fields; the password hash stays as stored.
func (r *EmployerRepository) Update(ctx context.Context, e domain.Employer) (bool, error) {
	found := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := exists(tx, &database.Employer{}, e.ID)
		if err != nil || !ok {
			return err
		}
		found = true
		return tx.Model(&database.Employer{}).Where("id = ?", e.ID).Updates(map[string]any{
			"company_name":  e.CompanyName,
			"email":         e.Email,
			"cp_first_name": e.CpFirstName,
			"cp_last_name":  e.CpLastName,
		}).Error
	})
	if err != nil {
		return false, translate("update employer", err)
	}
	if !found {
		r.logger.WarnContext(ctx, "update skipped, employer not found", slog.String("employer_id", e.ID.String()))
	}
	return found, nil
}

// Delete removes the employer together with its contracts.
func (r *EmployerRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	found := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := exists(tx, &database.Employer{}, id)
		if err != nil || !ok {
			return err
		}
		found = true
		if err := tx.Where("employer_id = ?", id).Delete(&database.Contract{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&database.Employer{}).Error
	})
	if err != nil {
		return false, translate("delete employer", err)
	}
	if !found {
		r.logger.WarnContext(ctx, "delete skipped, employer not found", slog.String("employer_id", id.String()))
	}
	return found, nil
}

// SearchByPrompt matches company name or the contact person's first or last name.
func (r *EmployerRepository) SearchByPrompt(ctx context.Context, prompt string) ([]domain.Employer, error) {
	var models []database.Employer
	err := r.db.WithContext(ctx).
		Where(likeClause("company_name", "cp_first_name", "cp_last_name"), repeatArg(likePattern(prompt), 3)...).
		Order("created_at, id").
		Find(&models).Error
	if err != nil {
		return nil, translate("search employers", err)
	}
	return mapSlice(models, employerToDomain), nil
}

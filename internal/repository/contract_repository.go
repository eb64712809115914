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

type ContractRepository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewContractRepository(db *gorm.DB, logger *slog.Logger) *ContractRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &ContractRepository{db: db, logger: logger.With(slog.String("repository", "contract"))}
}

func (r *ContractRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Contract, error) {
	var m database.Contract
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translate("get contract", err)
	}
	c, err := contractToDomain(m)
	if err != nil {
		return nil, translate("get contract", err)
	}
	return &c, nil
}

func (r *ContractRepository) GetAllByArtistID(ctx context.Context, artistID uuid.UUID) ([]domain.Contract, error) {
	return r.listWhere(ctx, "list contracts by artist", "artist_id = ?", artistID)
}

func (r *ContractRepository) GetAllByEmployerID(ctx context.Context, employerID uuid.UUID) ([]domain.Contract, error) {
	return r.listWhere(ctx, "list contracts by employer", "employer_id = ?", employerID)
}

func (r *ContractRepository) listWhere(ctx context.Context, op, query string, arg uuid.UUID) ([]domain.Contract, error) {
	var models []database.Contract
	if err := r.db.WithContext(ctx).Where(query, arg).Order("created_at, id").Find(&models).Error; err != nil {
		return nil, translate(op, err)
	}
	out := make([]domain.Contract, 0, len(models))
	for _, m := range models {
		c, err := contractToDomain(m)
		if err != nil {
			return nil, translate(op, err)
		}
		out = append(out, c)
	}
	return out, nil
}

func (r *ContractRepository) Add(ctx context.Context, c domain.Contract) (uuid.UUID, error) {
	if !c.Status.Valid() {
		return uuid.Nil, translate("add contract", domain.ErrUnknownContractState)
	}
	m := database.Contract{
		ID:                 uuid.New(),
		ArtistID:           c.ArtistID,
		EmployerID:         c.EmployerID,
		ProjectDescription: c.ProjectDescription,
		StartDate:          c.StartDate,
		EndDate:            c.EndDate,
		Status:             int(c.Status),
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return uuid.Nil, translate("add contract", err)
	}
	return m.ID, nil
}

// ErrStatusChanged 表示条件更新时合同状态已被并发请求改动。
var ErrStatusChanged = errors.New("contract status changed concurrently")

// Update overwrites every field. Transition rules are enforced by the caller.
func (r *ContractRepository) Update(ctx context.Context, c domain.Contract) (bool, error) {
	return r.update(ctx, c, nil)
}

// UpdateFromStatus overwrites every field only while the stored status is
// still from. A lost race surfaces as ErrStatusChanged.
func (r *ContractRepository) UpdateFromStatus(ctx context.Context, c domain.Contract, from domain.ContractState) (bool, error) {
	return r.update(ctx, c, &from)
}

func (r *ContractRepository) update(ctx context.Context, c domain.Contract, from *domain.ContractState) (bool, error) {
	if !c.Status.Valid() {
		return false, translate("update contract", domain.ErrUnknownContractState)
	}
	found := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := exists(tx, &database.Contract{}, c.ID)
		if err != nil || !ok {
			return err
		}
		found = true
		q := tx.Model(&database.Contract{}).Where("id = ?", c.ID)
		if from != nil {
			q = q.Where("status = ?", int(*from))
		}
		res := q.Updates(map[string]any{
			"artist_id":           c.ArtistID,
			"employer_id":         c.EmployerID,
			"project_description": c.ProjectDescription,
			"start_date":          c.StartDate,
			"end_date":            c.EndDate,
			"status":              int(c.Status),
		})
		if res.Error != nil {
			return res.Error
		}
		if from != nil && res.RowsAffected == 0 {
			return ErrStatusChanged
		}
		return nil
	})
	if err != nil {
		return false, translate("update contract", err)
	}
	if !found {
		r.logger.WarnContext(ctx, "update skipped, contract not found", slog.String("contract_id", c.ID.String()))
	}
	return found, nil
}

func (r *ContractRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&database.Contract{})
	if res.Error != nil {
		return false, translate("delete contract", res.Error)
	}
	if res.RowsAffected == 0 {
		r.logger.WarnContext(ctx, "delete skipped, contract not found", slog.String("contract_id", id.String()))
		return false, nil
	}
	return true, nil
}

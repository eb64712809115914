package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"artlink/internal/access"
	"artlink/internal/domain"
	"artlink/internal/notify"
	"artlink/internal/repository"
)

// ContractService 负责合同的增删改查与状态迁移校验。
type ContractService struct {
	repo      *repository.ContractRepository
	artists   *repository.ArtistRepository
	employers *repository.EmployerRepository
	notifier  ContractNotifier
	logger    *slog.Logger
	now       func() time.Time
}

func NewContractService(
	repo *repository.ContractRepository,
	artists *repository.ArtistRepository,
	employers *repository.EmployerRepository,
	notifier ContractNotifier,
	logger *slog.Logger,
) *ContractService {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &ContractService{
		repo:      repo,
		artists:   artists,
		employers: employers,
		notifier:  notifier,
		logger:    orDefaultLogger(logger).With(slog.String("service", "contract")),
		now:       time.Now,
	}
}

func (s *ContractService) checkParties(ctx context.Context, c domain.Contract) error {
	artist, err := s.artists.GetByID(ctx, c.ArtistID)
	if err != nil {
		return err
	}
	if artist == nil {
		return fmt.Errorf("artist %s: %w", c.ArtistID, ErrInvalidReference)
	}
	employer, err := s.employers.GetByID(ctx, c.EmployerID)
	if err != nil {
		return err
	}
	if employer == nil {
		return fmt.Errorf("employer %s: %w", c.EmployerID, ErrInvalidReference)
	}
	return nil
}

// Create stores a new contract. It must start as Draft.
func (s *ContractService) Create(ctx context.Context, caller access.Caller, c domain.Contract) (uuid.UUID, error) {
	s.logger.InfoContext(ctx, "creating contract",
		slog.String("artist_id", c.ArtistID.String()),
		slog.String("employer_id", c.EmployerID.String()),
	)
	if err := domain.CanCreateContract(c.Status).Error(); err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", domain.ErrIllegalTransition, err)
	}
	if err := s.checkParties(ctx, c); err != nil {
		s.logger.WarnContext(ctx, "create contract rejected", slog.Any("error", err))
		return uuid.Nil, err
	}

	id, err := s.repo.Add(ctx, c)
	if err != nil {
		s.logger.ErrorContext(ctx, "create contract failed", slog.Any("error", err))
		return uuid.Nil, err
	}
	s.logger.InfoContext(ctx, "contract created", slog.String("contract_id", id.String()))

	s.publish(ctx, caller, c.ArtistID, c.EmployerID, notify.ContractEvent{
		Type:       notify.EventContractCreated,
		ContractID: id,
		Status:     c.Status,
		ActorID:    caller.ID,
	})
	return id, nil
}

func (s *ContractService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Contract, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.ErrorContext(ctx, "get contract failed", slog.String("contract_id", id.String()), slog.Any("error", err))
		return nil, err
	}
	if c == nil {
		s.logger.WarnContext(ctx, "contract not found", slog.String("contract_id", id.String()))
	}
	return c, nil
}

func (s *ContractService) GetAllByArtistID(ctx context.Context, artistID uuid.UUID) ([]domain.Contract, error) {
	list, err := s.repo.GetAllByArtistID(ctx, artistID)
	if err != nil {
		s.logger.ErrorContext(ctx, "list contracts failed", slog.String("artist_id", artistID.String()), slog.Any("error", err))
		return nil, err
	}
	return list, nil
}

func (s *ContractService) GetAllByEmployerID(ctx context.Context, employerID uuid.UUID) ([]domain.Contract, error) {
	list, err := s.repo.GetAllByEmployerID(ctx, employerID)
	if err != nil {
		s.logger.ErrorContext(ctx, "list contracts failed", slog.String("employer_id", employerID.String()), slog.Any("error", err))
		return nil, err
	}
	return list, nil
}

// Update overwrites the contract after checking the status change against the
// state graph and against which party the caller is.
func (s *ContractService) Update(ctx context.Context, caller access.Caller, c domain.Contract) error {
	s.logger.InfoContext(ctx, "updating contract", slog.String("contract_id", c.ID.String()), slog.String("status", c.Status.String()))

	current, err := s.repo.GetByID(ctx, c.ID)
	if err != nil {
		return err
	}
	if current == nil {
		s.logger.WarnContext(ctx, "contract not found", slog.String("contract_id", c.ID.String()))
		return ErrNotFound
	}

	if !domain.IsLegalTransition(current.Status, c.Status) {
		s.logger.WarnContext(ctx, "illegal contract transition",
			slog.String("contract_id", c.ID.String()),
			slog.String("from", current.Status.String()),
			slog.String("to", c.Status.String()),
			slog.Bool("terminal", current.Status.IsTerminal()),
		)
		return fmt.Errorf("%w: %s to %s", domain.ErrIllegalTransition, current.Status, c.Status)
	}
	res := domain.CanTransitionContract(domain.TransitionContext{
		From:            current.Status,
		To:              c.Status,
		Role:            caller.Role,
		IsArtistParty:   caller.Role == domain.RoleArtist && caller.ID == current.ArtistID,
		IsEmployerParty: caller.Role == domain.RoleEmployer && caller.ID == current.EmployerID,
	})
	if err := res.Error(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrTransitionNotPermitted, err)
	}

	// 合同双方只能由管理员改派。
	if c.ArtistID != current.ArtistID || c.EmployerID != current.EmployerID {
		if !caller.IsAdmin() {
			s.logger.WarnContext(ctx, "contract party change rejected",
				slog.String("contract_id", c.ID.String()),
				slog.String("caller_id", caller.ID.String()),
			)
			return ErrPartyChangeNotPermitted
		}
		if err := s.checkParties(ctx, c); err != nil {
			return err
		}
	}

	found, err := s.repo.UpdateFromStatus(ctx, c, current.Status)
	if err != nil {
		if errors.Is(err, repository.ErrStatusChanged) {
			s.logger.WarnContext(ctx, "contract status changed concurrently", slog.String("contract_id", c.ID.String()))
			return fmt.Errorf("%w: %v", domain.ErrIllegalTransition, err)
		}
		s.logger.ErrorContext(ctx, "update contract failed", slog.String("contract_id", c.ID.String()), slog.Any("error", err))
		return err
	}
	if !found {
		return ErrNotFound
	}
	s.logger.InfoContext(ctx, "contract updated", slog.String("contract_id", c.ID.String()))

	if current.Status != c.Status {
		previous := current.Status
		s.publish(ctx, caller, c.ArtistID, c.EmployerID, notify.ContractEvent{
			Type:       notify.EventContractStatusChanged,
			ContractID: c.ID,
			Status:     c.Status,
			Previous:   &previous,
			ActorID:    caller.ID,
		})
	}
	return nil
}

func (s *ContractService) Delete(ctx context.Context, caller access.Caller, id uuid.UUID) error {
	s.logger.InfoContext(ctx, "deleting contract", slog.String("contract_id", id.String()))
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if current == nil {
		return ErrNotFound
	}
	found, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.logger.ErrorContext(ctx, "delete contract failed", slog.String("contract_id", id.String()), slog.Any("error", err))
		return err
	}
	if !found {
		return ErrNotFound
	}
	s.logger.InfoContext(ctx, "contract deleted", slog.String("contract_id", id.String()))
	s.publish(ctx, caller, current.ArtistID, current.EmployerID, notify.ContractEvent{
		Type:       notify.EventContractDeleted,
		ContractID: id,
		Status:     current.Status,
		ActorID:    caller.ID,
	})
	return nil
}

// publish 通知除操作者以外的合同参与方；通知失败只记录日志。
func (s *ContractService) publish(ctx context.Context, caller access.Caller, artistID, employerID uuid.UUID, event notify.ContractEvent) {
	event.OccurredAt = s.now().UTC()
	for _, recipient := range []uuid.UUID{artistID, employerID} {
		if recipient == caller.ID {
			continue
		}
		if err := s.notifier.NotifyContract(ctx, recipient, event); err != nil {
			s.logger.WarnContext(ctx, "publish contract event failed",
				slog.String("contract_id", event.ContractID.String()),
				slog.String("recipient", recipient.String()),
				slog.Any("error", err),
			)
		}
	}
}

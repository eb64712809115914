package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"artlink/internal/auth"
	"artlink/internal/domain"
	"artlink/internal/repository"
)

// RegisterArtistInput 注册请求，Password 为明文，只在本层做哈希。
type RegisterArtistInput struct {
	Email              string
	Password           string
	FirstName          string
	LastName           string
	Bio                *string
	Experience         *int
	ProfilePicturePath *string
}

type ArtistService struct {
	repo   *repository.ArtistRepository
	purger MediaPurger
	logger *slog.Logger
}

func NewArtistService(repo *repository.ArtistRepository, purger MediaPurger, logger *slog.Logger) *ArtistService {
	return &ArtistService{
		repo:   repo,
		purger: orNoopPurger(purger),
		logger: orDefaultLogger(logger).With(slog.String("service", "artist")),
	}
}

func (s *ArtistService) Register(ctx context.Context, in RegisterArtistInput) (uuid.UUID, error) {
	email := strings.TrimSpace(in.Email)
	s.logger.InfoContext(ctx, "registering artist", slog.String("email", email))

	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		s.logger.ErrorContext(ctx, "register artist failed", slog.Any("error", err))
		return uuid.Nil, err
	}
	if existing != nil {
		return uuid.Nil, ErrEmailTaken
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return uuid.Nil, err
	}

	id, err := s.repo.Add(ctx, domain.Artist{
		Email:              email,
		PasswordHash:       hash,
		FirstName:          in.FirstName,
		LastName:           in.LastName,
		Bio:                in.Bio,
		Experience:         in.Experience,
		ProfilePicturePath: in.ProfilePicturePath,
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "register artist failed", slog.Any("error", err))
		return uuid.Nil, mapDuplicate(err)
	}
	s.logger.InfoContext(ctx, "artist registered", slog.String("artist_id", id.String()))
	return id, nil
}

// Login returns ErrInvalidCredentials for an unknown email and for a wrong password alike.
func (s *ArtistService) Login(ctx context.Context, email, password string) (*domain.Artist, error) {
	a, err := s.repo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		s.logger.ErrorContext(ctx, "artist login lookup failed", slog.Any("error", err))
		return nil, err
	}
	if a == nil || !auth.CheckPasswordHash(password, a.PasswordHash) {
		s.logger.WarnContext(ctx, "artist login rejected", slog.String("email", email))
		return nil, ErrInvalidCredentials
	}
	s.logger.InfoContext(ctx, "artist logged in", slog.String("artist_id", a.ID.String()))
	return a, nil
}

func (s *ArtistService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Artist, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.ErrorContext(ctx, "get artist failed", slog.String("artist_id", id.String()), slog.Any("error", err))
		return nil, err
	}
	if a == nil {
		s.logger.WarnContext(ctx, "artist not found", slog.String("artist_id", id.String()))
	}
	return a, nil
}

func (s *ArtistService) GetAll(ctx context.Context) ([]domain.Artist, error) {
	list, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "list artists failed", slog.Any("error", err))
		return nil, err
	}
	return list, nil
}

// Update overwrites the profile. A replaced profile picture is purged from storage.
func (s *ArtistService) Update(ctx context.Context, a domain.Artist) error {
	s.logger.InfoContext(ctx, "updating artist", slog.String("artist_id", a.ID.String()))

	current, err := s.repo.GetByID(ctx, a.ID)
	if err != nil {
		return fmt.Errorf("load artist: %w", err)
	}
	if current == nil {
		s.logger.WarnContext(ctx, "artist not found", slog.String("artist_id", a.ID.String()))
		return ErrNotFound
	}

	found, err := s.repo.Update(ctx, a)
	if err != nil {
		s.logger.ErrorContext(ctx, "update artist failed", slog.String("artist_id", a.ID.String()), slog.Any("error", err))
		return mapDuplicate(err)
	}
	if !found {
		return ErrNotFound
	}
	if replaced(current.ProfilePicturePath, a.ProfilePicturePath) {
		purgeQuietly(ctx, s.logger, s.purger, s.repo, "profile picture replaced", *current.ProfilePicturePath)
	}
	s.logger.InfoContext(ctx, "artist updated", slog.String("artist_id", a.ID.String()))
	return nil
}

// Delete removes the artist with portfolios, artworks and contracts, then purges their images.
func (s *ArtistService) Delete(ctx context.Context, id uuid.UUID) error {
	s.logger.InfoContext(ctx, "deleting artist", slog.String("artist_id", id.String()))

	media, err := s.repo.MediaPaths(ctx, id)
	if err != nil {
		return err
	}
	found, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.logger.ErrorContext(ctx, "delete artist failed", slog.String("artist_id", id.String()), slog.Any("error", err))
		return err
	}
	if !found {
		s.logger.WarnContext(ctx, "artist not found", slog.String("artist_id", id.String()))
		return ErrNotFound
	}
	purgeQuietly(ctx, s.logger, s.purger, s.repo, "artist deleted", media...)
	s.logger.InfoContext(ctx, "artist deleted", slog.String("artist_id", id.String()))
	return nil
}

func (s *ArtistService) Search(ctx context.Context, prompt string) ([]domain.Artist, error) {
	list, err := s.repo.SearchByPrompt(ctx, prompt)
	if err != nil {
		s.logger.ErrorContext(ctx, "search artists failed", slog.Any("error", err))
		return nil, err
	}
	s.logger.DebugContext(ctx, "artists searched", slog.String("prompt", prompt), slog.Int("results", len(list)))
	return list, nil
}

package service

import (
	"context"
	"log/slog"

	"artlink/internal/domain"
)

// SearchService 聚合三个可搜索实体的查询入口。
type SearchService struct {
	artists   *ArtistService
	employers *EmployerService
	artworks  *ArtworkService
	logger    *slog.Logger
}

func NewSearchService(artists *ArtistService, employers *EmployerService, artworks *ArtworkService, logger *slog.Logger) *SearchService {
	return &SearchService{
		artists:   artists,
		employers: employers,
		artworks:  artworks,
		logger:    orDefaultLogger(logger).With(slog.String("service", "search")),
	}
}

func (s *SearchService) Artists(ctx context.Context, prompt string) ([]domain.Artist, error) {
	s.logger.InfoContext(ctx, "search artists", slog.String("prompt", prompt))
	return s.artists.Search(ctx, prompt)
}

func (s *SearchService) Employers(ctx context.Context, prompt string) ([]domain.Employer, error) {
	s.logger.InfoContext(ctx, "search employers", slog.String("prompt", prompt))
	return s.employers.Search(ctx, prompt)
}

func (s *SearchService) Artworks(ctx context.Context, prompt string) ([]domain.Artwork, error) {
	s.logger.InfoContext(ctx, "search artworks", slog.String("prompt", prompt))
	return s.artworks.Search(ctx, prompt)
}

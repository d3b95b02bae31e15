package listing

import (
	"context"
	"fmt"
	"strings"

	"github.com/immobiligb/immobili-api/internal/apperrors"
	"github.com/immobiligb/immobili-api/internal/models"
	"github.com/immobiligb/immobili-api/internal/repository"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Listing service: shapes every read into a bounded, deterministic
// store query. The visibility predicate itself lives in the repository
// queries (privacy package); this layer owns pagination, filter
// validation and image assembly.
type Service struct {
	repo repository.Listings
}

func NewService(repo repository.Listings) *Service {
	return &Service{repo: repo}
}

// List returns one page of public listings with their images.
// Out-of-range pagination is rejected, not clamped, so clients always
// get the page they asked for or an error.
func (s *Service) List(ctx context.Context, filter repository.ListFilter, page int, pageSize int) (models.Page, error) {
	if page < 1 {
		return models.Page{}, fmt.Errorf("%w: page must be >= 1", apperrors.ErrInvalidPagination)
	}
	if pageSize < 1 || pageSize > MaxPageSize {
		return models.Page{}, fmt.Errorf("%w: page_size must be between 1 and %d", apperrors.ErrInvalidPagination, MaxPageSize)
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return models.Page{}, err
	}

	listings, err := s.repo.List(ctx, filter, pageSize, (page-1)*pageSize)
	if err != nil {
		return models.Page{}, err
	}

	for i := range listings {
		images, err := s.imagesFor(ctx, listings[i])
		if err != nil {
			return models.Page{}, err
		}
		listings[i].Immagini = images
	}

	return models.Page{
		Listings:   listings,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	}, nil
}

// Get returns a single public listing with its images
// Has to return apperrors.ErrListingNotFound for hidden or missing rows
func (s *Service) Get(ctx context.Context, id int64) (models.Listing, error) {
	listing, err := s.repo.Get(ctx, id)
	if err != nil {
		return listing, err
	}

	images, err := s.imagesFor(ctx, listing)
	if err != nil {
		return listing, err
	}
	listing.Immagini = images

	return listing, nil
}

// Images returns only the images of a public listing, in display order.
// Same visibility gate as Get: hidden and missing listings are
// indistinguishable.
func (s *Service) Images(ctx context.Context, id int64) ([]models.Image, error) {
	listing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	return s.imagesFor(ctx, listing)
}

// Stats over public listings
func (s *Service) Stats(ctx context.Context) (models.Stats, error) {
	return s.repo.Stats(ctx)
}

// imagesFor loads images from the normalized table, falling back to the
// legacy ';'-joined immagini_600 field for rows not yet backfilled
func (s *Service) imagesFor(ctx context.Context, l models.Listing) ([]models.Image, error) {
	images, err := s.repo.Images(ctx, l.ID)
	if err != nil {
		return nil, err
	}
	if len(images) > 0 {
		return images, nil
	}

	return legacyImages(l.Immagini600), nil
}

// legacyImages parses the legacy field. Position in the raw split is
// kept as ordine so the order survives the eventual backfill.
func legacyImages(raw *string) []models.Image {
	if raw == nil || *raw == "" {
		return nil
	}

	var images []models.Image
	for idx, url := range strings.Split(*raw, ";") {
		url = strings.TrimSpace(url)
		if url == "" {
			continue
		}

		images = append(images, models.Image{URL: url, Ordine: int32(idx)})
	}

	return images
}

func totalPages(total int64, pageSize int) int {
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}

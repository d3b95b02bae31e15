package repository

import (
	"context"

	"github.com/immobiligb/immobili-api/internal/models"
)

// ListFilter narrows listing queries. Zero value means no filtering.
// Only these three filters are recognized; anything else a client sends
// never reaches the store.
type ListFilter struct {
	// Substring match (case-insensitive) on property type
	TipoImmobile string

	// Substring match (case-insensitive) on municipality
	Comune string

	// Keep only listings that have at least one image
	// (normalized table or legacy immagini_600 field)
	ConImmagini bool
}

// Listings is the read-only query contract this service needs from the
// data store. Every implementation must conjoin the visibility
// predicate (privacy package) into each query: counting and fetching
// must never observe hidden rows.
type Listings interface {
	// List returns one page of public listings ordered by id ascending
	List(ctx context.Context, filter ListFilter, limit int, offset int) ([]models.Listing, error)

	// Count returns how many public listings match the filter
	Count(ctx context.Context, filter ListFilter) (int64, error)

	// Get returns a public listing by id
	// Must return apperrors.ErrListingNotFound for hidden rows too,
	// indistinguishable from missing ones
	Get(ctx context.Context, id int64) (models.Listing, error)

	// Images returns the normalized images of a listing ordered by
	// ordine ascending. The visibility gate is Get: callers fetch the
	// listing first.
	Images(ctx context.Context, listingID int64) ([]models.Image, error)

	// Stats aggregates counts over public listings only
	Stats(ctx context.Context) (models.Stats, error)
}

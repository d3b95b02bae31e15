package postgres

import (
	"context"
	"errors"
	"math"

	"github.com/jackc/pgx/v5"

	"github.com/immobiligb/immobili-api/internal/apperrors"
	"github.com/immobiligb/immobili-api/internal/models"
	"github.com/immobiligb/immobili-api/internal/privacy"
	"github.com/immobiligb/immobili-api/internal/repository"
)

type ListingRepo struct {
	db DBTX
}

func NewListings(db DBTX) repository.Listings {
	return &ListingRepo{db: db}
}

const listingColumns = `id, codice_dam, titolo, tipo_immobile,
	descrizione_web_breve_it, descrizione_web_estesa_it,
	comune, localita, via, posizione_lat, posizione_long,
	mq_commerciali, camere_da_letto, bagni, prezzo_vendita,
	immagini_600, COALESCE(features_ai, 'null'::jsonb),
	COALESCE(is_attivo, FALSE), COALESCE(is_ufficiale, FALSE), COALESCE(is_riservato_direzione, FALSE)`

// Filter clause shared by List and Count so page contents and totals
// can never disagree. $1 tipo_immobile, $2 comune, $3 con_immagini.
const listingFilterWhere = privacy.SQLPredicate + `
	AND ($1 = '' OR tipo_immobile ILIKE '%' || $1 || '%')
	AND ($2 = '' OR comune ILIKE '%' || $2 || '%')
	AND ($3 IS NOT TRUE
		OR (immagini_600 IS NOT NULL AND immagini_600 <> '')
		OR EXISTS (SELECT 1 FROM immagini WHERE immagini.id_immobile = immobilpostgres.id))`

const listListings = `-- name: ListListings
SELECT ` + listingColumns + `
FROM immobilpostgres
WHERE ` + listingFilterWhere + `
ORDER BY id
LIMIT $4 OFFSET $5
`

func (r *ListingRepo) List(ctx context.Context, filter repository.ListFilter, limit int, offset int) ([]models.Listing, error) {
	rows, _ := r.db.Query(ctx, listListings, filter.TipoImmobile, filter.Comune, filter.ConImmagini, limit, offset)
	listings, err := pgx.CollectRows(rows, rowToListing)
	if err != nil {
		return nil, storeErr(err)
	}

	return listings, nil
}

const countListings = `-- name: CountListings
SELECT count(*)
FROM immobilpostgres
WHERE ` + listingFilterWhere + `
`

func (r *ListingRepo) Count(ctx context.Context, filter repository.ListFilter) (int64, error) {
	var total int64

	err := r.db.QueryRow(ctx, countListings, filter.TipoImmobile, filter.Comune, filter.ConImmagini).Scan(&total)
	if err != nil {
		return 0, storeErr(err)
	}

	return total, nil
}

const getListing = `-- name: GetListing
SELECT ` + listingColumns + `
FROM immobilpostgres
WHERE id = $1 AND ` + privacy.SQLPredicate + `
`

func (r *ListingRepo) Get(ctx context.Context, id int64) (models.Listing, error) {
	rows, _ := r.db.Query(ctx, getListing, id)
	listing, err := pgx.CollectOneRow(rows, rowToListing)

	switch {
	case err == nil:
		return listing, nil
	case errors.Is(err, pgx.ErrNoRows):
		// Hidden rows take the same path: existence must not leak
		return listing, apperrors.ErrListingNotFound
	default:
		return listing, storeErr(err)
	}
}

const listImages = `-- name: ListImages
SELECT id, url, ordine
FROM immagini
WHERE id_immobile = $1
ORDER BY ordine, id
`

func (r *ListingRepo) Images(ctx context.Context, listingID int64) ([]models.Image, error) {
	rows, _ := r.db.Query(ctx, listImages, listingID)
	images, err := pgx.CollectRows(rows, rowToImage)
	if err != nil {
		return nil, storeErr(err)
	}

	return images, nil
}

const countPublicWithImages = `-- name: CountPublicWithImages
SELECT count(*)
FROM immobilpostgres
WHERE ` + privacy.SQLPredicate + `
	AND ((immagini_600 IS NOT NULL AND immagini_600 <> '')
		OR EXISTS (SELECT 1 FROM immagini WHERE immagini.id_immobile = immobilpostgres.id))
`

const countPublicImages = `-- name: CountPublicImages
SELECT count(*)
FROM immagini
JOIN immobilpostgres ON immagini.id_immobile = immobilpostgres.id
WHERE ` + privacy.SQLPredicate + `
`

const countPublicPerType = `-- name: CountPublicPerType
SELECT tipo_immobile, count(*)
FROM immobilpostgres
WHERE ` + privacy.SQLPredicate + `
	AND tipo_immobile IS NOT NULL AND tipo_immobile <> ''
GROUP BY tipo_immobile
`

func (r *ListingRepo) Stats(ctx context.Context) (models.Stats, error) {
	stats := models.Stats{PerType: map[string]int64{}}

	err := r.db.QueryRow(ctx, countListings, "", "", false).Scan(&stats.TotalListings)
	if err != nil {
		return stats, storeErr(err)
	}

	err = r.db.QueryRow(ctx, countPublicWithImages).Scan(&stats.WithImages)
	if err != nil {
		return stats, storeErr(err)
	}

	err = r.db.QueryRow(ctx, countPublicImages).Scan(&stats.TotalImages)
	if err != nil {
		return stats, storeErr(err)
	}

	rows, _ := r.db.Query(ctx, countPublicPerType)
	perType, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (struct {
		Tipo  string
		Count int64
	}, error) {
		var v struct {
			Tipo  string
			Count int64
		}
		err := row.Scan(&v.Tipo, &v.Count)
		return v, err
	})
	if err != nil {
		return stats, storeErr(err)
	}
	for _, v := range perType {
		stats.PerType[v.Tipo] = v.Count
	}

	if stats.TotalListings > 0 {
		stats.PercentWithImages = round2(float64(stats.WithImages) / float64(stats.TotalListings) * 100)
		stats.MeanImagesPerListing = round2(float64(stats.TotalImages) / float64(stats.TotalListings))
	}

	return stats, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func rowToListing(row pgx.CollectableRow) (models.Listing, error) {
	var l models.Listing
	err := row.Scan(
		&l.ID, &l.CodiceDam, &l.Titolo, &l.TipoImmobile,
		&l.DescrizioneBreve, &l.DescrizioneEstesa,
		&l.Comune, &l.Localita, &l.Via, &l.PosizioneLat, &l.PosizioneLong,
		&l.MqCommerciali, &l.CamereDaLetto, &l.Bagni, &l.PrezzoVendita,
		&l.Immagini600, &l.FeaturesAI,
		&l.IsAttivo, &l.IsUfficiale, &l.IsRiservatoDirezione,
	)
	return l, err
}

func rowToImage(row pgx.CollectableRow) (models.Image, error) {
	var img models.Image
	err := row.Scan(&img.ID, &img.URL, &img.Ordine)
	return img, err
}

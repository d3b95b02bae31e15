package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/immobiligb/immobili-api/internal/apperrors"
	"github.com/immobiligb/immobili-api/internal/handlers/render"
	"github.com/immobiligb/immobili-api/internal/logger"
	"github.com/immobiligb/immobili-api/internal/models"
	"github.com/immobiligb/immobili-api/internal/repository"
	"github.com/immobiligb/immobili-api/internal/service/listing"
)

// Public schema. These structs are the allow-list of what ever leaves
// the service: a model field without a counterpart here (visibility
// flags, legacy image blob, coordinates) cannot leak by construction.
type ImageResponse struct {
	ID     *int64 `json:"id"`
	URL    string `json:"url"`
	Ordine int32  `json:"ordine"`
}

type ListingResponse struct {
	ID                int64            `json:"id"`
	CodiceDam         *string          `json:"codice_dam"`
	Titolo            *string          `json:"titolo"`
	TipoImmobile      *string          `json:"tipo_immobile"`
	DescrizioneBreve  *string          `json:"descrizione_breve"`
	DescrizioneEstesa *string          `json:"descrizione_estesa"`
	Comune            *string          `json:"comune"`
	Localita          *string          `json:"localita"`
	Via               *string          `json:"via"`
	MqCommerciali     *decimal.Decimal `json:"mq_commerciali"`
	CamereDaLetto     *int32           `json:"camere_da_letto"`
	Bagni             *int32           `json:"bagni"`
	PrezzoVendita     *decimal.Decimal `json:"prezzo_vendita"`
	Immagini          []ImageResponse  `json:"immagini"`
	FeaturesAI        map[string]any   `json:"features_ai"`
}

type ListingListResponse struct {
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalPages int               `json:"total_pages"`
	Immobili   []ListingResponse `json:"immobili"`
}

type StatsResponse struct {
	TotalImmobili            int64            `json:"total_immobili"`
	ImmobiliConFoto          int64            `json:"immobili_con_foto"`
	PercentualeConFoto       float64          `json:"percentuale_con_foto"`
	TotalImmagini            int64            `json:"total_immagini"`
	MediaImmaginiPerImmobile float64          `json:"media_immagini_per_immobile"`
	Tipologie                map[string]int64 `json:"tipologie"`
}

func listingToResponse(l models.Listing) ListingResponse {
	return ListingResponse{
		ID:                l.ID,
		CodiceDam:         l.CodiceDam,
		Titolo:            l.Titolo,
		TipoImmobile:      l.TipoImmobile,
		DescrizioneBreve:  l.DescrizioneBreve,
		DescrizioneEstesa: l.DescrizioneEstesa,
		Comune:            l.Comune,
		Localita:          l.Localita,
		Via:               l.Via,
		MqCommerciali:     nullableDecimal(l.MqCommerciali),
		CamereDaLetto:     l.CamereDaLetto,
		Bagni:             l.Bagni,
		PrezzoVendita:     nullableDecimal(l.PrezzoVendita),
		Immagini:          imagesToResponse(l.Immagini),
		FeaturesAI:        l.FeaturesAI,
	}
}

func imagesToResponse(images []models.Image) []ImageResponse {
	out := make([]ImageResponse, 0, len(images))
	for _, img := range images {
		out = append(out, ImageResponse{ID: img.ID, URL: img.URL, Ordine: img.Ordine})
	}
	return out
}

func nullableDecimal(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	return &d.Decimal
}

func handleListListings(ls listingService, logger logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		page, err := queryInt(query.Get("page"), 1)
		if err != nil {
			render.ServiceError(w, "Invalid 'page' parameter", http.StatusBadRequest)
			return
		}

		pageSize, err := queryInt(query.Get("page_size"), listing.DefaultPageSize)
		if err != nil {
			render.ServiceError(w, "Invalid 'page_size' parameter", http.StatusBadRequest)
			return
		}

		conImmagini := false
		if raw := query.Get("con_immagini"); raw != "" {
			conImmagini, err = strconv.ParseBool(raw)
			if err != nil {
				render.ServiceError(w, "Invalid 'con_immagini' parameter", http.StatusBadRequest)
				return
			}
		}

		filter := repository.ListFilter{
			TipoImmobile: query.Get("tipo_immobile"),
			Comune:       query.Get("comune"),
			ConImmagini:  conImmagini,
		}

		result, err := ls.List(r.Context(), filter, page, pageSize)
		if err != nil {
			renderListingError(w, logger, err)
			return
		}

		response := ListingListResponse{
			Total:      result.Total,
			Page:       result.Page,
			PageSize:   result.PageSize,
			TotalPages: result.TotalPages,
			Immobili:   make([]ListingResponse, 0, len(result.Listings)),
		}
		for _, l := range result.Listings {
			response.Immobili = append(response.Immobili, listingToResponse(l))
		}

		render.JSON(w, response)
	})
}

func handleGetListing(ls listingService, logger logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			render.ServiceError(w, "Invalid listing id", http.StatusBadRequest)
			return
		}

		l, err := ls.Get(r.Context(), id)
		if err != nil {
			renderListingError(w, logger, err)
			return
		}

		render.JSON(w, listingToResponse(l))
	})
}

func handleListingImages(ls listingService, logger logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			render.ServiceError(w, "Invalid listing id", http.StatusBadRequest)
			return
		}

		images, err := ls.Images(r.Context(), id)
		if err != nil {
			renderListingError(w, logger, err)
			return
		}

		render.JSON(w, imagesToResponse(images))
	})
}

func handleStats(ls listingService, logger logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		stats, err := ls.Stats(r.Context())
		if err != nil {
			renderListingError(w, logger, err)
			return
		}

		render.JSON(w, StatsResponse{
			TotalImmobili:            stats.TotalListings,
			ImmobiliConFoto:          stats.WithImages,
			PercentualeConFoto:       stats.PercentWithImages,
			TotalImmagini:            stats.TotalImages,
			MediaImmaginiPerImmobile: stats.MeanImagesPerListing,
			Tipologie:                stats.PerType,
		})
	})
}

// renderListingError translates domain errors to HTTP. Store failures
// are logged with full detail but leave the boundary as a generic
// retryable message.
func renderListingError(w http.ResponseWriter, logger logger.Logger, err error) {
	switch {
	case errors.Is(err, apperrors.ErrListingNotFound):
		render.ServiceError(w, "Property not found or not public", http.StatusNotFound)
	case errors.Is(err, apperrors.ErrInvalidPagination):
		render.ServiceError(w, "Pagination parameters out of range", http.StatusBadRequest)
	case errors.Is(err, apperrors.ErrStoreUnavailable):
		logger.Error("data store failure", "error", err.Error())
		render.ServiceError(w, "Service temporarily unavailable", http.StatusServiceUnavailable)
	default:
		logger.Error("unexpected error", "error", err.Error())
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
	}
}

func queryInt(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/immobiligb/immobili-api/internal/apperrors"
	"github.com/immobiligb/immobili-api/internal/models"
	"github.com/immobiligb/immobili-api/internal/repository"
)

func getListings(t *testing.T, ls *fakeListingService, target string) *httptest.ResponseRecorder {
	t.Helper()

	router := newTestRouter(validAuth(), ls, allowAll())
	return doRequest(t, router, http.MethodGet, target, nil)
}

func TestHandleListListings(t *testing.T) {
	t.Run("renders the page with the allowed fields only", func(t *testing.T) {
		full := models.Listing{
			ID:            7,
			Titolo:        ptr("Villa con vista lago"),
			TipoImmobile:  ptr("Villa"),
			Comune:        ptr("Como"),
			PrezzoVendita: decimal.NewNullDecimal(decimal.RequireFromString("980000.50")),
			FeaturesAI:    map[string]any{"style": "classic"},
			Immagini: []models.Image{
				{ID: ptr(int64(1)), URL: "https://img/7-1.jpg", Ordine: 1},
			},
			// Internal flags must never reach the wire
			IsAttivo:             true,
			IsUfficiale:          true,
			IsRiservatoDirezione: false,
			PosizioneLat:         ptr(45.81),
			Immagini600:          ptr("https://legacy/should-not-appear.jpg"),
		}
		bare := models.Listing{ID: 8}

		ls := &fakeListingService{
			list: func(_ repository.ListFilter, page int, pageSize int) (models.Page, error) {
				return models.Page{
					Listings: []models.Listing{full, bare},
					Total:    12, Page: page, PageSize: pageSize, TotalPages: 6,
				}, nil
			},
		}

		res := getListings(t, ls, "/api/v1/immobili?page=2&page_size=2")
		require.Equal(t, http.StatusOK, res.Code)

		body := decodeBody[ListingListResponse](t, res)
		assert.Equal(t, int64(12), body.Total)
		assert.Equal(t, 2, body.Page)
		assert.Equal(t, 2, body.PageSize)
		assert.Equal(t, 6, body.TotalPages)

		require.Len(t, body.Immobili, 2)
		got := body.Immobili[0]
		assert.Equal(t, int64(7), got.ID)
		assert.Equal(t, "Villa con vista lago", *got.Titolo)
		require.NotNil(t, got.PrezzoVendita)
		assert.True(t, got.PrezzoVendita.Equal(decimal.RequireFromString("980000.50")))
		assert.Equal(t, "classic", got.FeaturesAI["style"])
		require.Len(t, got.Immagini, 1)
		assert.Equal(t, "https://img/7-1.jpg", got.Immagini[0].URL)

		empty := body.Immobili[1]
		assert.Nil(t, empty.Titolo)
		assert.Nil(t, empty.PrezzoVendita)
	})

	t.Run("visibility flags and raw fields stay out of the payload", func(t *testing.T) {
		ls := &fakeListingService{
			list: func(_ repository.ListFilter, page int, pageSize int) (models.Page, error) {
				return models.Page{
					Listings: []models.Listing{{ID: 1, IsAttivo: true, IsUfficiale: true, Immagini600: ptr("x")}},
					Total:    1, Page: 1, PageSize: 20, TotalPages: 1,
				}, nil
			},
		}

		res := getListings(t, ls, "/api/v1/immobili")
		require.Equal(t, http.StatusOK, res.Code)

		raw := res.Body.String()
		for _, hidden := range []string{"is_attivo", "is_ufficiale", "is_riservato", "immagini_600", "posizione"} {
			assert.NotContains(t, raw, hidden)
		}
	})

	t.Run("query parameters reach the service", func(t *testing.T) {
		var gotFilter repository.ListFilter
		var gotPage, gotPageSize int

		ls := &fakeListingService{
			list: func(filter repository.ListFilter, page int, pageSize int) (models.Page, error) {
				gotFilter, gotPage, gotPageSize = filter, page, pageSize
				return models.Page{Page: page, PageSize: pageSize}, nil
			},
		}

		res := getListings(t, ls, "/api/v1/immobili?tipo_immobile=villa&comune=como&con_immagini=true&page=3&page_size=5")
		require.Equal(t, http.StatusOK, res.Code)

		assert.Equal(t, repository.ListFilter{TipoImmobile: "villa", Comune: "como", ConImmagini: true}, gotFilter)
		assert.Equal(t, 3, gotPage)
		assert.Equal(t, 5, gotPageSize)
	})

	t.Run("omitted parameters fall back to defaults", func(t *testing.T) {
		var gotPage, gotPageSize int

		ls := &fakeListingService{
			list: func(_ repository.ListFilter, page int, pageSize int) (models.Page, error) {
				gotPage, gotPageSize = page, pageSize
				return models.Page{}, nil
			},
		}

		res := getListings(t, ls, "/api/v1/immobili")
		require.Equal(t, http.StatusOK, res.Code)

		assert.Equal(t, 1, gotPage)
		assert.Equal(t, 20, gotPageSize)
	})

	t.Run("unparsable query parameters", func(t *testing.T) {
		tests := []struct {
			name   string
			target string
		}{
			{"page", "/api/v1/immobili?page=abc"},
			{"page_size", "/api/v1/immobili?page_size=abc"},
			{"con_immagini", "/api/v1/immobili?con_immagini=maybe"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				res := getListings(t, &fakeListingService{}, tt.target)

				require.Equal(t, http.StatusBadRequest, res.Code)
				body := decodeBody[map[string]any](t, res)
				assert.Contains(t, body["message"], tt.name)
			})
		}
	})

	t.Run("out of range pagination is rejected by the service", func(t *testing.T) {
		ls := &fakeListingService{
			list: func(_ repository.ListFilter, _ int, _ int) (models.Page, error) {
				return models.Page{}, apperrors.ErrInvalidPagination
			},
		}

		res := getListings(t, ls, "/api/v1/immobili?page=0")

		require.Equal(t, http.StatusBadRequest, res.Code)
		body := decodeBody[map[string]any](t, res)
		assert.Equal(t, "Pagination parameters out of range", body["message"])
	})

	t.Run("store outage turns into 503", func(t *testing.T) {
		ls := &fakeListingService{
			list: func(_ repository.ListFilter, _ int, _ int) (models.Page, error) {
				return models.Page{}, apperrors.ErrStoreUnavailable
			},
		}

		res := getListings(t, ls, "/api/v1/immobili")

		require.Equal(t, http.StatusServiceUnavailable, res.Code)
		body := decodeBody[map[string]any](t, res)
		assert.Equal(t, "Service temporarily unavailable", body["message"])
	})
}

func TestHandleGetListing(t *testing.T) {
	t.Run("renders a single listing", func(t *testing.T) {
		ls := &fakeListingService{
			get: func(id int64) (models.Listing, error) {
				require.Equal(t, int64(42), id)
				return models.Listing{ID: 42, Comune: ptr("Milano")}, nil
			},
		}

		res := getListings(t, ls, "/api/v1/immobili/42")

		require.Equal(t, http.StatusOK, res.Code)
		body := decodeBody[ListingResponse](t, res)
		assert.Equal(t, int64(42), body.ID)
		assert.Equal(t, "Milano", *body.Comune)
	})

	t.Run("hidden or missing is 404 either way", func(t *testing.T) {
		ls := &fakeListingService{
			get: func(_ int64) (models.Listing, error) {
				return models.Listing{}, apperrors.ErrListingNotFound
			},
		}

		res := getListings(t, ls, "/api/v1/immobili/999")

		require.Equal(t, http.StatusNotFound, res.Code)
		body := decodeBody[map[string]any](t, res)
		assert.Equal(t, "Property not found or not public", body["message"])
	})

	t.Run("non-numeric id", func(t *testing.T) {
		res := getListings(t, &fakeListingService{}, "/api/v1/immobili/not-a-number")

		require.Equal(t, http.StatusBadRequest, res.Code)
		body := decodeBody[map[string]any](t, res)
		assert.Equal(t, "Invalid listing id", body["message"])
	})
}

func TestHandleListingImages(t *testing.T) {
	t.Run("renders images in order", func(t *testing.T) {
		ls := &fakeListingService{
			images: func(id int64) ([]models.Image, error) {
				require.Equal(t, int64(7), id)
				return []models.Image{
					{ID: ptr(int64(1)), URL: "https://img/a.jpg", Ordine: 0},
					{URL: "https://legacy/b.jpg", Ordine: 1},
				}, nil
			},
		}

		res := getListings(t, ls, "/api/v1/immobili/7/immagini")

		require.Equal(t, http.StatusOK, res.Code)
		body := decodeBody[[]ImageResponse](t, res)
		require.Len(t, body, 2)
		assert.Equal(t, "https://img/a.jpg", body[0].URL)
		assert.Nil(t, body[1].ID, "legacy images have no id")
	})

	t.Run("no images is an empty array, not null", func(t *testing.T) {
		ls := &fakeListingService{
			images: func(_ int64) ([]models.Image, error) { return nil, nil },
		}

		res := getListings(t, ls, "/api/v1/immobili/7/immagini")

		require.Equal(t, http.StatusOK, res.Code)
		assert.Equal(t, "[]", strings.TrimSpace(res.Body.String()))
	})

	t.Run("hidden listing leaks nothing", func(t *testing.T) {
		ls := &fakeListingService{
			images: func(_ int64) ([]models.Image, error) {
				return nil, apperrors.ErrListingNotFound
			},
		}

		res := getListings(t, ls, "/api/v1/immobili/4/immagini")

		require.Equal(t, http.StatusNotFound, res.Code)
	})
}

func TestHandleStats(t *testing.T) {
	t.Run("renders dataset stats", func(t *testing.T) {
		ls := &fakeListingService{
			stats: func() (models.Stats, error) {
				return models.Stats{
					TotalListings:        120,
					WithImages:           90,
					PercentWithImages:    75.0,
					TotalImages:          640,
					MeanImagesPerListing: 5.33,
					PerType:              map[string]int64{"Villa": 40, "Appartamento": 80},
				}, nil
			},
		}

		res := getListings(t, ls, "/api/v1/immobili/stats")

		require.Equal(t, http.StatusOK, res.Code)
		body := decodeBody[map[string]any](t, res)
		assert.Equal(t, float64(120), body["total_immobili"])
		assert.Equal(t, float64(90), body["immobili_con_foto"])
		assert.Equal(t, float64(75), body["percentuale_con_foto"])
		assert.Equal(t, float64(640), body["total_immagini"])
		assert.Equal(t, 5.33, body["media_immagini_per_immobile"])

		tipologie, ok := body["tipologie"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, float64(40), tipologie["Villa"])
	})

	t.Run("store outage turns into 503", func(t *testing.T) {
		ls := &fakeListingService{
			stats: func() (models.Stats, error) { return models.Stats{}, apperrors.ErrStoreUnavailable },
		}

		res := getListings(t, ls, "/api/v1/immobili/stats")

		require.Equal(t, http.StatusServiceUnavailable, res.Code)
	})
}

package models

import (
	"github.com/shopspring/decimal"
)

// Listing is a property record as stored in the external dataset.
// The store is read-only for this service: rows are produced by the
// back-office system and only queried here.
//
// Nullable columns map to pointers or decimal.NullDecimal.
type Listing struct {
	ID                int64
	CodiceDam         *string
	Titolo            *string
	TipoImmobile      *string
	DescrizioneBreve  *string
	DescrizioneEstesa *string

	// Location
	Comune        *string
	Localita      *string
	Via           *string
	PosizioneLat  *float64
	PosizioneLong *float64

	// Characteristics
	MqCommerciali decimal.NullDecimal
	CamereDaLetto *int32
	Bagni         *int32
	PrezzoVendita decimal.NullDecimal

	// Legacy ';'-joined image URLs, kept until all rows are backfilled
	// into the normalized immagini table
	Immagini600 *string

	// AI-derived feature tags (jsonb)
	FeaturesAI map[string]any

	// Images in display order. Not a column: filled by the listing
	// service from the immagini table or the legacy field.
	Immagini []Image

	// Visibility flags, see the privacy package
	IsAttivo             bool
	IsUfficiale          bool
	IsRiservatoDirezione bool
}

// Image of a listing. ID is nil for images recovered from the legacy
// immagini_600 field.
type Image struct {
	ID     *int64
	URL    string
	Ordine int32
}

// Stats over the publicly visible part of the dataset
type Stats struct {
	TotalListings        int64
	WithImages           int64
	PercentWithImages    float64
	TotalImages          int64
	MeanImagesPerListing float64
	PerType              map[string]int64
}

package models

// Page is a single page of listings together with pagination totals.
// Derived from a query, never persisted.
type Page struct {
	Listings   []Listing
	Total      int64
	Page       int
	PageSize   int
	TotalPages int
}

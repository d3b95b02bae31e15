// Package privacy is the single source of truth for listing visibility.
//
// A listing may be returned to external callers iff it is active,
// official and not reserved by direction. The rule exists in two forms
// that must never diverge: IsPublic for in-memory checks and
// SQLPredicate for pushing the same rule into data-store queries, so
// pagination totals never leak hidden rows.
package privacy

import (
	"github.com/immobiligb/immobili-api/internal/models"
)

// SQLPredicate is the visibility rule as a SQL fragment. Every read
// path (list, single-get, images-only) must conjoin it into WHERE.
// IS TRUE / IS NOT TRUE keep NULL flags on the hidden side.
const SQLPredicate = "is_ufficiale IS TRUE AND is_attivo IS TRUE AND is_riservato_direzione IS NOT TRUE"

// IsPublic reports whether the listing is externally visible
func IsPublic(l models.Listing) bool {
	return l.IsAttivo && l.IsUfficiale && !l.IsRiservatoDirezione
}

package stylist

import (
	"net/url"
	"strings"
)

// placeholderDomain marks a purchase URL the model invented rather than found.
const placeholderDomain = "example.com"

// platformSearches maps a platform-name marker to a search URL template.
// Matched in order with a case-insensitive substring test against the
// recommendation's platform field.
var platformSearches = []struct {
	marker   string
	template string
}{
	{"ajio", "https://www.ajio.com/search/?text="},
	{"myntra", "https://www.myntra.com/search?q="},
	{"amazon", "https://www.amazon.in/s?k="},
	{"flipkart", "https://www.flipkart.com/search?q="},
}

// RepairPurchaseURL returns a usable purchase URL for a recommendation. The
// model's own URL is kept when it looks real; otherwise a platform search URL
// is built from the item name and category. Platforms not in the table fall
// back to a Google search. Pure, total and idempotent.
func RepairPurchaseURL(rec Recommendation) string {
	u := rec.PurchaseURL
	if u != "" && strings.HasPrefix(u, "http") && !strings.Contains(u, placeholderDomain) {
		return u
	}

	query := url.QueryEscape(rec.Name + " " + rec.Category)
	platform := strings.ToLower(rec.Platform)
	for _, p := range platformSearches {
		if strings.Contains(platform, p.marker) {
			return p.template + query
		}
	}
	return "https://www.google.com/search?q=" + query + "+buy+online"
}

package booking

import (
	"net/url"
	"strings"

	"github.com/workstays/workstays-api/internal/pkg/filter"
)

// FiltersFromQuery builds the active clause set for the booking directory.
// Search matches any of the contact and location fields; status matches
// the display status, so "active" finds confirmed stays.
func FiltersFromQuery(q url.Values) *filter.Set[ExpandedBooking] {
	s := &filter.Set[ExpandedBooking]{}

	if term := strings.TrimSpace(q.Get("q")); term != "" {
		s.Add("q", strings.ToLower(term), func(b ExpandedBooking) bool {
			return filter.ContainsFold(b.ContractorName, term) ||
				filter.ContainsFold(b.CompanyName, term) ||
				filter.ContainsFold(b.ContractorEmail, term) ||
				filter.ContainsFold(b.Postcode, term) ||
				filter.ContainsFold(b.City, term)
		})
	}

	if status := strings.TrimSpace(q.Get("status")); status != "" {
		s.Add("status", status, func(b ExpandedBooking) bool {
			return b.Status == status
		})
	}

	return s
}

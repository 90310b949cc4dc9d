package chi

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/truestate/salesdex/internal/domain"
	"github.com/truestate/salesdex/internal/domain/query/request"
	sortspec "github.com/truestate/salesdex/internal/domain/query/sort"
)

// requestFromQuery normalizes query-string parameters into a validated
// Request.
//
// Validation strictness is deliberately asymmetric: malformed age bounds and
// dates are rejected (silently dropping them would broaden the result set),
// while malformed page/pageSize fall back to defaults (pagination corruption
// cannot change which records match).
func (s *Server) requestFromQuery(r *http.Request) (request.Request, error) {
	q := r.URL.Query()

	ageMin, err := intBound(q, "ageMin")
	if err != nil {
		return request.Request{}, err
	}
	ageMax, err := intBound(q, "ageMax")
	if err != nil {
		return request.Request{}, err
	}
	startDate, err := dateBound(q, "startDate")
	if err != nil {
		return request.Request{}, err
	}
	endDate, err := dateBound(q, "endDate")
	if err != nil {
		return request.Request{}, err
	}

	page := intOrDefault(q.Get("page"), request.DefaultPage)
	pageSize := intOrDefault(q.Get("pageSize"), s.pagination.DefaultPageSize)
	if pageSize > s.pagination.MaxPageSize {
		pageSize = s.pagination.MaxPageSize
	}

	return request.New(request.Params{
		Search:         q.Get("search"),
		Regions:        splitList(q.Get("regions")),
		Genders:        splitList(q.Get("genders")),
		Categories:     splitList(q.Get("categories")),
		PaymentMethods: splitList(q.Get("paymentMethods")),
		Tags:           splitList(q.Get("tags")),
		AgeMin:         ageMin,
		AgeMax:         ageMax,
		StartDate:      startDate,
		EndDate:        endDate,
		SortBy:         sortspec.ParseField(q.Get("sortBy")),
		SortOrder:      sortspec.ParseOrder(q.Get("sortOrder")),
		Page:           page,
		PageSize:       pageSize,
	})
}

// splitList splits a comma-joined list, trimming elements and dropping
// empties.
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// intBound parses an explicitly supplied numeric bound. A present but
// non-numeric value is a validation failure, never a silent drop.
func intBound(q url.Values, name string) (*int, error) {
	raw := strings.TrimSpace(q.Get(name))
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, domain.NewInvalidRequest("%s must be a number, got %q", name, raw)
	}
	return &n, nil
}

// dateBound parses an explicitly supplied ISO calendar date bound.
func dateBound(q url.Values, name string) (*time.Time, error) {
	raw := strings.TrimSpace(q.Get(name))
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil, domain.NewInvalidRequest("%s must be a date in YYYY-MM-DD form, got %q", name, raw)
	}
	return &t, nil
}

// intOrDefault parses pagination input, falling back to def on anything
// unparseable.
func intOrDefault(raw string, def int) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

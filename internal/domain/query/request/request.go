// Package request defines the validated, immutable query specification the
// engine operates on. All normalization happens in New; the engine never sees
// raw external input.
package request

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/truestate/salesdex/internal/domain"
	sortspec "github.com/truestate/salesdex/internal/domain/query/sort"
)

// Pagination limits.
const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Params holds the raw, already-typed query parameters. Nil pointers and
// empty slices mean "no constraint".
type Params struct {
	Search         string
	Regions        []string
	Genders        []string
	Categories     []string
	PaymentMethods []string
	Tags           []string
	AgeMin         *int
	AgeMax         *int
	StartDate      *time.Time
	EndDate        *time.Time
	SortBy         sortspec.Field
	SortOrder      sortspec.Order
	Page           int
	PageSize       int
}

// Request is a validated sales query.
type Request struct {
	search         string
	regions        []string
	genders        []string
	categories     []string
	paymentMethods []string
	tags           []string
	ageMin         *int
	ageMax         *int
	startDate      *time.Time
	endDate        *time.Time
	sortBy         sortspec.Field
	sortOrder      sortspec.Order
	page           int
	pageSize       int
}

// New validates and normalizes query parameters.
//
// Set filters are lowercased, deduplicated and sorted (membership is
// case-insensitive and order never affects semantics). Page is floored to 1,
// pageSize clamped to [1, MaxPageSize], sort falls back to date/desc.
// Inverted age or date bounds are rejected with ErrInvalidRequest.
func New(p Params) (Request, error) {
	if p.AgeMin != nil && p.AgeMax != nil && *p.AgeMin > *p.AgeMax {
		return Request{}, domain.NewInvalidRequest(
			"ageMin (%d) must not exceed ageMax (%d)", *p.AgeMin, *p.AgeMax)
	}
	if p.StartDate != nil && p.EndDate != nil && p.StartDate.After(*p.EndDate) {
		return Request{}, domain.NewInvalidRequest(
			"startDate (%s) must not be after endDate (%s)",
			p.StartDate.Format(time.DateOnly), p.EndDate.Format(time.DateOnly))
	}

	sortBy := p.SortBy
	if !sortBy.IsValid() {
		sortBy = sortspec.Date
	}
	sortOrder := p.SortOrder
	if !sortOrder.IsValid() {
		sortOrder = sortspec.Desc
	}

	page := p.Page
	if page < 1 {
		page = DefaultPage
	}
	pageSize := p.PageSize
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	return Request{
		search:         strings.TrimSpace(p.Search),
		regions:        normalizeSet(p.Regions),
		genders:        normalizeSet(p.Genders),
		categories:     normalizeSet(p.Categories),
		paymentMethods: normalizeSet(p.PaymentMethods),
		tags:           normalizeSet(p.Tags),
		ageMin:         p.AgeMin,
		ageMax:         p.AgeMax,
		startDate:      p.StartDate,
		endDate:        p.EndDate,
		sortBy:         sortBy,
		sortOrder:      sortOrder,
		page:           page,
		pageSize:       pageSize,
	}, nil
}

// Search returns the trimmed free-text search string ("" means unconstrained).
func (r *Request) Search() string { return r.search }

// Regions returns the allowed customer regions (lowercase, sorted).
func (r *Request) Regions() []string { return r.regions }

// Genders returns the allowed genders (lowercase, sorted).
func (r *Request) Genders() []string { return r.genders }

// Categories returns the allowed product categories (lowercase, sorted).
func (r *Request) Categories() []string { return r.categories }

// PaymentMethods returns the allowed payment methods (lowercase, sorted).
func (r *Request) PaymentMethods() []string { return r.paymentMethods }

// Tags returns the required tags (lowercase, sorted); a record must carry all.
func (r *Request) Tags() []string { return r.tags }

// AgeMin returns the inclusive lower age bound, nil when unset.
func (r *Request) AgeMin() *int { return r.ageMin }

// AgeMax returns the inclusive upper age bound, nil when unset.
func (r *Request) AgeMax() *int { return r.ageMax }

// StartDate returns the inclusive lower date bound, nil when unset.
func (r *Request) StartDate() *time.Time { return r.startDate }

// EndDate returns the inclusive upper date bound, nil when unset.
func (r *Request) EndDate() *time.Time { return r.endDate }

// SortBy returns the sort field.
func (r *Request) SortBy() sortspec.Field { return r.sortBy }

// SortOrder returns the sort direction.
func (r *Request) SortOrder() sortspec.Order { return r.sortOrder }

// Page returns the 1-based page number.
func (r *Request) Page() int { return r.page }

// PageSize returns the page size.
func (r *Request) PageSize() int { return r.pageSize }

// CacheKey returns a canonical representation of the request. Two requests
// with identical semantics produce identical keys.
func (r *Request) CacheKey() string {
	var b strings.Builder
	b.WriteString("s=")
	b.WriteString(strings.ToLower(r.search))
	writeKeySet(&b, "rg", r.regions)
	writeKeySet(&b, "gd", r.genders)
	writeKeySet(&b, "ct", r.categories)
	writeKeySet(&b, "pm", r.paymentMethods)
	writeKeySet(&b, "tg", r.tags)
	writeKeyInt(&b, "amin", r.ageMin)
	writeKeyInt(&b, "amax", r.ageMax)
	writeKeyDate(&b, "from", r.startDate)
	writeKeyDate(&b, "to", r.endDate)
	b.WriteString("|sort=")
	b.WriteString(string(r.sortBy))
	b.WriteByte(':')
	b.WriteString(string(r.sortOrder))
	b.WriteString("|p=")
	b.WriteString(strconv.Itoa(r.page))
	b.WriteByte('/')
	b.WriteString(strconv.Itoa(r.pageSize))
	return b.String()
}

func writeKeySet(b *strings.Builder, name string, vals []string) {
	if len(vals) == 0 {
		return
	}
	b.WriteByte('|')
	b.WriteString(name)
	b.WriteByte('=')
	b.WriteString(strings.Join(vals, ","))
}

func writeKeyInt(b *strings.Builder, name string, v *int) {
	if v == nil {
		return
	}
	b.WriteByte('|')
	b.WriteString(name)
	b.WriteByte('=')
	b.WriteString(strconv.Itoa(*v))
}

func writeKeyDate(b *strings.Builder, name string, v *time.Time) {
	if v == nil {
		return
	}
	b.WriteByte('|')
	b.WriteString(name)
	b.WriteByte('=')
	b.WriteString(v.Format(time.DateOnly))
}

// normalizeSet lowercases, trims, dedupes and sorts a filter value set.
func normalizeSet(vals []string) []string {
	if len(vals) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(vals))
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil
	}
	sort.Strings(out)
	return out
}

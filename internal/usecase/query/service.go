// Package query implements the sales query engine: conjunctive filtering,
// stable multi-field sorting, and page slicing over the in-memory snapshot.
package query

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/truestate/salesdex/internal/domain"
	"github.com/truestate/salesdex/internal/domain/query/request"
	"github.com/truestate/salesdex/internal/domain/query/result"
	sortspec "github.com/truestate/salesdex/internal/domain/query/sort"
	"github.com/truestate/salesdex/internal/domain/sale"
)

// Service answers sales queries against the snapshot.
type Service struct {
	snap  SnapshotReader
	cache PageCache
}

// New creates a query service.
func New(snap SnapshotReader) *Service {
	return &Service{snap: snap}
}

// WithCache attaches an optional result page cache.
func (s *Service) WithCache(cache PageCache) *Service {
	s.cache = cache
	return s
}

// Query filters, sorts, and paginates the snapshot according to req.
// It is pure over its inputs: the same request against the same snapshot
// always yields the same page. Returns ErrNotReady before the load completes.
func (s *Service) Query(ctx context.Context, req *request.Request) (result.Page, error) {
	records, ready := s.snap.Records()
	if !ready {
		return result.Page{}, domain.ErrNotReady
	}

	var cacheKey string
	if s.cache != nil {
		cacheKey = s.snap.Fingerprint() + "|" + req.CacheKey()
		if page, ok := s.cache.Get(ctx, cacheKey); ok {
			return page, nil
		}
	}

	filtered := filter(records, req)
	sortSales(filtered, req.SortBy(), req.SortOrder())
	page := paginate(filtered, req.Page(), req.PageSize())

	if s.cache != nil {
		s.cache.Set(ctx, cacheKey, page)
	}
	return page, nil
}

// filter retains records that pass every active predicate. Each dimension is
// independent; a record survives only the conjunction of all of them.
func filter(records []sale.Sale, req *request.Request) []sale.Sale {
	out := make([]sale.Sale, 0, len(records))
	for i := range records {
		if matches(&records[i], req) {
			out = append(out, records[i])
		}
	}
	return out
}

func matches(rec *sale.Sale, req *request.Request) bool {
	if q := req.Search(); q != "" {
		if !containsFold(rec.CustomerName, q) && !containsFold(rec.PhoneNumber, q) {
			return false
		}
	}

	if !memberOf(rec.CustomerRegion, req.Regions()) {
		return false
	}
	if !memberOf(rec.Gender, req.Genders()) {
		return false
	}
	if !memberOf(rec.ProductCategory, req.Categories()) {
		return false
	}
	if !memberOf(rec.PaymentMethod, req.PaymentMethods()) {
		return false
	}

	// Required tags: AND semantics, every requested tag must be present.
	for _, tag := range req.Tags() {
		if !rec.HasTag(tag) {
			return false
		}
	}

	if req.AgeMin() != nil || req.AgeMax() != nil {
		// Missing data cannot satisfy a numeric range request.
		if rec.Age == nil {
			return false
		}
		if min := req.AgeMin(); min != nil && *rec.Age < *min {
			return false
		}
		if max := req.AgeMax(); max != nil && *rec.Age > *max {
			return false
		}
	}

	if req.StartDate() != nil || req.EndDate() != nil {
		if rec.Date == nil {
			return false
		}
		if from := req.StartDate(); from != nil && rec.Date.Before(*from) {
			return false
		}
		if to := req.EndDate(); to != nil && rec.Date.After(*to) {
			return false
		}
	}

	return true
}

// memberOf reports whether value belongs to the allowed set. An empty set
// means "no restriction"; an empty record value fails any non-empty set.
func memberOf(value string, allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}
	if value == "" {
		return false
	}
	value = strings.ToLower(value)
	for _, a := range allowed {
		if value == a {
			return true
		}
	}
	return false
}

func containsFold(haystack, needle string) bool {
	if haystack == "" || needle == "" {
		return false
	}
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// sortSales stably orders the filtered records. Stability is load-bearing:
// equal-key records must keep their relative order so pagination does not
// reshuffle between page fetches of the same query.
func sortSales(records []sale.Sale, field sortspec.Field, order sortspec.Order) {
	var less func(a, b *sale.Sale) bool
	switch field {
	case sortspec.Quantity:
		less = func(a, b *sale.Sale) bool { return a.Quantity < b.Quantity }
	case sortspec.CustomerName:
		less = func(a, b *sale.Sale) bool {
			return strings.ToLower(a.CustomerName) < strings.ToLower(b.CustomerName)
		}
	default:
		less = func(a, b *sale.Sale) bool { return dateKey(a).Before(dateKey(b)) }
	}

	sort.SliceStable(records, func(i, j int) bool {
		if order == sortspec.Desc {
			return less(&records[j], &records[i])
		}
		return less(&records[i], &records[j])
	})
}

// dateKey treats a missing date as the earliest possible instant, so such
// records sort first ascending and last descending.
func dateKey(s *sale.Sale) time.Time {
	if s.Date == nil {
		return time.Time{}
	}
	return *s.Date
}

func paginate(records []sale.Sale, page, pageSize int) result.Page {
	total := len(records)
	start := (page - 1) * pageSize
	items := []sale.Sale{}
	if start < total {
		end := start + pageSize
		if end > total {
			end = total
		}
		items = records[start:end]
	}
	return result.Page{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: result.TotalPages(total, pageSize),
	}
}

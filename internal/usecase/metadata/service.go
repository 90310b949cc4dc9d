// Package metadata derives the filter-option vocabulary from the dataset.
package metadata

import (
	"sort"

	"github.com/truestate/salesdex/internal/domain"
	"github.com/truestate/salesdex/internal/domain/sale"
)

// Snapshot lists the distinct values observed per filter dimension,
// each sorted ascending.
type Snapshot struct {
	Regions        []string `json:"regions"`
	Genders        []string `json:"genders"`
	Categories     []string `json:"categories"`
	PaymentMethods []string `json:"paymentMethods"`
	Tags           []string `json:"tags"`
}

// SnapshotReader provides read access to the loaded dataset.
type SnapshotReader interface {
	Records() ([]sale.Sale, bool)
}

// Service computes filter metadata on demand. The scan is cheap relative to
// the dataset size and runs far less often than queries, so nothing is
// memoized.
type Service struct {
	snap SnapshotReader
}

// New creates a metadata service.
func New(snap SnapshotReader) *Service {
	return &Service{snap: snap}
}

// Extract collects the sorted distinct non-empty values for every categorical
// dimension plus the flattened tag vocabulary. Returns ErrNotReady before the
// snapshot load completes.
func (s *Service) Extract() (Snapshot, error) {
	records, ready := s.snap.Records()
	if !ready {
		return Snapshot{}, domain.ErrNotReady
	}

	regions := make(map[string]struct{})
	genders := make(map[string]struct{})
	categories := make(map[string]struct{})
	payments := make(map[string]struct{})
	tags := make(map[string]struct{})

	for i := range records {
		rec := &records[i]
		collect(regions, rec.CustomerRegion)
		collect(genders, rec.Gender)
		collect(categories, rec.ProductCategory)
		collect(payments, rec.PaymentMethod)
		for _, t := range rec.Tags {
			collect(tags, t)
		}
	}

	return Snapshot{
		Regions:        sorted(regions),
		Genders:        sorted(genders),
		Categories:     sorted(categories),
		PaymentMethods: sorted(payments),
		Tags:           sorted(tags),
	}, nil
}

func collect(set map[string]struct{}, v string) {
	if v == "" {
		return
	}
	set[v] = struct{}{}
}

func sorted(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

package snapshot

import (
	"testing"

	"github.com/truestate/salesdex/internal/domain/sale"
)

func TestStore_Lifecycle(t *testing.T) {
	s := New()

	if s.Ready() {
		t.Error("new store must not be ready")
	}
	if _, ready := s.Records(); ready {
		t.Error("Records must report not ready before Load")
	}
	if s.Fingerprint() != "" {
		t.Errorf("fingerprint must be empty before Load, got %q", s.Fingerprint())
	}

	s.Load([]sale.Sale{{CustomerID: "c1"}, {CustomerID: "c2"}})

	if !s.Ready() {
		t.Error("store must be ready after Load")
	}
	records, ready := s.Records()
	if !ready || len(records) != 2 {
		t.Errorf("Records: got %d/%v, want 2/true", len(records), ready)
	}
	if s.Fingerprint() == "" {
		t.Error("fingerprint must be set after Load")
	}
}

func TestStore_LoadTwicePanics(t *testing.T) {
	s := New()
	s.Load(nil)

	defer func() {
		if recover() == nil {
			t.Error("second Load must panic")
		}
	}()
	s.Load(nil)
}

func TestStore_FingerprintsDifferAcrossLoads(t *testing.T) {
	a := New()
	b := New()
	a.Load(make([]sale.Sale, 3))
	b.Load(make([]sale.Sale, 5))

	if a.Fingerprint() == b.Fingerprint() {
		t.Errorf("different datasets must not share a fingerprint: %q", a.Fingerprint())
	}
}

package chi

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/truestate/salesdex/internal/domain"
	"github.com/truestate/salesdex/internal/domain/query/request"
	sortspec "github.com/truestate/salesdex/internal/domain/query/sort"
	"github.com/truestate/salesdex/internal/repository/snapshot"
	healthuc "github.com/truestate/salesdex/internal/usecase/health"
	metadatauc "github.com/truestate/salesdex/internal/usecase/metadata"
	queryuc "github.com/truestate/salesdex/internal/usecase/query"
)

func bareServer() *Server {
	snap := snapshot.New()
	return NewServer(
		queryuc.New(snap),
		metadatauc.New(snap),
		healthuc.New(snap, nil),
	)
}

func parse(t *testing.T, srv *Server, rawQuery string) (request.Request, error) {
	t.Helper()
	r := httptest.NewRequest(http.MethodGet, "/api/v1/sales?"+rawQuery, http.NoBody)
	return srv.requestFromQuery(r)
}

func TestRequestFromQuery_Empty(t *testing.T) {
	req, err := parse(t, bareServer(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Page() != request.DefaultPage || req.PageSize() != request.DefaultPageSize {
		t.Errorf("pagination: got %d/%d, want defaults", req.Page(), req.PageSize())
	}
	if req.SortBy() != sortspec.Date || req.SortOrder() != sortspec.Desc {
		t.Errorf("sort: got %q/%q, want date/desc", req.SortBy(), req.SortOrder())
	}
}

func TestRequestFromQuery_ListsSplitAndNormalized(t *testing.T) {
	req, err := parse(t, bareServer(), "regions=North,%20South%20,,&tags=Festival")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := []string{"north", "south"}; !reflect.DeepEqual(req.Regions(), want) {
		t.Errorf("regions: got %v, want %v", req.Regions(), want)
	}
	if want := []string{"festival"}; !reflect.DeepEqual(req.Tags(), want) {
		t.Errorf("tags: got %v, want %v", req.Tags(), want)
	}
}

func TestRequestFromQuery_StrictBounds(t *testing.T) {
	cases := []string{
		"ageMin=abc",
		"ageMax=12.5",
		"startDate=not-a-date",
		"endDate=2024/01/01",
	}
	for _, raw := range cases {
		t.Run(raw, func(t *testing.T) {
			_, err := parse(t, bareServer(), raw)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.Is(err, domain.ErrInvalidRequest) {
				t.Errorf("expected ErrInvalidRequest, got %v", err)
			}
		})
	}
}

func TestRequestFromQuery_LenientPagination(t *testing.T) {
	req, err := parse(t, bareServer(), "page=abc&pageSize=xyz")
	if err != nil {
		t.Fatalf("malformed pagination must not error: %v", err)
	}
	if req.Page() != request.DefaultPage || req.PageSize() != request.DefaultPageSize {
		t.Errorf("pagination: got %d/%d, want defaults", req.Page(), req.PageSize())
	}
}

func TestRequestFromQuery_ValidBounds(t *testing.T) {
	req, err := parse(t, bareServer(), "ageMin=18&ageMax=65&startDate=2024-01-01&endDate=2024-12-31")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *req.AgeMin() != 18 || *req.AgeMax() != 65 {
		t.Errorf("age bounds: got %d/%d", *req.AgeMin(), *req.AgeMax())
	}
	if req.StartDate() == nil || req.EndDate() == nil {
		t.Fatal("date bounds must be set")
	}
}

func TestRequestFromQuery_PageSizeCappedByPolicy(t *testing.T) {
	srv := bareServer().WithPagination(Pagination{DefaultPageSize: 5, MaxPageSize: 20})

	req, err := parse(t, srv, "pageSize=500")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.PageSize() != 20 {
		t.Errorf("pageSize: got %d, want 20", req.PageSize())
	}

	req, err = parse(t, srv, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.PageSize() != 5 {
		t.Errorf("default pageSize: got %d, want 5", req.PageSize())
	}
}

func TestRequestFromQuery_SortFallbacks(t *testing.T) {
	req, err := parse(t, bareServer(), "sortBy=finalAmount&sortOrder=sideways")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.SortBy() != sortspec.Date || req.SortOrder() != sortspec.Desc {
		t.Errorf("sort fallbacks: got %q/%q, want date/desc", req.SortBy(), req.SortOrder())
	}
}

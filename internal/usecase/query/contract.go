package query

import (
	"context"

	"github.com/truestate/salesdex/internal/domain/query/result"
	"github.com/truestate/salesdex/internal/domain/sale"
)

// SnapshotReader provides read access to the loaded dataset.
type SnapshotReader interface {
	// Records returns the record collection and whether loading has finished.
	Records() ([]sale.Sale, bool)
	// Fingerprint identifies the loaded dataset; empty until ready.
	Fingerprint() string
}

// PageCache is an optional best-effort cache for computed result pages.
// Implementations swallow backend errors; a miss and a failure look the same.
type PageCache interface {
	Get(ctx context.Context, key string) (result.Page, bool)
	Set(ctx context.Context, key string, page result.Page)
}

package health

import "context"

// DatasetChecker reports whether the dataset snapshot has finished loading.
type DatasetChecker interface {
	Ready() bool
}

// CachePinger checks cache backend connectivity.
type CachePinger interface {
	Ping(ctx context.Context) error
}

// Package result defines the paginated query result envelope.
package result

import "github.com/truestate/salesdex/internal/domain/sale"

// Page is one page of matching records plus pagination arithmetic.
type Page struct {
	Items      []sale.Sale `json:"items"`
	Total      int         `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalPages int         `json:"totalPages"`
}

// TotalPages computes ceil(total/pageSize) with a floor of 1, so an empty
// result set still reports one (empty) page.
func TotalPages(total, pageSize int) int {
	pages := (total + pageSize - 1) / pageSize
	if pages < 1 {
		return 1
	}
	return pages
}

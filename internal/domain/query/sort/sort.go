// Package sort defines the sortable fields and directions for sales queries.
package sort

// Field is the attribute a query is ordered by.
type Field string

// Sortable fields.
const (
	// Date is the default ("newest first" together with Desc).
	Date         Field = "date"
	Quantity     Field = "quantity"
	CustomerName Field = "customerName"
)

// IsValid checks if the field is one of the supported values.
func (f Field) IsValid() bool {
	return f == Date || f == Quantity || f == CustomerName
}

// ParseField maps external input to a Field, falling back to Date for
// anything unrecognized.
func ParseField(s string) Field {
	if f := Field(s); f.IsValid() {
		return f
	}
	return Date
}

// Order is the sort direction.
type Order string

// Sort directions.
const (
	Asc  Order = "asc"
	Desc Order = "desc"
)

// IsValid checks if the order is one of the supported values.
func (o Order) IsValid() bool {
	return o == Asc || o == Desc
}

// ParseOrder maps external input to an Order, falling back to Desc for
// anything unrecognized.
func ParseOrder(s string) Order {
	if o := Order(s); o.IsValid() {
		return o
	}
	return Desc
}

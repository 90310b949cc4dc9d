// Package sale defines the normalized retail transaction record served by the
// query API. Records are produced once by ingestion and never mutated.
package sale

import (
	"strings"
	"time"
)

// Sale is one normalized transaction line.
//
// Age is nil when the source value is missing: zero is not a valid stand-in
// because it would wrongly satisfy age-range filters. Date is nil when the
// source value is missing or unparseable; such records never match a
// date-bounded query. Tags is always non-nil and lowercase.
type Sale struct {
	CustomerID      string     `json:"customerId"`
	CustomerName    string     `json:"customerName"`
	PhoneNumber     string     `json:"phoneNumber"`
	Gender          string     `json:"gender"`
	Age             *int       `json:"age"`
	CustomerRegion  string     `json:"customerRegion"`
	CustomerType    string     `json:"customerType"`
	ProductID       string     `json:"productId"`
	ProductName     string     `json:"productName"`
	Brand           string     `json:"brand"`
	ProductCategory string     `json:"productCategory"`
	Tags            []string   `json:"tags"`
	Quantity        int        `json:"quantity"`
	PricePerUnit    float64    `json:"pricePerUnit"`
	DiscountPct     float64    `json:"discountPercentage"`
	TotalAmount     float64    `json:"totalAmount"`
	FinalAmount     float64    `json:"finalAmount"`
	Date            *time.Time `json:"date"`
	PaymentMethod   string     `json:"paymentMethod"`
	OrderStatus     string     `json:"orderStatus"`
	DeliveryType    string     `json:"deliveryType"`
	StoreID         string     `json:"storeId"`
	StoreLocation   string     `json:"storeLocation"`
	SalespersonID   string     `json:"salespersonId"`
	EmployeeName    string     `json:"employeeName"`
}

// HasTag reports whether the record carries the given tag. The stored tag set
// is lowercase; the argument is folded before lookup.
func (s *Sale) HasTag(tag string) bool {
	tag = strings.ToLower(tag)
	for _, t := range s.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

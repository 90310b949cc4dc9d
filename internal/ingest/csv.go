// Package ingest parses the delimited sales dataset into typed records.
// It runs once at process start; the resulting slice is handed to the
// snapshot store and never touched again.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/truestate/salesdex/internal/domain/sale"
)

// Source column headers.
const (
	colCustomerID      = "Customer ID"
	colCustomerName    = "Customer Name"
	colPhoneNumber     = "Phone Number"
	colGender          = "Gender"
	colAge             = "Age"
	colCustomerRegion  = "Customer Region"
	colCustomerType    = "Customer Type"
	colProductID       = "Product ID"
	colProductName     = "Product Name"
	colBrand           = "Brand"
	colProductCategory = "Product Category"
	colTags            = "Tags"
	colQuantity        = "Quantity"
	colPricePerUnit    = "Price per Unit"
	colDiscountPct     = "Discount Percentage"
	colTotalAmount     = "Total Amount"
	colFinalAmount     = "Final Amount"
	colDate            = "Date"
	colPaymentMethod   = "Payment Method"
	colOrderStatus     = "Order Status"
	colDeliveryType    = "Delivery Type"
	colStoreID         = "Store ID"
	colStoreLocation   = "Store Location"
	colSalespersonID   = "Salesperson ID"
	colEmployeeName    = "Employee Name"
)

// ReadFile loads and parses the sales CSV at path.
func ReadFile(path string) ([]sale.Sale, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Read parses sales records from CSV data. The first row must be the header;
// columns are matched by name so column order does not matter. Missing values
// follow the record invariants: age absent, numerics zero, tags empty set,
// date absent on parse failure.
func Read(r io.Reader) ([]sale.Sale, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}

	var records []sale.Sale
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		get := func(col string) string {
			i, ok := idx[col]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		records = append(records, sale.Sale{
			CustomerID:      get(colCustomerID),
			CustomerName:    get(colCustomerName),
			PhoneNumber:     get(colPhoneNumber),
			Gender:          get(colGender),
			Age:             parseAge(get(colAge)),
			CustomerRegion:  get(colCustomerRegion),
			CustomerType:    get(colCustomerType),
			ProductID:       get(colProductID),
			ProductName:     get(colProductName),
			Brand:           get(colBrand),
			ProductCategory: get(colProductCategory),
			Tags:            parseTags(get(colTags)),
			Quantity:        parseInt(get(colQuantity)),
			PricePerUnit:    parseFloat(get(colPricePerUnit)),
			DiscountPct:     parseFloat(get(colDiscountPct)),
			TotalAmount:     parseFloat(get(colTotalAmount)),
			FinalAmount:     parseFloat(get(colFinalAmount)),
			Date:            parseDate(get(colDate)),
			PaymentMethod:   get(colPaymentMethod),
			OrderStatus:     get(colOrderStatus),
			DeliveryType:    get(colDeliveryType),
			StoreID:         get(colStoreID),
			StoreLocation:   get(colStoreLocation),
			SalespersonID:   get(colSalespersonID),
			EmployeeName:    get(colEmployeeName),
		})
	}
	return records, nil
}

// parseAge returns nil for blank or malformed input: zero must not stand in
// for a missing age, or it would satisfy age-range filters it should not.
func parseAge(s string) *int {
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

func parseInt(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

// parseTags splits the comma-joined tag list, trimming and lowercasing each
// element. Always returns a non-nil slice.
func parseTags(s string) []string {
	if s == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}

func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil
	}
	return &t
}

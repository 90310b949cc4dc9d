package ingest

import (
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestRead_TypedFields(t *testing.T) {
	data := `Customer ID,Customer Name,Phone Number,Age,Quantity,Final Amount,Date,Tags,Payment Method
CUST-1,Anita Sharma,9876501234,34,3,1499.50,2024-03-15,"Festival, Clearance",UPI
`
	records, err := Read(strings.NewReader(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}

	rec := records[0]
	if rec.CustomerID != "CUST-1" || rec.CustomerName != "Anita Sharma" {
		t.Errorf("identity fields: got %q/%q", rec.CustomerID, rec.CustomerName)
	}
	if rec.Age == nil || *rec.Age != 34 {
		t.Errorf("age: got %v, want 34", rec.Age)
	}
	if rec.Quantity != 3 {
		t.Errorf("quantity: got %d, want 3", rec.Quantity)
	}
	if rec.FinalAmount != 1499.50 {
		t.Errorf("finalAmount: got %v, want 1499.50", rec.FinalAmount)
	}
	want := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	if rec.Date == nil || !rec.Date.Equal(want) {
		t.Errorf("date: got %v, want %v", rec.Date, want)
	}
	if wantTags := []string{"festival", "clearance"}; !reflect.DeepEqual(rec.Tags, wantTags) {
		t.Errorf("tags: got %v, want %v", rec.Tags, wantTags)
	}
}

func TestRead_MissingAndMalformedValues(t *testing.T) {
	data := `Customer ID,Age,Quantity,Final Amount,Date,Tags
CUST-1,,abc,not-a-number,15-03-2024,
CUST-2,thirty,2,10.5,2024-01-01,festival
`
	records, err := Read(strings.NewReader(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}

	r1 := records[0]
	if r1.Age != nil {
		t.Errorf("blank age must be nil, got %v", *r1.Age)
	}
	if r1.Quantity != 0 {
		t.Errorf("malformed quantity must be 0, got %d", r1.Quantity)
	}
	if r1.FinalAmount != 0 {
		t.Errorf("malformed amount must be 0, got %v", r1.FinalAmount)
	}
	if r1.Date != nil {
		t.Errorf("malformed date must be nil, got %v", r1.Date)
	}
	if r1.Tags == nil || len(r1.Tags) != 0 {
		t.Errorf("blank tags must be an empty non-nil slice, got %v", r1.Tags)
	}

	r2 := records[1]
	if r2.Age != nil {
		t.Errorf("non-numeric age must be nil, got %v", *r2.Age)
	}
	if r2.Date == nil {
		t.Error("valid date must be parsed")
	}
}

func TestRead_ColumnOrderDoesNotMatter(t *testing.T) {
	data := `Date,Customer Name,Customer ID
2024-05-01,Ravi Patel,CUST-9
`
	records, err := Read(strings.NewReader(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if records[0].CustomerID != "CUST-9" || records[0].CustomerName != "Ravi Patel" {
		t.Errorf("reordered columns misparsed: %+v", records[0])
	}
}

func TestRead_ShortRow(t *testing.T) {
	data := `Customer ID,Customer Name,Age
CUST-1
`
	records, err := Read(strings.NewReader(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rec := records[0]
	if rec.CustomerName != "" || rec.Age != nil {
		t.Errorf("missing cells must read as absent: %+v", rec)
	}
}

func TestRead_EmptyBody(t *testing.T) {
	records, err := Read(strings.NewReader("Customer ID,Customer Name\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("got %d records, want 0", len(records))
	}
}

func TestReadFile_MissingFile(t *testing.T) {
	if _, err := ReadFile("/nonexistent/sales.csv"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

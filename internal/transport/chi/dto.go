package chi

import (
	"strconv"
	"strings"
	"time"

	"github.com/truestate/salesdex/internal/domain/query/result"
	"github.com/truestate/salesdex/internal/domain/sale"
)

// SalesListResponse is the paginated query response body.
type SalesListResponse struct {
	Data       []SaleResponse `json:"data"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"pageSize"`
	TotalPages int            `json:"totalPages"`
}

// SaleResponse is one transaction record augmented with presentation-friendly
// derived fields. The derived fields are computed per response, never stored.
type SaleResponse struct {
	sale.Sale
	Date                 *string `json:"date"`
	DateFormatted        string  `json:"dateFormatted,omitempty"`
	FinalAmountFormatted string  `json:"finalAmountFormatted"`
}

func pageToResponse(page result.Page) SalesListResponse {
	data := make([]SaleResponse, len(page.Items))
	for i := range page.Items {
		data[i] = saleToResponse(&page.Items[i])
	}
	return SalesListResponse{
		Data:       data,
		Total:      page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	}
}

func saleToResponse(s *sale.Sale) SaleResponse {
	resp := SaleResponse{
		Sale:                 *s,
		FinalAmountFormatted: formatIndianNumber(s.FinalAmount),
	}
	if s.Date != nil {
		d := s.Date.Format(time.DateOnly)
		resp.Date = &d
		resp.DateFormatted = s.Date.Format("02 Jan 2006")
	}
	return resp
}

// formatIndianNumber renders an amount with two decimals and Indian digit
// grouping (12,34,567.89). The client prefixes the currency sign itself.
func formatIndianNumber(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign = "-"
		s = s[1:]
	}

	intPart, fracPart, _ := strings.Cut(s, ".")
	if len(intPart) <= 3 {
		return sign + intPart + "." + fracPart
	}

	// Last three digits form one group, the rest pair up.
	head := intPart[:len(intPart)-3]
	tail := intPart[len(intPart)-3:]

	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}
	groups = append(groups, tail)

	return sign + strings.Join(groups, ",") + "." + fracPart
}

package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"printease-system/internal/database/models"
)

func bindQuote(t *testing.T, body string) (QuoteRequest, error) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/services/1/quote", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	var req QuoteRequest
	err := c.ShouldBindJSON(&req)
	return req, err
}

func TestQuoteRequest_ZeroPageCountBinds(t *testing.T) {
	req, err := bindQuote(t, `{"configuration":{"print_type":"bw","copies":2},"page_count":0}`)
	if err != nil {
		t.Fatalf("bind with page_count 0: %v", err)
	}
	if req.PageCount == nil || *req.PageCount != 0 {
		t.Fatalf("page_count = %v, want 0", req.PageCount)
	}
}

func TestQuoteRequest_MissingAndNegativePageCountRejected(t *testing.T) {
	if _, err := bindQuote(t, `{"configuration":{"print_type":"bw","copies":2}}`); err == nil {
		t.Fatalf("bind without page_count should fail")
	}
	if _, err := bindQuote(t, `{"configuration":{"print_type":"bw","copies":2},"page_count":-1}`); err == nil {
		t.Fatalf("bind with negative page_count should fail")
	}
}

func TestListServicesQuery_UsesListCache(t *testing.T) {
	falseVal := false

	cases := []struct {
		name  string
		query ListServicesQuery
		want  bool
	}{
		{"storefront default", ListServicesQuery{ActiveOnly: true, Page: 1, PageSize: defaultServicePageSize}, true},
		{"not active only", ListServicesQuery{ActiveOnly: false, Page: 1, PageSize: defaultServicePageSize}, false},
		{"later page", ListServicesQuery{ActiveOnly: true, Page: 2, PageSize: defaultServicePageSize}, false},
		{"custom page size", ListServicesQuery{ActiveOnly: true, Page: 1, PageSize: 3}, false},
		{"quotation filter", ListServicesQuery{ActiveOnly: true, Page: 1, PageSize: defaultServicePageSize, CustomQuotation: &falseVal}, false},
	}
	for _, tc := range cases {
		if got := tc.query.usesListCache(); got != tc.want {
			t.Errorf("%s: usesListCache() = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestValidateOptionList_RejectsDualPricingMode(t *testing.T) {
	err := validateOptionList("print_type", models.OptionList{
		{Value: "color", PricePerPage: "5", PricePerCopy: "15"},
	})
	if err == nil {
		t.Fatalf("option with both pricing modes should be rejected")
	}
	if !strings.Contains(err.Error(), "both per-page and per-copy") {
		t.Fatalf("unexpected error: %v", err)
	}
}

package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bhenrique21/cotarpecas/internal/store"
)

type mockProvider struct {
	result   *ProviderResult
	err      error
	failures int // fail this many calls before succeeding
	calls    int
}

func (m *mockProvider) FindOffers(ctx context.Context, req store.QuoteRequest) (*ProviderResult, error) {
	m.calls++
	if m.failures > 0 {
		m.failures--
		return nil, errors.New("rate limited")
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func testRequest() store.QuoteRequest {
	return store.QuoteRequest{
		VehicleType: store.VehicleCar,
		Make:        "Fiat",
		Model:       "Palio",
		Year:        "2015",
		PartName:    "Amortecedor",
	}
}

func TestSearchOfflineMode(t *testing.T) {
	svc := NewSearchService(nil, nil, SearchOptions{Retries: 0})

	resp, err := svc.Search(context.Background(), testRequest())
	require.NoError(t, err)

	require.NotEmpty(t, resp.Quotes)
	assert.Empty(t, resp.GroundingSources)
	assert.NotEmpty(t, resp.Summary)

	vendors := map[string]bool{}
	for _, q := range resp.Quotes {
		assert.Zero(t, q.Price)
		vendors[q.VendorName] = true
	}
	assert.True(t, vendors["Mercado Livre"])
	assert.True(t, vendors["Google Shopping"])

	// All-placeholder results keep their source order.
	assert.Equal(t, "Mercado Livre", resp.Quotes[0].VendorName)
	assert.Equal(t, "Google Shopping", resp.Quotes[1].VendorName)
}

func TestSearchProviderSuccess(t *testing.T) {
	provider := &mockProvider{
		result: &ProviderResult{
			Offers: []RawOffer{
				{VendorName: "Loja A", ProductName: "Amortecedor X", Price: 250.0, Link: "https://loja-a.com.br/x"},
				{VendorName: "Loja B", ProductName: "Amortecedor Y", Price: 180.0, Link: "https://loja-b.com.br/y"},
				{VendorName: "Sem Link", ProductName: "descartado", Price: 10.0},
			},
			Sources: []store.GroundingSource{{Web: &store.GroundingWeb{URI: "https://loja-a.com.br"}}},
		},
	}
	svc := NewSearchService(provider, nil, SearchOptions{Retries: 0})

	resp, err := svc.Search(context.Background(), testRequest())
	require.NoError(t, err)

	// Two valid offers plus two backup links; the link-less one is dropped.
	require.Len(t, resp.Quotes, 4)
	assert.Equal(t, "Loja B", resp.Quotes[0].VendorName)
	assert.Equal(t, 180.0, resp.Quotes[0].Price)
	assert.Equal(t, "Loja A", resp.Quotes[1].VendorName)
	assert.Zero(t, resp.Quotes[2].Price)
	assert.Zero(t, resp.Quotes[3].Price)
	assert.Len(t, resp.GroundingSources, 1)
}

func TestSearchProviderErrorFallsBack(t *testing.T) {
	provider := &mockProvider{err: errors.New("quota exceeded")}
	svc := NewSearchService(provider, nil, SearchOptions{Retries: 0})

	resp, err := svc.Search(context.Background(), testRequest())
	require.NoError(t, err)

	require.NotEmpty(t, resp.Quotes)
	for _, q := range resp.Quotes {
		assert.Zero(t, q.Price)
	}
	assert.Empty(t, resp.GroundingSources)
	assert.Equal(t, 1, provider.calls)
}

func TestSearchEmptyProviderResultFallsBack(t *testing.T) {
	provider := &mockProvider{result: &ProviderResult{}}
	svc := NewSearchService(provider, nil, SearchOptions{Retries: 0})

	resp, err := svc.Search(context.Background(), testRequest())
	require.NoError(t, err)
	require.NotEmpty(t, resp.Quotes)
	for _, q := range resp.Quotes {
		assert.Zero(t, q.Price)
	}
}

func TestSearchRetriesBeforeSucceeding(t *testing.T) {
	provider := &mockProvider{
		failures: 1,
		result: &ProviderResult{
			Offers: []RawOffer{{VendorName: "Loja A", Price: 99.0, Link: "https://loja-a.com.br/x"}},
		},
	}
	svc := NewSearchService(provider, nil, SearchOptions{Retries: 1, Timeout: 10 * time.Second})

	resp, err := svc.Search(context.Background(), testRequest())
	require.NoError(t, err)

	assert.Equal(t, 2, provider.calls)
	assert.Equal(t, 99.0, resp.Quotes[0].Price)
}

func TestSearchBlockedDomainFiltered(t *testing.T) {
	provider := &mockProvider{
		result: &ProviderResult{
			Offers: []RawOffer{
				{VendorName: "Suspeita", Price: 1.0, Link: "https://shady.example.com/item"},
				{VendorName: "Loja A", Price: 120.0, Link: "https://loja-a.com.br/x"},
			},
		},
	}
	svc := NewSearchService(provider, nil, SearchOptions{Retries: 0, BlockedDomains: []string{"example.com"}})

	resp, err := svc.Search(context.Background(), testRequest())
	require.NoError(t, err)

	for _, q := range resp.Quotes {
		assert.NotEqual(t, "Suspeita", q.VendorName)
	}
}

func TestSearchInvalidRequest(t *testing.T) {
	svc := NewSearchService(nil, nil, SearchOptions{Retries: 0})

	tests := []struct {
		name   string
		mutate func(*store.QuoteRequest)
	}{
		{"empty part name", func(r *store.QuoteRequest) { r.PartName = " " }},
		{"empty make", func(r *store.QuoteRequest) { r.Make = "" }},
		{"bad year", func(r *store.QuoteRequest) { r.Year = "15" }},
		{"non-numeric year", func(r *store.QuoteRequest) { r.Year = "abcd" }},
		{"unknown vehicle type", func(r *store.QuoteRequest) { r.VehicleType = "Bicicleta" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testRequest()
			tt.mutate(&req)
			_, err := svc.Search(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidRequest)
		})
	}
}

func TestSortQuotes(t *testing.T) {
	quotes := []store.QuoteResult{
		{VendorName: "placeholder-1"},
		{VendorName: "expensive", Price: 300},
		{VendorName: "cheap", Price: 50},
		{VendorName: "placeholder-2"},
		{VendorName: "mid", Price: 120},
	}

	SortQuotes(quotes)

	want := []string{"cheap", "mid", "expensive", "placeholder-1", "placeholder-2"}
	for i, name := range want {
		assert.Equal(t, name, quotes[i].VendorName)
	}
}

func TestSortQuotesAllZeroKeepsOrder(t *testing.T) {
	quotes := []store.QuoteResult{
		{VendorName: "first"},
		{VendorName: "second"},
		{VendorName: "third"},
	}

	SortQuotes(quotes)

	assert.Equal(t, "first", quotes[0].VendorName)
	assert.Equal(t, "second", quotes[1].VendorName)
	assert.Equal(t, "third", quotes[2].VendorName)
}

func TestLowestPriceSkipsPlaceholders(t *testing.T) {
	quotes := []store.QuoteResult{
		{Price: 0},
		{Price: 200},
		{Price: 150},
		{Price: 0},
	}
	assert.Equal(t, 150.0, LowestPrice(quotes))

	assert.Zero(t, LowestPrice([]store.QuoteResult{{Price: 0}, {Price: 0}}))
	assert.Zero(t, LowestPrice(nil))
}

func TestCoercePrice(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want float64
	}{
		{"float", 120.5, 120.5},
		{"negative clamped", -10.0, 0},
		{"plain string", "199.90", 199.9},
		{"brl string", "R$ 1.234,56", 1234.56},
		{"comma decimal", "89,90", 89.9},
		{"garbage string", "consulte", 0},
		{"nil", nil, 0},
		{"bool", true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, coercePrice(tt.in))
		})
	}
}

func TestParseOfferJSON(t *testing.T) {
	fenced := "```json\n[{\"vendorName\":\"Loja A\",\"price\":120.5,\"link\":\"https://a.com\"}]\n```"
	offers, err := parseOfferJSON(fenced)
	require.NoError(t, err)
	require.Len(t, offers, 1)
	assert.Equal(t, "Loja A", offers[0].VendorName)

	withProse := "Aqui estão as ofertas:\n[{\"vendorName\":\"Loja B\",\"price\":\"99,90\",\"link\":\"https://b.com\"}]\nEspero ter ajudado."
	offers, err = parseOfferJSON(withProse)
	require.NoError(t, err)
	require.Len(t, offers, 1)
	assert.Equal(t, "Loja B", offers[0].VendorName)

	_, err = parseOfferJSON("not json at all")
	assert.Error(t, err)
}

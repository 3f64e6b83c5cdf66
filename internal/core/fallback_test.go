package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bhenrique21/cotarpecas/internal/store"
)

func TestFallbackLinks(t *testing.T) {
	req := store.QuoteRequest{
		VehicleType: store.VehicleCar,
		Make:        "Fiat",
		Model:       "Palio",
		Year:        "2015",
		PartName:    "Amortecedor",
	}

	links := FallbackLinks(req)
	require.Len(t, links, 5)

	vendors := make(map[string]store.QuoteResult)
	for _, l := range links {
		assert.Zerof(t, l.Price, "fallback link for %s must be a placeholder", l.VendorName)
		assert.Equal(t, "BRL", l.Currency)
		assert.NotEmpty(t, l.Link)
		vendors[l.VendorName] = l
	}

	ml, ok := vendors["Mercado Livre"]
	require.True(t, ok)
	for _, term := range []string{"Amortecedor", "Fiat", "Palio", "2015"} {
		assert.Contains(t, ml.Link, term)
	}
	assert.True(t, strings.HasSuffix(ml.Link, "_OrderId_PRICE_ASC"))

	gs, ok := vendors["Google Shopping"]
	require.True(t, ok)
	for _, term := range []string{"Amortecedor", "Fiat", "Palio"} {
		assert.Contains(t, gs.Link, term)
	}
}

func TestFallbackLinksEncodeSpaces(t *testing.T) {
	req := store.QuoteRequest{
		VehicleType: store.VehicleCar,
		Make:        "Fiat",
		Model:       "Palio",
		Year:        "2012",
		PartName:    "Pastilha de Freio",
	}

	for _, l := range FallbackLinks(req) {
		assert.NotContainsf(t, l.Link, " ", "link for %s must not contain raw spaces", l.VendorName)
	}
}

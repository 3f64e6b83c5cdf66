package core

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/bhenrique21/cotarpecas/internal/store"
)

// FallbackLinks builds deterministic marketplace search URLs for the request.
// Every entry carries price 0, meaning "visit the site to see the price".
// Used whenever the live provider is unavailable or returns nothing, and the
// first two entries are also appended to successful provider results as
// generic comparison links.
func FallbackLinks(req store.QuoteRequest) []store.QuoteResult {
	part := strings.TrimSpace(req.PartName)
	fullTerm := fmt.Sprintf("%s %s %s %s", part, req.Make, req.Model, req.Year)
	encodedTerm := url.QueryEscape(fullTerm)

	slug := strings.ReplaceAll(part, " ", "-") + "-" + req.Make + "-" + req.Model + "-" + req.Year
	slug = strings.ReplaceAll(slug, " ", "-")

	return []store.QuoteResult{
		{
			VendorName:  "Mercado Livre",
			ProductName: "Ofertas: " + part,
			Currency:    "BRL",
			Description: "Melhores ofertas classificadas por preço.",
			Link:        "https://lista.mercadolivre.com.br/pecas/" + slug + "_OrderId_PRICE_ASC",
		},
		{
			VendorName:  "Google Shopping",
			ProductName: "Comparador Google",
			Currency:    "BRL",
			Description: "Comparativo em múltiplas lojas.",
			Link:        "https://www.google.com/search?tbm=shop&q=" + encodedTerm + "&tbs=p_ord:p",
		},
		{
			VendorName:  "Amazon",
			ProductName: "Amazon Peças",
			Currency:    "BRL",
			Description: "Entrega rápida e garantia A-Z.",
			Link:        "https://www.amazon.com.br/s?k=" + encodedTerm + "&i=automotive&s=price-asc-rank",
		},
		{
			VendorName:  "Shopee",
			ProductName: "Busca Shopee",
			Currency:    "BRL",
			Description: "Preços competitivos.",
			Link:        "https://shopee.com.br/search?keyword=" + encodedTerm + "&order=asc&sortBy=price",
		},
		{
			VendorName:  "Magalu",
			ProductName: "Magazine Luiza",
			Currency:    "BRL",
			Description: "Lojas parceiras Magalu.",
			Link:        "https://www.magazineluiza.com.br/busca/" + url.PathEscape(fullTerm) + "/",
		},
	}
}

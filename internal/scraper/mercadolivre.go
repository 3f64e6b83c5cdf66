package scraper

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

var nonNumeric = regexp.MustCompile(`[^0-9.]`)

// MercadoLivre probes a Mercado Livre search results page for the cheapest
// listed price. Results pages already sort by price when the URL carries
// _OrderId_PRICE_ASC, but the first card is occasionally an ad, so all price
// fractions on the page are compared.
type MercadoLivre struct {
	Client *http.Client
}

func NewMercadoLivre() *MercadoLivre {
	return &MercadoLivre{
		Client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (m *MercadoLivre) LowestPrice(ctx context.Context, searchURL string) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "pt-BR,pt;q=0.9,en-US;q=0.8,en;q=0.7")

	resp, err := m.Client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("status code: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return 0, err
	}

	lowest := -1.0
	doc.Find(".andes-money-amount__fraction").Each(func(i int, s *goquery.Selection) {
		price, err := parsePrice(strings.TrimSpace(s.Text()))
		if err != nil {
			return
		}
		if lowest < 0 || price < lowest {
			lowest = price
		}
	})

	if lowest < 0 {
		return 0, fmt.Errorf("no price found on page")
	}
	return lowest, nil
}

// parsePrice handles pt-BR formatting: "1.234" is one thousand two hundred
// thirty four, "1.234,56" has a decimal comma.
func parsePrice(text string) (float64, error) {
	cleaned := strings.ReplaceAll(text, ".", "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")
	cleaned = nonNumeric.ReplaceAllString(cleaned, "")
	if cleaned == "" {
		return 0, fmt.Errorf("no digits in price text %q", text)
	}
	return strconv.ParseFloat(cleaned, 64)
}

package core

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/bhenrique21/cotarpecas/internal/store"
)

const (
	DefaultSearchTimeout = 20 * time.Second
	DefaultSearchRetries = 2

	backupLinkCount = 2
)

var ErrInvalidRequest = errors.New("invalid quote request")

// PriceProbe can look up the lowest listed price on a marketplace search
// page. Optional; used to enrich the offline fallback.
type PriceProbe interface {
	LowestPrice(ctx context.Context, searchURL string) (float64, error)
}

type SearchResponse struct {
	Quotes           []store.QuoteResult     `json:"quotes"`
	Summary          string                  `json:"summary"`
	GroundingSources []store.GroundingSource `json:"grounding_sources"`
}

type SearchOptions struct {
	Timeout        time.Duration
	Retries        int
	BlockedDomains []string
	Probe          PriceProbe
}

// SearchService turns a QuoteRequest into a SearchResponse. It tries the
// live provider first and falls back to deterministic marketplace links, so
// a search never fails once the request itself is valid.
type SearchService struct {
	provider OfferProvider // nil when no credential is configured
	dbStore  store.Store
	opts     SearchOptions
}

func NewSearchService(provider OfferProvider, dbStore store.Store, opts SearchOptions) *SearchService {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultSearchTimeout
	}
	if opts.Retries < 0 {
		opts.Retries = DefaultSearchRetries
	}
	return &SearchService{provider: provider, dbStore: dbStore, opts: opts}
}

func (s *SearchService) Search(ctx context.Context, req store.QuoteRequest) (*SearchResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	internal := s.internalMatches(req)

	if s.provider == nil {
		return s.offlineResponse(ctx, req, internal, "Modo offline: links diretos de busca gerados."), nil
	}

	pctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	result, err := s.findWithRetry(pctx, req)
	if err != nil {
		log.Printf("Offer provider unavailable, using fallback links: %v", err)
		return s.offlineResponse(ctx, req, internal, "IA indisponível no momento. Exibindo links de busca direta."), nil
	}

	quotes := validateOffers(result.Offers, req, s.opts.BlockedDomains)
	if len(quotes) == 0 {
		log.Printf("Offer provider returned no usable offers for %q, using fallback links", req.PartName)
		return s.offlineResponse(ctx, req, internal, "IA indisponível no momento. Exibindo links de busca direta."), nil
	}

	// A couple of generic comparison links ride along even on success, in
	// case the provider found few items.
	quotes = append(quotes, FallbackLinks(req)[:backupLinkCount]...)
	quotes = append(internal, quotes...)
	SortQuotes(quotes)

	return &SearchResponse{
		Quotes:           quotes,
		Summary:          "Preços encontrados em tempo real.",
		GroundingSources: result.Sources,
	}, nil
}

// findWithRetry calls the provider, retrying with exponential backoff to
// ride out rate limiting. The shared deadline in ctx bounds the whole thing.
func (s *SearchService) findWithRetry(ctx context.Context, req store.QuoteRequest) (*ProviderResult, error) {
	var lastErr error
	for attempt := 0; attempt <= s.opts.Retries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<attempt) * time.Second
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		result, err := s.provider.FindOffers(ctx, req)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.Printf("Offer search attempt %d/%d failed: %v", attempt+1, s.opts.Retries+1, err)
	}
	return nil, lastErr
}

// internalMatches pulls supplier catalog entries matching the request. Store
// errors only cost us the internal results, never the search.
func (s *SearchService) internalMatches(req store.QuoteRequest) []store.QuoteResult {
	if s.dbStore == nil {
		return nil
	}
	products, err := s.dbStore.SearchProducts(req.PartName, req.Model)
	if err != nil {
		log.Printf("Internal product search failed: %v", err)
		return nil
	}

	var quotes []store.QuoteResult
	for _, p := range products {
		if p.Stock <= 0 || p.Price <= 0 {
			continue
		}
		quotes = append(quotes, store.QuoteResult{
			VendorName:  p.SupplierName,
			ProductName: fmt.Sprintf("%s %s (%s %s)", p.PartName, p.Brand, p.Make, p.Model),
			Price:       p.Price,
			Currency:    "BRL",
			Description: "Fornecedor cadastrado na plataforma.",
			Stock:       p.Stock,
		})
	}
	return quotes
}

func (s *SearchService) offlineResponse(ctx context.Context, req store.QuoteRequest, internal []store.QuoteResult, summary string) *SearchResponse {
	links := FallbackLinks(req)

	if s.opts.Probe != nil {
		// Best effort: fill in a real price on the Mercado Livre entry.
		if price, err := s.opts.Probe.LowestPrice(ctx, links[0].Link); err == nil && price > 0 {
			links[0].Price = price
			links[0].Description = "Menor preço listado na busca."
		} else if err != nil {
			log.Printf("Price probe failed: %v", err)
		}
	}

	quotes := append(internal, links...)
	SortQuotes(quotes)

	return &SearchResponse{
		Quotes:           quotes,
		Summary:          summary,
		GroundingSources: []store.GroundingSource{},
	}
}

func validateRequest(req store.QuoteRequest) error {
	switch req.VehicleType {
	case store.VehicleCar, store.VehicleMotorcycle, store.VehicleTruck, store.VehicleBus:
	default:
		return fmt.Errorf("%w: unknown vehicle type %q", ErrInvalidRequest, req.VehicleType)
	}
	if strings.TrimSpace(req.Make) == "" || strings.TrimSpace(req.Model) == "" || strings.TrimSpace(req.PartName) == "" {
		return fmt.Errorf("%w: make, model and part name are required", ErrInvalidRequest)
	}
	if len(req.Year) != 4 {
		return fmt.Errorf("%w: year must be 4 digits", ErrInvalidRequest)
	}
	if _, err := strconv.Atoi(req.Year); err != nil {
		return fmt.Errorf("%w: year must be 4 digits", ErrInvalidRequest)
	}
	return nil
}

// validateOffers is the single place raw provider output becomes typed
// quotes: prices are coerced to non-negative numbers, offers without a link
// are dropped, and blocked domains are filtered out.
func validateOffers(offers []RawOffer, req store.QuoteRequest, blockedDomains []string) []store.QuoteResult {
	var quotes []store.QuoteResult
	for _, o := range offers {
		if strings.TrimSpace(o.Link) == "" {
			continue
		}
		if linkBlocked(o.Link, blockedDomains) {
			continue
		}

		vendor := o.VendorName
		if vendor == "" {
			vendor = "Loja Online"
		}
		product := o.ProductName
		if product == "" {
			product = req.PartName
		}
		description := o.Description
		if description == "" {
			description = "Oferta encontrada via IA para " + req.Model
		}

		quotes = append(quotes, store.QuoteResult{
			VendorName:   vendor,
			ProductName:  product,
			Price:        coercePrice(o.Price),
			Currency:     "BRL",
			Description:  description,
			Link:         o.Link,
			Image:        o.Image,
			Installments: o.Installments,
		})
	}
	return quotes
}

func linkBlocked(link string, blockedDomains []string) bool {
	if len(blockedDomains) == 0 {
		return false
	}
	u, err := url.Parse(link)
	if err != nil {
		return true
	}
	host := strings.ToLower(u.Hostname())
	for _, domain := range blockedDomains {
		domain = strings.ToLower(strings.TrimSpace(domain))
		if domain == "" {
			continue
		}
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}

// coercePrice turns whatever the provider put in the price field into a
// non-negative float64, defaulting to 0 ("see site").
func coercePrice(v any) float64 {
	var price float64
	switch p := v.(type) {
	case float64:
		price = p
	case string:
		cleaned := strings.TrimSpace(p)
		cleaned = strings.TrimPrefix(cleaned, "R$")
		cleaned = strings.TrimSpace(cleaned)
		if strings.Contains(cleaned, ",") {
			cleaned = strings.ReplaceAll(cleaned, ".", "")
			cleaned = strings.ReplaceAll(cleaned, ",", ".")
		}
		parsed, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return 0
		}
		price = parsed
	default:
		return 0
	}
	if price < 0 {
		return 0
	}
	return price
}

// SortQuotes orders quotes ascending by price with zero-price placeholders
// after all priced entries. The sort is stable, so when every entry is a
// placeholder the original order is preserved.
func SortQuotes(quotes []store.QuoteResult) {
	sort.SliceStable(quotes, func(i, j int) bool {
		zi, zj := quotes[i].Price == 0, quotes[j].Price == 0
		if zi != zj {
			return zj // priced entries first
		}
		if zi {
			return false
		}
		return quotes[i].Price < quotes[j].Price
	})
}

// LowestPrice returns the cheapest real offer, skipping zero-price
// placeholders. Returns 0 when nothing has a price.
func LowestPrice(quotes []store.QuoteResult) float64 {
	lowest := 0.0
	for _, q := range quotes {
		if q.Price <= 0 {
			continue
		}
		if lowest == 0 || q.Price < lowest {
			lowest = q.Price
		}
	}
	return lowest
}

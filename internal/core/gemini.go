package core

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/bhenrique21/cotarpecas/internal/store"
)

const (
	offerModelName = "gemini-1.5-flash"

	offerSystemInstruction = "Você é um buscador de preços de peças automotivas no Brasil. " +
		"Priorize o MENOR PREÇO e lojas confiáveis (Mercado Livre, Amazon, Loja do Mecânico, PneuStore, etc). " +
		"Responda APENAS com JSON válido, sem markdown e sem texto fora do JSON."
)

// ProviderResult is what a live offer provider returns before validation:
// raw offers plus the grounding URLs supporting them.
type ProviderResult struct {
	Offers  []RawOffer
	Sources []store.GroundingSource
}

// RawOffer mirrors the JSON schema requested from the provider. Price is
// left untyped because models occasionally return it as a string; coercion
// happens in one place during validation.
type RawOffer struct {
	VendorName   string `json:"vendorName"`
	ProductName  string `json:"productName"`
	Price        any    `json:"price"`
	Link         string `json:"link"`
	Description  string `json:"description,omitempty"`
	Image        string `json:"image,omitempty"`
	Installments string `json:"installments,omitempty"`
}

// OfferProvider is a live source of purchase offers for a part.
type OfferProvider interface {
	FindOffers(ctx context.Context, req store.QuoteRequest) (*ProviderResult, error)
}

// GeminiProvider asks Gemini, with the Google Search tool enabled, for real
// offers matching the request.
type GeminiProvider struct {
	client *genai.Client
}

func NewGeminiProvider(ctx context.Context, apiKey string) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GeminiProvider{client: client}, nil
}

func (p *GeminiProvider) FindOffers(ctx context.Context, req store.QuoteRequest) (*ProviderResult, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(offerSystemInstruction, genai.RoleUser),
		Temperature:       genai.Ptr(float32(0.2)),
		Tools: []*genai.Tool{
			{GoogleSearch: &genai.GoogleSearch{}},
		},
	}

	contents := []*genai.Content{
		genai.NewContentFromText(buildOfferPrompt(req), genai.RoleUser),
	}

	resp, err := p.client.Models.GenerateContent(ctx, offerModelName, contents, config)
	if err != nil {
		return nil, fmt.Errorf("gemini offer search failed: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("gemini returned no candidates")
	}

	offers, err := parseOfferJSON(resp.Text())
	if err != nil {
		return nil, err
	}

	return &ProviderResult{
		Offers:  offers,
		Sources: groundingSources(resp.Candidates[0]),
	}, nil
}

func buildOfferPrompt(req store.QuoteRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Encontre 4 ofertas reais da peça %q para o veículo %q (%s).\n",
		req.PartName, fmt.Sprintf("%s %s %s", req.Make, req.Model, req.Year), req.VehicleType)
	if req.State != "" {
		fmt.Fprintf(&b, "Região do comprador: %s", req.State)
		if req.City != "" {
			fmt.Fprintf(&b, ", %s", req.City)
		}
		b.WriteString(".\n")
	}
	b.WriteString(`Retorne APENAS um array JSON seguindo estritamente este formato:
[
  {
    "vendorName": "Nome da Loja",
    "productName": "Título exato do anúncio",
    "price": 120.50,
    "link": "URL direta do produto"
  }
]
Use price 0 se não encontrar o preço exato.`)
	return b.String()
}

// parseOfferJSON decodes the provider response, tolerating the markdown code
// fences models keep wrapping JSON in despite instructions.
func parseOfferJSON(text string) ([]RawOffer, error) {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	// Some responses prepend prose before the array; cut to the first bracket.
	if idx := strings.Index(cleaned, "["); idx > 0 {
		cleaned = cleaned[idx:]
	}
	if idx := strings.LastIndex(cleaned, "]"); idx >= 0 {
		cleaned = cleaned[:idx+1]
	}

	var offers []RawOffer
	if err := json.Unmarshal([]byte(cleaned), &offers); err != nil {
		return nil, fmt.Errorf("malformed offer JSON from provider: %w", err)
	}
	return offers, nil
}

func groundingSources(candidate *genai.Candidate) []store.GroundingSource {
	if candidate == nil || candidate.GroundingMetadata == nil {
		return nil
	}
	var sources []store.GroundingSource
	for _, chunk := range candidate.GroundingMetadata.GroundingChunks {
		if chunk == nil || chunk.Web == nil || chunk.Web.URI == "" {
			continue
		}
		sources = append(sources, store.GroundingSource{
			Web: &store.GroundingWeb{URI: chunk.Web.URI, Title: chunk.Web.Title},
		})
	}
	return sources
}

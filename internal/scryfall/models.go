package scryfall

import "fmt"

// Card is the subset of a Scryfall card object the service uses.
type Card struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	ManaCost      string            `json:"mana_cost,omitempty"`
	CMC           float64           `json:"cmc"`
	TypeLine      string            `json:"type_line"`
	OracleText    string            `json:"oracle_text,omitempty"`
	Power         string            `json:"power,omitempty"`
	Toughness     string            `json:"toughness,omitempty"`
	Colors        []string          `json:"colors,omitempty"`
	ColorIdentity []string          `json:"color_identity"`
	ImageURIs     map[string]string `json:"image_uris,omitempty"`
	CardFaces     []CardFace        `json:"card_faces,omitempty"`
	Prices        Prices            `json:"prices"`
	SetName       string            `json:"set_name,omitempty"`
	Rarity        string            `json:"rarity,omitempty"`
	Legalities    map[string]string `json:"legalities,omitempty"`
}

// CardFace is one face of a multi-faced card.
type CardFace struct {
	Name      string            `json:"name"`
	ManaCost  string            `json:"mana_cost,omitempty"`
	TypeLine  string            `json:"type_line"`
	ImageURIs map[string]string `json:"image_uris,omitempty"`
}

// Prices holds Scryfall price strings; any of them may be null.
type Prices struct {
	USD       *string `json:"usd"`
	USDFoil   *string `json:"usd_foil"`
	USDEtched *string `json:"usd_etched"`
	EUR       *string `json:"eur"`
	EURFoil   *string `json:"eur_foil"`
	TIX       *string `json:"tix"`
}

// Fields returns the prices keyed by their Scryfall field names.
func (p Prices) Fields() map[string]*string {
	return map[string]*string{
		"usd":        p.USD,
		"usd_foil":   p.USDFoil,
		"usd_etched": p.USDEtched,
		"eur":        p.EUR,
		"eur_foil":   p.EURFoil,
		"tix":        p.TIX,
	}
}

// ImageURI picks the normal-size image, falling back to the first face.
func (c Card) ImageURI() string {
	if uri := c.ImageURIs["normal"]; uri != "" {
		return uri
	}
	for _, f := range c.CardFaces {
		if uri := f.ImageURIs["normal"]; uri != "" {
			return uri
		}
	}
	return ""
}

// SearchResult is a page of search results.
type SearchResult struct {
	Object     string `json:"object"`
	TotalCards int    `json:"total_cards"`
	HasMore    bool   `json:"has_more"`
	NextPage   string `json:"next_page,omitempty"`
	Data       []Card `json:"data"`
}

// APIError is the error object Scryfall returns for non-2xx responses.
type APIError struct {
	Object  string `json:"object"`
	Code    string `json:"code"`
	Status  int    `json:"status"`
	Details string `json:"details"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("scryfall API error (%d %s): %s", e.Status, e.Code, e.Details)
}

// NotFoundError is returned for 404 responses.
type NotFoundError struct {
	URL string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("not found: %s", e.URL)
}

package service

import (
	"context"
	"errors"
	"log"

	"github.com/fjod/go_commander/internal/cardstore"
	"github.com/fjod/go_commander/internal/domain"
	"github.com/fjod/go_commander/internal/pricing"
	"github.com/fjod/go_commander/internal/scryfall"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultSearchLimit = 20
	MaxSearchLimit     = 175 // one Scryfall result page
)

type ScryfallAPI interface {
	GetCard(ctx context.Context, id string) (*scryfall.Card, error)
	SearchCards(ctx context.Context, query string) (*scryfall.SearchResult, error)
}

type CardSnapshotStore interface {
	Get(ctx context.Context, id string) (*scryfall.Card, error)
	Put(ctx context.Context, card *scryfall.Card) error
}

// CardView is a Scryfall card as returned by the card endpoints, with an
// AUD counterpart next to every price field.
type CardView struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	ManaCost      string            `json:"mana_cost,omitempty"`
	CMC           float64           `json:"cmc"`
	TypeLine      string            `json:"type_line"`
	OracleText    string            `json:"oracle_text,omitempty"`
	Power         string            `json:"power,omitempty"`
	Toughness     string            `json:"toughness,omitempty"`
	Colors        []string          `json:"colors"`
	ColorIdentity []string          `json:"color_identity"`
	ImageURIs     map[string]string `json:"image_uris,omitempty"`
	Prices        map[string]any    `json:"prices"`
	SetName       string            `json:"set_name,omitempty"`
	Rarity        string            `json:"rarity,omitempty"`
	Legalities    map[string]string `json:"legalities,omitempty"`
}

// CardService is the card lookup gateway. Single-card lookups go through
// the SQLite snapshot store first; searches always hit Scryfall.
type CardService struct {
	api   ScryfallAPI
	store CardSnapshotStore
	sfg   singleflight.Group // one Scryfall fetch per card id at a time
}

// NewCardService creates the card service. store may be nil.
func NewCardService(api ScryfallAPI, store CardSnapshotStore) *CardService {
	return &CardService{api: api, store: store}
}

// GetCard returns the annotated view of one card.
func (s *CardService) GetCard(ctx context.Context, id string) (*CardView, error) {
	card, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	v := NewCardView(card)
	return &v, nil
}

// Lookup resolves a card id into the snapshot stored in decks.
func (s *CardService) Lookup(ctx context.Context, id string) (*domain.CardRef, error) {
	card, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	ref := ToCardRef(card)
	return &ref, nil
}

// Search runs a Scryfall search and returns at most limit cards.
func (s *CardService) Search(ctx context.Context, query string, limit int) ([]CardView, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	limit = min(limit, MaxSearchLimit)

	res, err := s.api.SearchCards(ctx, query)
	if err != nil {
		var nf *scryfall.NotFoundError
		if errors.As(err, &nf) {
			// Scryfall answers 404 when nothing matches
			return []CardView{}, nil
		}
		return nil, upstreamError("search cards", err)
	}

	data := res.Data
	if len(data) > limit {
		data = data[:limit]
	}
	views := make([]CardView, 0, len(data))
	for i := range data {
		views = append(views, NewCardView(&data[i]))
	}
	return views, nil
}

func (s *CardService) fetch(ctx context.Context, id string) (*scryfall.Card, error) {
	if s.store != nil {
		card, err := s.store.Get(ctx, id)
		if err == nil {
			return card, nil
		}
		if !errors.Is(err, cardstore.ErrNotCached) {
			log.Printf("card store get error: %v", err)
		}
	}

	v, err, _ := s.sfg.Do(id, func() (interface{}, error) {
		card, err := s.api.GetCard(ctx, id)
		if err != nil {
			var nf *scryfall.NotFoundError
			if errors.As(err, &nf) {
				return nil, ErrCardNotFound
			}
			return nil, upstreamError("get card", err)
		}

		if s.store != nil {
			if err := s.store.Put(ctx, card); err != nil {
				log.Printf("card store put error: %v", err)
			}
		}
		return card, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*scryfall.Card), nil
}

// NewCardView builds the response view of a Scryfall card.
func NewCardView(c *scryfall.Card) CardView {
	return CardView{
		ID:            c.ID,
		Name:          c.Name,
		ManaCost:      c.ManaCost,
		CMC:           c.CMC,
		TypeLine:      c.TypeLine,
		OracleText:    c.OracleText,
		Power:         c.Power,
		Toughness:     c.Toughness,
		Colors:        nonNil(c.Colors),
		ColorIdentity: nonNil(c.ColorIdentity),
		ImageURIs:     c.ImageURIs,
		Prices:        pricing.Annotate(c.Prices.Fields()),
		SetName:       c.SetName,
		Rarity:        c.Rarity,
		Legalities:    c.Legalities,
	}
}

// ToCardRef snapshots a Scryfall card for storage in a deck. Missing prices
// become zero.
func ToCardRef(c *scryfall.Card) domain.CardRef {
	usd := pricing.ParsePrice(c.Prices.USD)
	foil := pricing.ParsePrice(c.Prices.USDFoil)
	return domain.CardRef{
		ID:            c.ID,
		Name:          c.Name,
		ManaCost:      c.ManaCost,
		CMC:           max(c.CMC, 0),
		TypeLine:      c.TypeLine,
		Colors:        nonNil(c.Colors),
		ColorIdentity: nonNil(c.ColorIdentity),
		PriceUSD:      usd,
		PriceAUD:      pricing.ConvertUSDToAUD(usd),
		FoilPriceUSD:  foil,
		FoilPriceAUD:  pricing.ConvertUSDToAUD(foil),
		Rarity:        c.Rarity,
		ImageURI:      c.ImageURI(),
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

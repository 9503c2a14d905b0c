package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidCommander = errors.New("commander must be a legendary creature")
	ErrCardNotInDeck    = errors.New("card not in deck")
	ErrInvalidQuantity  = errors.New("quantity must be at least 1")
)

// Deck is a Commander deck document. TotalCards, the price totals,
// ColorIdentity and PowerLevel are derived and only written by Recalculate.
type Deck struct {
	ID            string     `bson:"_id" json:"id"`
	Name          string     `bson:"name" json:"name"`
	Commander     *DeckCard  `bson:"commander,omitempty" json:"commander,omitempty"`
	Cards         []DeckCard `bson:"cards" json:"cards"`
	TotalCards    int        `bson:"total_cards" json:"total_cards"`
	TotalPriceUSD float64    `bson:"total_price_usd" json:"total_price_usd"`
	TotalPriceAUD float64    `bson:"total_price_aud" json:"total_price_aud"`
	FoilPriceUSD  float64    `bson:"foil_price_usd" json:"foil_price_usd"`
	FoilPriceAUD  float64    `bson:"foil_price_aud" json:"foil_price_aud"`
	ColorIdentity []string   `bson:"color_identity" json:"color_identity"`
	PowerLevel    int        `bson:"power_level" json:"power_level"`
	CreatedAt     time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `bson:"updated_at" json:"updated_at"`
}

// NewDeck returns an empty deck with derived fields initialised.
func NewDeck(id, name string, now time.Time) *Deck {
	d := &Deck{
		ID:        id,
		Name:      name,
		Cards:     []DeckCard{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	d.Recalculate()
	return d
}

// SetCommander replaces the commander. The card must be a legendary creature.
func (d *Deck) SetCommander(card CardRef) error {
	if !card.IsLegendaryCreature() {
		return ErrInvalidCommander
	}
	d.Commander = &DeckCard{CardRef: card.clone(), Quantity: 1}
	d.Recalculate()
	return nil
}

// ClearCommander removes the commander and resets the color identity.
func (d *Deck) ClearCommander() {
	d.Commander = nil
	d.Recalculate()
}

// AddCard adds quantity copies of card, merging into an existing entry with
// the same card id.
func (d *Deck) AddCard(card CardRef, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	if i := d.indexOf(card.ID); i >= 0 {
		d.Cards[i].Quantity += quantity
	} else {
		d.Cards = append(d.Cards, DeckCard{CardRef: card.clone(), Quantity: quantity})
	}
	d.Recalculate()
	return nil
}

// RemoveCard removes quantity copies of the card. The entry is dropped when
// its quantity would reach zero.
func (d *Deck) RemoveCard(cardID string, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	i := d.indexOf(cardID)
	if i < 0 {
		return ErrCardNotInDeck
	}
	if d.Cards[i].Quantity <= quantity {
		d.Cards = append(d.Cards[:i], d.Cards[i+1:]...)
	} else {
		d.Cards[i].Quantity -= quantity
	}
	d.Recalculate()
	return nil
}

// Entry returns the entry for cardID.
func (d *Deck) Entry(cardID string) (DeckCard, bool) {
	if i := d.indexOf(cardID); i >= 0 {
		return d.Cards[i], true
	}
	return DeckCard{}, false
}

func (d *Deck) indexOf(cardID string) int {
	for i := range d.Cards {
		if d.Cards[i].ID == cardID {
			return i
		}
	}
	return -1
}

// Recalculate rewrites every derived field from the commander and entries.
func (d *Deck) Recalculate() {
	if d.Cards == nil {
		d.Cards = []DeckCard{}
	}

	total := 0
	usd, aud := decimal.Zero, decimal.Zero
	foilUSD, foilAUD := decimal.Zero, decimal.Zero
	for _, c := range d.Cards {
		q := decimal.NewFromInt(int64(c.Quantity))
		total += c.Quantity
		usd = usd.Add(decimal.NewFromFloat(c.PriceUSD).Mul(q))
		aud = aud.Add(decimal.NewFromFloat(c.PriceAUD).Mul(q))
		foilUSD = foilUSD.Add(decimal.NewFromFloat(c.FoilPriceUSD).Mul(q))
		foilAUD = foilAUD.Add(decimal.NewFromFloat(c.FoilPriceAUD).Mul(q))
	}

	d.ColorIdentity = []string{}
	if d.Commander != nil {
		total++
		usd = usd.Add(decimal.NewFromFloat(d.Commander.PriceUSD))
		aud = aud.Add(decimal.NewFromFloat(d.Commander.PriceAUD))
		foilUSD = foilUSD.Add(decimal.NewFromFloat(d.Commander.FoilPriceUSD))
		foilAUD = foilAUD.Add(decimal.NewFromFloat(d.Commander.FoilPriceAUD))
		d.ColorIdentity = append(d.ColorIdentity, d.Commander.ColorIdentity...)
	}

	d.TotalCards = total
	d.TotalPriceUSD = usd.Round(2).InexactFloat64()
	d.TotalPriceAUD = aud.Round(2).InexactFloat64()
	d.FoilPriceUSD = foilUSD.Round(2).InexactFloat64()
	d.FoilPriceAUD = foilAUD.Round(2).InexactFloat64()
	d.PowerLevel = PowerLevel(d.Cards)
}

// Validate runs the Commander deck rules against the current contents.
func (d *Deck) Validate() Validation {
	return Validate(d.Cards, d.Commander)
}

// Clone returns a deep copy so a mutation can be applied without touching
// the loaded document.
func (d *Deck) Clone() *Deck {
	c := *d
	if d.Commander != nil {
		cmd := *d.Commander
		cmd.CardRef = d.Commander.CardRef.clone()
		c.Commander = &cmd
	}
	c.Cards = make([]DeckCard, len(d.Cards))
	for i, e := range d.Cards {
		c.Cards[i] = DeckCard{CardRef: e.CardRef.clone(), Quantity: e.Quantity}
	}
	c.ColorIdentity = append([]string(nil), d.ColorIdentity...)
	return &c
}

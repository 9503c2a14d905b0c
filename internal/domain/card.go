package domain

import "strings"

// CardRef is a snapshot of a catalog card taken when it was added to a deck.
// Prices do not follow later catalog changes.
type CardRef struct {
	ID            string   `bson:"id" json:"id"`
	Name          string   `bson:"name" json:"name"`
	ManaCost      string   `bson:"mana_cost" json:"mana_cost"`
	CMC           float64  `bson:"cmc" json:"cmc"`
	TypeLine      string   `bson:"type_line" json:"type_line"`
	Colors        []string `bson:"colors" json:"colors"`
	ColorIdentity []string `bson:"color_identity" json:"color_identity"`
	PriceUSD      float64  `bson:"price_usd" json:"price_usd"`
	PriceAUD      float64  `bson:"price_aud" json:"price_aud"`
	FoilPriceUSD  float64  `bson:"foil_price_usd" json:"foil_price_usd"`
	FoilPriceAUD  float64  `bson:"foil_price_aud" json:"foil_price_aud"`
	Rarity        string   `bson:"rarity" json:"rarity"`
	ImageURI      string   `bson:"image_uri,omitempty" json:"image_uri,omitempty"`
}

// IsLegendaryCreature reports whether the type line names a legendary creature.
// The check is a case-sensitive substring match on both words.
func (c CardRef) IsLegendaryCreature() bool {
	return strings.Contains(c.TypeLine, "Legendary") && strings.Contains(c.TypeLine, "Creature")
}

func (c CardRef) clone() CardRef {
	c.Colors = append([]string(nil), c.Colors...)
	c.ColorIdentity = append([]string(nil), c.ColorIdentity...)
	return c
}

// DeckCard is a card entry in a deck. Entries are unique by card id.
type DeckCard struct {
	CardRef  `bson:",inline"`
	Quantity int `bson:"quantity" json:"quantity"`
}

var basicLands = map[string]struct{}{
	"Plains":   {},
	"Island":   {},
	"Swamp":    {},
	"Mountain": {},
	"Forest":   {},
	"Wastes":   {},
}

// IsBasicLand reports whether name is one of the six basic land names.
func IsBasicLand(name string) bool {
	_, ok := basicLands[name]
	return ok
}

package domain

const (
	MinPowerLevel = 1
	MaxPowerLevel = 5

	expensivePrice     = 20.0
	veryExpensivePrice = 50.0
)

// FastManaAndTutors is the reference list of staples used as a power signal.
var FastManaAndTutors = map[string]struct{}{
	"Sol Ring":                {},
	"Mana Crypt":              {},
	"Mana Vault":              {},
	"Chrome Mox":              {},
	"Mox Diamond":             {},
	"Mox Opal":                {},
	"Mox Amber":               {},
	"Jeweled Lotus":           {},
	"Lotus Petal":             {},
	"Grim Monolith":           {},
	"Ancient Tomb":            {},
	"Dark Ritual":             {},
	"Simian Spirit Guide":     {},
	"Elvish Spirit Guide":     {},
	"Demonic Tutor":           {},
	"Vampiric Tutor":          {},
	"Imperial Seal":           {},
	"Mystical Tutor":          {},
	"Enlightened Tutor":       {},
	"Worldly Tutor":           {},
	"Gamble":                  {},
	"Diabolic Intent":         {},
	"Grim Tutor":              {},
	"Survival of the Fittest": {},
}

// PowerLevel scores cards from 1 to 5 using card prices (USD), the number
// of fast mana and tutor staples, and the mean mana value. Each entry counts
// once regardless of quantity. The commander is not part of the score.
func PowerLevel(cards []DeckCard) int {
	level := MinPowerLevel

	expensive, veryExpensive, staples := 0, 0, 0
	cmcSum := 0.0
	for _, c := range cards {
		if c.PriceUSD > expensivePrice {
			expensive++
		}
		if c.PriceUSD > veryExpensivePrice {
			veryExpensive++
		}
		if _, ok := FastManaAndTutors[c.Name]; ok {
			staples++
		}
		cmcSum += c.CMC
	}

	switch {
	case expensive >= 20 || veryExpensive >= 5:
		level += 2
	case expensive >= 10:
		level++
	}

	switch {
	case staples >= 8:
		level += 2
	case staples >= 4:
		level++
	}

	if len(cards) > 0 {
		avg := cmcSum / float64(len(cards))
		if avg < 2.5 {
			level++
		} else if avg > 4.0 {
			level--
		}
	}

	return min(MaxPowerLevel, max(MinPowerLevel, level))
}

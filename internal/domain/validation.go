package domain

import "fmt"

const CommanderDeckSize = 100

// Validation is the rule report for a deck. Invalid decks are still stored.
type Validation struct {
	Valid      bool     `json:"valid"`
	Errors     []string `json:"errors"`
	Warnings   []string `json:"warnings"`
	TotalCards int      `json:"total_cards"`
}

// Validate checks deck size, the singleton rule and color identity. Every
// violation is reported; no rule short-circuits another.
func Validate(cards []DeckCard, commander *DeckCard) Validation {
	v := Validation{
		Errors:   []string{},
		Warnings: []string{},
	}

	total := 0
	for _, c := range cards {
		total += c.Quantity
	}
	if commander != nil {
		total++
	}
	v.TotalCards = total

	if total != CommanderDeckSize {
		v.Errors = append(v.Errors,
			fmt.Sprintf("Commander decks must have exactly %d cards (deck has %d)", CommanderDeckSize, total))
	}

	counts := make(map[string]int)
	for _, c := range cards {
		if IsBasicLand(c.Name) {
			continue
		}
		before := counts[c.Name]
		counts[c.Name] = before + c.Quantity
		// report each name once, when it first goes over the limit
		if before <= 1 && counts[c.Name] > 1 {
			v.Errors = append(v.Errors, fmt.Sprintf("Duplicate card not allowed in Commander: %s", c.Name))
		}
	}

	if commander != nil {
		allowed := make(map[string]struct{}, len(commander.ColorIdentity))
		for _, color := range commander.ColorIdentity {
			allowed[color] = struct{}{}
		}
		for _, c := range cards {
			for _, color := range c.ColorIdentity {
				if _, ok := allowed[color]; !ok {
					v.Errors = append(v.Errors,
						fmt.Sprintf("%s is outside the commander's color identity", c.Name))
					break
				}
			}
		}
	}

	v.Valid = len(v.Errors) == 0
	return v
}

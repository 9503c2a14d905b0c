package pricing

import (
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

// USDToAUDRate is the fixed conversion rate applied to Scryfall USD prices.
var USDToAUDRate = decimal.RequireFromString("1.55")

// ConvertUSDToAUD converts a USD price to AUD rounded to two decimals.
// Negative, NaN and infinite input is treated as zero.
func ConvertUSDToAUD(usd float64) float64 {
	if usd <= 0 || math.IsNaN(usd) || math.IsInf(usd, 0) {
		return 0
	}
	return decimal.NewFromFloat(usd).Mul(USDToAUDRate).Round(2).InexactFloat64()
}

// ParsePrice reads a Scryfall price string. Missing, "null", non-numeric,
// non-finite and negative values all become zero.
func ParsePrice(raw *string) float64 {
	if raw == nil || *raw == "" || *raw == "null" {
		return 0
	}
	v, err := strconv.ParseFloat(*raw, 64)
	if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Annotate returns the price fields plus an `{field}_aud` counterpart for each.
// Original string values are kept as-is; missing prices convert to zero.
func Annotate(prices map[string]*string) map[string]any {
	out := make(map[string]any, len(prices)*2)
	for field, raw := range prices {
		if raw == nil {
			out[field] = nil
		} else {
			out[field] = *raw
		}
		out[field+"_aud"] = ConvertUSDToAUD(ParsePrice(raw))
	}
	return out
}

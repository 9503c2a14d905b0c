package pricing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr(s string) *string { return &s }

func TestConvertUSDToAUD(t *testing.T) {
	tests := []struct {
		name string
		usd  float64
		want float64
	}{
		{"ten dollars", 10.00, 15.50},
		{"zero", 0, 0},
		{"rounds to cents", 0.33, 0.51},
		{"rounds half up", 1.01, 1.57},
		{"large", 1234.56, 1913.57},
		{"negative becomes zero", -3, 0},
		{"NaN becomes zero", math.NaN(), 0},
		{"infinity becomes zero", math.Inf(1), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ConvertUSDToAUD(tt.usd))
		})
	}
}

func TestParsePrice(t *testing.T) {
	assert.Equal(t, 0.0, ParsePrice(nil))
	assert.Equal(t, 0.0, ParsePrice(ptr("")))
	assert.Equal(t, 0.0, ParsePrice(ptr("null")))
	assert.Equal(t, 0.0, ParsePrice(ptr("abc")))
	assert.Equal(t, 0.0, ParsePrice(ptr("-1.00")))
	assert.Equal(t, 12.34, ParsePrice(ptr("12.34")))

	for _, raw := range []string{"NaN", "Inf", "+Inf", "-Inf", "infinity"} {
		assert.Equal(t, 0.0, ParsePrice(ptr(raw)), raw)
	}
}

func TestAnnotate_NonFinitePrices(t *testing.T) {
	prices := map[string]*string{"usd": ptr("NaN"), "eur": ptr("+Inf")}

	var got map[string]any
	assert.NotPanics(t, func() { got = Annotate(prices) })

	assert.Equal(t, "NaN", got["usd"])
	assert.Equal(t, 0.0, got["usd_aud"])
	assert.Equal(t, 0.0, got["eur_aud"])
}

func TestAnnotate(t *testing.T) {
	prices := map[string]*string{
		"usd":      ptr("10.00"),
		"usd_foil": nil,
		"eur":      ptr("bad"),
	}

	got := Annotate(prices)

	assert.Equal(t, "10.00", got["usd"])
	assert.Equal(t, 15.5, got["usd_aud"])
	assert.Nil(t, got["usd_foil"])
	assert.Equal(t, 0.0, got["usd_foil_aud"])
	assert.Equal(t, 0.0, got["eur_aud"])
	assert.Len(t, got, 6)
}

package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromJSON(t *testing.T) {
	payload := map[string]any{
		"name":    "Cabernet Sauvignon Reserve",
		"price":   29.99,
		"url":     "https://x/123",
		"vintage": "2020",
		"region":  "Napa Valley",
	}

	d := FromJSON(payload, Options{})
	require.NotNil(t, d)
	assert.Equal(t, "Cabernet Sauvignon Reserve", d.Title)
	assert.Equal(t, "29.99", d.Price.String())
	assert.Equal(t, "2020", d.Vintage)
	assert.Equal(t, "Napa Valley", d.Region)
	assert.Equal(t, 750, d.BottleSizeML)
	assert.Equal(t, "https://x/123", d.URL)
	assert.Nil(t, d.ListPrice)
}

func TestFromJSONOfferPriceWins(t *testing.T) {
	payload := map[string]any{
		"title": "Barolo Riserva",
		"url":   "https://x/456",
		"price": 99.00,
		"prices": map[string]any{
			"retail":      150.00,
			"last_bottle": 62.50,
		},
	}

	d := FromJSON(payload, Options{})
	require.NotNil(t, d)
	assert.Equal(t, "62.5", d.Price.String())
}

func TestFromJSONGenericPriceFallback(t *testing.T) {
	payload := map[string]any{
		"product_name": "Everyday Red Blend",
		"product_url":  "https://x/789",
		"sale_price":   "18.99",
	}

	d := FromJSON(payload, Options{})
	require.NotNil(t, d)
	assert.Equal(t, "18.99", d.Price.String())
}

func TestFromJSONRejects(t *testing.T) {
	// Missing title
	assert.Nil(t, FromJSON(map[string]any{"price": 29.99, "url": "https://x/1"}, Options{}))

	// Missing price
	assert.Nil(t, FromJSON(map[string]any{"name": "Syrah", "url": "https://x/1"}, Options{}))

	// Missing URL
	assert.Nil(t, FromJSON(map[string]any{"name": "Syrah", "price": 29.99}, Options{}))

	// Generic title
	assert.Nil(t, FromJSON(map[string]any{"name": "Last Bottle", "price": 29.99, "url": "https://x/1"}, Options{}))

	// Implausibly low price
	assert.Nil(t, FromJSON(map[string]any{"name": "Syrah", "price": 4.99, "url": "https://x/1"}, Options{}))

	assert.Nil(t, FromJSON(nil, Options{}))
}

func TestFromJSONOptionalFields(t *testing.T) {
	payload := map[string]any{
		"name":           "Dom Perignon",
		"price":          199.99,
		"url":            "/wine/dom-perignon",
		"year":           float64(2015),
		"original_price": "$250.00",
		"size":           "1.5L Magnum",
		"appellation":    "Champagne",
	}

	d := FromJSON(payload, Options{BaseURL: "https://www.lastbottlewines.com"})
	require.NotNil(t, d)
	assert.Equal(t, "2015", d.Vintage)
	assert.Equal(t, "250", d.ListPrice.String())
	assert.Equal(t, 1500, d.BottleSizeML)
	assert.Equal(t, "Champagne", d.Region)
	assert.Equal(t, "https://www.lastbottlewines.com/wine/dom-perignon", d.URL)
}

package shopping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapToProducts(t *testing.T) {
	results := []ShoppingResult{
		{
			Title:          "Fone X",
			Link:           "https://store.example/p/1",
			Source:         "Loja",
			Price:          "R$ 99,90",
			ExtractedPrice: 99.9,
			Thumbnail:      "https://cdn.example/x.jpg",
			Rating:         4.5,
			Delivery:       "Frete grátis",
		},
		{Title: "   "}, // blank title dropped
		{
			Title:          "Fone Y",
			Price:          "$49.99",
			ExtractedPrice: 49.99,
			Rating:         7, // out of range, dropped
		},
		{
			Title: "Fone Z", // no price data at all
		},
	}

	products := MapToProducts(results)
	require.Len(t, products, 3)

	x := products[0]
	assert.Equal(t, "Fone X", x.Name)
	require.NotNil(t, x.Source)
	assert.Equal(t, "Loja", x.Source.Name)
	assert.Equal(t, "https://store.example/p/1", x.Source.URL)
	require.NotNil(t, x.Price)
	assert.Equal(t, 99.9, *x.Price.Value)
	assert.Equal(t, "BRL", x.Price.Currency)
	require.NotNil(t, x.Rating)
	assert.Equal(t, 4.5, *x.Rating)
	assert.Equal(t, "Frete grátis", x.Availability)

	y := products[1]
	assert.Equal(t, "USD", y.Price.Currency)
	assert.Nil(t, y.Rating)
	assert.Nil(t, y.Source)

	z := products[2]
	assert.Nil(t, z.Price)
}

func TestMapToProducts_ZeroPriceDropped(t *testing.T) {
	products := MapToProducts([]ShoppingResult{
		{Title: "Fone X", ExtractedPrice: 0},
	})
	require.Len(t, products, 1)
	assert.Nil(t, products[0].Price)
}

func TestCurrencyFromPrice(t *testing.T) {
	tests := []struct {
		price string
		want  string
	}{
		{"R$ 199,90", "BRL"},
		{"$129.99", "USD"},
		{"", "BRL"},
		{"199,90", "BRL"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, currencyFromPrice(tt.price), "price %q", tt.price)
	}
}

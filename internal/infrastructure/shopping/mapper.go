package shopping

import (
	"strings"

	"github.com/shopscan/backend/internal/domain"
)

// MapToProducts adapts provider listing items onto the canonical Product
// shape. Field-level noise (zero prices, out-of-range ratings) is dropped
// here; structural validation and scoring happen downstream.
func MapToProducts(results []ShoppingResult) []domain.Product {
	products := make([]domain.Product, 0, len(results))
	for _, r := range results {
		if strings.TrimSpace(r.Title) == "" {
			continue
		}

		p := domain.Product{
			Name:         strings.TrimSpace(r.Title),
			ImageURL:     r.Thumbnail,
			Availability: r.Delivery,
		}

		if r.Link != "" || r.Source != "" {
			p.Source = &domain.Source{
				Name: r.Source,
				URL:  r.Link,
			}
		}

		if r.ExtractedPrice > 0 {
			value := r.ExtractedPrice
			p.Price = &domain.Price{
				Value:    &value,
				Currency: currencyFromPrice(r.Price),
			}
		}

		if r.Rating > 0 && r.Rating <= 5 {
			rating := r.Rating
			p.Rating = &rating
		}

		products = append(products, p)
	}
	return products
}

// currencyFromPrice infers the currency from the provider's display price.
func currencyFromPrice(price string) string {
	switch {
	case strings.Contains(price, "R$"):
		return "BRL"
	case strings.Contains(price, "$"):
		return "USD"
	default:
		return "BRL"
	}
}

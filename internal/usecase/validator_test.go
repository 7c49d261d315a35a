package usecase

import (
	"encoding/json"
	"strings"
	"testing"
)

func docFromJSON(t *testing.T, s string) map[string]interface{} {
	t.Helper()
	var doc map[string]interface{}
	if err := json.Unmarshal([]byte(s), &doc); err != nil {
		t.Fatalf("fixture does not parse: %v", err)
	}
	return doc
}

func TestValidate_DocumentShape(t *testing.T) {
	v := NewValidator()

	t.Run("nil document", func(t *testing.T) {
		products, _, errs := v.Validate(nil)
		if len(products) != 0 || len(errs) != 1 {
			t.Errorf("products = %v, errs = %v", products, errs)
		}
	})

	t.Run("missing products array", func(t *testing.T) {
		doc := docFromJSON(t, `{"items": []}`)
		products, _, errs := v.Validate(doc)
		if len(products) != 0 || len(errs) != 1 {
			t.Errorf("products = %v, errs = %v", products, errs)
		}
	})

	t.Run("summary from snake_case key", func(t *testing.T) {
		doc := docFromJSON(t, `{"products": [], "search_summary": "ok"}`)
		_, summary, _ := v.Validate(doc)
		if summary != "ok" {
			t.Errorf("summary = %q, want ok", summary)
		}
	})

	t.Run("summary from camelCase key", func(t *testing.T) {
		doc := docFromJSON(t, `{"products": [], "searchSummary": "ok"}`)
		_, summary, _ := v.Validate(doc)
		if summary != "ok" {
			t.Errorf("summary = %q, want ok", summary)
		}
	})
}

func TestValidate_RecordsFailIndependently(t *testing.T) {
	v := NewValidator()
	doc := docFromJSON(t, `{"products": [
		{"name": "Fone X"},
		{"name": "ab"},
		"not an object",
		{"description": "sem nome"},
		{"name": "Caixa de Som Y"}
	]}`)

	products, _, errs := v.Validate(doc)

	if len(products) != 2 {
		t.Fatalf("len(products) = %d, want 2 (N-K survivors)", len(products))
	}
	if len(errs) != 3 {
		t.Fatalf("len(errs) = %d, want 3, errs = %v", len(errs), errs)
	}

	// Survivors keep their relative order.
	if products[0].Name != "Fone X" || products[1].Name != "Caixa de Som Y" {
		t.Errorf("survivor order wrong: %q, %q", products[0].Name, products[1].Name)
	}

	// Diagnostics carry 1-based positions.
	for _, want := range []string{"record 2", "record 3", "record 4"} {
		found := false
		for _, e := range errs {
			if strings.Contains(e, want) {
				found = true
			}
		}
		if !found {
			t.Errorf("no diagnostic mentioning %q in %v", want, errs)
		}
	}
}

func TestValidate_NameBounds(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name   string
		record string
		wantOK bool
	}{
		{"minimum length", `{"name": "abc"}`, true},
		{"too short", `{"name": "ab"}`, false},
		{"missing", `{"description": "x"}`, false},
		{"non-string", `{"name": 42}`, false},
		{"too long", `{"name": "` + strings.Repeat("a", 201) + `"}`, false},
		{"maximum length", `{"name": "` + strings.Repeat("a", 200) + `"}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := docFromJSON(t, `{"products": [`+tt.record+`]}`)
			products, _, _ := v.Validate(doc)
			if (len(products) == 1) != tt.wantOK {
				t.Errorf("survived = %v, want %v", len(products) == 1, tt.wantOK)
			}
		})
	}
}

func TestValidate_TolerantOptionalFields(t *testing.T) {
	v := NewValidator()

	t.Run("over-long description truncated, record kept", func(t *testing.T) {
		long := strings.Repeat("x", 600)
		doc := docFromJSON(t, `{"products": [{"name": "Fone X", "description": "`+long+`"}]}`)
		products, _, errs := v.Validate(doc)
		if len(products) != 1 || len(errs) != 0 {
			t.Fatalf("products = %d, errs = %v", len(products), errs)
		}
		if len(products[0].Description) != maxDescriptionLength {
			t.Errorf("description length = %d, want %d", len(products[0].Description), maxDescriptionLength)
		}
	})

	t.Run("out-of-range rating cleared", func(t *testing.T) {
		doc := docFromJSON(t, `{"products": [{"name": "Fone X", "rating": 9.5}]}`)
		products, _, _ := v.Validate(doc)
		if products[0].Rating != nil {
			t.Errorf("rating = %v, want nil", *products[0].Rating)
		}
	})

	t.Run("valid rating kept", func(t *testing.T) {
		doc := docFromJSON(t, `{"products": [{"name": "Fone X", "rating": 4.5}]}`)
		products, _, _ := v.Validate(doc)
		if products[0].Rating == nil || *products[0].Rating != 4.5 {
			t.Errorf("rating = %v, want 4.5", products[0].Rating)
		}
	})

	t.Run("malformed image url cleared", func(t *testing.T) {
		doc := docFromJSON(t, `{"products": [{"name": "Fone X", "image_url": "notaurl"}]}`)
		products, _, _ := v.Validate(doc)
		if products[0].ImageURL != "" {
			t.Errorf("image_url = %q, want empty", products[0].ImageURL)
		}
	})

	t.Run("malformed source url cleared but source name kept", func(t *testing.T) {
		doc := docFromJSON(t, `{"products": [{"name": "Fone X", "source": {"name": "Loja", "url": "::::"}}]}`)
		products, _, _ := v.Validate(doc)
		if products[0].Source == nil || products[0].Source.Name != "Loja" || products[0].Source.URL != "" {
			t.Errorf("source = %+v", products[0].Source)
		}
	})

	t.Run("non-string specs dropped", func(t *testing.T) {
		doc := docFromJSON(t, `{"products": [{"name": "Fone X", "specs": ["bluetooth", 42, "anc"]}]}`)
		products, _, _ := v.Validate(doc)
		if len(products[0].Specs) != 2 {
			t.Errorf("specs = %v, want 2 strings", products[0].Specs)
		}
	})
}

func TestValidatePrice(t *testing.T) {
	t.Run("object with value and currency", func(t *testing.T) {
		doc := docFromJSON(t, `{"products": [{"name": "Fone X", "price": {"value": 100, "currency": "brl"}}]}`)
		products, _, _ := NewValidator().Validate(doc)
		p := products[0].Price
		if p == nil || p.Value == nil || *p.Value != 100 || p.Currency != "BRL" {
			t.Fatalf("price = %+v", p)
		}
	})

	t.Run("negative values cleared", func(t *testing.T) {
		doc := docFromJSON(t, `{"products": [{"name": "Fone X", "price": {"value": -1}}]}`)
		products, _, _ := NewValidator().Validate(doc)
		if products[0].Price != nil {
			t.Errorf("price = %+v, want nil", products[0].Price)
		}
	})

	t.Run("bare number accepted", func(t *testing.T) {
		doc := docFromJSON(t, `{"products": [{"name": "Fone X", "price": 99.9}]}`)
		products, _, _ := NewValidator().Validate(doc)
		p := products[0].Price
		if p == nil || p.Value == nil || *p.Value != 99.9 {
			t.Fatalf("price = %+v", p)
		}
	})

	t.Run("unknown currency dropped", func(t *testing.T) {
		doc := docFromJSON(t, `{"products": [{"name": "Fone X", "price": {"value": 10, "currency": "EUR"}}]}`)
		products, _, _ := NewValidator().Validate(doc)
		if products[0].Price.Currency != "" {
			t.Errorf("currency = %q, want empty", products[0].Price.Currency)
		}
	})
}

func TestParseMoneyString(t *testing.T) {
	tests := []struct {
		input        string
		wantValue    float64
		wantCurrency string
		wantOK       bool
	}{
		{"R$ 1.299,00", 1299.0, "BRL", true},
		{"R$ 99,90", 99.90, "BRL", true},
		{"$129.99", 129.99, "USD", true},
		{"$1,299.00", 1299.0, "USD", true},
		{"R$ 1.299", 1299.0, "BRL", true},
		{"1,299", 1299.0, "", true},
		{"1299", 1299, "", true},
		{"grátis", 0, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			value, currency, ok := parseMoneyString(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if value != tt.wantValue || currency != tt.wantCurrency {
				t.Errorf("= (%v, %q), want (%v, %q)", value, currency, tt.wantValue, tt.wantCurrency)
			}
		})
	}
}

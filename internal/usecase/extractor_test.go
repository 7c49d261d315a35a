package usecase

import (
	"encoding/json"
	"testing"
)

func extractProducts(t *testing.T, doc map[string]interface{}) []interface{} {
	t.Helper()
	products, ok := doc["products"].([]interface{})
	if !ok {
		t.Fatalf("document has no products array: %v", doc)
	}
	return products
}

func TestExtract_WellFormedJSONReturnedUnchanged(t *testing.T) {
	e := NewExtractor(false)
	input := `{"products":[{"name":"Fone X","price":{"value":100}}],"search_summary":"ok"}`

	doc, diags := e.Extract(input)
	if doc == nil {
		t.Fatal("Extract() returned nil for well-formed input")
	}
	if len(diags) != 0 {
		t.Errorf("diagnostics = %v, want none", diags)
	}

	// The recovered document must equal a direct parse of the input.
	var want map[string]interface{}
	if err := json.Unmarshal([]byte(input), &want); err != nil {
		t.Fatal(err)
	}
	got, _ := json.Marshal(doc)
	wantJSON, _ := json.Marshal(want)
	if string(got) != string(wantJSON) {
		t.Errorf("document = %s, want %s", got, wantJSON)
	}
}

func TestExtract_FencedBlockWithTrailingComma(t *testing.T) {
	e := NewExtractor(false)
	input := "Claro! Aqui está:\n```json\n{\"products\":[{\"name\":\"Fone X\"}],}\n```\nEspero que ajude."

	doc, diags := e.Extract(input)
	if doc == nil {
		t.Fatalf("Extract() returned nil, diagnostics: %v", diags)
	}
	products := extractProducts(t, doc)
	if len(products) != 1 {
		t.Fatalf("len(products) = %d, want 1", len(products))
	}
	record := products[0].(map[string]interface{})
	if record["name"] != "Fone X" {
		t.Errorf("name = %v, want Fone X", record["name"])
	}
}

func TestExtract_MissingSeparatorBetweenObjects(t *testing.T) {
	e := NewExtractor(false)
	input := `{"products":[{"name":"Fone X"} {"name":"Caixa Y"}]}`

	doc, diags := e.Extract(input)
	if doc == nil {
		t.Fatalf("Extract() returned nil, diagnostics: %v", diags)
	}
	products := extractProducts(t, doc)
	if len(products) != 2 {
		t.Errorf("len(products) = %d, want 2", len(products))
	}
}

func TestExtract_TruncatedDocument(t *testing.T) {
	e := NewExtractor(false)
	// Truncated right after the second record's closing brace: the array and
	// the outer object are still open.
	input := `{"products":[{"name":"Fone X"},{"name":"Caixa Y"}`

	doc, diags := e.Extract(input)
	if doc == nil {
		t.Fatalf("Extract() returned nil, diagnostics: %v", diags)
	}
	products := extractProducts(t, doc)
	if len(products) != 2 {
		t.Errorf("len(products) = %d, want 2", len(products))
	}
}

func TestExtract_ProseAroundObject(t *testing.T) {
	e := NewExtractor(false)
	input := `Os resultados são: {"products":[{"name":"Fone X"}],"search_summary":"ok"} - fim`

	doc, _ := e.Extract(input)
	if doc == nil {
		t.Fatal("Extract() returned nil")
	}
	if len(extractProducts(t, doc)) != 1 {
		t.Error("expected one product")
	}
}

func TestExtract_ProductsArrayRescue(t *testing.T) {
	e := NewExtractor(false)
	// The outer object is beyond repair (garbage between keys), but the
	// products array itself is intact.
	input := `{"summary" !!corrupted!! "products": [{"name":"Fone X"},{"name":"Caixa Y"}] !!more garbage`

	doc, diags := e.Extract(input)
	if doc == nil {
		t.Fatalf("Extract() returned nil, diagnostics: %v", diags)
	}
	products := extractProducts(t, doc)
	if len(products) != 2 {
		t.Errorf("len(products) = %d, want 2", len(products))
	}
	if doc["search_summary"] != "" {
		t.Errorf("search_summary = %v, want empty", doc["search_summary"])
	}
}

func TestExtract_UnrecoverableInput(t *testing.T) {
	e := NewExtractor(false)

	doc, diags := e.Extract("desculpe, não encontrei nada para essa busca")
	if doc != nil {
		t.Errorf("Extract() = %v, want nil", doc)
	}
	if len(diags) == 0 {
		t.Error("expected a diagnostic message for unrecoverable input")
	}
}

func TestExtract_BareArrayIsNotADocument(t *testing.T) {
	e := NewExtractor(false)

	// A top-level array is not a document; there is no products key to
	// rescue either.
	doc, diags := e.Extract(`[1,2,3]`)
	if doc != nil {
		t.Errorf("Extract() = %v, want nil", doc)
	}
	if len(diags) == 0 {
		t.Error("expected diagnostics")
	}
}

func TestExtractProductsArray(t *testing.T) {
	t.Run("finds matching bracket through nested arrays", func(t *testing.T) {
		input := `"products": [{"specs":["a","b"]},{"name":"x"}] ,"other": []`
		arr, ok := extractProductsArray(input)
		if !ok {
			t.Fatal("extractProductsArray() not found")
		}
		want := `[{"specs":["a","b"]},{"name":"x"}]`
		if arr != want {
			t.Errorf("array = %q, want %q", arr, want)
		}
	})

	t.Run("brackets inside strings do not confuse depth", func(t *testing.T) {
		input := `"products": [{"name":"colchete ] no nome"}] end`
		arr, ok := extractProductsArray(input)
		if !ok {
			t.Fatal("extractProductsArray() not found")
		}
		if arr != `[{"name":"colchete ] no nome"}]` {
			t.Errorf("array = %q", arr)
		}
	})

	t.Run("truncated array returned for repair", func(t *testing.T) {
		input := `"products": [{"name":"x"},{"name":"y"}`
		arr, ok := extractProductsArray(input)
		if !ok {
			t.Fatal("extractProductsArray() not found")
		}
		if arr != `[{"name":"x"},{"name":"y"}` {
			t.Errorf("array = %q", arr)
		}
	})

	t.Run("absent key", func(t *testing.T) {
		if _, ok := extractProductsArray(`{"items": []}`); ok {
			t.Error("expected not found")
		}
	})
}

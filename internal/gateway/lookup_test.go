package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkravets/pantrypal/internal/models"
)

func TestLookupProductByBarcode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/3017620422003.json":
			_, _ = w.Write([]byte(`{
				"status": 1,
				"product": {
					"code": "3017620422003",
					"product_name": "Nutella",
					"brands": "Ferrero",
					"quantity": "400 g",
					"ingredients": [{"text": "sugar"}, {"text": "palm oil"}],
					"nutriments": {"energy_100g": 2252, "sugars_100g": "56.3"},
					"nutrition_grades": "e"
				}
			}`))
		case "/0000000000000.json":
			_, _ = w.Write([]byte(`{"status": 0, "status_verbose": "product not found"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := newClient(srv, false)

	t.Run("hit", func(t *testing.T) {
		got, err := c.LookupProductByBarcode(context.Background(), "3017620422003")
		require.NoError(t, err)
		assert.Equal(t, "Nutella", got.ProductName)
		assert.Equal(t, "Ferrero", got.Brands)
		assert.Len(t, got.Ingredients, 2)
		assert.Equal(t, "e", got.NutritionGrade)
	})

	t.Run("status zero means not found", func(t *testing.T) {
		_, err := c.LookupProductByBarcode(context.Background(), "0000000000000")
		var nf *NotFoundError
		require.True(t, errors.As(err, &nf), "expected NotFoundError, got %v", err)
		assert.Equal(t, "0000000000000", nf.Barcode)
	})

	t.Run("empty barcode", func(t *testing.T) {
		_, err := c.LookupProductByBarcode(context.Background(), "")
		var ve *ValidationError
		require.True(t, errors.As(err, &ve))
	})
}

func TestLookupResult_Draft(t *testing.T) {
	tests := []struct {
		name   string
		result LookupResult
		expect map[string]any
	}{
		{
			name: "structured ingredients win",
			result: LookupResult{
				Code:            "123",
				ProductName:     "Muesli",
				Brands:          "Alnatura",
				Quantity:        "750 g",
				Ingredients:     []Ingredient{{Text: "oats"}, {Text: ""}},
				IngredientsText: "oats and stuff",
			},
			expect: map[string]any{
				"name":        "Muesli",
				"ingredients": []string{"oats", "Unknown"},
			},
		},
		{
			name: "flat text fallback",
			result: LookupResult{
				Code:            "123",
				IngredientsText: "water, salt",
			},
			expect: map[string]any{
				"name":        "N/A",
				"ingredients": []string{"water, salt"},
			},
		},
		{
			name:   "everything missing",
			result: LookupResult{},
			expect: map[string]any{
				"name":        "N/A",
				"ingredients": []string{"N/A"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := tt.result.Draft("999", "2026-01-01")
			assert.Equal(t, tt.expect["name"], d.Name)
			assert.Equal(t, tt.expect["ingredients"], d.Ingredients)
			assert.Equal(t, "2026-01-01", d.Date)
			if tt.result.Code == "" {
				assert.Equal(t, "999", d.Barcode, "barcode falls back to the scanned one")
			}
		})
	}
}

func TestNormalizeDraft(t *testing.T) {
	tests := []struct {
		name  string
		in    any
		out   float64
		label string
	}{
		{name: "number stays", in: 123.5, out: 123.5},
		{name: "numeric string parses", in: "56.3", out: 56.3},
		{name: "N/A defaults to zero", in: "N/A", out: 0},
		{name: "nil defaults to zero", in: nil, out: 0},
		{name: "garbage defaults to zero", in: "56 kcal", out: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.out, toNumber(tt.in))
		})
	}
}

func TestNormalizeDraft_DateDefaultsToToday(t *testing.T) {
	rec := normalizeDraft(models.ProductDraft{})
	assert.NotEmpty(t, rec.Date)
	assert.Len(t, rec.Date, len("2006-01-02"))

	rec = normalizeDraft(models.ProductDraft{Date: "2026-12-31"})
	assert.Equal(t, "2026-12-31", rec.Date)
}

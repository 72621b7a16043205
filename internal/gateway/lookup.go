package gateway

import (
	"strconv"
	"strings"
	"time"

	"github.com/mkravets/pantrypal/internal/models"
)

// LookupResult is the product payload of the public food database, decoded
// once at the gateway boundary. Nutriment fields arrive as numbers, strings
// with units, or not at all, so they stay loosely typed until draft
// construction.
type LookupResult struct {
	Code            string       `json:"code"`
	ProductName     string       `json:"product_name"`
	Brands          string       `json:"brands"`
	Quantity        string       `json:"quantity"`
	Ingredients     []Ingredient `json:"ingredients"`
	IngredientsText string       `json:"ingredients_text"`
	Nutriments      Nutriments   `json:"nutriments"`
	ImageURL        string       `json:"image_url"`
	NutritionGrade  string       `json:"nutrition_grades"`
}

// Ingredient is one entry of the structured ingredient list.
type Ingredient struct {
	Text string `json:"text"`
}

// Nutriments carries the per-100g nutrient values the app cares about.
type Nutriments struct {
	Energy100g any `json:"energy_100g"`
	Sugars100g any `json:"sugars_100g"`
}

// lookupEnvelope is the wire shape of GET /product/{barcode}.json.
type lookupEnvelope struct {
	Status  int           `json:"status"`
	Product *LookupResult `json:"product"`
}

const fallback = "N/A"

// Draft reshapes the lookup result into a product draft for the given
// barcode and expiry date. Defaulting happens here and nowhere else:
// missing text fields become "N/A", the structured ingredient list wins
// over the flat text, and nutrient values are passed through for numeric
// coercion during normalization.
func (r *LookupResult) Draft(barcode, expiry string) models.ProductDraft {
	d := models.ProductDraft{
		Barcode:         r.Code,
		Name:            r.ProductName,
		Brand:           r.Brands,
		Quantity:        r.Quantity,
		CaloriesPer100g: r.Nutriments.Energy100g,
		SugarPer100g:    r.Nutriments.Sugars100g,
		Date:            expiry,
	}
	if d.Barcode == "" {
		d.Barcode = barcode
	}
	if d.Name == "" {
		d.Name = fallback
	}
	if d.Brand == "" {
		d.Brand = fallback
	}
	if q, ok := d.Quantity.(string); ok && q == "" {
		d.Quantity = fallback
	}

	if len(r.Ingredients) > 0 {
		for _, ing := range r.Ingredients {
			text := ing.Text
			if text == "" {
				text = "Unknown"
			}
			d.Ingredients = append(d.Ingredients, text)
		}
	} else if r.IngredientsText != "" {
		d.Ingredients = []string{r.IngredientsText}
	} else {
		d.Ingredients = []string{fallback}
	}
	return d
}

// normalizeDraft converts a draft into the exact record shape the backend
// expects: quantity stringified, ingredients comma-joined, nutrient values
// coerced to numbers defaulting to 0, date defaulting to today.
func normalizeDraft(d models.ProductDraft) models.ProductRecord {
	rec := models.ProductRecord{
		Barcode:         d.Barcode,
		Name:            d.Name,
		Brand:           d.Brand,
		Quantity:        stringify(d.Quantity),
		Ingredients:     strings.Join(d.Ingredients, ", "),
		CaloriesPer100g: toNumber(d.CaloriesPer100g),
		SugarPer100g:    toNumber(d.SugarPer100g),
		Date:            d.Date,
	}
	if rec.Date == "" {
		rec.Date = time.Now().Format("2006-01-02")
	}
	return rec
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	default:
		return ""
	}
}

// toNumber coerces a loosely typed nutrient value to float64, defaulting
// to 0 for anything non-numeric ("N/A", "", nil).
func toNumber(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case int:
		return float64(t)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

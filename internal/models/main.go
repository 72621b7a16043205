// Package models defines the core data structures for sessions, pantry
// products, and recipe messages.
package models

// Session represents the current identity of the application.
type Session struct {
	// UserID is the backend identifier of the logged-in user, empty when
	// nobody is logged in.
	UserID string `json:"userId"`
	// Guest reports whether the app is in read-only guest browsing mode.
	Guest bool `json:"guest"`
	// NoticeSeen reports whether the one-time informational notice has
	// been dismissed.
	NoticeSeen bool `json:"noticeSeen"`
}

// ProductRecord is a pantry item as stored by the application backend.
type ProductRecord struct {
	// ID is the backend identifier of the record.
	ID string `json:"id"`
	// Barcode is the product barcode the record was created from.
	Barcode string `json:"barcode"`
	// Name is the product name.
	Name string `json:"name"`
	// Brand is the product brand.
	Brand string `json:"brand"`
	// Quantity is the package quantity as free text ("500 g").
	Quantity string `json:"quantity"`
	// Ingredients is the comma-joined ingredient list.
	Ingredients string `json:"ingredients"`
	// CaloriesPer100g is the energy per 100 g, 0 when unknown.
	CaloriesPer100g float64 `json:"caloriesPer100g"`
	// SugarPer100g is the sugar per 100 g, 0 when unknown.
	SugarPer100g float64 `json:"sugarPer100g"`
	// Date is the expiry date in ISO form (YYYY-MM-DD).
	Date string `json:"date"`
}

// ProductDraft is the client-side shape of a product before normalization.
// Quantity and the nutrient fields are left loosely typed because the
// external lookup returns numbers, strings, or nothing for them.
type ProductDraft struct {
	Barcode         string   `json:"barcode"`
	Name            string   `json:"name"`
	Brand           string   `json:"brand"`
	Quantity        any      `json:"quantity"`
	Ingredients     []string `json:"ingredients"`
	CaloriesPer100g any      `json:"caloriesPer100g"`
	SugarPer100g    any      `json:"sugarPer100g"`
	Date            string   `json:"date"`
}

// RecipeMessage is one asynchronously produced recipe suggestion.
type RecipeMessage struct {
	// ID is the backend identifier of the message, when present.
	ID string `json:"id,omitempty"`
	// Message is the suggestion text.
	Message string `json:"message"`
}

// UserDraft is the registration payload for a new account.
type UserDraft struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Supported display languages
const (
	LangEnglish = "en"
	LangFrench  = "fr"
	LangArabic  = "ar"
)

// LocalizedText maps a language code to a display string
type LocalizedText map[string]string

// Get returns the text for the given language, falling back to English
func (t LocalizedText) Get(lang string) string {
	if v, ok := t[lang]; ok && v != "" {
		return v
	}
	return t[LangEnglish]
}

// MenuItem represents one entry in the restaurant catalog
type MenuItem struct {
	ID          int64           `json:"id"`
	Name        LocalizedText   `json:"name"`
	Description LocalizedText   `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	ImageURL    string          `json:"image_url"`
	Available   bool            `json:"available"`
	CreatedAt   time.Time       `json:"created_at"`
	Options     []MenuOption    `json:"options,omitempty"`
}

// MenuOption represents a priced extra attached to a menu item
type MenuOption struct {
	ID         int64           `json:"id"`
	MenuItemID int64           `json:"menu_item_id"`
	Name       LocalizedText   `json:"name"`
	ExtraPrice decimal.Decimal `json:"extra_price"`
	CreatedAt  time.Time       `json:"created_at"`
}

// MenuSnapshot is a full copy of the catalog with a monotonic version.
// Consumers keep the highest version seen, so a snapshot arriving out of
// order never overwrites newer data.
type MenuSnapshot struct {
	Version int64      `json:"version"`
	Items   []MenuItem `json:"items"`
}

package model

// Category groups listings. Sub-categories are plain labels; ads reference
// them by value, and sub-category filtering happens in memory after fetch.
type Category struct {
	ID            string
	Name          string
	SubCategories []string
}

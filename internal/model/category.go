package model

import "github.com/rotisserie/eris"

// Category buckets an idea into one of the product categories that steer
// discovery sources and analysis prompts.
type Category string

const (
	CategoryMobileApp Category = "mobile_app"
	CategoryHardware  Category = "hardware"
	CategoryFintech   Category = "fintech"
	CategorySaaSWeb   Category = "saas_web"
)

// AllCategories returns the closed set of valid categories.
func AllCategories() []Category {
	return []Category{CategoryMobileApp, CategoryHardware, CategoryFintech, CategorySaaSWeb}
}

// ErrBadCategory is returned when a category value falls outside the closed set.
var ErrBadCategory = eris.New("model: category outside the known set")

// ParseCategory validates a raw category string against the closed set.
func ParseCategory(raw string) (Category, error) {
	c := Category(raw)
	for _, known := range AllCategories() {
		if c == known {
			return c, nil
		}
	}
	return "", eris.Wrapf(ErrBadCategory, "%q", raw)
}

// UsesAppStores reports whether discovery for this category queries the
// mobile app directories. Hardware and SaaS ideas go through web
// directory search instead.
func (c Category) UsesAppStores() bool {
	return c == CategoryMobileApp || c == CategoryFintech
}

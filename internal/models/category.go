package models

import (
	"fmt"
	"strings"
)

// Category classifies a Product. It is stored and serialized by name.
type Category string

const (
	CategoryUnknown    Category = "UNKNOWN"
	CategoryCloths     Category = "CLOTHS"
	CategoryFood       Category = "FOOD"
	CategoryHousewares Category = "HOUSEWARES"
	CategoryAutomotive Category = "AUTOMOTIVE"
	CategoryTools      Category = "TOOLS"
)

// categoriesByName is keyed by the upper-cased category name.
var categoriesByName = map[string]Category{
	"UNKNOWN":    CategoryUnknown,
	"CLOTHS":     CategoryCloths,
	"FOOD":       CategoryFood,
	"HOUSEWARES": CategoryHousewares,
	"AUTOMOTIVE": CategoryAutomotive,
	"TOOLS":      CategoryTools,
}

// Categories returns every known category in declaration order.
func Categories() []Category {
	return []Category{
		CategoryUnknown,
		CategoryCloths,
		CategoryFood,
		CategoryHousewares,
		CategoryAutomotive,
		CategoryTools,
	}
}

// ParseCategory looks up a category by name, ignoring case.
// Unknown names return an error wrapping ErrInvalidCategory.
func ParseCategory(name string) (Category, error) {
	c, ok := categoriesByName[strings.ToUpper(strings.TrimSpace(name))]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrInvalidCategory, name)
	}
	return c, nil
}

func (c Category) String() string {
	return string(c)
}

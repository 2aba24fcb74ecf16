// Package menu groups a flat menu into categories and folds variants of the
// same dish together.
//
// Variants follow a naming convention: "<Base> (<Variant>)", for example
// "Ghee Roast (Half)" and "Ghee Roast (Full)". Items of the same category
// sharing a base name become one Dish the customer toggles between.
package menu

import (
	"encoding/json"
	"strings"

	"github.com/doshakada/ordering-api/internal/models"
)

// Category is a menu section in first-appearance order
type Category struct {
	Name  string            `json:"category"`
	Items []models.MenuItem `json:"items"`
}

// Variant is one orderable size or style of a dish
type Variant struct {
	ID    models.ItemID `json:"id"`
	Label string        `json:"label"`
	Price float64       `json:"price"`
}

// Dish is a base dish with one or more variants in menu order
type Dish struct {
	Name     string    `json:"name"`
	Variants []Variant `json:"variants"`
}

// Default returns the variant selected before the customer toggles
func (d Dish) Default() Variant {
	return d.Variants[0]
}

// HasVariants reports whether the dish offers a choice
func (d Dish) HasVariants() bool {
	return len(d.Variants) > 1 || (len(d.Variants) == 1 && d.Variants[0].Label != "")
}

// MarshalJSON adds the default variant id and the hasVariants flag the
// client uses to decide whether to show a size toggle.
func (d Dish) MarshalJSON() ([]byte, error) {
	type dish Dish
	out := struct {
		dish
		DefaultID   models.ItemID `json:"defaultId,omitempty"`
		HasVariants bool          `json:"hasVariants"`
	}{dish: dish(d), HasVariants: d.HasVariants()}
	if len(d.Variants) > 0 {
		out.DefaultID = d.Default().ID
	}
	return json.Marshal(out)
}

// GroupedCategory is a category with its dishes folded
type GroupedCategory struct {
	Name   string `json:"category"`
	Dishes []Dish `json:"dishes"`
}

// ParseName splits a display name into its base and variant label.
func ParseName(name string) (base, variant string) {
	name = strings.TrimSpace(name)
	if !strings.HasSuffix(name, ")") {
		return name, ""
	}

	open := strings.LastIndex(name, "(")
	if open <= 0 {
		return name, ""
	}

	variant = strings.TrimSpace(name[open+1 : len(name)-1])
	base = strings.TrimSpace(name[:open])
	if variant == "" || base == "" {
		return name, ""
	}
	return base, variant
}

// GroupByCategory buckets items by category, keeping the order in which
// categories and items first appear in the menu.
func GroupByCategory(items []models.MenuItem) []Category {
	index := make(map[string]int)
	categories := make([]Category, 0)

	for _, item := range items {
		i, ok := index[item.Category]
		if !ok {
			i = len(categories)
			index[item.Category] = i
			categories = append(categories, Category{Name: item.Category})
		}
		categories[i].Items = append(categories[i].Items, item)
	}

	return categories
}

// GroupDishes folds items into dishes by base name. Callers pass the items
// of a single category.
func GroupDishes(items []models.MenuItem) []Dish {
	index := make(map[string]int)
	dishes := make([]Dish, 0, len(items))

	for _, item := range items {
		base, label := ParseName(item.Name)
		key := strings.ToLower(base)

		i, ok := index[key]
		if !ok {
			i = len(dishes)
			index[key] = i
			dishes = append(dishes, Dish{Name: base})
		}
		dishes[i].Variants = append(dishes[i].Variants, Variant{
			ID:    item.ID,
			Label: label,
			Price: item.Price,
		})
	}

	return dishes
}

// Group returns the full categories → dishes → variants view of a menu
func Group(items []models.MenuItem) []GroupedCategory {
	categories := GroupByCategory(items)
	grouped := make([]GroupedCategory, 0, len(categories))
	for _, c := range categories {
		grouped = append(grouped, GroupedCategory{
			Name:   c.Name,
			Dishes: GroupDishes(c.Items),
		})
	}
	return grouped
}

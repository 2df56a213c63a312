package model

import (
	"encoding/json"
	"strings"
)

// Categories is the fixed enumeration every event category must come from.
// It is the single source consumed by the request validator, the Mongo
// JSON-schema migration, and API clients.
var Categories = []string{
	"Arts & Entertainment",
	"Sports & Outdoors",
	"Learning & Career",
	"Community & Causes",
}

func IsValidCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

// InvalidCategories returns the members of the given list that are outside
// the fixed enumeration.
func InvalidCategories(categories []string) []string {
	var invalid []string
	for _, c := range categories {
		if !IsValidCategory(c) {
			invalid = append(invalid, c)
		}
	}
	return invalid
}

func CategoriesList() string {
	return strings.Join(Categories, ", ")
}

// CategoryList accepts either a JSON array or a bare string; a bare string
// is treated as a single-element list.
type CategoryList []string

func (c *CategoryList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*c = list
		return nil
	}

	var single string
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	*c = CategoryList{single}
	return nil
}

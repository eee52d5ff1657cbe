package catalog

import "strings"

// VisibleItems returns the tools matching the category selection and search
// query, in catalog order. A nil catalog yields no items. The category filter
// is an exact identifier match unless category is All; the query is trimmed,
// lower-cased and matched as a substring of the lower-cased name or the
// description when present. Both filters must pass.
func VisibleItems(c *Catalog, category, query string) []Item {
	if c == nil {
		return []Item{}
	}

	var filters []func(Item) bool
	if category != All {
		filters = append(filters, func(item Item) bool {
			return item.Category == category
		})
	}
	if term := strings.ToLower(strings.TrimSpace(query)); term != "" {
		filters = append(filters, func(item Item) bool {
			if strings.Contains(strings.ToLower(item.Name), term) {
				return true
			}
			if item.Description == nil {
				return false
			}
			return strings.Contains(strings.ToLower(*item.Description), term)
		})
	}

	result := make([]Item, 0, len(c.Tools))
	for _, item := range c.Tools {
		if matchesAll(item, filters) {
			result = append(result, item)
		}
	}
	return result
}

func matchesAll(item Item, filters []func(Item) bool) bool {
	for _, keep := range filters {
		if !keep(item) {
			return false
		}
	}
	return true
}

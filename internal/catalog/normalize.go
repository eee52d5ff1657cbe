package catalog

import "strings"

// Normalize returns a copy of the catalog with identifiers, category
// references and URLs trimmed. A category carrying the reserved All id is
// dropped: the "all" control is synthesised at render time. Names,
// descriptions and icons are kept as written; the templates escape them on
// output.
func Normalize(c Catalog) Catalog {
	out := Catalog{
		Categories: make([]Category, 0, len(c.Categories)),
		Tools:      make([]Item, 0, len(c.Tools)),
	}
	for _, cat := range c.Categories {
		cat.ID = strings.TrimSpace(cat.ID)
		if cat.ID == All {
			continue
		}
		out.Categories = append(out.Categories, cat)
	}
	for _, item := range c.Tools {
		item.URL = strings.TrimSpace(item.URL)
		item.Category = strings.TrimSpace(item.Category)
		out.Tools = append(out.Tools, item)
	}
	return out
}

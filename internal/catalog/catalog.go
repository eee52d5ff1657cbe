package catalog

// All is the category selection that disables category filtering. It is a
// reserved value and never appears in Catalog.Categories.
const All = "all"

// DefaultIcon is shown for items whose own icon and category icon are both empty.
const DefaultIcon = "🔧"

// Catalog is the loaded data document: categories and tools, both in document order.
type Catalog struct {
	Categories []Category `json:"categories" yaml:"categories"`
	Tools      []Item     `json:"tools" yaml:"tools"`
}

// Category groups tools under an identifier, display name and icon glyph.
type Category struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	Icon string `json:"icon" yaml:"icon"`
}

// Item is a single linkable tool.
type Item struct {
	Name string `json:"name" yaml:"name"`
	// Description is nil when the document omits it; an absent description
	// never matches a search.
	Description *string `json:"description,omitempty" yaml:"description,omitempty"`
	URL         string  `json:"url" yaml:"url"`
	Icon        string  `json:"icon,omitempty" yaml:"icon,omitempty"`
	Category    string  `json:"category" yaml:"category"`
}

// DescriptionText returns the description or an empty string when absent.
func (i Item) DescriptionText() string {
	if i.Description == nil {
		return ""
	}
	return *i.Description
}

// FindCategory looks up a category by identifier. Identifiers are unique, so
// the first match is the only match.
func FindCategory(c *Catalog, id string) (Category, bool) {
	if c == nil {
		return Category{}, false
	}
	for _, cat := range c.Categories {
		if cat.ID == id {
			return cat, true
		}
	}
	return Category{}, false
}

// ResolveIcon returns the item's icon, falling back to its category's icon and
// finally DefaultIcon.
func ResolveIcon(c *Catalog, item Item) string {
	if item.Icon != "" {
		return item.Icon
	}
	if cat, ok := FindCategory(c, item.Category); ok && cat.Icon != "" {
		return cat.Icon
	}
	return DefaultIcon
}

// CountByCategory returns how many tools reference each category id.
func CountByCategory(c *Catalog) map[string]int {
	counts := map[string]int{}
	if c == nil {
		return counts
	}
	for _, item := range c.Tools {
		counts[item.Category]++
	}
	return counts
}

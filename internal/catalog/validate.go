package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalid marks validation failures so callers can distinguish them from I/O errors.
var ErrInvalid = errors.New("catalog: invalid document")

// Validate checks the category invariants: identifiers are present and unique.
// A category using the reserved All id is tolerated here and dropped by
// Normalize. Tools that reference unknown categories are allowed; they render
// with a blank category label.
func Validate(c *Catalog) error {
	if c == nil {
		return fmt.Errorf("%w: no document", ErrInvalid)
	}

	var errs []error
	seen := make(map[string]int, len(c.Categories))
	for i, cat := range c.Categories {
		id := strings.TrimSpace(cat.ID)
		if id == "" {
			errs = append(errs, fmt.Errorf("%w: categories[%d] has an empty id", ErrInvalid, i))
			continue
		}
		if first, dup := seen[id]; dup {
			errs = append(errs, fmt.Errorf("%w: categories[%d] duplicates id %q from categories[%d]", ErrInvalid, i, id, first))
			continue
		}
		seen[id] = i
	}
	return errors.Join(errs...)
}

// UnknownCategoryRefs lists tool names whose category id matches no category.
func UnknownCategoryRefs(c *Catalog) []string {
	if c == nil {
		return nil
	}
	var names []string
	for _, item := range c.Tools {
		if _, ok := FindCategory(c, item.Category); !ok {
			names = append(names, item.Name)
		}
	}
	return names
}

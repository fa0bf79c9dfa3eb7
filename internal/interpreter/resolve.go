package interpreter

import "groundwater-backend/internal/catalog"

// resolveAll returns every region named in the text, deduplicated, in catalog order.
func resolveAll(cat *catalog.Catalog, q Query) []*catalog.Region {
	return cat.AllMentioned(q.Text)
}

// resolveFirst returns the first declared region named in the text.
func resolveFirst(cat *catalog.Catalog, q Query) *catalog.Region {
	r, ok := cat.FirstMentioned(q.Text)
	if !ok {
		return nil
	}
	return r
}

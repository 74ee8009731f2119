package domain

import "strings"

// TitleContains reports whether title contains query, ignoring case.
// An empty query matches every title.
func TitleContains(title, query string) bool {
	if query == "" {
		return true
	}

	return strings.Contains(strings.ToLower(title), strings.ToLower(query))
}

// MatchTitle returns the products whose title contains query, in input
// order. Soft-deleted products never match. The input is not modified.
func MatchTitle(query string, products []*Product) []*Product {
	matched := make([]*Product, 0, len(products))
	for _, p := range products {
		if p.Deleted {
			continue
		}
		if TitleContains(p.Title, query) {
			matched = append(matched, p)
		}
	}

	return matched
}

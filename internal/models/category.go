package models

// CategoryNode is one node of the catalog tree as returned by the upstream
// listing endpoints. It only lives for the duration of a crawl and is never
// persisted.
type CategoryNode struct {
	// ID is the catalog identifier of the category.
	ID string `json:"id"`

	// Name is the category display name (empty on detail payloads).
	Name string `json:"name,omitempty"`

	// Children are the nested categories, in upstream order.
	Children []CategoryNode `json:"categories,omitempty"`

	// Products are the product ids listed directly under this node,
	// in upstream order.
	Products []string `json:"products,omitempty"`
}

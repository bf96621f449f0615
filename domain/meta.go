package domain

// Meta carries the store-assigned id and the handler-stamped timestamps shared
// by every entity.
type Meta struct {
	ID        string `json:"id,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// Base exposes the embedded Meta to generic handlers.
func (m *Meta) Base() *Meta { return m }

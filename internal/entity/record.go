package entity

import "time"

// Meta is embedded by every stored record.
type Meta struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (m *Meta) Base() *Meta { return m }

// Record is implemented by pointers to types that embed Meta.
type Record interface {
	Base() *Meta
}

// Normalizer is implemented by records that keep derived fields consistent
// with their status. It is applied on every write.
type Normalizer interface {
	Normalize(now time.Time)
}

// Fields is a shallow patch keyed by JSON field name.
type Fields map[string]any

package models

import "github.com/google/uuid"

// newID fills an empty primary key. Callers may preset ids when they need
// them before the row is written.
func newID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}

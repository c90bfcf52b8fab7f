package model

import "time"

// Department is a named organizational unit members can belong to with a
// role. Names are unique case-insensitively across the collection.
type Department struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

package entity

import "time"

// Ram is a memory module in the catalogue.
type Ram struct {
	ID         string    `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	Brand      string    `db:"brand" json:"brand"`
	Type       string    `db:"type" json:"type"`
	CapacityGB int       `db:"capacity_gb" json:"capacityGb"`
	SpeedMHz   int       `db:"speed_mhz" json:"speedMhz"`
	Price      float64   `db:"price" json:"price"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `db:"updated_at" json:"updatedAt"`
}

// Filter narrows List results. Zero values mean "any".
type Filter struct {
	Brand  string
	Type   string
	Limit  int
	Offset int
}

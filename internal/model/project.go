package model

import "time"

// Project is a grouping container for related tasks.
type Project struct {
	ID   string `json:"id" db:"id"`
	Name string `json:"name" db:"name"`

	// BuildingDescription is the free-text scope/location description
	// (wire name: building_description).
	BuildingDescription string `json:"building_description" db:"building_description"`

	Color     string    `json:"color" db:"color"`
	CreatedBy string    `json:"created_by" db:"created_by"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

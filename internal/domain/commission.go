package domain

import "time"

type Commission struct {
	ID            int32      `json:"id"`
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	Color         string     `json:"color"`
	MemberCount   int32      `json:"member_count"`
	LocationCount int32      `json:"location_count"`
	Members       []User     `json:"members,omitempty"`   // Populated in Get
	Locations     []Location `json:"locations,omitempty"` // Populated in Get
	CreatedOn     time.Time  `json:"created_on"`
	UpdatedOn     time.Time  `json:"updated_on"`
}

type CommissionInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

type CommissionFilter struct {
	Search string
	Page   Page
}

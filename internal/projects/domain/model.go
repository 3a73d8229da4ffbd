package domain

import "time"

// Project is a land plot record under MRV tracking. OwnerID is set once at
// creation and is not part of the mutable field set.
type Project struct {
	ID           string                 `json:"id"`
	Title        string                 `json:"title"`
	Description  string                 `json:"description,omitempty"`
	OwnerID      string                 `json:"owner"`
	Location     string                 `json:"location,omitempty"`
	AreaHectares *float64               `json:"areaHectares,omitempty"`
	ProjectType  string                 `json:"projectType,omitempty"`
	StartDate    *time.Time             `json:"startDate,omitempty"`
	EndDate      *time.Time             `json:"endDate,omitempty"`
	Status       string                 `json:"status"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
	Images       []string               `json:"images,omitempty"`
	Documents    []string               `json:"documents,omitempty"`
	CreatedAt    time.Time              `json:"createdAt"`
	UpdatedAt    time.Time              `json:"updatedAt"`
}

// OwnerProfile is the display projection of the owning user. It is what
// list and read responses expose instead of the raw owner reference.
type OwnerProfile struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}

// Resolved is a project with its owner reference expanded. The profile
// field shadows the embedded OwnerID json tag.
type Resolved struct {
	Project
	Owner OwnerProfile `json:"owner"`
}

// Filter narrows list queries. Only owner and status are supported; any
// other query key a client sends never reaches this type.
type Filter struct {
	Owner  string
	Status string
}

package models

import (
	"time"
)

// Horse represents a horse boarded or owned at the barn
type Horse struct {
	ID           int        `json:"id"`
	Name         string     `json:"name"`
	Breed        *string    `json:"breed,omitempty"`
	Color        *string    `json:"color,omitempty"`
	DateOfBirth  *time.Time `json:"date_of_birth,omitempty"`
	OwnerName    *string    `json:"owner_name,omitempty"`
	StallNumber  *string    `json:"stall_number,omitempty"`
	FeedingNotes *string    `json:"feeding_notes,omitempty"`
	MedicalNotes *string    `json:"medical_notes,omitempty"`
	IsActive     bool       `json:"is_active"`
	CreatedBy    *int       `json:"created_by,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// CreateHorseRequest is the request body for registering a horse
type CreateHorseRequest struct {
	Name         string  `json:"name"`
	Breed        *string `json:"breed,omitempty"`
	Color        *string `json:"color,omitempty"`
	DateOfBirth  *string `json:"date_of_birth,omitempty"`
	OwnerName    *string `json:"owner_name,omitempty"`
	StallNumber  *string `json:"stall_number,omitempty"`
	FeedingNotes *string `json:"feeding_notes,omitempty"`
	MedicalNotes *string `json:"medical_notes,omitempty"`
}

// UpdateHorseRequest is the request body for updating a horse
type UpdateHorseRequest struct {
	Name         *string `json:"name,omitempty"`
	Breed        *string `json:"breed,omitempty"`
	Color        *string `json:"color,omitempty"`
	DateOfBirth  *string `json:"date_of_birth,omitempty"`
	OwnerName    *string `json:"owner_name,omitempty"`
	StallNumber  *string `json:"stall_number,omitempty"`
	FeedingNotes *string `json:"feeding_notes,omitempty"`
	MedicalNotes *string `json:"medical_notes,omitempty"`
	IsActive     *bool   `json:"is_active,omitempty"`
}

// HorseListParams contains parameters for listing horses
type HorseListParams struct {
	Limit  int
	Offset int
	Active *bool
}

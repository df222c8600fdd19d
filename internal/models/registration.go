package models

import "time"

// RegistrationStatus enumerates the review states of a registration.
type RegistrationStatus string

const (
	StatusPending  RegistrationStatus = "pending"
	StatusApproved RegistrationStatus = "approved"
	StatusRejected RegistrationStatus = "rejected"
)

// Valid reports whether the status is one of the three known values.
func (s RegistrationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Registration is a full-form applicant record plus its review lifecycle.
type Registration struct {
	ID             string             `bson:"-" json:"id"`
	FirstName      string             `bson:"firstName" json:"firstName"`
	LastName       string             `bson:"lastName" json:"lastName"`
	Email          string             `bson:"email" json:"email"`
	Phone          string             `bson:"phone" json:"phone"`
	DateOfBirth    time.Time          `bson:"dateOfBirth" json:"dateOfBirth"`
	Gender         string             `bson:"gender" json:"gender"`
	Address        string             `bson:"address" json:"address"`
	City           string             `bson:"city" json:"city"`
	Country        string             `bson:"country" json:"country"`
	Program        string             `bson:"program" json:"program"`
	EducationLevel string             `bson:"educationLevel" json:"educationLevel"`
	Institution    string             `bson:"institution" json:"institution"`
	GraduationYear int                `bson:"graduationYear" json:"graduationYear"`
	Motivation     string             `bson:"motivation" json:"motivation"`
	Status         RegistrationStatus `bson:"status" json:"status"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// RegistrationStats aggregates review-state counts over the full-form collection.
type RegistrationStats struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
}

package models

import "time"

// SimpleRegistration is the reduced-schema intake record. It carries no
// review status; dashboards display it as pending.
type SimpleRegistration struct {
	ID        string    `bson:"-" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Email     string    `bson:"email" json:"email"`
	Mobile    string    `bson:"mobile" json:"mobile"`
	ClassName string    `bson:"className" json:"className"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// SimpleRegistrationStats carries intake counts over trailing windows,
// recomputed against the clock on every call.
type SimpleRegistrationStats struct {
	Total     int `json:"total"`
	Today     int `json:"today"`
	ThisWeek  int `json:"thisWeek"`
	ThisMonth int `json:"thisMonth"`
}

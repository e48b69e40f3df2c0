package models

import "time"

// ServiceRequest is a call for floor staff raised from a table
type ServiceRequest struct {
	ID           string             `gorm:"primary_key" json:"id"`
	Type         ServiceRequestType `json:"type"`
	TableNumber  string             `json:"table_number,omitempty"`
	Resolved     bool               `gorm:"index" json:"resolved"`
	ResolvedAt   *time.Time         `json:"resolved_at,omitempty"`
	ResponseTime int                `json:"response_time,omitempty"` // seconds
	CreatedAt    time.Time          `json:"created_at"`
}

// ServiceRequestType represents what the table asked for
type ServiceRequestType string

const (
	ServiceWater      ServiceRequestType = "water"
	ServiceClean      ServiceRequestType = "clean"
	ServiceAssistance ServiceRequestType = "assistance"
	ServiceCutlery    ServiceRequestType = "cutlery"
	ServiceBill       ServiceRequestType = "bill"
)

// Valid reports whether t is a known request type
func (t ServiceRequestType) Valid() bool {
	switch t {
	case ServiceWater, ServiceClean, ServiceAssistance, ServiceCutlery, ServiceBill:
		return true
	}
	return false
}

// Feedback is a post-dining rating attached to an order
type Feedback struct {
	ID        string    `gorm:"primary_key" json:"id"`
	OrderID   string    `gorm:"index" json:"order_id"`
	Rating    Rating    `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
}

// Rating is the coarse post-dining score
type Rating string

const (
	RatingExcellent   Rating = "excellent"
	RatingGood        Rating = "good"
	RatingImprovement Rating = "improvement"
)

// Valid reports whether r is a known rating
func (r Rating) Valid() bool {
	switch r {
	case RatingExcellent, RatingGood, RatingImprovement:
		return true
	}
	return false
}

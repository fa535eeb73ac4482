package db_models

import "github.com/google/uuid"

type ServiceProvider struct {
	BaseModel
	Name         string
	Email        string `gorm:"unique"`
	PasswordHash string
	Phone        string

	// Flipped by the ledger when a subscription payment is confirmed.
	IsActive bool `gorm:"default:false;index"`
}

// Service is the minimal listing record needed to count a provider's
// published services against the plan quota. Listing CRUD lives elsewhere.
type Service struct {
	BaseModel
	ProviderID uuid.UUID `gorm:"index"`
	Title      string
	IsActive   bool `gorm:"default:true"`
}

// Booking is the minimal record needed for the bookings-per-month quota.
type Booking struct {
	BaseModel
	ProviderID uuid.UUID `gorm:"index"`
	ServiceID  uuid.UUID `gorm:"index"`
	Status     string
}

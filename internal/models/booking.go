package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/joshua-takyi/pawmates/internal/helpers"
)

const BookingColName = "bookings"

type Role string

const (
	RoleOwner  Role = "owner"
	RoleSitter Role = "sitter"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
	BookingRejected  BookingStatus = "rejected"
)

type ServiceType string

const (
	ServiceDogWalking ServiceType = "dog_walking"
	ServicePetSitting ServiceType = "pet_sitting"
	ServiceBoarding   ServiceType = "boarding"
	ServiceGrooming   ServiceType = "grooming"
	ServiceTraining   ServiceType = "training"
)

func ValidServiceType(s ServiceType) bool {
	switch s {
	case ServiceDogWalking, ServicePetSitting, ServiceBoarding, ServiceGrooming, ServiceTraining:
		return true
	}
	return false
}

func ValidBookingStatus(s BookingStatus) bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCompleted, BookingCancelled, BookingRejected:
		return true
	}
	return false
}

type Booking struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID     string             `bson:"owner_id" json:"owner_id" validate:"required"`
	SitterID    string             `bson:"sitter_id" json:"sitter_id" validate:"required"`
	PetIDs      []string           `bson:"pet_ids" json:"pet_ids" validate:"required,min=1"`
	ServiceType ServiceType        `bson:"service_type" json:"service_type" validate:"required"`
	StartDate   string             `bson:"start_date" json:"start_date" validate:"required"`
	EndDate     string             `bson:"end_date" json:"end_date" validate:"required"`
	StartTime   string             `bson:"start_time,omitempty" json:"start_time,omitempty"`
	EndTime     string             `bson:"end_time,omitempty" json:"end_time,omitempty"`
	Status      BookingStatus      `bson:"status" json:"status"`
	TotalPrice  *float64           `bson:"total_price,omitempty" json:"total_price,omitempty"`
	Notes       string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

func (b *Booking) BeforeCreate() error {
	if b.ID.IsZero() {
		b.ID = primitive.NewObjectID()
	}
	return nil
}

// CanTransition reports whether the given actor role may move a booking from
// one status to another. Owners may cancel while the booking is still pending
// or confirmed; sitters accept, reject or complete. Everything else is final.
func CanTransition(role Role, from, to BookingStatus) bool {
	switch role {
	case RoleOwner:
		return to == BookingCancelled && (from == BookingPending || from == BookingConfirmed)
	case RoleSitter:
		switch {
		case from == BookingPending && to == BookingConfirmed:
			return true
		case from == BookingPending && to == BookingRejected:
			return true
		case from == BookingConfirmed && to == BookingCompleted:
			return true
		}
	}
	return false
}

// ValidateDates checks the calendar range and, when present, the time-of-day
// fields. End date must not precede start date.
func (b *Booking) ValidateDates() error {
	start, err := helpers.ParseDate(b.StartDate)
	if err != nil {
		return err
	}
	end, err := helpers.ParseDate(b.EndDate)
	if err != nil {
		return err
	}
	if end.Before(start) {
		return errEndBeforeStart
	}
	if b.StartTime != "" {
		if _, err := helpers.ParseTimeOfDay(b.StartTime); err != nil {
			return err
		}
	}
	if b.EndTime != "" {
		if _, err := helpers.ParseTimeOfDay(b.EndTime); err != nil {
			return err
		}
	}
	return nil
}

var errEndBeforeStart = dateRangeError{}

type dateRangeError struct{}

func (dateRangeError) Error() string { return "end_date must be on or after start_date" }

// IsDateRangeError distinguishes a bad range from a malformed date string.
func IsDateRangeError(err error) bool {
	_, ok := err.(dateRangeError)
	return ok
}

// BookingDetailsUpdate carries the owner-editable fields of a pending
// booking. Nil pointers and a nil pet slice mean "leave unchanged".
type BookingDetailsUpdate struct {
	ServiceType *ServiceType `json:"service_type,omitempty"`
	StartDate   *string      `json:"start_date,omitempty"`
	EndDate     *string      `json:"end_date,omitempty"`
	StartTime   *string      `json:"start_time,omitempty"`
	EndTime     *string      `json:"end_time,omitempty"`
	PetIDs      []string     `json:"pet_ids,omitempty"`
	Notes       *string      `json:"notes,omitempty"`
}

func (u *BookingDetailsUpdate) IsEmpty() bool {
	return u.ServiceType == nil && u.StartDate == nil && u.EndDate == nil &&
		u.StartTime == nil && u.EndTime == nil && u.PetIDs == nil && u.Notes == nil
}

// BookingQuery filters booking listings for one participant.
type BookingQuery struct {
	UserID  string
	AsOwner bool
	Status  BookingStatus
	Offset  int
	Limit   int
}

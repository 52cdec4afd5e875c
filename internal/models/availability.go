package models

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/joshua-takyi/pawmates/internal/helpers"
)

const (
	RecurringAvailabilityColName = "recurring_availability"
	SpecificAvailabilityColName  = "specific_availability"
)

type DayOfWeek string

const (
	DayMonday    DayOfWeek = "monday"
	DayTuesday   DayOfWeek = "tuesday"
	DayWednesday DayOfWeek = "wednesday"
	DayThursday  DayOfWeek = "thursday"
	DayFriday    DayOfWeek = "friday"
	DaySaturday  DayOfWeek = "saturday"
	DaySunday    DayOfWeek = "sunday"
)

func ValidDayOfWeek(d DayOfWeek) bool {
	switch d {
	case DayMonday, DayTuesday, DayWednesday, DayThursday, DayFriday, DaySaturday, DaySunday:
		return true
	}
	return false
}

// RecurringAvailability is a sitter's weekly working window for one day of the
// week. A sitter has at most one entry per day.
type RecurringAvailability struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SitterID  string             `bson:"sitter_id" json:"sitter_id" validate:"required"`
	DayOfWeek DayOfWeek          `bson:"day_of_week" json:"day_of_week" validate:"required"`
	StartTime string             `bson:"start_time" json:"start_time" validate:"required"`
	EndTime   string             `bson:"end_time" json:"end_time" validate:"required"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

func (r *RecurringAvailability) BeforeCreate() error {
	if r.ID.IsZero() {
		r.ID = primitive.NewObjectID()
	}
	return nil
}

func (r *RecurringAvailability) ValidateTimes() error {
	return validateTimeWindow(r.StartTime, r.EndTime)
}

// SpecificAvailability overrides the weekly schedule on one calendar date.
// is_available false marks the sitter as unavailable for that window even if
// the recurring schedule says otherwise. A sitter has at most one entry per
// date.
type SpecificAvailability struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SitterID    string             `bson:"sitter_id" json:"sitter_id" validate:"required"`
	Date        string             `bson:"date" json:"date" validate:"required"`
	StartTime   string             `bson:"start_time" json:"start_time" validate:"required"`
	EndTime     string             `bson:"end_time" json:"end_time" validate:"required"`
	IsAvailable bool               `bson:"is_available" json:"is_available"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

func (s *SpecificAvailability) BeforeCreate() error {
	if s.ID.IsZero() {
		s.ID = primitive.NewObjectID()
	}
	return nil
}

func (s *SpecificAvailability) ValidateTimes() error {
	return validateTimeWindow(s.StartTime, s.EndTime)
}

var errEndTimeNotAfterStart = errors.New("end_time must be after start_time")

func validateTimeWindow(startTime, endTime string) error {
	start, err := helpers.ParseTimeOfDay(startTime)
	if err != nil {
		return err
	}
	end, err := helpers.ParseTimeOfDay(endTime)
	if err != nil {
		return err
	}
	if end <= start {
		return errEndTimeNotAfterStart
	}
	return nil
}

// AvailabilityView is the combined schedule for one sitter: the weekly
// pattern plus date-specific overrides inside the requested range.
type AvailabilityView struct {
	Recurring []*RecurringAvailability `json:"recurring"`
	Specific  []*SpecificAvailability  `json:"specific"`
}

type AvailabilityRepo interface {
	InsertRecurring(ctx context.Context, av *RecurringAvailability) (*RecurringAvailability, error)
	// GetRecurringByID returns (nil, nil) when no entry exists.
	GetRecurringByID(ctx context.Context, id string) (*RecurringAvailability, error)
	ListRecurringBySitter(ctx context.Context, sitterID string) ([]*RecurringAvailability, error)
	UpdateRecurringFields(ctx context.Context, id string, fields map[string]interface{}) (*RecurringAvailability, error)
	DeleteRecurring(ctx context.Context, id string) error

	InsertSpecific(ctx context.Context, av *SpecificAvailability) (*SpecificAvailability, error)
	GetSpecificByID(ctx context.Context, id string) (*SpecificAvailability, error)
	ListSpecificBySitter(ctx context.Context, sitterID, startDate, endDate string) ([]*SpecificAvailability, error)
	UpdateSpecificFields(ctx context.Context, id string, fields map[string]interface{}) (*SpecificAvailability, error)
	DeleteSpecific(ctx context.Context, id string) error
}

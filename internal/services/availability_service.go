package services

import (
	"context"
	"time"

	"github.com/joshua-takyi/pawmates/internal/failure"
	"github.com/joshua-takyi/pawmates/internal/helpers"
	"github.com/joshua-takyi/pawmates/internal/models"
)

// availabilityRangeMaxDays caps specific-availability range queries.
const availabilityRangeMaxDays = 30

// AvailabilityService manages a sitter's weekly schedule and date-specific
// overrides. Only the sitter mutates their own entries; anyone authenticated
// may read a sitter's schedule.
type AvailabilityService struct {
	availabilityRepo models.AvailabilityRepo
	identity         models.IdentityRepo
}

func NewAvailabilityService(availabilityRepo models.AvailabilityRepo, identity models.IdentityRepo) *AvailabilityService {
	return &AvailabilityService{
		availabilityRepo: availabilityRepo,
		identity:         identity,
	}
}

type CreateRecurringInput struct {
	DayOfWeek models.DayOfWeek `json:"day_of_week" binding:"required"`
	StartTime string           `json:"start_time" binding:"required"`
	EndTime   string           `json:"end_time" binding:"required"`
}

func (as *AvailabilityService) CreateRecurring(ctx context.Context, sitterID string, in CreateRecurringInput) (*models.RecurringAvailability, error) {
	if !models.ValidDayOfWeek(in.DayOfWeek) {
		return nil, failure.BadRequest("unknown day of week: " + string(in.DayOfWeek))
	}
	if err := as.requireSitter(ctx, sitterID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	av := &models.RecurringAvailability{
		SitterID:  sitterID,
		DayOfWeek: in.DayOfWeek,
		StartTime: helpers.StringTrim(in.StartTime),
		EndTime:   helpers.StringTrim(in.EndTime),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := av.ValidateTimes(); err != nil {
		return nil, failure.InvalidDateRange(err.Error())
	}

	created, err := as.availabilityRepo.InsertRecurring(ctx, av)
	if err != nil {
		if failure.GetKind(err) == failure.KindBadRequest {
			return nil, err
		}
		return nil, failure.Internal(err)
	}
	return created, nil
}

func (as *AvailabilityService) ListRecurring(ctx context.Context, sitterID string) ([]*models.RecurringAvailability, error) {
	if err := as.sitterExists(ctx, sitterID); err != nil {
		return nil, err
	}
	entries, err := as.availabilityRepo.ListRecurringBySitter(ctx, sitterID)
	if err != nil {
		return nil, failure.Internal(err)
	}
	return entries, nil
}

type UpdateRecurringInput struct {
	StartTime *string `json:"start_time,omitempty"`
	EndTime   *string `json:"end_time,omitempty"`
}

func (as *AvailabilityService) UpdateRecurring(ctx context.Context, actorID, id string, in UpdateRecurringInput) (*models.RecurringAvailability, error) {
	if in.StartTime == nil && in.EndTime == nil {
		return nil, failure.BadRequest("no fields to update")
	}

	av, err := as.getRecurring(ctx, id)
	if err != nil {
		return nil, err
	}
	if av.SitterID != actorID {
		return nil, failure.Forbidden("availability does not belong to you")
	}

	merged := *av
	fields := map[string]interface{}{}
	if in.StartTime != nil {
		merged.StartTime = helpers.StringTrim(*in.StartTime)
		fields["start_time"] = merged.StartTime
	}
	if in.EndTime != nil {
		merged.EndTime = helpers.StringTrim(*in.EndTime)
		fields["end_time"] = merged.EndTime
	}
	if err := merged.ValidateTimes(); err != nil {
		return nil, failure.InvalidDateRange(err.Error())
	}

	updated, err := as.availabilityRepo.UpdateRecurringFields(ctx, id, fields)
	if err != nil {
		return nil, failure.Internal(err)
	}
	if updated == nil {
		return nil, failure.NotFound("recurring availability")
	}
	return updated, nil
}

func (as *AvailabilityService) DeleteRecurring(ctx context.Context, actorID, id string) (*models.RecurringAvailability, error) {
	av, err := as.getRecurring(ctx, id)
	if err != nil {
		return nil, err
	}
	if av.SitterID != actorID {
		return nil, failure.Forbidden("availability does not belong to you")
	}
	if err := as.availabilityRepo.DeleteRecurring(ctx, id); err != nil {
		if failure.GetKind(err) == failure.KindNotFound {
			return nil, err
		}
		return nil, failure.Internal(err)
	}
	return av, nil
}

type CreateSpecificInput struct {
	Date        string `json:"date" binding:"required"`
	StartTime   string `json:"start_time" binding:"required"`
	EndTime     string `json:"end_time" binding:"required"`
	IsAvailable *bool  `json:"is_available,omitempty"`
}

func (as *AvailabilityService) CreateSpecific(ctx context.Context, sitterID string, in CreateSpecificInput) (*models.SpecificAvailability, error) {
	if _, err := helpers.ParseDate(in.Date); err != nil {
		return nil, failure.InvalidDateRange(err.Error())
	}
	if err := as.requireSitter(ctx, sitterID); err != nil {
		return nil, err
	}

	// Overrides default to "available"; an explicit false blocks the window.
	isAvailable := true
	if in.IsAvailable != nil {
		isAvailable = *in.IsAvailable
	}

	now := time.Now().UTC()
	av := &models.SpecificAvailability{
		SitterID:    sitterID,
		Date:        helpers.StringTrim(in.Date),
		StartTime:   helpers.StringTrim(in.StartTime),
		EndTime:     helpers.StringTrim(in.EndTime),
		IsAvailable: isAvailable,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := av.ValidateTimes(); err != nil {
		return nil, failure.InvalidDateRange(err.Error())
	}

	created, err := as.availabilityRepo.InsertSpecific(ctx, av)
	if err != nil {
		if failure.GetKind(err) == failure.KindBadRequest {
			return nil, err
		}
		return nil, failure.Internal(err)
	}
	return created, nil
}

func (as *AvailabilityService) ListSpecific(ctx context.Context, sitterID, startDate, endDate string) ([]*models.SpecificAvailability, error) {
	if err := as.sitterExists(ctx, sitterID); err != nil {
		return nil, err
	}
	if err := validateAvailabilityRange(startDate, endDate); err != nil {
		return nil, err
	}
	entries, err := as.availabilityRepo.ListSpecificBySitter(ctx, sitterID, startDate, endDate)
	if err != nil {
		return nil, failure.Internal(err)
	}
	return entries, nil
}

type UpdateSpecificInput struct {
	StartTime   *string `json:"start_time,omitempty"`
	EndTime     *string `json:"end_time,omitempty"`
	IsAvailable *bool   `json:"is_available,omitempty"`
}

func (as *AvailabilityService) UpdateSpecific(ctx context.Context, actorID, id string, in UpdateSpecificInput) (*models.SpecificAvailability, error) {
	if in.StartTime == nil && in.EndTime == nil && in.IsAvailable == nil {
		return nil, failure.BadRequest("no fields to update")
	}

	av, err := as.getSpecific(ctx, id)
	if err != nil {
		return nil, err
	}
	if av.SitterID != actorID {
		return nil, failure.Forbidden("availability does not belong to you")
	}

	merged := *av
	fields := map[string]interface{}{}
	if in.StartTime != nil {
		merged.StartTime = helpers.StringTrim(*in.StartTime)
		fields["start_time"] = merged.StartTime
	}
	if in.EndTime != nil {
		merged.EndTime = helpers.StringTrim(*in.EndTime)
		fields["end_time"] = merged.EndTime
	}
	if in.IsAvailable != nil {
		fields["is_available"] = *in.IsAvailable
	}
	if err := merged.ValidateTimes(); err != nil {
		return nil, failure.InvalidDateRange(err.Error())
	}

	updated, err := as.availabilityRepo.UpdateSpecificFields(ctx, id, fields)
	if err != nil {
		return nil, failure.Internal(err)
	}
	if updated == nil {
		return nil, failure.NotFound("specific availability")
	}
	return updated, nil
}

func (as *AvailabilityService) DeleteSpecific(ctx context.Context, actorID, id string) (*models.SpecificAvailability, error) {
	av, err := as.getSpecific(ctx, id)
	if err != nil {
		return nil, err
	}
	if av.SitterID != actorID {
		return nil, failure.Forbidden("availability does not belong to you")
	}
	if err := as.availabilityRepo.DeleteSpecific(ctx, id); err != nil {
		if failure.GetKind(err) == failure.KindNotFound {
			return nil, err
		}
		return nil, failure.Internal(err)
	}
	return av, nil
}

// GetSitterAvailability returns the weekly pattern plus the overrides falling
// inside [startDate, endDate].
func (as *AvailabilityService) GetSitterAvailability(ctx context.Context, sitterID, startDate, endDate string) (*models.AvailabilityView, error) {
	if err := as.sitterExists(ctx, sitterID); err != nil {
		return nil, err
	}
	if err := validateAvailabilityRange(startDate, endDate); err != nil {
		return nil, err
	}

	recurring, err := as.availabilityRepo.ListRecurringBySitter(ctx, sitterID)
	if err != nil {
		return nil, failure.Internal(err)
	}
	specific, err := as.availabilityRepo.ListSpecificBySitter(ctx, sitterID, startDate, endDate)
	if err != nil {
		return nil, failure.Internal(err)
	}

	if recurring == nil {
		recurring = []*models.RecurringAvailability{}
	}
	if specific == nil {
		specific = []*models.SpecificAvailability{}
	}
	return &models.AvailabilityView{Recurring: recurring, Specific: specific}, nil
}

// requireSitter gates schedule mutation to sitter accounts.
func (as *AvailabilityService) requireSitter(ctx context.Context, userID string) error {
	profile, err := as.identity.ResolveUser(ctx, userID)
	if err != nil {
		return err
	}
	if profile.UserType != models.RoleSitter {
		return failure.BadRequest("only sitters manage availability")
	}
	return nil
}

// sitterExists validates the subject of a schedule read.
func (as *AvailabilityService) sitterExists(ctx context.Context, sitterID string) error {
	profile, err := as.identity.ResolveUser(ctx, sitterID)
	if err != nil {
		return err
	}
	if profile.UserType != models.RoleSitter {
		return failure.NotFound("sitter")
	}
	return nil
}

func validateAvailabilityRange(startDate, endDate string) error {
	start, err := helpers.ParseDate(startDate)
	if err != nil {
		return failure.InvalidDateRange(err.Error())
	}
	end, err := helpers.ParseDate(endDate)
	if err != nil {
		return failure.InvalidDateRange(err.Error())
	}
	if end.Before(start) {
		return failure.InvalidDateRange("end_date must be on or after start_date")
	}
	if end.Sub(start) > availabilityRangeMaxDays*24*time.Hour {
		return failure.BadRequest("date range cannot exceed 30 days")
	}
	return nil
}

func (as *AvailabilityService) getRecurring(ctx context.Context, id string) (*models.RecurringAvailability, error) {
	av, err := as.availabilityRepo.GetRecurringByID(ctx, id)
	if err != nil {
		return nil, failure.Internal(err)
	}
	if av == nil {
		return nil, failure.NotFound("recurring availability")
	}
	return av, nil
}

func (as *AvailabilityService) getSpecific(ctx context.Context, id string) (*models.SpecificAvailability, error) {
	av, err := as.availabilityRepo.GetSpecificByID(ctx, id)
	if err != nil {
		return nil, failure.Internal(err)
	}
	if av == nil {
		return nil, failure.NotFound("specific availability")
	}
	return av, nil
}

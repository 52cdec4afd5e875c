package services

import (
	"context"
	"math"
	"time"

	"github.com/joshua-takyi/pawmates/internal/failure"
	"github.com/joshua-takyi/pawmates/internal/helpers"
	"github.com/joshua-takyi/pawmates/internal/models"
)

// assumedHoursPerDay is the billable span of a booking day when no explicit
// start and end times are given.
const assumedHoursPerDay = 8

type BookingService struct {
	bookingRepo  models.BookingRepo
	identityRepo models.IdentityRepo
	petRepo      models.PetRepo
}

func NewBookingService(bookingRepo models.BookingRepo, identityRepo models.IdentityRepo, petRepo models.PetRepo) *BookingService {
	return &BookingService{
		bookingRepo:  bookingRepo,
		identityRepo: identityRepo,
		petRepo:      petRepo,
	}
}

type CreateBookingInput struct {
	SitterID    string             `json:"sitter_id" binding:"required"`
	PetIDs      []string           `json:"pet_ids" binding:"required,min=1"`
	ServiceType models.ServiceType `json:"service_type" binding:"required"`
	StartDate   string             `json:"start_date" binding:"required"`
	EndDate     string             `json:"end_date" binding:"required"`
	StartTime   string             `json:"start_time,omitempty"`
	EndTime     string             `json:"end_time,omitempty"`
	Notes       string             `json:"notes,omitempty"`
}

func (bs *BookingService) CreateBooking(ctx context.Context, ownerID string, in CreateBookingInput) (*models.Booking, error) {
	booking := &models.Booking{
		OwnerID:     ownerID,
		SitterID:    in.SitterID,
		PetIDs:      dedupe(in.PetIDs),
		ServiceType: in.ServiceType,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		StartTime:   in.StartTime,
		EndTime:     in.EndTime,
		Notes:       helpers.StringTrim(in.Notes),
		Status:      models.BookingPending,
	}

	if err := models.Validate.Struct(booking); err != nil {
		return nil, failure.BadRequest("invalid booking data: " + err.Error())
	}
	if !models.ValidServiceType(booking.ServiceType) {
		return nil, failure.BadRequest("unsupported service type: " + string(booking.ServiceType))
	}
	if err := booking.ValidateDates(); err != nil {
		return nil, failure.InvalidDateRange(err.Error())
	}

	sitter, err := bs.identityRepo.ResolveUser(ctx, in.SitterID)
	if err != nil {
		return nil, err
	}
	if sitter.UserType != models.RoleSitter {
		return nil, failure.NotFound("sitter")
	}

	owned, err := bs.petRepo.PetsOwnedBy(ctx, ownerID, booking.PetIDs)
	if err != nil {
		return nil, failure.Internal(err)
	}
	if !owned {
		return nil, failure.InvalidOwnership("one or more pets do not exist or do not belong to you")
	}

	if sitter.HourlyRate != nil {
		price, err := ComputePrice(*sitter.HourlyRate, booking.StartDate, booking.EndDate, booking.StartTime, booking.EndTime)
		if err != nil {
			return nil, err
		}
		booking.TotalPrice = &price
	}

	now := time.Now().UTC()
	booking.CreatedAt = now
	booking.UpdatedAt = now

	created, err := bs.bookingRepo.InsertBooking(ctx, booking)
	if err != nil {
		return nil, failure.Internal(err)
	}
	return created, nil
}

// ComputePrice derives the total from the sitter's hourly rate. With explicit
// times the span is billed exactly, possibly across days; otherwise each
// calendar day counts as assumedHoursPerDay hours. Rounded to 2 decimals.
func ComputePrice(hourlyRate float64, startDate, endDate, startTime, endTime string) (float64, error) {
	start, err := helpers.ParseDate(startDate)
	if err != nil {
		return 0, failure.InvalidDateRange(err.Error())
	}
	end, err := helpers.ParseDate(endDate)
	if err != nil {
		return 0, failure.InvalidDateRange(err.Error())
	}

	var hours float64
	if startTime != "" && endTime != "" {
		startTod, err := helpers.ParseTimeOfDay(startTime)
		if err != nil {
			return 0, failure.InvalidDateRange(err.Error())
		}
		endTod, err := helpers.ParseTimeOfDay(endTime)
		if err != nil {
			return 0, failure.InvalidDateRange(err.Error())
		}
		span := helpers.CombineDateTime(end, endTod).Sub(helpers.CombineDateTime(start, startTod))
		hours = span.Hours()
		if hours <= 0 {
			return 0, failure.InvalidDateRange("booking must end after it starts")
		}
	} else {
		days := end.Sub(start).Hours()/24 + 1
		hours = days * assumedHoursPerDay
	}

	return math.Round(hours*hourlyRate*100) / 100, nil
}

// ChangeStatus applies a role-gated status transition. The actor must be the
// booking's owner or sitter; anyone else is rejected before the table is even
// consulted.
func (bs *BookingService) ChangeStatus(ctx context.Context, actorID, bookingID string, target models.BookingStatus) (*models.Booking, error) {
	if !models.ValidBookingStatus(target) {
		return nil, failure.BadRequest("unknown booking status: " + string(target))
	}

	booking, err := bs.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	var role models.Role
	switch actorID {
	case booking.OwnerID:
		role = models.RoleOwner
	case booking.SitterID:
		role = models.RoleSitter
	default:
		return nil, failure.Forbidden("not a participant in this booking")
	}

	if !models.CanTransition(role, booking.Status, target) {
		return nil, failure.InvalidTransition(string(booking.Status), string(target))
	}

	updated, err := bs.bookingRepo.UpdateBookingStatus(ctx, bookingID, booking.Status, target)
	if err != nil {
		return nil, failure.Internal(err)
	}
	if updated == nil {
		// A concurrent transition moved the booking out of the source status
		// between the read and the conditional write.
		return nil, failure.InvalidTransition(string(booking.Status), string(target))
	}
	return updated, nil
}

// UpdateDetails mutates the owner-editable fields of a pending booking.
func (bs *BookingService) UpdateDetails(ctx context.Context, actorID, bookingID string, upd models.BookingDetailsUpdate) (*models.Booking, error) {
	if upd.IsEmpty() {
		return nil, failure.BadRequest("no fields to update")
	}

	booking, err := bs.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.OwnerID != actorID {
		return nil, failure.Forbidden("only the booking owner can update its details")
	}
	if booking.Status != models.BookingPending {
		return nil, failure.InvalidStateForUpdate("booking details can only be changed while pending")
	}

	// Validate the merged result before writing anything.
	merged := *booking
	fields := map[string]interface{}{}
	if upd.ServiceType != nil {
		if !models.ValidServiceType(*upd.ServiceType) {
			return nil, failure.BadRequest("unsupported service type: " + string(*upd.ServiceType))
		}
		merged.ServiceType = *upd.ServiceType
		fields["service_type"] = *upd.ServiceType
	}
	if upd.StartDate != nil {
		merged.StartDate = *upd.StartDate
		fields["start_date"] = *upd.StartDate
	}
	if upd.EndDate != nil {
		merged.EndDate = *upd.EndDate
		fields["end_date"] = *upd.EndDate
	}
	if upd.StartTime != nil {
		merged.StartTime = *upd.StartTime
		fields["start_time"] = *upd.StartTime
	}
	if upd.EndTime != nil {
		merged.EndTime = *upd.EndTime
		fields["end_time"] = *upd.EndTime
	}
	if upd.Notes != nil {
		fields["notes"] = helpers.StringTrim(*upd.Notes)
	}
	if err := merged.ValidateDates(); err != nil {
		return nil, failure.InvalidDateRange(err.Error())
	}

	if upd.PetIDs != nil {
		petIDs := dedupe(upd.PetIDs)
		if len(petIDs) == 0 {
			return nil, failure.BadRequest("pet_ids cannot be empty")
		}
		owned, err := bs.petRepo.PetsOwnedBy(ctx, actorID, petIDs)
		if err != nil {
			return nil, failure.Internal(err)
		}
		if !owned {
			return nil, failure.InvalidOwnership("one or more pets do not exist or do not belong to you")
		}
		fields["pet_ids"] = petIDs
	}

	updated, err := bs.bookingRepo.UpdateBookingDetails(ctx, bookingID, fields)
	if err != nil {
		return nil, failure.Internal(err)
	}
	if updated == nil {
		return nil, failure.InvalidStateForUpdate("booking details can only be changed while pending")
	}
	return updated, nil
}

// DeleteBooking removes a booking that is still pending. Only the owner may
// delete, and the pending guard is re-checked at write time.
func (bs *BookingService) DeleteBooking(ctx context.Context, actorID, bookingID string) (*models.Booking, error) {
	booking, err := bs.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.OwnerID != actorID {
		return nil, failure.Forbidden("only the booking owner can delete it")
	}
	if booking.Status != models.BookingPending {
		return nil, failure.InvalidStateForDelete("only pending bookings can be deleted")
	}

	deleted, err := bs.bookingRepo.DeleteBookingIfPending(ctx, bookingID)
	if err != nil {
		return nil, failure.Internal(err)
	}
	if !deleted {
		return nil, failure.InvalidStateForDelete("only pending bookings can be deleted")
	}
	return booking, nil
}

// GetBooking returns a booking to one of its participants.
func (bs *BookingService) GetBooking(ctx context.Context, actorID, bookingID string) (*models.Booking, error) {
	booking, err := bs.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.OwnerID != actorID && booking.SitterID != actorID {
		return nil, failure.Forbidden("not a participant in this booking")
	}
	return booking, nil
}

func (bs *BookingService) ListBookings(ctx context.Context, query models.BookingQuery) ([]*models.Booking, int, error) {
	if query.Offset < 0 || query.Limit <= 0 {
		return nil, 0, failure.BadRequest("invalid offset or limit")
	}
	if query.Status != "" && !models.ValidBookingStatus(query.Status) {
		return nil, 0, failure.BadRequest("unknown booking status: " + string(query.Status))
	}
	bookings, total, err := bs.bookingRepo.ListBookings(ctx, query)
	if err != nil {
		return nil, 0, failure.Internal(err)
	}
	return bookings, total, nil
}

func (bs *BookingService) getBooking(ctx context.Context, bookingID string) (*models.Booking, error) {
	booking, err := bs.bookingRepo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, failure.Internal(err)
	}
	if booking == nil {
		return nil, failure.NotFound("booking")
	}
	return booking, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = helpers.StringTrim(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

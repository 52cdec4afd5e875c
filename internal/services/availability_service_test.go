package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/joshua-takyi/pawmates/internal/failure"
	"github.com/joshua-takyi/pawmates/internal/models"
)

type fakeAvailabilityRepo struct {
	recurring map[string]*models.RecurringAvailability
	specific  map[string]*models.SpecificAvailability
}

func newFakeAvailabilityRepo() *fakeAvailabilityRepo {
	return &fakeAvailabilityRepo{
		recurring: map[string]*models.RecurringAvailability{},
		specific:  map[string]*models.SpecificAvailability{},
	}
}

func (f *fakeAvailabilityRepo) InsertRecurring(_ context.Context, av *models.RecurringAvailability) (*models.RecurringAvailability, error) {
	for _, existing := range f.recurring {
		if existing.SitterID == av.SitterID && existing.DayOfWeek == av.DayOfWeek {
			return nil, failure.New(failure.KindBadRequest, "recurring availability for %s already exists", av.DayOfWeek)
		}
	}
	av.ID = primitive.NewObjectID()
	f.recurring[av.ID.Hex()] = av
	return av, nil
}

func (f *fakeAvailabilityRepo) GetRecurringByID(_ context.Context, id string) (*models.RecurringAvailability, error) {
	return f.recurring[id], nil
}

func (f *fakeAvailabilityRepo) ListRecurringBySitter(_ context.Context, sitterID string) ([]*models.RecurringAvailability, error) {
	var entries []*models.RecurringAvailability
	for _, av := range f.recurring {
		if av.SitterID == sitterID {
			entries = append(entries, av)
		}
	}
	return entries, nil
}

func (f *fakeAvailabilityRepo) UpdateRecurringFields(_ context.Context, id string, fields map[string]interface{}) (*models.RecurringAvailability, error) {
	av, ok := f.recurring[id]
	if !ok {
		return nil, nil
	}
	if v, ok := fields["start_time"]; ok {
		av.StartTime = v.(string)
	}
	if v, ok := fields["end_time"]; ok {
		av.EndTime = v.(string)
	}
	return av, nil
}

func (f *fakeAvailabilityRepo) DeleteRecurring(_ context.Context, id string) error {
	if _, ok := f.recurring[id]; !ok {
		return failure.NotFound("recurring availability")
	}
	delete(f.recurring, id)
	return nil
}

func (f *fakeAvailabilityRepo) InsertSpecific(_ context.Context, av *models.SpecificAvailability) (*models.SpecificAvailability, error) {
	for _, existing := range f.specific {
		if existing.SitterID == av.SitterID && existing.Date == av.Date {
			return nil, failure.New(failure.KindBadRequest, "specific availability for %s already exists", av.Date)
		}
	}
	av.ID = primitive.NewObjectID()
	f.specific[av.ID.Hex()] = av
	return av, nil
}

func (f *fakeAvailabilityRepo) GetSpecificByID(_ context.Context, id string) (*models.SpecificAvailability, error) {
	return f.specific[id], nil
}

func (f *fakeAvailabilityRepo) ListSpecificBySitter(_ context.Context, sitterID, startDate, endDate string) ([]*models.SpecificAvailability, error) {
	var entries []*models.SpecificAvailability
	for _, av := range f.specific {
		if av.SitterID == sitterID && av.Date >= startDate && av.Date <= endDate {
			entries = append(entries, av)
		}
	}
	return entries, nil
}

func (f *fakeAvailabilityRepo) UpdateSpecificFields(_ context.Context, id string, fields map[string]interface{}) (*models.SpecificAvailability, error) {
	av, ok := f.specific[id]
	if !ok {
		return nil, nil
	}
	if v, ok := fields["start_time"]; ok {
		av.StartTime = v.(string)
	}
	if v, ok := fields["end_time"]; ok {
		av.EndTime = v.(string)
	}
	if v, ok := fields["is_available"]; ok {
		av.IsAvailable = v.(bool)
	}
	return av, nil
}

func (f *fakeAvailabilityRepo) DeleteSpecific(_ context.Context, id string) error {
	if _, ok := f.specific[id]; !ok {
		return failure.NotFound("specific availability")
	}
	delete(f.specific, id)
	return nil
}

func newAvailabilityFixture() (*AvailabilityService, *fakeAvailabilityRepo) {
	identity := &fakeIdentityRepo{profiles: map[string]*models.Profile{
		"sitter-1": {UserID: "sitter-1", UserType: models.RoleSitter},
		"sitter-2": {UserID: "sitter-2", UserType: models.RoleSitter},
		"owner-1":  {UserID: "owner-1", UserType: models.RoleOwner},
	}}
	repo := newFakeAvailabilityRepo()
	return NewAvailabilityService(repo, identity), repo
}

func TestCreateRecurringAvailability(t *testing.T) {
	svc, _ := newAvailabilityFixture()

	entry, err := svc.CreateRecurring(context.Background(), "sitter-1", CreateRecurringInput{
		DayOfWeek: models.DayMonday,
		StartTime: "09:00",
		EndTime:   "17:00",
	})
	require.NoError(t, err)
	assert.Equal(t, "sitter-1", entry.SitterID)
	assert.Equal(t, models.DayMonday, entry.DayOfWeek)
	assert.False(t, entry.ID.IsZero())
}

func TestCreateRecurringDuplicateDay(t *testing.T) {
	svc, _ := newAvailabilityFixture()

	in := CreateRecurringInput{DayOfWeek: models.DayMonday, StartTime: "09:00", EndTime: "17:00"}
	_, err := svc.CreateRecurring(context.Background(), "sitter-1", in)
	require.NoError(t, err)

	_, err = svc.CreateRecurring(context.Background(), "sitter-1", in)
	assert.True(t, failure.IsKind(err, failure.KindBadRequest))

	// A different sitter is free to use the same day.
	_, err = svc.CreateRecurring(context.Background(), "sitter-2", in)
	assert.NoError(t, err)
}

func TestCreateRecurringRejectsNonSitter(t *testing.T) {
	svc, _ := newAvailabilityFixture()

	_, err := svc.CreateRecurring(context.Background(), "owner-1", CreateRecurringInput{
		DayOfWeek: models.DayMonday,
		StartTime: "09:00",
		EndTime:   "17:00",
	})
	assert.True(t, failure.IsKind(err, failure.KindBadRequest))
}

func TestCreateRecurringInvalidInput(t *testing.T) {
	svc, _ := newAvailabilityFixture()
	ctx := context.Background()

	_, err := svc.CreateRecurring(ctx, "sitter-1", CreateRecurringInput{
		DayOfWeek: "funday", StartTime: "09:00", EndTime: "17:00",
	})
	assert.True(t, failure.IsKind(err, failure.KindBadRequest))

	_, err = svc.CreateRecurring(ctx, "sitter-1", CreateRecurringInput{
		DayOfWeek: models.DayMonday, StartTime: "17:00", EndTime: "09:00",
	})
	assert.True(t, failure.IsKind(err, failure.KindInvalidDateRange))

	_, err = svc.CreateRecurring(ctx, "sitter-1", CreateRecurringInput{
		DayOfWeek: models.DayMonday, StartTime: "9am", EndTime: "17:00",
	})
	assert.True(t, failure.IsKind(err, failure.KindInvalidDateRange))
}

func TestUpdateRecurringOwnerOnly(t *testing.T) {
	svc, _ := newAvailabilityFixture()
	ctx := context.Background()

	entry, err := svc.CreateRecurring(ctx, "sitter-1", CreateRecurringInput{
		DayOfWeek: models.DayMonday, StartTime: "09:00", EndTime: "17:00",
	})
	require.NoError(t, err)

	start := "10:00"
	_, err = svc.UpdateRecurring(ctx, "sitter-2", entry.ID.Hex(), UpdateRecurringInput{StartTime: &start})
	assert.True(t, failure.IsKind(err, failure.KindForbidden))

	updated, err := svc.UpdateRecurring(ctx, "sitter-1", entry.ID.Hex(), UpdateRecurringInput{StartTime: &start})
	require.NoError(t, err)
	assert.Equal(t, "10:00", updated.StartTime)
}

func TestUpdateRecurringValidatesMergedWindow(t *testing.T) {
	svc, _ := newAvailabilityFixture()
	ctx := context.Background()

	entry, err := svc.CreateRecurring(ctx, "sitter-1", CreateRecurringInput{
		DayOfWeek: models.DayMonday, StartTime: "09:00", EndTime: "17:00",
	})
	require.NoError(t, err)

	// New start alone collides with the stored end.
	start := "18:00"
	_, err = svc.UpdateRecurring(ctx, "sitter-1", entry.ID.Hex(), UpdateRecurringInput{StartTime: &start})
	assert.True(t, failure.IsKind(err, failure.KindInvalidDateRange))

	_, err = svc.UpdateRecurring(ctx, "sitter-1", entry.ID.Hex(), UpdateRecurringInput{})
	assert.True(t, failure.IsKind(err, failure.KindBadRequest))
}

func TestDeleteRecurringAvailability(t *testing.T) {
	svc, repo := newAvailabilityFixture()
	ctx := context.Background()

	entry, err := svc.CreateRecurring(ctx, "sitter-1", CreateRecurringInput{
		DayOfWeek: models.DayMonday, StartTime: "09:00", EndTime: "17:00",
	})
	require.NoError(t, err)

	_, err = svc.DeleteRecurring(ctx, "sitter-2", entry.ID.Hex())
	assert.True(t, failure.IsKind(err, failure.KindForbidden))

	_, err = svc.DeleteRecurring(ctx, "sitter-1", entry.ID.Hex())
	require.NoError(t, err)
	assert.Empty(t, repo.recurring)

	_, err = svc.DeleteRecurring(ctx, "sitter-1", entry.ID.Hex())
	assert.True(t, failure.IsKind(err, failure.KindNotFound))
}

func TestCreateSpecificAvailability(t *testing.T) {
	svc, _ := newAvailabilityFixture()
	ctx := context.Background()

	entry, err := svc.CreateSpecific(ctx, "sitter-1", CreateSpecificInput{
		Date: "2026-09-05", StartTime: "08:00", EndTime: "12:00",
	})
	require.NoError(t, err)
	assert.True(t, entry.IsAvailable, "overrides default to available")

	blocked := false
	entry, err = svc.CreateSpecific(ctx, "sitter-1", CreateSpecificInput{
		Date: "2026-09-06", StartTime: "08:00", EndTime: "12:00", IsAvailable: &blocked,
	})
	require.NoError(t, err)
	assert.False(t, entry.IsAvailable)

	_, err = svc.CreateSpecific(ctx, "sitter-1", CreateSpecificInput{
		Date: "2026-09-05", StartTime: "13:00", EndTime: "15:00",
	})
	assert.True(t, failure.IsKind(err, failure.KindBadRequest), "one override per date")

	_, err = svc.CreateSpecific(ctx, "sitter-1", CreateSpecificInput{
		Date: "05/09/2026", StartTime: "08:00", EndTime: "12:00",
	})
	assert.True(t, failure.IsKind(err, failure.KindInvalidDateRange))
}

func TestListSpecificRangeValidation(t *testing.T) {
	svc, _ := newAvailabilityFixture()
	ctx := context.Background()

	_, err := svc.ListSpecific(ctx, "sitter-1", "2026-09-10", "2026-09-01")
	assert.True(t, failure.IsKind(err, failure.KindInvalidDateRange))

	_, err = svc.ListSpecific(ctx, "sitter-1", "2026-09-01", "2026-10-15")
	assert.True(t, failure.IsKind(err, failure.KindBadRequest), "range capped at 30 days")

	_, err = svc.ListSpecific(ctx, "sitter-1", "2026-09-01", "2026-10-01")
	assert.NoError(t, err, "30 days exactly is allowed")

	_, err = svc.ListSpecific(ctx, "owner-1", "2026-09-01", "2026-09-07")
	assert.True(t, failure.IsKind(err, failure.KindNotFound), "subject must be a sitter")
}

func TestUpdateSpecificAvailability(t *testing.T) {
	svc, _ := newAvailabilityFixture()
	ctx := context.Background()

	entry, err := svc.CreateSpecific(ctx, "sitter-1", CreateSpecificInput{
		Date: "2026-09-05", StartTime: "08:00", EndTime: "12:00",
	})
	require.NoError(t, err)

	blocked := false
	updated, err := svc.UpdateSpecific(ctx, "sitter-1", entry.ID.Hex(), UpdateSpecificInput{IsAvailable: &blocked})
	require.NoError(t, err)
	assert.False(t, updated.IsAvailable)

	_, err = svc.UpdateSpecific(ctx, "sitter-2", entry.ID.Hex(), UpdateSpecificInput{IsAvailable: &blocked})
	assert.True(t, failure.IsKind(err, failure.KindForbidden))

	end := "07:00"
	_, err = svc.UpdateSpecific(ctx, "sitter-1", entry.ID.Hex(), UpdateSpecificInput{EndTime: &end})
	assert.True(t, failure.IsKind(err, failure.KindInvalidDateRange))
}

func TestGetSitterAvailabilityCombinesSchedules(t *testing.T) {
	svc, _ := newAvailabilityFixture()
	ctx := context.Background()

	_, err := svc.CreateRecurring(ctx, "sitter-1", CreateRecurringInput{
		DayOfWeek: models.DayMonday, StartTime: "09:00", EndTime: "17:00",
	})
	require.NoError(t, err)
	_, err = svc.CreateSpecific(ctx, "sitter-1", CreateSpecificInput{
		Date: "2026-09-05", StartTime: "08:00", EndTime: "12:00",
	})
	require.NoError(t, err)
	// Outside the queried range.
	_, err = svc.CreateSpecific(ctx, "sitter-1", CreateSpecificInput{
		Date: "2026-10-20", StartTime: "08:00", EndTime: "12:00",
	})
	require.NoError(t, err)

	view, err := svc.GetSitterAvailability(ctx, "sitter-1", "2026-09-01", "2026-09-30")
	require.NoError(t, err)
	assert.Len(t, view.Recurring, 1)
	assert.Len(t, view.Specific, 1)
	assert.Equal(t, "2026-09-05", view.Specific[0].Date)

	view, err = svc.GetSitterAvailability(ctx, "sitter-2", "2026-09-01", "2026-09-30")
	require.NoError(t, err)
	assert.Empty(t, view.Recurring)
	assert.Empty(t, view.Specific)

	_, err = svc.GetSitterAvailability(ctx, "owner-1", "2026-09-01", "2026-09-30")
	assert.True(t, failure.IsKind(err, failure.KindNotFound))
}

package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshua-takyi/pawmates/internal/failure"
	"github.com/joshua-takyi/pawmates/internal/models"
)

type fakeReviewRepo struct {
	reviews   map[string]*models.Review // review id -> review
	byBooking map[string]string         // booking id -> review id
	// failUpdate makes UpdateReviewFields error out to exercise the
	// compensation path.
	failUpdate bool
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{
		reviews:   map[string]*models.Review{},
		byBooking: map[string]string{},
	}
}

func (f *fakeReviewRepo) InsertReview(_ context.Context, review *models.Review) (*models.Review, error) {
	if _, exists := f.byBooking[review.BookingID]; exists {
		return nil, failure.DuplicateReview(review.BookingID)
	}
	if err := review.BeforeCreate(); err != nil {
		return nil, err
	}
	cp := *review
	f.reviews[cp.ID.Hex()] = &cp
	f.byBooking[cp.BookingID] = cp.ID.Hex()
	return &cp, nil
}

func (f *fakeReviewRepo) GetReviewByID(_ context.Context, id string) (*models.Review, error) {
	r, ok := f.reviews[id]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (f *fakeReviewRepo) GetReviewByBookingID(_ context.Context, bookingID string) (*models.Review, error) {
	id, ok := f.byBooking[bookingID]
	if !ok {
		return nil, nil
	}
	cp := *f.reviews[id]
	return &cp, nil
}

func (f *fakeReviewRepo) ListReviews(_ context.Context, sitterID string, _, _ int) ([]*models.Review, int, error) {
	var out []*models.Review
	for _, r := range f.reviews {
		if sitterID != "" && r.SitterID != sitterID {
			continue
		}
		cp := *r
		out = append(out, &cp)
	}
	return out, len(out), nil
}

func (f *fakeReviewRepo) UpdateReviewFields(_ context.Context, id string, fields map[string]interface{}) (*models.Review, error) {
	if f.failUpdate {
		return nil, errors.New("induced write failure")
	}
	r, ok := f.reviews[id]
	if !ok {
		return nil, nil
	}
	for k, v := range fields {
		switch k {
		case "rating":
			r.Rating = v.(int)
		case "comment":
			r.Comment = v.(string)
		}
	}
	cp := *r
	return &cp, nil
}

func (f *fakeReviewRepo) DeleteReview(_ context.Context, id string) error {
	r, ok := f.reviews[id]
	if !ok {
		return failure.NotFound("review")
	}
	delete(f.byBooking, r.BookingID)
	delete(f.reviews, id)
	return nil
}

func newReviewFixture(t *testing.T) (*ReviewService, *fakeReviewRepo, *fakeBookingRepo, *fakeRatingRepo, string) {
	t.Helper()

	bookingRepo := newFakeBookingRepo()
	booking, err := bookingRepo.InsertBooking(context.Background(), &models.Booking{
		OwnerID:     "owner-1",
		SitterID:    "sitter-1",
		PetIDs:      []string{"pet-1"},
		ServiceType: models.ServicePetSitting,
		StartDate:   "2026-09-01",
		EndDate:     "2026-09-01",
		Status:      models.BookingCompleted,
	})
	require.NoError(t, err)

	reviewRepo := newFakeReviewRepo()
	ratingRepo := &fakeRatingRepo{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewReviewService(reviewRepo, bookingRepo, NewRatingService(ratingRepo), logger)

	return svc, reviewRepo, bookingRepo, ratingRepo, booking.ID.Hex()
}

func TestReviewLifecycle(t *testing.T) {
	ctx := context.Background()
	svc, _, _, ratingRepo, bookingID := newReviewFixture(t)

	created, err := svc.CreateReview(ctx, "owner-1", CreateReviewInput{
		BookingID: bookingID,
		SitterID:  "sitter-1",
		Rating:    5,
		Comment:   "walked the dog twice a day",
	})
	require.NoError(t, err)
	require.NotNil(t, ratingRepo.rating)
	assert.Equal(t, 5.0, *ratingRepo.rating)
	assert.Equal(t, 1, ratingRepo.count)

	newRating := 3
	updated, err := svc.UpdateReview(ctx, "owner-1", created.ID.Hex(), UpdateReviewInput{Rating: &newRating})
	require.NoError(t, err)
	assert.Equal(t, 3, updated.Rating)
	require.NotNil(t, ratingRepo.rating)
	assert.Equal(t, 3.0, *ratingRepo.rating)
	assert.Equal(t, 1, ratingRepo.count)

	_, err = svc.DeleteReview(ctx, "owner-1", created.ID.Hex())
	require.NoError(t, err)
	assert.Nil(t, ratingRepo.rating, "deleting the sole review resets the aggregate")
	assert.Equal(t, 0, ratingRepo.count)
}

func TestCreateReviewRejectsDuplicate(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _, bookingID := newReviewFixture(t)

	in := CreateReviewInput{BookingID: bookingID, SitterID: "sitter-1", Rating: 4}
	_, err := svc.CreateReview(ctx, "owner-1", in)
	require.NoError(t, err)

	_, err = svc.CreateReview(ctx, "owner-1", in)
	require.Error(t, err)
	assert.True(t, failure.IsKind(err, failure.KindDuplicateReview))
}

func TestCreateReviewRequiresCompletedBooking(t *testing.T) {
	ctx := context.Background()
	svc, _, bookingRepo, _, bookingID := newReviewFixture(t)

	bookingRepo.bookings[bookingID].Status = models.BookingConfirmed

	_, err := svc.CreateReview(ctx, "owner-1", CreateReviewInput{
		BookingID: bookingID, SitterID: "sitter-1", Rating: 4,
	})
	require.Error(t, err)
	assert.True(t, failure.IsKind(err, failure.KindInvalidState))
}

func TestCreateReviewRequiresBookingOwner(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _, bookingID := newReviewFixture(t)

	_, err := svc.CreateReview(ctx, "someone-else", CreateReviewInput{
		BookingID: bookingID, SitterID: "sitter-1", Rating: 4,
	})
	require.Error(t, err)
	assert.True(t, failure.IsKind(err, failure.KindForbidden))
}

func TestCreateReviewSitterMustMatchBooking(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _, bookingID := newReviewFixture(t)

	_, err := svc.CreateReview(ctx, "owner-1", CreateReviewInput{
		BookingID: bookingID, SitterID: "sitter-2", Rating: 4,
	})
	require.Error(t, err)
	assert.True(t, failure.IsKind(err, failure.KindSitterMismatch))
}

func TestCreateReviewUnknownBooking(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _, _ := newReviewFixture(t)

	_, err := svc.CreateReview(ctx, "owner-1", CreateReviewInput{
		BookingID: "ffffffffffffffffffffffff", SitterID: "sitter-1", Rating: 4,
	})
	require.Error(t, err)
	assert.True(t, failure.IsKind(err, failure.KindNotFound))
}

func TestCreateReviewRollsBackOnAggregateFailure(t *testing.T) {
	ctx := context.Background()
	svc, reviewRepo, _, ratingRepo, bookingID := newReviewFixture(t)

	ratingRepo.conflictsLeft = ratingMaxAttempts

	_, err := svc.CreateReview(ctx, "owner-1", CreateReviewInput{
		BookingID: bookingID, SitterID: "sitter-1", Rating: 5,
	})
	require.Error(t, err)
	assert.True(t, failure.IsKind(err, failure.KindAggregateConflict))
	assert.Empty(t, reviewRepo.reviews, "the review write must be compensated")
	assert.Nil(t, ratingRepo.rating)
	assert.Equal(t, 0, ratingRepo.count)
}

func TestUpdateReviewUndoesAggregateOnWriteFailure(t *testing.T) {
	ctx := context.Background()
	svc, reviewRepo, _, ratingRepo, bookingID := newReviewFixture(t)

	created, err := svc.CreateReview(ctx, "owner-1", CreateReviewInput{
		BookingID: bookingID, SitterID: "sitter-1", Rating: 5,
	})
	require.NoError(t, err)

	reviewRepo.failUpdate = true
	newRating := 2
	_, err = svc.UpdateReview(ctx, "owner-1", created.ID.Hex(), UpdateReviewInput{Rating: &newRating})
	require.Error(t, err)

	require.NotNil(t, ratingRepo.rating)
	assert.Equal(t, 5.0, *ratingRepo.rating, "the aggregate delta must be undone")
	assert.Equal(t, 1, ratingRepo.count)
	assert.Equal(t, 5, reviewRepo.reviews[created.ID.Hex()].Rating)
}

func TestDeleteReviewRestoresOnAggregateFailure(t *testing.T) {
	ctx := context.Background()
	svc, reviewRepo, _, ratingRepo, bookingID := newReviewFixture(t)

	created, err := svc.CreateReview(ctx, "owner-1", CreateReviewInput{
		BookingID: bookingID, SitterID: "sitter-1", Rating: 4,
	})
	require.NoError(t, err)

	ratingRepo.conflictsLeft = ratingMaxAttempts
	_, err = svc.DeleteReview(ctx, "owner-1", created.ID.Hex())
	require.Error(t, err)
	assert.True(t, failure.IsKind(err, failure.KindAggregateConflict))

	restored, getErr := reviewRepo.GetReviewByBookingID(ctx, bookingID)
	require.NoError(t, getErr)
	require.NotNil(t, restored, "the deleted review must be restored")
	assert.Equal(t, 4, restored.Rating)
	require.NotNil(t, ratingRepo.rating)
	assert.Equal(t, 4.0, *ratingRepo.rating)
	assert.Equal(t, 1, ratingRepo.count)
}

func TestUpdateReviewOwnerOnly(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _, bookingID := newReviewFixture(t)

	created, err := svc.CreateReview(ctx, "owner-1", CreateReviewInput{
		BookingID: bookingID, SitterID: "sitter-1", Rating: 4,
	})
	require.NoError(t, err)

	newRating := 1
	_, err = svc.UpdateReview(ctx, "someone-else", created.ID.Hex(), UpdateReviewInput{Rating: &newRating})
	require.Error(t, err)
	assert.True(t, failure.IsKind(err, failure.KindForbidden))
}

func TestUpdateReviewCommentOnlySkipsAggregate(t *testing.T) {
	ctx := context.Background()
	svc, _, _, ratingRepo, bookingID := newReviewFixture(t)

	created, err := svc.CreateReview(ctx, "owner-1", CreateReviewInput{
		BookingID: bookingID, SitterID: "sitter-1", Rating: 4,
	})
	require.NoError(t, err)

	casCalls := ratingRepo.casCalls
	comment := "updated comment"
	updated, err := svc.UpdateReview(ctx, "owner-1", created.ID.Hex(), UpdateReviewInput{Comment: &comment})
	require.NoError(t, err)
	assert.Equal(t, comment, updated.Comment)
	assert.Equal(t, casCalls, ratingRepo.casCalls, "comment edits must not touch the aggregate")
}

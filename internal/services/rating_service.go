package services

import (
	"context"
	"math"

	"github.com/joshua-takyi/pawmates/internal/failure"
	"github.com/joshua-takyi/pawmates/internal/models"
)

// ratingMaxAttempts bounds the CAS retry loop. Contention on a single
// sitter's aggregate is rare, so a handful of attempts is plenty; past that
// the conflict surfaces to the caller.
const ratingMaxAttempts = 3

// RatingService maintains the sitter's cached (rating, rating_count) pair
// with incremental deltas instead of recomputing the mean over all reviews.
// Every write is a compare-and-set against the pair that was read, retried on
// conflict, so concurrent review mutations for the same sitter never lose an
// update.
type RatingService struct {
	ratingRepo models.RatingRepo
}

func NewRatingService(ratingRepo models.RatingRepo) *RatingService {
	return &RatingService{
		ratingRepo: ratingRepo,
	}
}

func roundRating(v float64) float64 {
	return math.Round(v*10) / 10
}

// ApplyAdd folds one new review rating into the aggregate.
func (rs *RatingService) ApplyAdd(ctx context.Context, sitterID string, newRating int) error {
	return rs.retry(ctx, sitterID, func(rating *float64, count int) (*float64, int, bool) {
		base := 0.0
		if rating != nil {
			base = *rating
		}
		newCount := count + 1
		next := roundRating((base*float64(count) + float64(newRating)) / float64(newCount))
		return &next, newCount, true
	})
}

// ApplyEdit swaps an old rating value for a new one without changing the
// count. No-op when the value did not change or no reviews are recorded.
func (rs *RatingService) ApplyEdit(ctx context.Context, sitterID string, oldRating, newRating int) error {
	if oldRating == newRating {
		return nil
	}
	return rs.retry(ctx, sitterID, func(rating *float64, count int) (*float64, int, bool) {
		if count <= 0 {
			return nil, 0, false
		}
		base := 0.0
		if rating != nil {
			base = *rating
		}
		next := roundRating((base*float64(count) - float64(oldRating) + float64(newRating)) / float64(count))
		return &next, count, true
	})
}

// ApplyRemove subtracts a deleted review's rating. Removing the last review
// resets the pair to (null, 0).
func (rs *RatingService) ApplyRemove(ctx context.Context, sitterID string, removedRating int) error {
	return rs.retry(ctx, sitterID, func(rating *float64, count int) (*float64, int, bool) {
		switch {
		case count == 0:
			// Nothing to remove; should not occur, but never go negative.
			return nil, 0, false
		case count == 1:
			return nil, 0, true
		default:
			base := 0.0
			if rating != nil {
				base = *rating
			}
			newCount := count - 1
			next := roundRating((base*float64(count) - float64(removedRating)) / float64(newCount))
			return &next, newCount, true
		}
	})
}

// retry runs one read-compute-CAS round per attempt. The compute callback
// returns the next pair and whether a write is needed at all.
func (rs *RatingService) retry(ctx context.Context, sitterID string, compute func(rating *float64, count int) (*float64, int, bool)) error {
	var lastErr error
	for attempt := 0; attempt < ratingMaxAttempts; attempt++ {
		rating, count, err := rs.ratingRepo.GetSitterRating(ctx, sitterID)
		if err != nil {
			return err
		}

		newRating, newCount, write := compute(rating, count)
		if !write {
			return nil
		}

		err = rs.ratingRepo.CompareAndSetRating(ctx, sitterID, rating, count, newRating, newCount)
		if err == nil {
			return nil
		}
		if !failure.IsKind(err, failure.KindAggregateConflict) {
			return err
		}
		lastErr = err
	}
	return lastErr
}

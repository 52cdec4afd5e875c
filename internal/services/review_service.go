package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/joshua-takyi/pawmates/internal/failure"
	"github.com/joshua-takyi/pawmates/internal/helpers"
	"github.com/joshua-takyi/pawmates/internal/models"
)

// ReviewService orchestrates review mutations and keeps the sitter's rating
// aggregate in lockstep with them. The review document is written first; if
// the aggregate update cannot be applied even after retries, the review write
// is compensated so neither side is left inconsistent.
type ReviewService struct {
	reviewRepo  models.ReviewRepo
	bookingRepo models.BookingRepo
	rating      *RatingService
	logger      *slog.Logger
}

func NewReviewService(reviewRepo models.ReviewRepo, bookingRepo models.BookingRepo, rating *RatingService, logger *slog.Logger) *ReviewService {
	return &ReviewService{
		reviewRepo:  reviewRepo,
		bookingRepo: bookingRepo,
		rating:      rating,
		logger:      logger,
	}
}

type CreateReviewInput struct {
	BookingID string `json:"booking_id" binding:"required"`
	SitterID  string `json:"sitter_id" binding:"required"`
	Rating    int    `json:"rating" binding:"required,min=1,max=5"`
	Comment   string `json:"comment,omitempty"`
}

func (rs *ReviewService) CreateReview(ctx context.Context, ownerID string, in CreateReviewInput) (*models.Review, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, failure.BadRequest("rating must be between 1 and 5")
	}

	booking, err := rs.bookingRepo.GetBookingByID(ctx, in.BookingID)
	if err != nil {
		return nil, failure.Internal(err)
	}
	if booking == nil {
		return nil, failure.NotFound("booking")
	}
	if booking.OwnerID != ownerID {
		return nil, failure.Forbidden("booking does not belong to you")
	}
	if booking.Status != models.BookingCompleted {
		return nil, failure.InvalidState("can only review completed bookings")
	}
	if in.SitterID != booking.SitterID {
		return nil, failure.SitterMismatch("sitter_id must match the booking's sitter")
	}

	existing, err := rs.reviewRepo.GetReviewByBookingID(ctx, in.BookingID)
	if err != nil {
		return nil, failure.Internal(err)
	}
	if existing != nil {
		return nil, failure.DuplicateReview(in.BookingID)
	}

	now := time.Now().UTC()
	review := &models.Review{
		BookingID: in.BookingID,
		OwnerID:   ownerID,
		SitterID:  in.SitterID,
		Rating:    in.Rating,
		Comment:   helpers.StringTrim(in.Comment),
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := rs.reviewRepo.InsertReview(ctx, review)
	if err != nil {
		if failure.GetKind(err) == failure.KindDuplicateReview {
			return nil, err
		}
		return nil, failure.Internal(err)
	}

	if err := rs.rating.ApplyAdd(ctx, in.SitterID, in.Rating); err != nil {
		// Roll the review back so the aggregate never disagrees with the
		// surviving review set.
		if delErr := rs.reviewRepo.DeleteReview(ctx, created.ID.Hex()); delErr != nil {
			rs.logger.Error("failed to roll back review after aggregate failure",
				"review_id", created.ID.Hex(), "error", delErr)
		}
		return nil, err
	}

	return created, nil
}

type UpdateReviewInput struct {
	Rating  *int    `json:"rating,omitempty" binding:"omitempty,min=1,max=5"`
	Comment *string `json:"comment,omitempty"`
}

func (rs *ReviewService) UpdateReview(ctx context.Context, ownerID, reviewID string, in UpdateReviewInput) (*models.Review, error) {
	if in.Rating == nil && in.Comment == nil {
		return nil, failure.BadRequest("no fields to update")
	}
	if in.Rating != nil && (*in.Rating < 1 || *in.Rating > 5) {
		return nil, failure.BadRequest("rating must be between 1 and 5")
	}

	review, err := rs.getReview(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if review.OwnerID != ownerID {
		return nil, failure.Forbidden("review does not belong to you")
	}

	ratingChanged := in.Rating != nil && *in.Rating != review.Rating
	if ratingChanged {
		if err := rs.rating.ApplyEdit(ctx, review.SitterID, review.Rating, *in.Rating); err != nil {
			return nil, err
		}
	}

	fields := map[string]interface{}{}
	if in.Rating != nil {
		fields["rating"] = *in.Rating
	}
	if in.Comment != nil {
		fields["comment"] = helpers.StringTrim(*in.Comment)
	}

	updated, err := rs.reviewRepo.UpdateReviewFields(ctx, reviewID, fields)
	if err != nil || updated == nil {
		if ratingChanged {
			// Undo the aggregate delta; the stored rating was never replaced.
			if undoErr := rs.rating.ApplyEdit(ctx, review.SitterID, *in.Rating, review.Rating); undoErr != nil {
				rs.logger.Error("failed to undo rating edit after review update failure",
					"review_id", reviewID, "error", undoErr)
			}
		}
		if err != nil {
			return nil, failure.Internal(err)
		}
		return nil, failure.NotFound("review")
	}

	return updated, nil
}

func (rs *ReviewService) DeleteReview(ctx context.Context, ownerID, reviewID string) (*models.Review, error) {
	review, err := rs.getReview(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if review.OwnerID != ownerID {
		return nil, failure.Forbidden("review does not belong to you")
	}

	if err := rs.reviewRepo.DeleteReview(ctx, reviewID); err != nil {
		if failure.GetKind(err) == failure.KindNotFound {
			return nil, err
		}
		return nil, failure.Internal(err)
	}

	if err := rs.rating.ApplyRemove(ctx, review.SitterID, review.Rating); err != nil {
		// Restore the deleted review so the aggregate and the review set
		// stay consistent.
		if _, insErr := rs.reviewRepo.InsertReview(ctx, review); insErr != nil {
			rs.logger.Error("failed to restore review after aggregate failure",
				"review_id", reviewID, "error", insErr)
		}
		return nil, err
	}

	return review, nil
}

func (rs *ReviewService) GetReview(ctx context.Context, reviewID string) (*models.Review, error) {
	return rs.getReview(ctx, reviewID)
}

func (rs *ReviewService) ListReviews(ctx context.Context, sitterID string, offset, limit int) ([]*models.Review, int, error) {
	if offset < 0 || limit <= 0 {
		return nil, 0, failure.BadRequest("invalid offset or limit")
	}
	reviews, total, err := rs.reviewRepo.ListReviews(ctx, sitterID, offset, limit)
	if err != nil {
		return nil, 0, failure.Internal(err)
	}
	return reviews, total, nil
}

func (rs *ReviewService) getReview(ctx context.Context, reviewID string) (*models.Review, error) {
	review, err := rs.reviewRepo.GetReviewByID(ctx, reviewID)
	if err != nil {
		return nil, failure.Internal(err)
	}
	if review == nil {
		return nil, failure.NotFound("review")
	}
	return review, nil
}

package models

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const ReviewColName = "reviews"

// Review is a rating attached to exactly one completed booking. booking_id is
// unique across the collection.
type Review struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	BookingID string             `bson:"booking_id" json:"booking_id" validate:"required"`
	OwnerID   string             `bson:"owner_id" json:"owner_id" validate:"required"`
	SitterID  string             `bson:"sitter_id" json:"sitter_id" validate:"required"`
	Rating    int                `bson:"rating" json:"rating" validate:"required,min=1,max=5"`
	Comment   string             `bson:"comment,omitempty" json:"comment,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

func (r *Review) BeforeCreate() error {
	if r.ID.IsZero() {
		r.ID = primitive.NewObjectID()
	}
	return nil
}

type ReviewRepo interface {
	InsertReview(ctx context.Context, review *Review) (*Review, error)
	GetReviewByID(ctx context.Context, id string) (*Review, error)
	// GetReviewByBookingID returns (nil, nil) when no review exists yet.
	GetReviewByBookingID(ctx context.Context, bookingID string) (*Review, error)
	ListReviews(ctx context.Context, sitterID string, offset, limit int) ([]*Review, int, error)
	UpdateReviewFields(ctx context.Context, id string, fields map[string]interface{}) (*Review, error)
	DeleteReview(ctx context.Context, id string) error
}

// RatingRepo mutates the sitter's cached (rating, rating_count) pair. The
// compare-and-set form is what makes concurrent review mutations safe: a
// writer that read a stale pair fails to match and must retry.
type RatingRepo interface {
	GetSitterRating(ctx context.Context, sitterID string) (*float64, int, error)
	CompareAndSetRating(ctx context.Context, sitterID string, expectRating *float64, expectCount int, newRating *float64, newCount int) error
}

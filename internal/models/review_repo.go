package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/joshua-takyi/pawmates/internal/failure"
)

func (mdb *MongodbRepo) InsertReview(ctx context.Context, review *Review) (*Review, error) {
	if err := review.BeforeCreate(); err != nil {
		return nil, fmt.Errorf("failed to prepare review for creation: %w", err)
	}
	col, err := mdb.GetCollection(ctx, ReviewColName)
	if err != nil {
		return nil, err
	}
	_, err = col.InsertOne(ctx, review)
	if mongo.IsDuplicateKeyError(err) {
		// The unique index on booking_id backs the one-review-per-booking
		// rule even when two creates race past the pre-check.
		return nil, failure.DuplicateReview(review.BookingID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to insert review: %w", err)
	}
	return review, nil
}

func (mdb *MongodbRepo) GetReviewByID(ctx context.Context, id string) (*Review, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	col, err := mdb.GetCollection(ctx, ReviewColName)
	if err != nil {
		return nil, err
	}
	var review Review
	err = col.FindOne(ctx, bson.M{"_id": oid}).Decode(&review)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find review: %w", err)
	}
	return &review, nil
}

func (mdb *MongodbRepo) GetReviewByBookingID(ctx context.Context, bookingID string) (*Review, error) {
	col, err := mdb.GetCollection(ctx, ReviewColName)
	if err != nil {
		return nil, err
	}
	var review Review
	err = col.FindOne(ctx, bson.M{"booking_id": bookingID}).Decode(&review)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find review by booking: %w", err)
	}
	return &review, nil
}

func (mdb *MongodbRepo) ListReviews(ctx context.Context, sitterID string, offset, limit int) ([]*Review, int, error) {
	col, err := mdb.GetCollection(ctx, ReviewColName)
	if err != nil {
		return nil, 0, err
	}

	filter := bson.M{}
	if sitterID != "" {
		filter["sitter_id"] = sitterID
	}

	total, err := col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count reviews: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find reviews: %w", err)
	}
	defer cursor.Close(ctx)

	var reviews []*Review
	for cursor.Next(ctx) {
		var r Review
		if err := cursor.Decode(&r); err != nil {
			return nil, 0, fmt.Errorf("failed to decode review: %w", err)
		}
		reviews = append(reviews, &r)
	}
	if err := cursor.Err(); err != nil {
		return nil, 0, fmt.Errorf("cursor error: %w", err)
	}

	return reviews, int(total), nil
}

func (mdb *MongodbRepo) UpdateReviewFields(ctx context.Context, id string, fields map[string]interface{}) (*Review, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	col, err := mdb.GetCollection(ctx, ReviewColName)
	if err != nil {
		return nil, err
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	for key, value := range fields {
		set[key] = value
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated Review
	err = col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update review: %w", err)
	}
	return &updated, nil
}

func (mdb *MongodbRepo) DeleteReview(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return failure.NotFound("review")
	}
	col, err := mdb.GetCollection(ctx, ReviewColName)
	if err != nil {
		return err
	}
	res, err := col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}
	if res.DeletedCount == 0 {
		return failure.NotFound("review")
	}
	return nil
}

// EnsureReviewIndexes creates the unique booking_id index. Called once at
// startup.
func (mdb *MongodbRepo) EnsureReviewIndexes(ctx context.Context) error {
	col, err := mdb.GetCollection(ctx, ReviewColName)
	if err != nil {
		return err
	}
	_, err = col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "booking_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

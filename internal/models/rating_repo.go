package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/joshua-takyi/pawmates/internal/failure"
)

func (mdb *MongodbRepo) GetSitterRating(ctx context.Context, sitterID string) (*float64, int, error) {
	col, err := mdb.GetCollection(ctx, ProfileColName)
	if err != nil {
		return nil, 0, err
	}

	var state struct {
		Rating      *float64 `bson:"rating"`
		RatingCount int      `bson:"rating_count"`
	}
	err = col.FindOne(ctx, bson.M{"user_id": sitterID}).Decode(&state)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, 0, failure.NotFound("sitter")
	}
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read sitter rating: %w", err)
	}
	return state.Rating, state.RatingCount, nil
}

// CompareAndSetRating writes the new aggregate only if the stored pair still
// matches what the caller read. A non-matching filter means another review
// mutation won the race and the caller must recompute.
func (mdb *MongodbRepo) CompareAndSetRating(ctx context.Context, sitterID string, expectRating *float64, expectCount int, newRating *float64, newCount int) error {
	col, err := mdb.GetCollection(ctx, ProfileColName)
	if err != nil {
		return err
	}

	filter := bson.M{
		"user_id": sitterID,
		// A nil expected rating matches both an explicit null and a field
		// that was never set; same for a zero count on fresh profiles.
		"rating": expectRating,
	}
	if expectCount == 0 {
		filter["rating_count"] = bson.M{"$in": bson.A{0, nil}}
	} else {
		filter["rating_count"] = expectCount
	}

	update := bson.M{"$set": bson.M{
		"rating":       newRating,
		"rating_count": newCount,
		"updated_at":   time.Now().UTC(),
	}}

	res, err := col.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update sitter rating: %w", err)
	}
	if res.MatchedCount == 0 {
		return failure.AggregateConflict(sitterID)
	}
	return nil
}

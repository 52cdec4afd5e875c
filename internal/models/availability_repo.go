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

func (mdb *MongodbRepo) InsertRecurring(ctx context.Context, av *RecurringAvailability) (*RecurringAvailability, error) {
	if err := av.BeforeCreate(); err != nil {
		return nil, fmt.Errorf("failed to prepare availability for creation: %w", err)
	}
	col, err := mdb.GetCollection(ctx, RecurringAvailabilityColName)
	if err != nil {
		return nil, err
	}
	_, err = col.InsertOne(ctx, av)
	if mongo.IsDuplicateKeyError(err) {
		// Unique (sitter_id, day_of_week) index backs one-entry-per-day.
		return nil, failure.New(failure.KindBadRequest, "recurring availability for %s already exists", av.DayOfWeek)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to insert recurring availability: %w", err)
	}
	return av, nil
}

func (mdb *MongodbRepo) GetRecurringByID(ctx context.Context, id string) (*RecurringAvailability, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	col, err := mdb.GetCollection(ctx, RecurringAvailabilityColName)
	if err != nil {
		return nil, err
	}
	var av RecurringAvailability
	err = col.FindOne(ctx, bson.M{"_id": oid}).Decode(&av)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find recurring availability: %w", err)
	}
	return &av, nil
}

func (mdb *MongodbRepo) ListRecurringBySitter(ctx context.Context, sitterID string) ([]*RecurringAvailability, error) {
	col, err := mdb.GetCollection(ctx, RecurringAvailabilityColName)
	if err != nil {
		return nil, err
	}
	cursor, err := col.Find(ctx, bson.M{"sitter_id": sitterID},
		options.Find().SetSort(bson.D{{Key: "day_of_week", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to find recurring availabilities: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []*RecurringAvailability
	for cursor.Next(ctx) {
		var av RecurringAvailability
		if err := cursor.Decode(&av); err != nil {
			return nil, fmt.Errorf("failed to decode recurring availability: %w", err)
		}
		entries = append(entries, &av)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return entries, nil
}

func (mdb *MongodbRepo) UpdateRecurringFields(ctx context.Context, id string, fields map[string]interface{}) (*RecurringAvailability, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	col, err := mdb.GetCollection(ctx, RecurringAvailabilityColName)
	if err != nil {
		return nil, err
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	for key, value := range fields {
		set[key] = value
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated RecurringAvailability
	err = col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update recurring availability: %w", err)
	}
	return &updated, nil
}

func (mdb *MongodbRepo) DeleteRecurring(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return failure.NotFound("recurring availability")
	}
	col, err := mdb.GetCollection(ctx, RecurringAvailabilityColName)
	if err != nil {
		return err
	}
	res, err := col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete recurring availability: %w", err)
	}
	if res.DeletedCount == 0 {
		return failure.NotFound("recurring availability")
	}
	return nil
}

func (mdb *MongodbRepo) InsertSpecific(ctx context.Context, av *SpecificAvailability) (*SpecificAvailability, error) {
	if err := av.BeforeCreate(); err != nil {
		return nil, fmt.Errorf("failed to prepare availability for creation: %w", err)
	}
	col, err := mdb.GetCollection(ctx, SpecificAvailabilityColName)
	if err != nil {
		return nil, err
	}
	_, err = col.InsertOne(ctx, av)
	if mongo.IsDuplicateKeyError(err) {
		// Unique (sitter_id, date) index backs one-override-per-date.
		return nil, failure.New(failure.KindBadRequest, "specific availability for %s already exists", av.Date)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to insert specific availability: %w", err)
	}
	return av, nil
}

func (mdb *MongodbRepo) GetSpecificByID(ctx context.Context, id string) (*SpecificAvailability, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	col, err := mdb.GetCollection(ctx, SpecificAvailabilityColName)
	if err != nil {
		return nil, err
	}
	var av SpecificAvailability
	err = col.FindOne(ctx, bson.M{"_id": oid}).Decode(&av)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find specific availability: %w", err)
	}
	return &av, nil
}

// ListSpecificBySitter returns overrides inside [startDate, endDate]. Dates
// are stored as YYYY-MM-DD strings, so lexicographic range comparison matches
// calendar order.
func (mdb *MongodbRepo) ListSpecificBySitter(ctx context.Context, sitterID, startDate, endDate string) ([]*SpecificAvailability, error) {
	col, err := mdb.GetCollection(ctx, SpecificAvailabilityColName)
	if err != nil {
		return nil, err
	}
	filter := bson.M{
		"sitter_id": sitterID,
		"date":      bson.M{"$gte": startDate, "$lte": endDate},
	}
	cursor, err := col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to find specific availabilities: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []*SpecificAvailability
	for cursor.Next(ctx) {
		var av SpecificAvailability
		if err := cursor.Decode(&av); err != nil {
			return nil, fmt.Errorf("failed to decode specific availability: %w", err)
		}
		entries = append(entries, &av)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return entries, nil
}

func (mdb *MongodbRepo) UpdateSpecificFields(ctx context.Context, id string, fields map[string]interface{}) (*SpecificAvailability, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	col, err := mdb.GetCollection(ctx, SpecificAvailabilityColName)
	if err != nil {
		return nil, err
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	for key, value := range fields {
		set[key] = value
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated SpecificAvailability
	err = col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update specific availability: %w", err)
	}
	return &updated, nil
}

func (mdb *MongodbRepo) DeleteSpecific(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return failure.NotFound("specific availability")
	}
	col, err := mdb.GetCollection(ctx, SpecificAvailabilityColName)
	if err != nil {
		return err
	}
	res, err := col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete specific availability: %w", err)
	}
	if res.DeletedCount == 0 {
		return failure.NotFound("specific availability")
	}
	return nil
}

// EnsureAvailabilityIndexes creates the per-sitter uniqueness indexes. Called
// once at startup.
func (mdb *MongodbRepo) EnsureAvailabilityIndexes(ctx context.Context) error {
	recurring, err := mdb.GetCollection(ctx, RecurringAvailabilityColName)
	if err != nil {
		return err
	}
	if _, err := recurring.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "sitter_id", Value: 1}, {Key: "day_of_week", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return err
	}

	specific, err := mdb.GetCollection(ctx, SpecificAvailabilityColName)
	if err != nil {
		return err
	}
	_, err = specific.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "sitter_id", Value: 1}, {Key: "date", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

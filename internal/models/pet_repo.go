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

func (mdb *MongodbRepo) CreatePet(ctx context.Context, pet *Pet) (*Pet, error) {
	if err := pet.BeforeCreate(); err != nil {
		return nil, fmt.Errorf("failed to prepare pet for creation: %w", err)
	}
	col, err := mdb.GetCollection(ctx, PetColName)
	if err != nil {
		return nil, err
	}
	if _, err := col.InsertOne(ctx, pet); err != nil {
		return nil, fmt.Errorf("failed to insert pet: %w", err)
	}
	return pet, nil
}

func (mdb *MongodbRepo) GetPetByID(ctx context.Context, id string) (*Pet, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	col, err := mdb.GetCollection(ctx, PetColName)
	if err != nil {
		return nil, err
	}
	var pet Pet
	err = col.FindOne(ctx, bson.M{"_id": oid}).Decode(&pet)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find pet: %w", err)
	}
	return &pet, nil
}

func (mdb *MongodbRepo) ListPetsByOwner(ctx context.Context, ownerID string, offset, limit int) ([]*Pet, int, error) {
	col, err := mdb.GetCollection(ctx, PetColName)
	if err != nil {
		return nil, 0, err
	}

	filter := bson.M{"owner_id": ownerID}
	total, err := col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count pets: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find pets: %w", err)
	}
	defer cursor.Close(ctx)

	var pets []*Pet
	for cursor.Next(ctx) {
		var p Pet
		if err := cursor.Decode(&p); err != nil {
			return nil, 0, fmt.Errorf("failed to decode pet: %w", err)
		}
		pets = append(pets, &p)
	}
	if err := cursor.Err(); err != nil {
		return nil, 0, fmt.Errorf("cursor error: %w", err)
	}

	return pets, int(total), nil
}

func (mdb *MongodbRepo) UpdatePet(ctx context.Context, id string, fields map[string]interface{}) (*Pet, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, failure.NotFound("pet")
	}
	col, err := mdb.GetCollection(ctx, PetColName)
	if err != nil {
		return nil, err
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	for key, value := range fields {
		set[key] = value
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated Pet
	err = col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, failure.NotFound("pet")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update pet: %w", err)
	}
	return &updated, nil
}

func (mdb *MongodbRepo) DeletePet(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return failure.NotFound("pet")
	}
	col, err := mdb.GetCollection(ctx, PetColName)
	if err != nil {
		return err
	}
	res, err := col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete pet: %w", err)
	}
	if res.DeletedCount == 0 {
		return failure.NotFound("pet")
	}
	return nil
}

// PetsOwnedBy verifies every id exists and belongs to the owner in one query.
func (mdb *MongodbRepo) PetsOwnedBy(ctx context.Context, ownerID string, petIDs []string) (bool, error) {
	if len(petIDs) == 0 {
		return false, nil
	}
	oids := make([]primitive.ObjectID, 0, len(petIDs))
	for _, id := range petIDs {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return false, nil
		}
		oids = append(oids, oid)
	}
	col, err := mdb.GetCollection(ctx, PetColName)
	if err != nil {
		return false, err
	}
	count, err := col.CountDocuments(ctx, bson.M{
		"_id":      bson.M{"$in": oids},
		"owner_id": ownerID,
	})
	if err != nil {
		return false, fmt.Errorf("failed to check pet ownership: %w", err)
	}
	return count == int64(len(petIDs)), nil
}

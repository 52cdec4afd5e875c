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

func (mdb *MongodbRepo) CreateUser(ctx context.Context, user *User) (*User, error) {
	if err := user.BeforeCreate(); err != nil {
		return nil, fmt.Errorf("failed to prepare user for creation: %w", err)
	}
	col, err := mdb.GetCollection(ctx, UserColName)
	if err != nil {
		return nil, err
	}
	if _, err := col.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, failure.BadRequest("email already registered")
		}
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}
	return user, nil
}

func (mdb *MongodbRepo) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	col, err := mdb.GetCollection(ctx, UserColName)
	if err != nil {
		return nil, err
	}
	var user User
	err = col.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return &user, nil
}

func (mdb *MongodbRepo) GetUserByID(ctx context.Context, id string) (*User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	col, err := mdb.GetCollection(ctx, UserColName)
	if err != nil {
		return nil, err
	}
	var user User
	err = col.FindOne(ctx, bson.M{"_id": oid}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

func (mdb *MongodbRepo) CreateProfile(ctx context.Context, profile *Profile) (*Profile, error) {
	if err := profile.BeforeCreate(); err != nil {
		return nil, fmt.Errorf("failed to prepare profile for creation: %w", err)
	}
	col, err := mdb.GetCollection(ctx, ProfileColName)
	if err != nil {
		return nil, err
	}
	if _, err := col.InsertOne(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to insert profile: %w", err)
	}
	return profile, nil
}

func (mdb *MongodbRepo) UpdateProfile(ctx context.Context, userID string, fields map[string]interface{}) (*Profile, error) {
	col, err := mdb.GetCollection(ctx, ProfileColName)
	if err != nil {
		return nil, err
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	for key, value := range fields {
		set[key] = value
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated Profile
	err = col.FindOneAndUpdate(ctx, bson.M{"user_id": userID}, bson.M{"$set": set}, opts).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, failure.NotFound("profile")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return &updated, nil
}

// ResolveUser is the single authoritative role lookup. A user without a
// profile, or a profile without a stored role, resolves to nothing rather
// than defaulting to owner.
func (mdb *MongodbRepo) ResolveUser(ctx context.Context, userID string) (*Profile, error) {
	col, err := mdb.GetCollection(ctx, ProfileColName)
	if err != nil {
		return nil, err
	}
	var profile Profile
	err = col.FindOne(ctx, bson.M{"user_id": userID}).Decode(&profile)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, failure.NotFound("user " + userID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve user: %w", err)
	}
	if profile.UserType != RoleOwner && profile.UserType != RoleSitter {
		return nil, failure.NotFound("role for user " + userID)
	}
	return &profile, nil
}

func (mdb *MongodbRepo) ListSitters(ctx context.Context, service ServiceType, offset, limit int) ([]*Profile, int, error) {
	col, err := mdb.GetCollection(ctx, ProfileColName)
	if err != nil {
		return nil, 0, err
	}

	filter := bson.M{"user_type": RoleSitter}
	if service != "" {
		filter["services"] = service
	}

	total, err := col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count sitters: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "rating", Value: -1}, {Key: "created_at", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find sitters: %w", err)
	}
	defer cursor.Close(ctx)

	var sitters []*Profile
	for cursor.Next(ctx) {
		var p Profile
		if err := cursor.Decode(&p); err != nil {
			return nil, 0, fmt.Errorf("failed to decode profile: %w", err)
		}
		sitters = append(sitters, &p)
	}
	if err := cursor.Err(); err != nil {
		return nil, 0, fmt.Errorf("cursor error: %w", err)
	}

	return sitters, int(total), nil
}

// EnsureUserIndexes creates the unique email index and the profile user_id
// index. Called once at startup.
func (mdb *MongodbRepo) EnsureUserIndexes(ctx context.Context) error {
	users, err := mdb.GetCollection(ctx, UserColName)
	if err != nil {
		return err
	}
	if _, err := users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return err
	}

	profiles, err := mdb.GetCollection(ctx, ProfileColName)
	if err != nil {
		return err
	}
	_, err = profiles.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

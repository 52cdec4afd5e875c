package models

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const FavouriteColName = "favourites"

type FavouriteItem struct {
	SitterID string    `bson:"sitter_id" json:"sitter_id"`
	AddedAt  time.Time `bson:"added_at" json:"added_at"`
}

// Favourite is one owner's bookmark document; sitters are keyed by id inside
// the items map so adds and removes stay single-field updates.
type Favourite struct {
	ID        primitive.ObjectID       `bson:"_id,omitempty" json:"id"`
	UserID    string                   `bson:"user_id" json:"user_id" validate:"required"`
	Items     map[string]FavouriteItem `bson:"items" json:"items"`
	CreatedAt time.Time                `bson:"created_at,omitempty" json:"created_at,omitempty"`
	UpdatedAt time.Time                `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

type FavouriteRepo interface {
	AddToFavourites(ctx context.Context, userID string, sitterID string) (*Favourite, error)
	RemoveFromFavourites(ctx context.Context, userID string, sitterID string) error
	GetFavouritesByUserID(ctx context.Context, userID string) (*Favourite, error)
}

func (mdb *MongodbRepo) AddToFavourites(ctx context.Context, userID string, sitterID string) (*Favourite, error) {
	col, err := mdb.GetCollection(ctx, FavouriteColName)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	filter := bson.M{"user_id": userID}

	update := bson.M{
		"$set": bson.M{
			"updated_at": now,
			fmt.Sprintf("items.%s", sitterID): FavouriteItem{
				SitterID: sitterID,
				AddedAt:  now,
			},
		},
		"$setOnInsert": bson.M{
			"user_id":    userID,
			"created_at": now,
		},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var result Favourite
	if err := col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&result); err != nil {
		return nil, fmt.Errorf("error upserting favourite: %v", err)
	}

	return &result, nil
}

func (mdb *MongodbRepo) RemoveFromFavourites(ctx context.Context, userID string, sitterID string) error {
	col, err := mdb.GetCollection(ctx, FavouriteColName)
	if err != nil {
		return err
	}

	filter := bson.M{"user_id": userID}
	update := bson.M{
		"$unset": bson.M{
			fmt.Sprintf("items.%s", sitterID): "",
		},
		"$set": bson.M{
			"updated_at": time.Now().UTC(),
		},
	}

	_, err = col.UpdateOne(ctx, filter, update)
	return err
}

func (mdb *MongodbRepo) GetFavouritesByUserID(ctx context.Context, userID string) (*Favourite, error) {
	col, err := mdb.GetCollection(ctx, FavouriteColName)
	if err != nil {
		return nil, err
	}

	var fav Favourite
	err = col.FindOne(ctx, bson.M{"user_id": userID}).Decode(&fav)
	if err == mongo.ErrNoDocuments {
		return &Favourite{UserID: userID, Items: map[string]FavouriteItem{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error finding favourites: %v", err)
	}

	return &fav, nil
}

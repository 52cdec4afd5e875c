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
)

type BookingRepo interface {
	InsertBooking(ctx context.Context, booking *Booking) (*Booking, error)
	GetBookingByID(ctx context.Context, id string) (*Booking, error)
	ListBookings(ctx context.Context, query BookingQuery) ([]*Booking, int, error)
	// UpdateBookingStatus moves a booking from one status to another as a
	// single conditional update. Returns (nil, nil) when the booking was not
	// in the expected source status anymore.
	UpdateBookingStatus(ctx context.Context, id string, from, to BookingStatus) (*Booking, error)
	// UpdateBookingDetails sets the given fields only while the booking is
	// still pending. Returns (nil, nil) when the pending guard did not match.
	UpdateBookingDetails(ctx context.Context, id string, fields map[string]interface{}) (*Booking, error)
	// DeleteBookingIfPending removes a pending booking. Returns false when
	// the booking was not pending at delete time.
	DeleteBookingIfPending(ctx context.Context, id string) (bool, error)
}

func (mdb *MongodbRepo) InsertBooking(ctx context.Context, booking *Booking) (*Booking, error) {
	if err := booking.BeforeCreate(); err != nil {
		return nil, fmt.Errorf("failed to prepare booking for creation: %w", err)
	}
	col, err := mdb.GetCollection(ctx, BookingColName)
	if err != nil {
		return nil, err
	}
	if _, err := col.InsertOne(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to insert booking: %w", err)
	}
	return booking, nil
}

func (mdb *MongodbRepo) GetBookingByID(ctx context.Context, id string) (*Booking, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	col, err := mdb.GetCollection(ctx, BookingColName)
	if err != nil {
		return nil, err
	}
	var booking Booking
	err = col.FindOne(ctx, bson.M{"_id": oid}).Decode(&booking)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}
	return &booking, nil
}

func (mdb *MongodbRepo) ListBookings(ctx context.Context, query BookingQuery) ([]*Booking, int, error) {
	col, err := mdb.GetCollection(ctx, BookingColName)
	if err != nil {
		return nil, 0, err
	}

	filter := bson.M{}
	if query.AsOwner {
		filter["owner_id"] = query.UserID
	} else {
		filter["sitter_id"] = query.UserID
	}
	if query.Status != "" {
		filter["status"] = query.Status
	}

	total, err := col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(query.Offset)).
		SetLimit(int64(query.Limit))

	cursor, err := col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*Booking
	for cursor.Next(ctx) {
		var b Booking
		if err := cursor.Decode(&b); err != nil {
			return nil, 0, fmt.Errorf("failed to decode booking: %w", err)
		}
		bookings = append(bookings, &b)
	}
	if err := cursor.Err(); err != nil {
		return nil, 0, fmt.Errorf("cursor error: %w", err)
	}

	return bookings, int(total), nil
}

func (mdb *MongodbRepo) UpdateBookingStatus(ctx context.Context, id string, from, to BookingStatus) (*Booking, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	col, err := mdb.GetCollection(ctx, BookingColName)
	if err != nil {
		return nil, err
	}

	// Matching on the source status serializes concurrent transitions for
	// the same booking; only one of two racing writers can match.
	filter := bson.M{"_id": oid, "status": from}
	update := bson.M{"$set": bson.M{
		"status":     to,
		"updated_at": time.Now().UTC(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated Booking
	err = col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update booking status: %w", err)
	}
	return &updated, nil
}

func (mdb *MongodbRepo) UpdateBookingDetails(ctx context.Context, id string, fields map[string]interface{}) (*Booking, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	col, err := mdb.GetCollection(ctx, BookingColName)
	if err != nil {
		return nil, err
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	for key, value := range fields {
		set[key] = value
	}

	filter := bson.M{"_id": oid, "status": BookingPending}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated Booking
	err = col.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update booking details: %w", err)
	}
	return &updated, nil
}

func (mdb *MongodbRepo) DeleteBookingIfPending(ctx context.Context, id string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}
	col, err := mdb.GetCollection(ctx, BookingColName)
	if err != nil {
		return false, err
	}
	res, err := col.DeleteOne(ctx, bson.M{"_id": oid, "status": BookingPending})
	if err != nil {
		return false, fmt.Errorf("failed to delete booking: %w", err)
	}
	return res.DeletedCount > 0, nil
}

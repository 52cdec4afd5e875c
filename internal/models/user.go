package models

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	UserColName    = "users"
	ProfileColName = "profiles"
)

type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email          string             `bson:"email" json:"email" validate:"required,email"`
	HashedPassword string             `bson:"hashed_password" json:"-"`
	IsActive       bool               `bson:"is_active" json:"is_active"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updated_at"`
}

func (u *User) BeforeCreate() error {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	return nil
}

// Profile is the public face of a user. Sitter profiles additionally carry
// services, an hourly rate and the derived rating aggregate.
type Profile struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     string             `bson:"user_id" json:"user_id" validate:"required"`
	UserType   Role               `bson:"user_type" json:"user_type" validate:"required,oneof=owner sitter"`
	FirstName  string             `bson:"first_name,omitempty" json:"first_name,omitempty"`
	LastName   string             `bson:"last_name,omitempty" json:"last_name,omitempty"`
	Phone      string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Address    string             `bson:"address,omitempty" json:"address,omitempty"`
	AvatarURL  string             `bson:"avatar_url,omitempty" json:"avatar_url,omitempty"`
	Bio        string             `bson:"bio,omitempty" json:"bio,omitempty"`
	Services   []ServiceType      `bson:"services,omitempty" json:"services,omitempty"`
	HourlyRate *float64           `bson:"hourly_rate,omitempty" json:"hourly_rate,omitempty"`
	// Rating is the cached mean of surviving reviews, nil until the first
	// review lands. Mutated only through the rating repo CAS.
	Rating      *float64  `bson:"rating,omitempty" json:"rating"`
	RatingCount int       `bson:"rating_count,omitempty" json:"rating_count"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}

func (p *Profile) BeforeCreate() error {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	return nil
}

type UserRepo interface {
	CreateUser(ctx context.Context, user *User) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByID(ctx context.Context, id string) (*User, error)
	CreateProfile(ctx context.Context, profile *Profile) (*Profile, error)
	UpdateProfile(ctx context.Context, userID string, fields map[string]interface{}) (*Profile, error)
	ListSitters(ctx context.Context, service ServiceType, offset, limit int) ([]*Profile, int, error)
}

// IdentityRepo is the single authoritative lookup for a user's role and
// sitter attributes.
type IdentityRepo interface {
	ResolveUser(ctx context.Context, userID string) (*Profile, error)
}

package models

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const PetColName = "pets"

type Pet struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID             string             `bson:"owner_id" json:"owner_id" validate:"required"`
	Name                string             `bson:"name" json:"name" validate:"required"`
	Species             string             `bson:"species" json:"species" validate:"required"`
	Breed               string             `bson:"breed,omitempty" json:"breed,omitempty"`
	Age                 *int               `bson:"age,omitempty" json:"age,omitempty"`
	Weight              *float64           `bson:"weight,omitempty" json:"weight,omitempty"`
	Gender              string             `bson:"gender,omitempty" json:"gender,omitempty"`
	Description         string             `bson:"description,omitempty" json:"description,omitempty"`
	SpecialRequirements string             `bson:"special_requirements,omitempty" json:"special_requirements,omitempty"`
	IsActive            bool               `bson:"is_active" json:"is_active"`
	PhotoURL            string             `bson:"photo_url,omitempty" json:"photo_url,omitempty"`
	CreatedAt           time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt           time.Time          `bson:"updated_at" json:"updated_at"`
}

func (p *Pet) BeforeCreate() error {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	return nil
}

type PetRepo interface {
	CreatePet(ctx context.Context, pet *Pet) (*Pet, error)
	GetPetByID(ctx context.Context, id string) (*Pet, error)
	ListPetsByOwner(ctx context.Context, ownerID string, offset, limit int) ([]*Pet, int, error)
	UpdatePet(ctx context.Context, id string, fields map[string]interface{}) (*Pet, error)
	DeletePet(ctx context.Context, id string) error
	// PetsOwnedBy reports whether every id refers to an existing pet owned by
	// the given owner.
	PetsOwnedBy(ctx context.Context, ownerID string, petIDs []string) (bool, error)
}

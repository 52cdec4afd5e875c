package services

import (
	"context"
	"time"

	"github.com/joshua-takyi/pawmates/internal/failure"
	"github.com/joshua-takyi/pawmates/internal/models"
)

type PetService struct {
	petRepo models.PetRepo
}

func NewPetService(petRepo models.PetRepo) *PetService {
	return &PetService{
		petRepo: petRepo,
	}
}

func (ps *PetService) CreatePet(ctx context.Context, ownerID string, pet *models.Pet) (*models.Pet, error) {
	pet.OwnerID = ownerID
	pet.IsActive = true
	if err := models.Validate.Struct(pet); err != nil {
		return nil, failure.BadRequest("invalid pet data: " + err.Error())
	}

	now := time.Now().UTC()
	pet.CreatedAt = now
	pet.UpdatedAt = now

	created, err := ps.petRepo.CreatePet(ctx, pet)
	if err != nil {
		return nil, failure.Internal(err)
	}
	return created, nil
}

func (ps *PetService) GetPet(ctx context.Context, petID string) (*models.Pet, error) {
	pet, err := ps.petRepo.GetPetByID(ctx, petID)
	if err != nil {
		return nil, failure.Internal(err)
	}
	if pet == nil {
		return nil, failure.NotFound("pet")
	}
	return pet, nil
}

func (ps *PetService) ListPets(ctx context.Context, ownerID string, offset, limit int) ([]*models.Pet, int, error) {
	if offset < 0 || limit <= 0 {
		return nil, 0, failure.BadRequest("invalid offset or limit")
	}
	pets, total, err := ps.petRepo.ListPetsByOwner(ctx, ownerID, offset, limit)
	if err != nil {
		return nil, 0, failure.Internal(err)
	}
	return pets, total, nil
}

var petUpdatableFields = map[string]bool{
	"name":                 true,
	"species":              true,
	"breed":                true,
	"age":                  true,
	"weight":               true,
	"gender":               true,
	"description":          true,
	"special_requirements": true,
	"is_active":            true,
	"photo_url":            true,
}

func (ps *PetService) UpdatePet(ctx context.Context, ownerID, petID string, fields map[string]interface{}) (*models.Pet, error) {
	if len(fields) == 0 {
		return nil, failure.BadRequest("no fields to update")
	}
	for key := range fields {
		if !petUpdatableFields[key] {
			return nil, failure.BadRequest("field cannot be updated: " + key)
		}
	}

	pet, err := ps.GetPet(ctx, petID)
	if err != nil {
		return nil, err
	}
	if pet.OwnerID != ownerID {
		return nil, failure.Forbidden("pet does not belong to you")
	}

	updated, err := ps.petRepo.UpdatePet(ctx, petID, fields)
	if err != nil {
		if failure.GetKind(err) == failure.KindNotFound {
			return nil, err
		}
		return nil, failure.Internal(err)
	}
	return updated, nil
}

func (ps *PetService) DeletePet(ctx context.Context, ownerID, petID string) error {
	pet, err := ps.GetPet(ctx, petID)
	if err != nil {
		return err
	}
	if pet.OwnerID != ownerID {
		return failure.Forbidden("pet does not belong to you")
	}

	if err := ps.petRepo.DeletePet(ctx, petID); err != nil {
		if failure.GetKind(err) == failure.KindNotFound {
			return err
		}
		return failure.Internal(err)
	}
	return nil
}

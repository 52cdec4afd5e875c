package services

import (
	"context"
	"strings"

	"github.com/joshua-takyi/pawmates/internal/failure"
	"github.com/joshua-takyi/pawmates/internal/models"
)

type FavouriteService struct {
	favouritesRepo models.FavouriteRepo
	identity       models.IdentityRepo
}

func NewFavouriteService(favouritesRepo models.FavouriteRepo, identity models.IdentityRepo) *FavouriteService {
	return &FavouriteService{
		favouritesRepo: favouritesRepo,
		identity:       identity,
	}
}

func (fs *FavouriteService) AddToFavourites(ctx context.Context, userID string, sitterID string) (*models.Favourite, error) {
	if strings.TrimSpace(sitterID) == "" {
		return nil, failure.BadRequest("sitter ID cannot be empty")
	}

	sitter, err := fs.identity.ResolveUser(ctx, sitterID)
	if err != nil {
		return nil, err
	}
	if sitter.UserType != models.RoleSitter {
		return nil, failure.NotFound("sitter")
	}

	fav, err := fs.favouritesRepo.AddToFavourites(ctx, userID, sitterID)
	if err != nil {
		return nil, failure.Internal(err)
	}
	return fav, nil
}

func (fs *FavouriteService) RemoveFromFavourites(ctx context.Context, userID string, sitterID string) error {
	if strings.TrimSpace(sitterID) == "" {
		return failure.BadRequest("sitter ID cannot be empty")
	}

	if err := fs.favouritesRepo.RemoveFromFavourites(ctx, userID, sitterID); err != nil {
		return failure.Internal(err)
	}
	return nil
}

func (fs *FavouriteService) GetFavouritesByUserID(ctx context.Context, userID string) (*models.Favourite, error) {
	fav, err := fs.favouritesRepo.GetFavouritesByUserID(ctx, userID)
	if err != nil {
		return nil, failure.Internal(err)
	}
	return fav, nil
}

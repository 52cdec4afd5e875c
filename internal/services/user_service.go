package services

import (
	"context"
	"strings"
	"time"

	"github.com/joshua-takyi/pawmates/internal/failure"
	"github.com/joshua-takyi/pawmates/internal/helpers"
	"github.com/joshua-takyi/pawmates/internal/models"
)

type UserService struct {
	userRepo  models.UserRepo
	identity  models.IdentityRepo
	jwtSecret string
}

func NewUserService(userRepo models.UserRepo, identity models.IdentityRepo, jwtSecret string) *UserService {
	return &UserService{
		userRepo:  userRepo,
		identity:  identity,
		jwtSecret: jwtSecret,
	}
}

type RegisterInput struct {
	Email      string               `json:"email" binding:"required,email"`
	Password   string               `json:"password" binding:"required,min=8"`
	UserType   models.Role          `json:"user_type" binding:"required,oneof=owner sitter"`
	FirstName  string               `json:"first_name,omitempty"`
	LastName   string               `json:"last_name,omitempty"`
	Phone      string               `json:"phone,omitempty"`
	Address    string               `json:"address,omitempty"`
	Bio        string               `json:"bio,omitempty"`
	Services   []models.ServiceType `json:"services,omitempty"`
	HourlyRate *float64             `json:"hourly_rate,omitempty"`
}

func (us *UserService) Register(ctx context.Context, in RegisterInput) (*models.Profile, error) {
	if in.UserType != models.RoleOwner && in.UserType != models.RoleSitter {
		return nil, failure.BadRequest("user_type must be owner or sitter")
	}
	if !helpers.IsPasswordStrong(in.Password) {
		return nil, failure.BadRequest("password is not strong enough")
	}
	for _, s := range in.Services {
		if !models.ValidServiceType(s) {
			return nil, failure.BadRequest("unsupported service type: " + string(s))
		}
	}
	if in.HourlyRate != nil && *in.HourlyRate <= 0 {
		return nil, failure.BadRequest("hourly_rate must be positive")
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, failure.Internal(err)
	}

	now := time.Now().UTC()
	user := &models.User{
		Email:          strings.ToLower(helpers.StringTrim(in.Email)),
		HashedPassword: hash,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	created, err := us.userRepo.CreateUser(ctx, user)
	if err != nil {
		return nil, err
	}

	profile := &models.Profile{
		UserID:    created.ID.Hex(),
		UserType:  in.UserType,
		FirstName: helpers.StringTrim(in.FirstName),
		LastName:  helpers.StringTrim(in.LastName),
		Phone:     helpers.StringTrim(in.Phone),
		Address:   helpers.StringTrim(in.Address),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if in.UserType == models.RoleSitter {
		profile.Bio = helpers.StringTrim(in.Bio)
		profile.Services = in.Services
		profile.HourlyRate = in.HourlyRate
	}

	savedProfile, err := us.userRepo.CreateProfile(ctx, profile)
	if err != nil {
		return nil, failure.Internal(err)
	}
	return savedProfile, nil
}

// Login verifies credentials and issues an access token carrying the user's
// resolved role.
func (us *UserService) Login(ctx context.Context, email, password string) (string, *models.Profile, error) {
	if err := models.Validate.Var(email, "required,email"); err != nil {
		return "", nil, failure.BadRequest("invalid email format")
	}

	user, err := us.userRepo.GetUserByEmail(ctx, strings.ToLower(helpers.StringTrim(email)))
	if err != nil {
		return "", nil, failure.Internal(err)
	}
	if user == nil || !helpers.CheckPassword(user.HashedPassword, password) {
		return "", nil, failure.Unauthorized("invalid email or password")
	}
	if !user.IsActive {
		return "", nil, failure.Forbidden("account is deactivated")
	}

	profile, err := us.identity.ResolveUser(ctx, user.ID.Hex())
	if err != nil {
		return "", nil, err
	}

	token, err := helpers.SignToken(us.jwtSecret, user.ID.Hex(), string(profile.UserType), user.Email)
	if err != nil {
		return "", nil, failure.Internal(err)
	}
	return token, profile, nil
}

func (us *UserService) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	return us.identity.ResolveUser(ctx, userID)
}

// profileUpdatableFields whitelists the client-editable profile keys.
var profileUpdatableFields = map[string]bool{
	"first_name":  true,
	"last_name":   true,
	"phone":       true,
	"address":     true,
	"avatar_url":  true,
	"bio":         true,
	"services":    true,
	"hourly_rate": true,
}

func (us *UserService) UpdateProfile(ctx context.Context, userID string, fields map[string]interface{}) (*models.Profile, error) {
	if len(fields) == 0 {
		return nil, failure.BadRequest("no fields to update")
	}
	for key := range fields {
		if !profileUpdatableFields[key] {
			return nil, failure.BadRequest("field cannot be updated: " + key)
		}
	}
	updated, err := us.userRepo.UpdateProfile(ctx, userID, fields)
	if err != nil {
		if failure.GetKind(err) == failure.KindNotFound {
			return nil, err
		}
		return nil, failure.Internal(err)
	}
	return updated, nil
}

func (us *UserService) GetSitter(ctx context.Context, sitterID string) (*models.Profile, error) {
	profile, err := us.identity.ResolveUser(ctx, sitterID)
	if err != nil {
		return nil, err
	}
	if profile.UserType != models.RoleSitter {
		return nil, failure.NotFound("sitter")
	}
	return profile, nil
}

func (us *UserService) ListSitters(ctx context.Context, service models.ServiceType, offset, limit int) ([]*models.Profile, int, error) {
	if offset < 0 || limit <= 0 {
		return nil, 0, failure.BadRequest("invalid offset or limit")
	}
	if service != "" && !models.ValidServiceType(service) {
		return nil, 0, failure.BadRequest("unsupported service type: " + string(service))
	}
	sitters, total, err := us.userRepo.ListSitters(ctx, service, offset, limit)
	if err != nil {
		return nil, 0, failure.Internal(err)
	}
	return sitters, total, nil
}

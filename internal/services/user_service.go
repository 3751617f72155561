package services

import (
	"context"
	"errors"
	"strings"

	"github.com/joshua-takyi/estate/internal/apperrors"
	"github.com/joshua-takyi/estate/internal/helpers"
	"github.com/joshua-takyi/estate/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserService struct {
	userRepo models.UserRepo
	listings *ListingService
}

func NewUserService(userRepo models.UserRepo, listings *ListingService) *UserService {
	return &UserService{
		userRepo: userRepo,
		listings: listings,
	}
}

func (us *UserService) GetPublicProfile(ctx context.Context, id primitive.ObjectID) (*models.PublicProfile, error) {
	user, err := us.userRepo.GetUserByID(ctx, id)
	if err != nil {
		return nil, storeError("user", err)
	}
	return user.Public(), nil
}

// GetProfile returns the whole account to its owner and the public subset to
// everybody else. requesterID is zero for anonymous callers.
func (us *UserService) GetProfile(ctx context.Context, requesterID, id primitive.ObjectID) (any, error) {
	user, err := us.userRepo.GetUserByID(ctx, id)
	if err != nil {
		return nil, storeError("user", err)
	}
	if !requesterID.IsZero() && requesterID == id {
		return user, nil
	}
	return user.Public(), nil
}

func (us *UserService) UpdateProfile(ctx context.Context, requesterID, id primitive.ObjectID, req *models.ProfileUpdateRequest) (*models.User, error) {
	if requesterID != id {
		return nil, apperrors.Forbidden("you can only update your own account")
	}

	if req.Username != nil {
		v := strings.TrimSpace(*req.Username)
		req.Username = &v
	}
	if req.Email != nil {
		v := helpers.NormalizeEmail(*req.Email)
		req.Email = &v
	}
	if req.Empty() {
		return nil, apperrors.InvalidInput("nothing to update", nil)
	}
	if err := models.Validate.Struct(req); err != nil {
		return nil, invalidInput(err)
	}

	if err := us.checkIdentityFree(ctx, id, req.Username, req.Email); err != nil {
		return nil, err
	}

	update := models.UserUpdate{
		Username: req.Username,
		Email:    req.Email,
		Avatar:   req.Avatar,
	}
	if req.Password != nil {
		hash, err := helpers.HashPassword(*req.Password)
		if err != nil {
			return nil, apperrors.Internal("failed to secure password", err)
		}
		update.Password = &hash
	}

	user, err := us.userRepo.UpdateUser(ctx, id, update)
	if err != nil {
		return nil, storeError("user", err)
	}
	return user, nil
}

func (us *UserService) checkIdentityFree(ctx context.Context, id primitive.ObjectID, username, email *string) error {
	if username == nil && email == nil {
		return nil
	}
	var u, e string
	if username != nil {
		u = *username
	}
	if email != nil {
		e = *email
	}

	other, err := us.userRepo.FindUserByUsernameOrEmail(ctx, u, e)
	switch {
	case errors.Is(err, models.ErrUserNotFound):
		return nil
	case err != nil:
		return storeError("user", err)
	case other.ID == id:
		return nil
	case username != nil && other.Username == u:
		return apperrors.DuplicateIdentity("username already taken")
	}
	return apperrors.DuplicateIdentity("email already registered")
}

// DeleteAccount removes the user's listings first, then the user.
func (us *UserService) DeleteAccount(ctx context.Context, requesterID, id primitive.ObjectID) error {
	if requesterID != id {
		return apperrors.Forbidden("you can only delete your own account")
	}
	if _, err := us.userRepo.GetUserByID(ctx, id); err != nil {
		return storeError("user", err)
	}

	if _, err := us.listings.DeleteAllByOwner(ctx, id); err != nil {
		return err
	}
	if err := us.userRepo.DeleteUser(ctx, id); err != nil {
		return storeError("user", err)
	}
	return nil
}

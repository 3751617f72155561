package services

import (
	"errors"
	"fmt"

	"github.com/joshua-takyi/estate/internal/apperrors"
	"github.com/joshua-takyi/estate/internal/helpers"
	"github.com/joshua-takyi/estate/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func invalidInput(err error) error {
	if errors.Is(err, models.ErrDiscountAboveRegular) {
		return apperrors.InvalidInput(err.Error(), err)
	}
	return apperrors.InvalidInput(helpers.ValidationMessage(err), err)
}

// storeError classifies a repository failure. Missing documents become
// NotFound for the named resource; anything else is internal.
func storeError(resource string, err error) error {
	switch {
	case errors.Is(err, models.ErrUserNotFound), errors.Is(err, models.ErrListingNotFound):
		return apperrors.NotFound(resource, err)
	case errors.Is(err, models.ErrDuplicateKey):
		return apperrors.DuplicateIdentity("username or email already in use")
	}
	return apperrors.Internal(fmt.Sprintf("%s store failure", resource), err)
}

// ParseID turns a client supplied id into an ObjectID.
func ParseID(resource, id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(helpers.StringTrim(id))
	if err != nil {
		return primitive.NilObjectID, apperrors.InvalidInput(fmt.Sprintf("invalid %s id", resource), err)
	}
	return oid, nil
}

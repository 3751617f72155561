package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/estate/internal/apperrors"
	"github.com/joshua-takyi/estate/internal/middleware"
	"github.com/joshua-takyi/estate/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// requester returns the id of the signed-in user.
func requester(c *gin.Context) (primitive.ObjectID, error) {
	claims, ok := middleware.CurrentUser(c)
	if !ok {
		return primitive.NilObjectID, apperrors.Unauthenticated("authentication required", nil)
	}
	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return primitive.NilObjectID, apperrors.Unauthenticated("invalid session", err)
	}
	return id, nil
}

// optionalRequester is like requester but yields the zero id for anonymous
// callers.
func optionalRequester(c *gin.Context) primitive.ObjectID {
	id, err := requester(c)
	if err != nil {
		return primitive.NilObjectID
	}
	return id
}

func bindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return apperrors.InvalidInput(fmt.Sprintf("%s must be %s, got %s", typeErr.Field, jsonKind(typeErr.Type), typeErr.Value), err)
		}
		return apperrors.InvalidInput("invalid request body", err)
	}
	return nil
}

func jsonKind(t reflect.Type) string {
	if t == nil {
		return "a valid value"
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "a whole number"
	case reflect.Float32, reflect.Float64:
		return "a number"
	case reflect.Bool:
		return "true or false"
	case reflect.String:
		return "a string"
	case reflect.Slice, reflect.Array:
		return "a list"
	}
	return "an object"
}

func setSessionCookie(c *gin.Context, token string, ttl time.Duration, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(services.SessionCookie, token, int(ttl.Seconds()), "/", "", secure, true)
}

func clearSessionCookie(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(services.SessionCookie, "", -1, "/", "", secure, true)
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/estate/internal/models"
	"github.com/joshua-takyi/estate/internal/services"
)

// GetUser returns the full profile to its owner and the public one to
// everybody else.
func GetUser(us *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := services.ParseID("user", c.Param("id"))
		if err != nil {
			_ = c.Error(err)
			return
		}

		profile, err := us.GetProfile(c.Request.Context(), optionalRequester(c), id)
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(http.StatusOK, profile, ""))
	}
}

func UpdateUser(us *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		requesterID, err := requester(c)
		if err != nil {
			_ = c.Error(err)
			return
		}
		id, err := services.ParseID("user", c.Param("id"))
		if err != nil {
			_ = c.Error(err)
			return
		}

		var req models.ProfileUpdateRequest
		if err := bindJSON(c, &req); err != nil {
			_ = c.Error(err)
			return
		}

		user, err := us.UpdateProfile(c.Request.Context(), requesterID, id, &req)
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(http.StatusOK, user, "Profile updated successfully"))
	}
}

// DeleteUser removes the account with all its listings and signs the user out.
func DeleteUser(us *services.UserService, secureCookie bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		requesterID, err := requester(c)
		if err != nil {
			_ = c.Error(err)
			return
		}
		id, err := services.ParseID("user", c.Param("id"))
		if err != nil {
			_ = c.Error(err)
			return
		}

		if err := us.DeleteAccount(c.Request.Context(), requesterID, id); err != nil {
			_ = c.Error(err)
			return
		}

		clearSessionCookie(c, secureCookie)
		c.JSON(http.StatusOK, models.SuccessResponse(http.StatusOK, nil, "User has been deleted!"))
	}
}

func GetUserListings(ls *services.ListingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		requesterID, err := requester(c)
		if err != nil {
			_ = c.Error(err)
			return
		}
		ownerID, err := services.ParseID("user", c.Param("id"))
		if err != nil {
			_ = c.Error(err)
			return
		}

		listings, err := ls.ListByOwner(c.Request.Context(), requesterID, ownerID)
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(http.StatusOK, listings, ""))
	}
}

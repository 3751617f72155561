package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/estate/internal/models"
	"github.com/joshua-takyi/estate/internal/services"
)

func Register(as *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.SignupRequest
		if err := bindJSON(c, &req); err != nil {
			_ = c.Error(err)
			return
		}

		user, err := as.Register(c.Request.Context(), &req)
		if err != nil {
			_ = c.Error(err)
			return
		}

		c.JSON(http.StatusCreated, models.SuccessResponse(http.StatusCreated,
			gin.H{"userId": user.ID.Hex()}, "User created successfully"))
	}
}

// Login sets the session cookie and returns the account without its
// password hash.
func Login(as *services.AuthService, secureCookie bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.LoginRequest
		if err := bindJSON(c, &req); err != nil {
			_ = c.Error(err)
			return
		}

		session, err := as.Login(c.Request.Context(), &req)
		if err != nil {
			_ = c.Error(err)
			return
		}

		setSessionCookie(c, session.Token, as.SessionTTL(), secureCookie)
		c.JSON(http.StatusOK, models.SuccessResponse(http.StatusOK, session.User, "Logged in successfully"))
	}
}

func Logout(secureCookie bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		clearSessionCookie(c, secureCookie)
		c.JSON(http.StatusOK, models.SuccessResponse(http.StatusOK, nil, "User has been logged out!"))
	}
}

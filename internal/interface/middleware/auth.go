package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/LewisCM14/allotment-sub001/internal/apperrors"
	"github.com/LewisCM14/allotment-sub001/internal/application"
	"github.com/LewisCM14/allotment-sub001/pkg/response"
)

// Auth validates the bearer access token on the Authorization header and
// loads the authenticated user. It sets userID and userEmail in the Gin
// context on success. Expired and malformed tokens get the same 401 shape,
// only the message differs; a valid token for a deleted account is a 404.
func Auth(auth *application.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := auth.ResolveIdentity(c.Request.Context(), c.GetHeader("Authorization"))
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrExpiredToken):
				response.Error(c, http.StatusUnauthorized, "access token expired", nil)
			case errors.Is(err, apperrors.ErrUserNotFound):
				response.Error(c, http.StatusNotFound, "account not found", nil)
			default:
				response.Error(c, http.StatusUnauthorized, "invalid access token", nil)
			}
			c.Abort()
			return
		}
		c.Set("userID", u.ID)
		c.Set("userEmail", u.Email)
		c.Next()
	}
}

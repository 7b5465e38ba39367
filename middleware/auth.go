package middleware

import (
	"errors"

	"storefront-service/apperrors"
	"storefront-service/models"
	"storefront-service/repository"
	"storefront-service/services"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Cookie names for the credential pair.
const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)

const userContextKey = "currentUser"

// Protect validates the access-token cookie and attaches the resolved user
// to the request context. An expired token is reported distinctly so the
// client knows to call refresh rather than re-authenticate.
func Protect(tokens *services.TokenService, users repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		accessToken, err := c.Cookie(AccessTokenCookie)
		if err != nil || accessToken == "" {
			apperrors.Abort(c, apperrors.WithMessage(apperrors.ErrUnauthorized, "Unauthorized - no token found"))
			return
		}

		userID, err := tokens.ValidateAccess(accessToken)
		if err != nil {
			apperrors.Abort(c, err)
			return
		}

		oid, err := primitive.ObjectIDFromHex(userID)
		if err != nil {
			apperrors.Abort(c, apperrors.ErrInvalidToken)
			return
		}

		user, err := users.FindByID(c.Request.Context(), oid)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				apperrors.Abort(c, apperrors.WithMessage(apperrors.ErrUnauthorized, "User not found"))
				return
			}
			apperrors.Abort(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

// AdminOnly allows only users with the admin role past. Must run after
// Protect.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || user.Role != models.RoleAdmin {
			apperrors.Abort(c, apperrors.ErrForbidden)
			return
		}
		c.Next()
	}
}

// CurrentUser returns the user attached by Protect, or nil.
func CurrentUser(c *gin.Context) *models.User {
	val, exists := c.Get(userContextKey)
	if !exists {
		return nil
	}
	user, ok := val.(*models.User)
	if !ok {
		return nil
	}
	return user
}

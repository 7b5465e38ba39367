package controllers

import (
	"errors"
	"net/http"

	"storefront-service/apperrors"
	"storefront-service/logger"
	"storefront-service/middleware"
	"storefront-service/models"
	"storefront-service/repository"
	"storefront-service/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthController handles signup, login, logout and access-token refresh.
type AuthController struct {
	users         repository.UserRepository
	tokens        *services.TokenService
	secureCookies bool
}

// NewAuthController creates a new AuthController. secureCookies should be
// true in production so credentials only travel over HTTPS.
func NewAuthController(users repository.UserRepository, tokens *services.TokenService, secureCookies bool) *AuthController {
	return &AuthController{users: users, tokens: tokens, secureCookies: secureCookies}
}

// Signup registers a new customer account and signs it in.
func (ac *AuthController) Signup(c *gin.Context) {
	var req models.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.WithMessage(apperrors.ErrValidation, "Invalid JSON body"))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		apperrors.Respond(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	user := &models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashed),
		Role:     models.RoleCustomer,
	}
	if err := ac.users.Create(c.Request.Context(), user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			apperrors.Respond(c, apperrors.ErrEmailTaken)
			return
		}
		logger.Error(c, "Failed to create user", err)
		apperrors.Respond(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	if err := ac.issueSession(c, user); err != nil {
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"user":    user.Public(),
		"message": "User created successfully",
	})
}

// Login authenticates an existing account and sets fresh credential cookies.
func (ac *AuthController) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.WithMessage(apperrors.ErrValidation, "Invalid JSON body"))
		return
	}

	user, err := ac.users.FindByEmail(c.Request.Context(), req.Email)
	if err != nil {
		// Same response for unknown email and wrong password.
		apperrors.Respond(c, apperrors.ErrInvalidCredentials)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		apperrors.Respond(c, apperrors.ErrInvalidCredentials)
		return
	}

	if err := ac.issueSession(c, user); err != nil {
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user.Public(), "message": "Logged in successfully"})
}

// Logout revokes the stored refresh token and clears both cookies.
func (ac *AuthController) Logout(c *gin.Context) {
	if refreshToken, err := c.Cookie(middleware.RefreshTokenCookie); err == nil && refreshToken != "" {
		if userID, err := ac.tokens.UserIDFromRefresh(refreshToken); err == nil {
			if err := ac.tokens.Revoke(c.Request.Context(), userID); err != nil {
				logger.Warn(c, "Failed to revoke refresh token", zap.Error(err))
			}
		}
	}

	ac.clearCookie(c, middleware.AccessTokenCookie)
	ac.clearCookie(c, middleware.RefreshTokenCookie)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// RefreshToken mints a new access token from a valid refresh cookie. The
// refresh token itself is not rotated.
func (ac *AuthController) RefreshToken(c *gin.Context) {
	refreshToken, err := c.Cookie(middleware.RefreshTokenCookie)
	if err != nil || refreshToken == "" {
		apperrors.Respond(c, apperrors.WithMessage(apperrors.ErrUnauthorized, "No refresh token provided"))
		return
	}

	accessToken, _, err := ac.tokens.RefreshAccess(c.Request.Context(), refreshToken)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	ac.setCookie(c, middleware.AccessTokenCookie, accessToken, int(services.AccessTokenTTL.Seconds()))
	c.JSON(http.StatusCreated, gin.H{"message": "Access token refreshed"})
}

// issueSession mints a token pair and sets both cookies. On failure it has
// already written the error response.
func (ac *AuthController) issueSession(c *gin.Context, user *models.User) error {
	pair, err := ac.tokens.IssueTokens(c.Request.Context(), user.ID.Hex())
	if err != nil {
		logger.Error(c, "Failed to issue tokens", err)
		apperrors.Respond(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return err
	}
	ac.setCookie(c, middleware.AccessTokenCookie, pair.AccessToken, int(services.AccessTokenTTL.Seconds()))
	ac.setCookie(c, middleware.RefreshTokenCookie, pair.RefreshToken, int(services.RefreshTokenTTL.Seconds()))
	return nil
}

func (ac *AuthController) setCookie(c *gin.Context, name, value string, maxAge int) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(name, value, maxAge, "/", "", ac.secureCookies, true)
}

func (ac *AuthController) clearCookie(c *gin.Context, name string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(name, "", -1, "/", "", ac.secureCookies, true)
}

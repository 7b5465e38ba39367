package apperrors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error represents an application error with the HTTP status it maps to.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`

	template *Error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is this error or the template it was derived
// from, so errors.Is matches through Wrap and WithMessage.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e == t || e.template == t
}

// New creates a new Error
func New(code int, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Wrap attaches an underlying cause to a template error without mutating it.
func Wrap(template *Error, err error) *Error {
	return &Error{Code: template.Code, Message: template.Message, Err: err, template: template}
}

// WithMessage keeps a template's status code but replaces its message.
func WithMessage(template *Error, message string) *Error {
	return &Error{Code: template.Code, Message: message, template: template}
}

// Common error types
var (
	ErrValidation     = New(http.StatusBadRequest, "Invalid input", nil)
	ErrUnauthorized   = New(http.StatusUnauthorized, "Unauthorized", nil)
	ErrForbidden      = New(http.StatusForbidden, "Access denied - admin only", nil)
	ErrNotFound       = New(http.StatusNotFound, "Not found", nil)
	ErrInternalServer = New(http.StatusInternalServerError, "Internal server error", nil)
)

// Authentication error types
var (
	ErrInvalidCredentials = New(http.StatusBadRequest, "Invalid credentials", nil)
	ErrTokenExpired       = New(http.StatusUnauthorized, "Access token expired", nil)
	ErrInvalidToken       = New(http.StatusUnauthorized, "Invalid token", nil)
)

// Business logic error types
var (
	ErrEmailTaken          = New(http.StatusBadRequest, "User already exists", nil)
	ErrCouponNotFound      = New(http.StatusNotFound, "Coupon not found", nil)
	ErrCouponExpired       = New(http.StatusNotFound, "Coupon expired", nil)
	ErrPaymentVerification = New(http.StatusBadRequest, "Payment verification failed", nil)
	ErrDuplicateOrder      = New(http.StatusConflict, "Order already recorded for this payment", nil)
	ErrUpstream            = New(http.StatusInternalServerError, "Upstream service error", nil)
)

// Respond writes err as a JSON response. Unrecognized errors surface as a
// generic 500.
func Respond(c *gin.Context, err error) {
	var appErr *Error
	if !errors.As(err, &appErr) {
		appErr = Wrap(ErrInternalServer, err)
	}
	c.JSON(appErr.Code, gin.H{"message": appErr.Message})
}

// Abort writes err and stops the handler chain, for use in middleware.
func Abort(c *gin.Context, err error) {
	Respond(c, err)
	c.Abort()
}

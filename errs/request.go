package errs

import (
	"errors"
	"net/http"
)

// Authentication & Authorization Errors
var (
	ErrMissingToken     = errors.New("missing access token")
	ErrExpiredToken     = errors.New("expired access token")
	ErrInvalidToken     = errors.New("invalid access token")
	ErrRevokedToken     = errors.New("revoked access token")
	ErrInsufficientRole = errors.New("insufficient role")
	ErrBadCredentials   = errors.New("invalid credentials")
)

// Authentication & Authorization Error Constructors
func NewMissingTokenError() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnauthorized,
		err:        ErrMissingToken,
		Message:    "Access denied. No token provided.",
		Field:      "authorization",
	}
}

func NewExpiredTokenError() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnauthorized,
		err:        ErrExpiredToken,
		Message:    "Invalid token",
		Details:    "Access token has expired",
		Field:      "authorization",
	}
}

func NewInvalidTokenError() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnauthorized,
		err:        ErrInvalidToken,
		Message:    "Invalid token",
		Field:      "authorization",
	}
}

func NewRevokedTokenError() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnauthorized,
		err:        ErrRevokedToken,
		Message:    "Invalid token",
		Details:    "Access token has been revoked",
		Field:      "authorization",
	}
}

func NewInsufficientRoleError(message string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusForbidden,
		err:        ErrInsufficientRole,
		Message:    message,
		Field:      "authorization",
	}
}

// NewBadCredentialsError is returned for both unknown emails and wrong
// passwords so callers cannot tell which one failed.
func NewBadCredentialsError() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnauthorized,
		err:        ErrBadCredentials,
		Message:    "Invalid credentials",
	}
}

func IsExpiredTokenError(err error) bool {
	return errors.Is(err, ErrExpiredToken)
}

func IsInvalidTokenError(err error) bool {
	return errors.Is(err, ErrInvalidToken)
}


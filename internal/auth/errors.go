package auth

import "errors"

var (
	ErrDuplicateAccount  = errors.New("auth: email already registered")
	ErrAccountNotFound   = errors.New("auth: account not found")
	ErrInvalidCredential = errors.New("auth: invalid credential")
	ErrNotAuthenticated  = errors.New("auth: not authenticated")
	ErrPasswordTooLong   = errors.New("auth: password longer than 72 bytes")
)

// Message is the user-facing text for err.
func Message(err error) string {
	switch {
	case errors.Is(err, ErrDuplicateAccount):
		return "An account with this email already exists"
	case errors.Is(err, ErrAccountNotFound):
		return "No account found with this email address"
	case errors.Is(err, ErrInvalidCredential):
		return "Invalid password"
	case errors.Is(err, ErrNotAuthenticated):
		return "Not authenticated"
	case errors.Is(err, ErrPasswordTooLong):
		return "Password must be at most 72 characters"
	}
	return "Something went wrong, please try again"
}

// failureLabel names err for metrics.
func failureLabel(err error) string {
	switch {
	case errors.Is(err, ErrDuplicateAccount):
		return "duplicate_account"
	case errors.Is(err, ErrAccountNotFound):
		return "account_not_found"
	case errors.Is(err, ErrInvalidCredential):
		return "invalid_credential"
	case errors.Is(err, ErrNotAuthenticated):
		return "not_authenticated"
	case errors.Is(err, ErrPasswordTooLong):
		return "password_too_long"
	}
	return "error"
}

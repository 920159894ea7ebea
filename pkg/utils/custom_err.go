package utils

import "errors"

var (
	ErrInvalidPage     = errors.New("invalid page parameter")
	ErrInvalidPageSize = errors.New("invalid page size parameter")
	ErrDatabaseError   = errors.New("database error")
	ErrRecordNotFound  = errors.New("record not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrInvalidSort     = errors.New("unsupported sort column")

	ErrInvalidCredentials       = errors.New("invalid login credentials")
	ErrEmailNotConfirmed        = errors.New("email not confirmed")
	ErrEmailAlreadyExists       = errors.New("email already registered")
	ErrWeakPassword             = errors.New("password must be at least 6 characters")
	ErrInvalidConfirmationToken = errors.New("invalid or expired confirmation token")
	ErrNoPendingVerification    = errors.New("no pending email verification")
	ErrUnauthorized             = errors.New("not authenticated")
	ErrDemoDisabled             = errors.New("demo mode is disabled")
	ErrDemoReadOnly             = errors.New("not available in demo mode")
	ErrSubscriptionRequired     = errors.New("active subscription required")

	ErrMissingAPIKey       = errors.New("ai api key not configured")
	ErrUnsupportedProvider = errors.New("unsupported ai provider")
	ErrEmptyAIResponse     = errors.New("ai provider returned no content")

	ErrPlanNotFound       = errors.New("plan not found")
	ErrCheckoutNotSetup   = errors.New("checkout url not configured for plan")
	ErrInvalidSignature   = errors.New("invalid webhook signature")
	ErrUnknownTransaction = errors.New("unknown transaction")
	ErrAlreadyFree        = errors.New("no paid subscription to cancel")
)

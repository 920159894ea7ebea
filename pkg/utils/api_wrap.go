package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"redcreativa/internal/logger"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	RespondWithStatus(c, http.StatusOK, data, message)
}

func RespondWithStatus(c *gin.Context, code int, data interface{}, message string) {
	c.JSON(code, APIResponse{
		Status:  "success",
		Code:    code,
		Message: message,
		TraceID: c.GetString("trace_id"),
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: c.GetString("trace_id"),
	})
}

type errorMapping struct {
	err     error
	code    int
	message string
}

// Ordered: the first match wins.
var serviceErrors = []errorMapping{
	{ErrRecordNotFound, http.StatusNotFound, "Not found"},
	{ErrPlanNotFound, http.StatusNotFound, "Plan not found"},
	{ErrUnknownTransaction, http.StatusNotFound, "Transaction not found"},
	{ErrInvalidPage, http.StatusBadRequest, "Page must be greater than 0"},
	{ErrInvalidPageSize, http.StatusBadRequest, "Page size must be between 1 and 100"},
	{ErrInvalidSort, http.StatusBadRequest, "Unsupported sort column"},
	{ErrWeakPassword, http.StatusBadRequest, "Password must be at least 6 characters"},
	{ErrInvalidConfirmationToken, http.StatusBadRequest, "Confirmation link is invalid or has expired"},
	{ErrNoPendingVerification, http.StatusBadRequest, "There is no pending email verification"},
	{ErrMissingAPIKey, http.StatusBadRequest, "Configure an AI API key first"},
	{ErrUnsupportedProvider, http.StatusBadRequest, "Unsupported AI provider"},
	{ErrAlreadyFree, http.StatusBadRequest, "There is no paid subscription to cancel"},
	{ErrInvalidSignature, http.StatusBadRequest, "Invalid signature"},
	{ErrInvalidCredentials, http.StatusUnauthorized, "Invalid email or password"},
	{ErrEmailNotConfirmed, http.StatusUnauthorized, "Please confirm your email before signing in"},
	{ErrUnauthorized, http.StatusUnauthorized, "Authentication required"},
	{ErrDemoDisabled, http.StatusForbidden, "Demo mode is disabled"},
	{ErrDemoReadOnly, http.StatusForbidden, "Not available in demo mode"},
	{ErrSubscriptionRequired, http.StatusPaymentRequired, "An active subscription is required"},
	{ErrEmailAlreadyExists, http.StatusConflict, "Email is already registered"},
	{ErrCheckoutNotSetup, http.StatusServiceUnavailable, "Checkout is not available for this plan"},
	{ErrEmptyAIResponse, http.StatusBadGateway, "The AI provider returned an empty response"},
}

func HandleServiceError(c *gin.Context, err error) {
	if errors.Is(err, ErrInvalidInput) {
		RespondError(c, http.StatusBadRequest, err.Error())
		return
	}
	for _, m := range serviceErrors {
		if errors.Is(err, m.err) {
			RespondError(c, m.code, m.message)
			return
		}
	}

	logger.Error("unhandled service error",
		zap.String("trace_id", c.GetString("trace_id")),
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	RespondError(c, http.StatusInternalServerError, "Internal server error")
}

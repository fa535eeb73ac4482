package utils

import (
	"log"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func traceID(c *gin.Context) string {
	if v, ok := c.Get("trace_id"); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: message,
		TraceID: traceID(c),
		Data:    data,
	})
}

func RespondCreated(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusCreated, APIResponse{
		Status:  "success",
		Code:    http.StatusCreated,
		Message: message,
		TraceID: traceID(c),
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: traceID(c),
	})
}

// HandleServiceError maps service sentinel errors onto HTTP status codes.
// Gateway unavailability is kept distinct from a genuine payment decline:
// the former is a 5xx, the latter is regular flow handled by the caller.
func HandleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		RespondError(c, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, ErrActiveSubscriptionExists):
		RespondError(c, http.StatusBadRequest, ErrActiveSubscriptionExists.Error())
	case errors.Is(err, ErrPlanNotFound),
		errors.Is(err, ErrProviderNotFound),
		errors.Is(err, ErrPaymentNotFound),
		errors.Is(err, ErrTransactionNotFound),
		errors.Is(err, ErrSubscriptionNotFound):
		RespondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalidCredentials):
		RespondError(c, http.StatusUnauthorized, ErrInvalidCredentials.Error())
	case errors.Is(err, ErrEmailAlreadyExists):
		RespondError(c, http.StatusConflict, ErrEmailAlreadyExists.Error())
	case errors.Is(err, ErrGatewayUnavailable):
		RespondError(c, http.StatusInternalServerError, ErrGatewayUnavailable.Error())
	case errors.Is(err, ErrVerificationUndetermined):
		RespondError(c, http.StatusBadGateway, ErrVerificationUndetermined.Error())
	default:
		log.Printf("unhandled service error: %v", err)
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	}
}

package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/smartclinic/booking-api/pkg/errors"
)

type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Status: "success",
		Data:   data,
	}
}

func NewErrorResponse(message string) *Response {
	return &Response{
		Status:  "error",
		Message: message,
	}
}

// statusOf maps domain error kinds onto HTTP statuses. This is the
// only place transport learns about error codes.
func statusOf(code apperrors.ErrorCode) int {
	switch code {
	case apperrors.ErrUnauthorized, apperrors.ErrInvalidToken, apperrors.ErrUnknownIdentity:
		return http.StatusUnauthorized
	case apperrors.ErrForbidden:
		return http.StatusForbidden
	case apperrors.ErrNotFound, apperrors.ErrDoctorNotFound:
		return http.StatusNotFound
	case apperrors.ErrSlotUnavailable, apperrors.ErrConflict:
		return http.StatusConflict
	case apperrors.ErrBadRequest, apperrors.ErrInvalidTime:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// RespondError writes the typed error as JSON with the right status.
// Wrapped collaborator errors never reach the client.
func RespondError(c *gin.Context, err error) {
	status := statusOf(apperrors.CodeOf(err))

	message := "internal server error"
	var appErr *apperrors.AppError
	if status != http.StatusInternalServerError && errors.As(err, &appErr) {
		message = appErr.Message
	}
	c.JSON(status, NewErrorResponse(message))
}

package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Conflict(c *gin.Context, code, message string) {
	Write(c, http.StatusConflict, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

// StatusFor maps a business code to its HTTP status. Unknown codes are 400.
func StatusFor(code string) int {
	switch code {
	case CodeSalonNotFound, CodeProfessionalNotFound, CodeServiceNotFound,
		CodeAppointmentNotFound, CodeClosureNotFound:
		return http.StatusNotFound
	case CodeSlotUnavailable, CodeInvalidState:
		return http.StatusConflict
	case CodePolicyViolation:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}

var messages = map[string]string{
	CodeInvalidInput:         "invalid input",
	CodeSalonNotFound:        "salon not found",
	CodeProfessionalNotFound: "professional not found",
	CodeServiceNotFound:      "service not found",
	CodeSlotUnavailable:      "slot unavailable",
	CodePolicyViolation:      "requested time violates booking policy",
	CodeAppointmentNotFound:  "appointment not found",
	CodeInvalidState:         "appointment cannot change to this state",
	CodeClosureNotFound:      "closure not found",
}

// WriteBusiness renders err when it is a BusinessError and reports whether it did.
func WriteBusiness(c *gin.Context, err error) bool {
	be, ok := AsBusiness(err)
	if !ok {
		return false
	}

	msg := be.Detail
	if msg == "" {
		msg = messages[be.Code]
	}
	if msg == "" {
		msg = be.Code
	}

	Write(c, StatusFor(be.Code), be.Code, msg)
	return true
}

package httperr

import (
	"errors"
	"fmt"
)

const (
	CodeInvalidInput         = "invalid_input"
	CodeSalonNotFound        = "salon_not_found"
	CodeProfessionalNotFound = "professional_not_found"
	CodeServiceNotFound      = "service_not_found"
	CodeSlotUnavailable      = "slot_unavailable"
	CodePolicyViolation      = "policy_violation"
	CodeAppointmentNotFound  = "appointment_not_found"
	CodeInvalidState         = "invalid_state"
	CodeClosureNotFound      = "closure_not_found"
)

type BusinessError struct {
	Code   string
	Detail string
}

func (e BusinessError) Error() string {
	if e.Detail == "" {
		return e.Code
	}
	return e.Code + ": " + e.Detail
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func ErrBusinessf(code, format string, args ...any) error {
	return BusinessError{Code: code, Detail: fmt.Sprintf(format, args...)}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// AsBusiness unwraps the first BusinessError in err's chain.
func AsBusiness(err error) (BusinessError, bool) {
	var be BusinessError
	ok := errors.As(err, &be)
	return be, ok
}

package control

import (
	"errors"

	"github.com/Alia5/pawd/apitypes"
	"github.com/Alia5/pawd/motion"
)

// Factory helpers returning *apitypes.ApiError (single canonical error type).
func ErrBadRequest(detail string) *apitypes.ApiError {
	return &apitypes.ApiError{Status: 400, Title: "Bad Request", Detail: detail}
}
func ErrUnauthorized(detail string) *apitypes.ApiError {
	return &apitypes.ApiError{Status: 401, Title: "Unauthorized", Detail: detail}
}
func ErrNotFound(detail string) *apitypes.ApiError {
	return &apitypes.ApiError{Status: 404, Title: "Not Found", Detail: detail}
}
func ErrConflict(detail string) *apitypes.ApiError {
	return &apitypes.ApiError{Status: 409, Title: "Conflict", Detail: detail}
}
func ErrInternal(detail string) *apitypes.ApiError {
	return &apitypes.ApiError{Status: 500, Title: "Internal Server Error", Detail: detail}
}
func ErrUnavailable(detail string) *apitypes.ApiError {
	return &apitypes.ApiError{Status: 503, Title: "Service Unavailable", Detail: detail}
}

// WrapError normalizes any error into *apitypes.ApiError. Device state
// errors map onto their matching status.
func WrapError(err error) *apitypes.ApiError {
	if err == nil {
		return nil
	}
	var ae *apitypes.ApiError
	if errors.As(err, &ae) {
		return ae
	}
	switch {
	case errors.Is(err, motion.ErrUnknownDevice):
		return ErrNotFound(err.Error())
	case errors.Is(err, motion.ErrNotApplicable):
		return ErrConflict(err.Error())
	case errors.Is(err, motion.ErrNotReady):
		return ErrUnavailable(err.Error())
	case errors.Is(err, motion.ErrUnknownToggle), errors.Is(err, motion.ErrUnknownMode):
		return ErrBadRequest(err.Error())
	}
	return ErrInternal(err.Error())
}

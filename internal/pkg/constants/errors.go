package constants

import "net/http"

type CodedError struct {
	msg  string
	code int
}

func NewCodedError(msg string, code int) *CodedError {
	return &CodedError{msg: msg, code: code}
}

func (e *CodedError) Error() string {
	return e.msg
}

func (e *CodedError) Code() int {
	return e.code
}

var (
	ErrDBNotFound         = NewCodedError("not found", http.StatusNotFound)
	ErrUnauthorized       = NewCodedError("unauthorized", http.StatusUnauthorized)
	ErrInvalidFilter      = NewCodedError("invalid submission filter", http.StatusBadRequest)
	ErrUnknownRangeCode   = NewCodedError("unknown date range code", http.StatusBadRequest)
	ErrUnknownAnswerType  = NewCodedError("unknown poll answer type", http.StatusNotFound)
	ErrInvalidPhoneNumber = NewCodedError("invalid phone number", http.StatusBadRequest)
	ErrInvalidParam       = NewCodedError("invalid parameter", http.StatusBadRequest)

	// ErrDistrictNotRecognized is shown to the SMS sender as is.
	ErrDistrictNotRecognized = NewCodedError(
		"We didn't recognize your district.  Please carefully type the name of your district and re-send.",
		http.StatusUnprocessableEntity,
	)
)

// Package httperr carries business error codes from use cases to the
// HTTP layer and writes the JSON error envelope.
package httperr

import "errors"

// BusinessError is an expected failure named by a snake_case code,
// e.g. "ticket_not_found". Handlers pick the status from the code.
type BusinessError struct {
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

// CodeOf returns the business code wrapped anywhere in err.
func CodeOf(err error) (string, bool) {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code, true
	}
	return "", false
}

func IsBusiness(err error, code string) bool {
	got, ok := CodeOf(err)
	return ok && got == code
}

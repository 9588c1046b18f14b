package signer

import (
	"errors"
	"fmt"

	"github.com/aws/smithy-go"
)

// SigningError indicates the provider rejected a signing request, e.g. for a
// malformed parameter or missing permission. It is terminal for the current
// operation; there is no retry.
type SigningError struct {
	Code    string
	Message string
	Err     error
}

func (e *SigningError) Error() string {
	return fmt.Sprintf("signing failed: %s - %s", e.Code, e.Message)
}

func (e *SigningError) Unwrap() error {
	return e.Err
}

// wrapSigning classifies an SDK error, keeping the service error code when
// one is present.
func wrapSigning(err error) *SigningError {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return &SigningError{
			Code:    apiErr.ErrorCode(),
			Message: apiErr.ErrorMessage(),
			Err:     err,
		}
	}
	return &SigningError{
		Code:    "SigningFailed",
		Message: err.Error(),
		Err:     err,
	}
}

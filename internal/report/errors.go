package report

import "errors"

var (
	// ErrTooLarge signals that the archive exceeds the configured maximum.
	ErrTooLarge = errors.New("report too large")
	// ErrMissingToken signals that no verification token was supplied.
	ErrMissingToken = errors.New("missing verification token")
	// ErrVerificationFailed signals that the oracle rejected the token.
	ErrVerificationFailed = errors.New("verification failed")
	// ErrInvalidTitle signals a title outside the 2-200 character bound.
	ErrInvalidTitle = errors.New("invalid title")
	// ErrEmptyBody signals a submission with no archive bytes.
	ErrEmptyBody = errors.New("empty report body")
	// ErrNotFound signals that a report object could not be located.
	ErrNotFound = errors.New("report not found")
	// ErrCorruptMetadata signals a metadata object that does not parse.
	ErrCorruptMetadata = errors.New("corrupt report metadata")
)

// QuotaError reports which rate-limit scope rejected a submission.
type QuotaError struct {
	Message string
}

func (e *QuotaError) Error() string {
	return e.Message
}

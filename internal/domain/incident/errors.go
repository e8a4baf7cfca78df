package incident

import "errors"

var (
	ErrRequestNotFound  = errors.New("incident request not found")
	ErrAlreadyResolved  = errors.New("incident request has already been resolved")
	ErrDocumentNotFound = errors.New("medical justification not found")
)

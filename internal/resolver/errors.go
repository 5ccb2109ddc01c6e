package resolver

import "errors"

var (
	// ErrSampleNotFound reports a sample address whose asset resolved but
	// does not declare that sample.
	ErrSampleNotFound = errors.New("sample not found")
	// ErrIdentityConflict reports two declarations sharing one uuid.
	ErrIdentityConflict = errors.New("uuid already registered for another asset")
)

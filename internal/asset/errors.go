package asset

import "errors"

var (
	// ErrMissingRef reports a declaration without a reference name.
	ErrMissingRef = errors.New("asset declaration has no ref")
	// ErrMissingUUID reports a declaration without an identity.
	ErrMissingUUID = errors.New("asset declaration has no uuid")
	// ErrMissingExtension reports a declaration whose file type cannot be determined.
	ErrMissingExtension = errors.New("asset needs an extension")
	// ErrDuplicateComplete reports root-level timing fields combined with an
	// explicit `complete` sample entry.
	ErrDuplicateComplete = errors.New("duplicate definition of the default complete sample")
	// ErrDurationAndEndTime reports a sample that sets both duration and endTime.
	ErrDurationAndEndTime = errors.New("specify duration or endTime, not both")
	// ErrInvalidTiming reports a non-positive sample length.
	ErrInvalidTiming = errors.New("sample ends before it starts")
	// ErrPartOutOfRange reports a part number outside 1..multiPartCount.
	ErrPartOutOfRange = errors.New("multi-part number out of range")
	// ErrInvalidSelection reports a malformed part selection expression.
	ErrInvalidSelection = errors.New("invalid multi-part selection")
)

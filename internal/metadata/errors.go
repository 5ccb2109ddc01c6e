package metadata

import "errors"

// ErrInvalidDeclaration wraps every decoding and validation failure.
var ErrInvalidDeclaration = errors.New("invalid media declaration")

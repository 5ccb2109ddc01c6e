package mediacache

import "errors"

// ErrNotResolved reports a multi-part selection lookup whose backing asset
// has not been added to the asset cache yet.
var ErrNotResolved = errors.New("media asset not resolved yet")

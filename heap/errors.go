package heap

import "errors"

var (
	// ErrMalformedStream indicates a page stream whose framing is
	// inconsistent: an impossible page count or page length. The stream is
	// rejected without installing any pages.
	ErrMalformedStream = errors.New("heap: malformed page stream")

	// ErrTruncatedStream indicates a page stream that ended before the
	// declared page data was read.
	ErrTruncatedStream = errors.New("heap: truncated page stream")

	// ErrReadOnly indicates an attempt to allocate from a heap whose pages
	// alias a read-only snapshot mapping.
	ErrReadOnly = errors.New("heap: heap is read-only")
)

package shared

import "fmt"

var (
	// Configuration errors, detected before any I/O
	ErrMissingConfig = fmt.Errorf("missing backend configuration")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")
	ErrUnknownKind   = fmt.Errorf("unknown storage kind")

	// Connection lifecycle errors
	ErrConnectionFailed = fmt.Errorf("backend connection failed")
	ErrNotConnected     = fmt.Errorf("backend not connected")

	// I/O errors during a specific read or write call
	ErrRead   = fmt.Errorf("read failed")
	ErrWrite  = fmt.Errorf("write failed")
	ErrDecode = fmt.Errorf("stored value failed to decode")

	// Pipeline control
	ErrAborted = fmt.Errorf("migration aborted")
)

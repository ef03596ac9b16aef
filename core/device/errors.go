package device

import "errors"

// ErrSessionTooOld is returned when a session's absolute age exceeds the
// ceiling. The caller should sign the user out.
var ErrSessionTooOld = errors.New("device: session exceeds absolute age ceiling")

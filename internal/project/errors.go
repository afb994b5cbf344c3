package project

import "errors"

// ErrAuditFileMissing is returned when a file shipped for audit mode is not
// present in the setup directory.
var ErrAuditFileMissing = errors.New("audit mode file missing")

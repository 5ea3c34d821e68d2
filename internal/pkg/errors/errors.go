package errors

import "errors"

// Custom application errors
var (
	ErrDataUnavailable     = errors.New("no persisted data exists")               // First run, or data was deleted
	ErrStaleData           = errors.New("persisted schedule covers too few days") // Not enough future collections left
	ErrEmptyInput          = errors.New("refusing to persist an empty schedule")  // Guards good data against an empty overwrite
	ErrNetworkUnavailable  = errors.New("schedule fetch failed")                  // Timeout, transport error or non-success status
	ErrAuthorizationDenied = errors.New("notification authorization denied")      // Push channel is not usable
	ErrDecodingFailure     = errors.New("persisted data could not be decoded")    // Corrupt archive blob
	ErrBinDayNotFound      = errors.New("bin day not found")                      // Identity not present in the stored schedule
	ErrScheduling          = errors.New("scheduling failed")                      // Generic delivery-scheduler error
	ErrDatabaseOperation   = errors.New("database operation failed")              // Generic database error
	ErrInternalServer      = errors.New("internal server error")                  // Generic internal error
)

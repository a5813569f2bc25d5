package database

import "errors"

var (
	// ErrNotReady wraps a failed ping.
	ErrNotReady = errors.New("database not ready")
	// ErrUnsupportedDriver rejects a driver other than sqlite or postgres.
	ErrUnsupportedDriver = errors.New("unsupported driver")
)

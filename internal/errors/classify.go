package errors

import (
	"errors"
	"syscall"
)

// Category groups errors by how a breathe command should present and
// handle them.
type Category int

const (
	// CategoryUnknown covers errors with no useful classification.
	CategoryUnknown Category = iota
	// CategoryUser covers errors the user can fix themselves, such as a
	// bad pattern spec or a missing reminder title.
	CategoryUser
	// CategorySystem covers environment failures like a full disk or an
	// unreadable database directory.
	CategorySystem
	// CategoryRecoverable covers transient failures worth retrying, such
	// as a stats write conflict or a webhook timeout.
	CategoryRecoverable
)

func (c Category) String() string {
	switch c {
	case CategoryUser:
		return "user"
	case CategorySystem:
		return "system"
	case CategoryRecoverable:
		return "recoverable"
	default:
		return "unknown"
	}
}

// systemErrnos are OS failures that no retry will fix.
var systemErrnos = []syscall.Errno{
	syscall.ENOSPC,
	syscall.EACCES,
	syscall.EPERM,
	syscall.ENOENT,
	syscall.EIO,
	syscall.EROFS,
}

// transientErrnos clear up on their own and are safe to retry.
var transientErrnos = []syscall.Errno{
	syscall.EAGAIN,
	syscall.EINTR,
	syscall.ETIMEDOUT,
	syscall.ECONNREFUSED,
}

// Classify assigns a category to err, preferring the typed error
// wrappers from this package over errno inspection.
func Classify(err error) Category {
	if err == nil {
		return CategoryUnknown
	}

	switch {
	case IsUserError(err):
		return CategoryUser
	case IsSystemError(err):
		return CategorySystem
	case IsRecoverableError(err):
		return CategoryRecoverable
	}

	if errors.Is(err, ErrDiskFull) ||
		errors.Is(err, ErrDatabaseCorrupted) ||
		errors.Is(err, ErrPermissionDenied) {
		return CategorySystem
	}
	if errors.Is(err, ErrNetworkUnavailable) ||
		errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrStatsConflict) {
		return CategoryRecoverable
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		for _, e := range systemErrnos {
			if errno == e {
				return CategorySystem
			}
		}
		for _, e := range transientErrnos {
			if errno == e {
				return CategoryRecoverable
			}
		}
	}

	return CategoryUnknown
}

package domain

import "errors"

// Lookup errors
var (
	ErrFamilyNotFound = errors.New("family not found")
	ErrUserNotFound   = errors.New("user not found")
	ErrMemberNotFound = errors.New("member not found")
)

// Portability errors
var (
	ErrUnsupportedSnapshotVersion = errors.New("unsupported snapshot version")
	ErrEmptySnapshot              = errors.New("snapshot has no family")
)

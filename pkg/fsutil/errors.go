package fsutil

import "errors"

// ErrEmptyOutputPath is returned when a write is requested without an output path.
var ErrEmptyOutputPath = errors.New("output path is empty")

const (
	// dirPermUserGroupRX grants rwx to the user and rx to group/other for created directories.
	dirPermUserGroupRX = 0o755
	// filePermUserRW grants rw to the user and r to group/other for written files.
	filePermUserRW = 0o644
)

package service

import "errors"

var (
	// ErrSnapshotNotFound is returned when a snapshot file does not exist
	ErrSnapshotNotFound = errors.New("snapshot not found")

	// ErrInvalidSnapshotName is returned for names that are not snapshot files
	ErrInvalidSnapshotName = errors.New("invalid snapshot name")
)

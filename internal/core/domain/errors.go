package domain

import "errors"

// ErrDuplicate is returned by repositories when an insert or update violates
// a uniqueness constraint. The Logic layer translates it into the
// resource-specific conflict error.
var ErrDuplicate = errors.New("duplicate record")

package repository

import "errors"

// ErrDuplicate is returned when an insert violates a unique constraint.
// It requires gorm.Config.TranslateError to be enabled on the connection.
var ErrDuplicate = errors.New("duplicate")

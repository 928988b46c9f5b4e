package model

import "errors"

// Store-level sentinels. Repositories translate driver errors into these so
// callers never need to import gorm.
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

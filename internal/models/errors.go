package models

import "errors"

// ErrNotFound is returned by lookups when the record does not exist
var ErrNotFound = errors.New("record not found")

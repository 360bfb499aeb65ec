package domain

import "errors"

var ErrUnauthenticated = errors.New("not authenticated")
var ErrForbidden = errors.New("access forbidden")
var ErrNotFound = errors.New("not found")
var ErrBackend = errors.New("backend request failed")
var ErrNoSession = errors.New("no session")
var ErrValidation = errors.New("validation failed")

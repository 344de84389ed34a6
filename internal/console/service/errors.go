package service

import "errors"

// ErrInvalidInput — параметры запроса не прошли проверку (400)
var ErrInvalidInput = errors.New("invalid input")

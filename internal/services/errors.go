package services

import "errors"

var (
	// ErrInvalidInput marks caller mistakes in request payloads (bad entity
	// code, unknown foreign ids, wrong file type).
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict marks uniqueness violations (duplicate entity code,
	// client name, or (entity, client) value pair).
	ErrConflict = errors.New("conflict")
)

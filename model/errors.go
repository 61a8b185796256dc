package model

import "errors"

var (
	// ErrValidation is returned for invalid arguments such as a non-positive top_k.
	ErrValidation = errors.New("validation error")
	// ErrRetrievalUnavailable is returned when embedding, index search or
	// catalog lookup fails or times out.
	ErrRetrievalUnavailable = errors.New("retrieval unavailable")
)

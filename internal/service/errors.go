package service

import "errors"

var (
	ErrInvalidPayload   = errors.New("invalid payload")
	ErrQuestionNotFound = errors.New("question not found")
	ErrDatastore        = errors.New("datastore unavailable")
)

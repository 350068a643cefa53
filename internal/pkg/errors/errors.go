package errors

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrInvalid       = errors.New("invalid")
	ErrConflict      = errors.New("conflict")
	ErrTooMany       = errors.New("too many requests")
	ErrInternal      = errors.New("internal")
	ErrEmptyQuestion = errors.New("question is empty")
	ErrEmptyDataset  = errors.New("dataset is empty")
	ErrNoArtifact    = errors.New("model artifact not installed")
)

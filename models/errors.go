// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("poll not found")
	ErrInvalidID         = errors.New("invalid client id")
	ErrValidation        = errors.New("validation failed")
	ErrFormat            = errors.New("invalid option format")
	ErrEmptyOptions      = errors.New("no options selected")
	ErrPollClosed        = errors.New("poll is closed")
	ErrAlreadyVoted      = errors.New("already voted")
	ErrInvalidPollOption = errors.New("invalid poll option")
	ErrInsert            = errors.New("insert failed")
	ErrUpdate            = errors.New("update failed")
	ErrDeletion          = errors.New("deletion failed")
)

// PollClosedError is returned when a vote targets a closed poll.
type PollClosedError struct {
	Message string
}

func (e *PollClosedError) Error() string {
	return e.Message
}

func (e *PollClosedError) Is(target error) bool {
	return target == ErrPollClosed
}

// StorageError ties a driver failure to the write operation that failed.
// errors.Is matches both Kind and the underlying cause.
type StorageError struct {
	Kind error
	Err  error
}

func NewStorageError(kind, err error) *StorageError {
	return &StorageError{Kind: kind, Err: err}
}

func (e *StorageError) Error() string {
	if e.Err == nil {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%v: %v", e.Kind, e.Err)
}

func (e *StorageError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package content

import (
	"errors"
	"fmt"
)

// Kind classifies a content failure for the HTTP layer.
type Kind int

const (
	// KindValidation is bad input: wrong length, range or file type.
	KindValidation Kind = iota + 1
	// KindConflict is a uniqueness violation or an operation already running.
	KindConflict
	// KindNotFound is a referenced row that does not exist.
	KindNotFound
	// KindUpstream is a failed or unconfigured third-party call.
	KindUpstream
	// KindStorage is a failed image write.
	KindStorage
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not found"
	case KindUpstream:
		return "upstream"
	case KindStorage:
		return "storage"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is a content failure with a message safe to show to the admin.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return e.Kind.String() + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func validationError(msg string) error {
	return &Error{Kind: KindValidation, Message: msg}
}

func conflictError(msg string, err error) error {
	return &Error{Kind: KindConflict, Message: msg, Err: err}
}

func notFoundError(msg string) error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func upstreamError(msg string, err error) error {
	return &Error{Kind: KindUpstream, Message: msg, Err: err}
}

func storageError(msg string, err error) error {
	return &Error{Kind: KindStorage, Message: msg, Err: err}
}

// KindOf returns the Kind of a content error, or 0 for any other error.
func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return 0
}

// Message returns the admin-facing message of a content error, or fallback
// for any other error.
func Message(err error, fallback string) string {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Message
	}
	return fallback
}

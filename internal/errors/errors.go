// Copyright (C) 2025 Dyne.org foundation
// designed, written and maintained by Denis Roio <jaromil@dyne.org>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package errors defines the closed set of failures reported by the
// filesystem query operations.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind identifies a class of error for programmatic handling.
type Kind string

const (
	KindInvalidArgument Kind = "invalid_argument"
	KindNotFound        Kind = "not_found"
	KindNotADirectory   Kind = "not_a_directory"
	KindIsADirectory    Kind = "is_a_directory"
	KindInvalidPattern  Kind = "invalid_pattern"
	KindIOFailure       Kind = "io_failure"
)

// Sentinels for errors.Is comparisons. They match any *Error of the same kind.
var (
	ErrInvalidArgument = &Error{Kind: KindInvalidArgument}
	ErrNotFound        = &Error{Kind: KindNotFound}
	ErrNotADirectory   = &Error{Kind: KindNotADirectory}
	ErrIsADirectory    = &Error{Kind: KindIsADirectory}
	ErrInvalidPattern  = &Error{Kind: KindInvalidPattern}
	ErrIOFailure       = &Error{Kind: KindIOFailure}
)

// Error carries the kind of failure together with the structured inputs
// that caused it.
type Error struct {
	Kind    Kind
	Op      string
	Path    string
	Pattern string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := e.describe()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) describe() string {
	switch e.Kind {
	case KindInvalidArgument:
		if e.Path != "" {
			return fmt.Sprintf("invalid path %q", e.Path)
		}
		return "invalid argument"
	case KindNotFound:
		return fmt.Sprintf("path does not exist: %s", e.Path)
	case KindNotADirectory:
		return fmt.Sprintf("path is not a directory: %s", e.Path)
	case KindIsADirectory:
		return fmt.Sprintf("path is a directory: %s", e.Path)
	case KindInvalidPattern:
		return fmt.Sprintf("invalid pattern %q", e.Pattern)
	case KindIOFailure:
		if e.Path != "" {
			return fmt.Sprintf("i/o failure on %s", e.Path)
		}
		return "i/o failure"
	}
	return string(e.Kind)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Kind == t.Kind
}

// New creates an error of the given kind for path.
func New(kind Kind, op, path string) *Error {
	return &Error{Kind: kind, Op: op, Path: path}
}

// Wrap creates an error of the given kind for path that wraps an underlying error.
func Wrap(kind Kind, op, path string, err error) *Error {
	return &Error{Kind: kind, Op: op, Path: path, Err: err}
}

// Pattern creates an InvalidPattern error.
func Pattern(op, pattern string, err error) *Error {
	return &Error{Kind: KindInvalidPattern, Op: op, Pattern: pattern, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}

package document

import (
	"strings"

	"github.com/samber/oops"
)

// Error codes attached to oops errors returned by Load.
const (
	CodeMalformed = "malformed_config"
	CodeMissing   = "missing_field"
	CodeNotFound  = "config_not_found"
)

// MalformedConfigError reports a document that is not a well-formed structured
// document, or that holds a syntactically invalid value.
type MalformedConfigError struct {
	Path   string
	Field  Field
	Reason string
	Err    error
}

func (e *MalformedConfigError) Error() string {
	var b strings.Builder
	b.WriteString("malformed config ")
	b.WriteString(e.Path)
	if e.Field != "" {
		b.WriteString(": field ")
		b.WriteString(string(e.Field))
	}
	if e.Reason != "" {
		b.WriteString(": ")
		b.WriteString(e.Reason)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *MalformedConfigError) Unwrap() error {
	return e.Err
}

// MissingFieldError reports a required field that is absent or has the wrong shape.
type MissingFieldError struct {
	Path   string
	Field  Field
	Reason string
}

func (e *MissingFieldError) Error() string {
	return "config " + e.Path + ": field " + string(e.Field) + " " + e.Reason
}

func malformed(path string, field Field, reason string, err error) error {
	return oops.
		In("document").
		Code(CodeMalformed).
		With("path", path).
		With("field", string(field)).
		Wrap(&MalformedConfigError{Path: path, Field: field, Reason: reason, Err: err})
}

func missing(path string, field Field, reason string) error {
	return oops.
		In("document").
		Code(CodeMissing).
		With("path", path).
		With("field", string(field)).
		Wrap(&MissingFieldError{Path: path, Field: field, Reason: reason})
}

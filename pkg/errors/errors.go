package errors

import (
	"errors"
	"fmt"
)

// Feed errors
var (
	ErrInvalidURL      = errors.New("invalid url")
	ErrInvalidResponse = errors.New("invalid response")
	ErrDecode          = errors.New("decode error")
	ErrInvalidPost     = errors.New("invalid post")
	ErrNotFound        = errors.New("not found")
)

// Error codes
const (
	CodeInvalidURL      = "invalid_url"
	CodeInvalidResponse = "invalid_response"
	CodeDecode          = "decode_error"
	CodeInvalidPost     = "invalid_post"
	CodeNotFound        = "not_found"
	CodeNetwork         = "network_error"
)

// Error represents a custom error type
type Error struct {
	Code    string
	Message string
	Err     error
}

// Error returns the error message
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// Wrap wraps an error with additional message
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &Error{
		Code:    codeOf(err),
		Message: message,
		Err:     err,
	}
}

// WrapWithCode wraps an error with a code and message
func WrapWithCode(err error, code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// GetCode returns the error code if it exists
func GetCode(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Code != "" {
		return e.Code
	}
	return codeOf(err)
}

// GetMessage returns the error message
func GetMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

func codeOf(err error) string {
	switch {
	case errors.Is(err, ErrInvalidURL):
		return CodeInvalidURL
	case errors.Is(err, ErrInvalidResponse):
		return CodeInvalidResponse
	case errors.Is(err, ErrDecode):
		return CodeDecode
	case errors.Is(err, ErrInvalidPost):
		return CodeInvalidPost
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	}
	return ""
}

// IsInvalidURL returns true if the error is an invalid url error
func IsInvalidURL(err error) bool {
	return errors.Is(err, ErrInvalidURL)
}

// IsInvalidResponse returns true if the error is an invalid response error
func IsInvalidResponse(err error) bool {
	return errors.Is(err, ErrInvalidResponse)
}

// IsDecode returns true if the error is a decode error
func IsDecode(err error) bool {
	return errors.Is(err, ErrDecode)
}

// IsInvalidPost returns true if the error is an invalid post error
func IsInvalidPost(err error) bool {
	return errors.Is(err, ErrInvalidPost)
}

// IsNotFound returns true if the error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

package exerrors

import (
	"errors"
	"fmt"
)

// Error is a classified exchange failure.
type Error struct {
	Kind     *Kind
	Exchange string

	// Message is "<exchange> <detail>", the detail usually being the raw response body.
	Message string

	// Body is the raw response body, if the error came from a response.
	Body string

	// Matched is the table key that selected Kind, empty for fallbacks and preconditions.
	Matched string
}

func New(kind *Kind, exchange, format string, args ...interface{}) *Error {
	detail := format
	if len(args) > 0 {
		detail = fmt.Sprintf(format, args...)
	}

	return &Error{
		Kind:     kind,
		Exchange: exchange,
		Message:  exchange + " " + detail,
	}
}

// FromResponse builds an error carrying the raw body.
func FromResponse(kind *Kind, exchange, body, matched string) *Error {
	return &Error{
		Kind:     kind,
		Exchange: exchange,
		Message:  exchange + " " + body,
		Body:     body,
		Matched:  matched,
	}
}

func (e *Error) Error() string {
	return e.Kind.name + ": " + e.Message
}

func (e *Error) Is(target error) bool {
	if t, ok := target.(*Kind); ok {
		return e.Kind.IsA(t)
	}
	return false
}

func (e *Error) Unwrap() error { return e.Kind }

// KindOf returns the classification of err, or nil when err is not an exchange error.
func KindOf(err error) *Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	var k *Kind
	if errors.As(err, &k) {
		return k
	}
	return nil
}

package services

import "fmt"

// Kind mengelompokkan error service supaya controller bisa memetakan ke status
// HTTP tanpa membongkar pesan.
type Kind int

const (
	KindNotFound Kind = iota + 1
	KindInvalidInput
	KindConflictingState
	KindBusinessRule
)

type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func NotFoundf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func InvalidInputf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInvalidInput, Message: fmt.Sprintf(format, args...)}
}

func Conflictf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConflictingState, Message: fmt.Sprintf(format, args...)}
}

func BusinessRulef(format string, args ...interface{}) *Error {
	return &Error{Kind: KindBusinessRule, Message: fmt.Sprintf(format, args...)}
}

// KindOf mengembalikan Kind dari error service, 0 jika bukan *Error.
func KindOf(err error) Kind {
	if e, ok := err.(*Error); ok {
		return e.Kind
	}
	return 0
}

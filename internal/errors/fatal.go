package errors

import (
	"fmt"
)

// fatalError is an error that should be printed to the user, then the program
// should exit with an error code.
type fatalError struct {
	kind error
	msg  string
}

func (e *fatalError) Error() string {
	return e.msg
}

func (e *fatalError) Unwrap() error {
	return e.kind
}

// IsFatal returns true if err is a fatal message that should be printed to the
// user. Then, the program should exit.
func IsFatal(err error) bool {
	var fatal *fatalError
	return As(err, &fatal)
}

// Fatal returns an error that is marked fatal. kind is one of the sentinel
// errors of this package and can be tested for with Is.
func Fatal(kind error, s string) error {
	return WithStack(&fatalError{kind: kind, msg: s})
}

// Fatalf returns an error that is marked fatal.
func Fatalf(kind error, s string, data ...interface{}) error {
	return WithStack(&fatalError{kind: kind, msg: fmt.Sprintf(s, data...)})
}

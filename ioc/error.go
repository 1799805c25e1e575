package ioc

import "fmt"

// Error is the module's shared error value, the same shape as the
// teacher's fmtError: a plain struct carrying a formatted message, never a
// sentinel chain or a third-party errors package.
type Error struct {
	msg string
	err error
}

func (e *Error) Error() string {
	if e.err != nil {
		return e.msg + ": " + e.err.Error()
	}
	return e.msg
}

func (e *Error) Unwrap() error { return e.err }

// Errorf builds an *Error whose message is fmt.Sprintf(format, args...),
// recording the first argument that is an error (if any) as its cause,
// which Unwrap returns.
func Errorf(format string, args ...interface{}) error {
	for _, a := range args {
		if cause, ok := a.(error); ok {
			return &Error{msg: fmt.Sprintf(format, args...), err: cause}
		}
	}
	return &Error{msg: fmt.Sprintf(format, args...)}
}

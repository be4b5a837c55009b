// Package serr has the errors shared by the layers of the grammarq server.
// Service functions return an Error whose causes include one of the sentinel
// values below, and the API maps each sentinel to an HTTP status.
package serr

import "errors"

// Sentinel causes. Check for them with errors.Is.
var (
	ErrBadCredentials = errors.New("username or password is wrong")
	ErrPermissions    = errors.New("not allowed for this user")
	ErrNotFound       = errors.New("no such resource")
	ErrAlreadyExists  = errors.New("a resource with that name already exists")
	ErrDB             = errors.New("storage failure")
	ErrBadArgument    = errors.New("invalid argument")
	ErrBodyUnmarshal  = errors.New("request body is not valid JSON")
	ErrBadGrammar     = errors.New("grammar does not compile")
)

// Error is a message with any number of causes. errors.Is matches an Error
// against each of its causes, so a single Error can be both a storage failure
// and the driver error behind it.
//
// Use New or WrapDB to make one.
type Error struct {
	msg    string
	causes []error
}

// Error gives the message followed by the text of the first cause. Either part
// is left out when empty.
func (e Error) Error() string {
	switch {
	case len(e.causes) == 0:
		return e.msg
	case e.msg == "":
		return e.causes[0].Error()
	default:
		return e.msg + ": " + e.causes[0].Error()
	}
}

// Unwrap returns the causes of e, or nil if it has none.
func (e Error) Unwrap() []error {
	if len(e.causes) == 0 {
		return nil
	}
	return e.causes
}

// Is reports whether target is one of the causes of e, or is an Error with
// the same message and causes.
func (e Error) Is(target error) bool {
	if other, ok := target.(Error); ok && e.equal(other) {
		return true
	}

	for _, c := range e.causes {
		if same(c, target) {
			return true
		}
	}
	return false
}

// same compares two errors with == unless they are both Errors, which hold a
// slice and can't be compared that way.
func same(a, b error) bool {
	ae, aok := a.(Error)
	be, bok := b.(Error)
	if aok || bok {
		return aok && bok && ae.equal(be)
	}
	return a == b
}

func (e Error) equal(other Error) bool {
	if e.msg != other.msg || len(e.causes) != len(other.causes) {
		return false
	}
	for i := range e.causes {
		if !same(e.causes[i], other.causes[i]) {
			return false
		}
	}
	return true
}

// WrapDB returns an Error for a failed storage call. err and ErrDB are its
// causes. msg may be empty.
func WrapDB(msg string, err error) Error {
	return New(msg, err, ErrDB)
}

// New returns an Error with the given message and causes.
func New(msg string, causes ...error) Error {
	e := Error{msg: msg}
	if len(causes) > 0 {
		e.causes = append([]error(nil), causes...)
	}
	return e
}
